package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ensureFiles(t *testing.T, rootDir string, files ...string) {
	for _, f := range files {
		p := rootify(f, rootDir)
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
}

func readConfig(t *testing.T, rootDir string) *Config {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(filepath.Join(rootDir, defaultConfigFilePath))
	require.NoError(t, v.ReadInConfig())

	cfg := DefaultConfig()
	cfg.LightClient.CheckpointStore = nil
	cfg.LightClient.ArchiveStore = nil
	require.NoError(t, v.Unmarshal(cfg))
	return cfg
}

func TestEnsureRoot(t *testing.T) {
	tmpDir := t.TempDir()

	// create root dir
	require.NoError(t, EnsureRoot(tmpDir))

	ensureFiles(t, tmpDir, defaultConfigFilePath, defaultDataDir)

	// the rendered template reads back as the default config
	got := readConfig(t, tmpDir)
	if diff := cmp.Diff(DefaultConfig(), got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	// an existing config file is left alone
	path := filepath.Join(tmpDir, defaultConfigFilePath)
	require.NoError(t, os.WriteFile(path, []byte("log_level = \"error\"\n"), 0644))
	require.NoError(t, EnsureRoot(tmpDir))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "log_level = \"error\"\n", string(data))
}

func TestEnsureTestRoot(t *testing.T) {
	cfg, err := ResetTestRoot(t.TempDir(), "ensureTestRoot")
	require.NoError(t, err)
	rootDir := cfg.RootDir

	ensureFiles(t, rootDir, defaultConfigFilePath, defaultDataDir)

	got := readConfig(t, rootDir)
	got.SetRoot(rootDir)
	if diff := cmp.Diff(cfg, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLightClientConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "light_client.toml")

	want := DefaultLightClientConfig()
	want.SyncBeforeCheck = true
	want.ArchiveStore = &ObjectStoreConfig{
		ObjectStore:   ObjectStoreS3,
		Bucket:        "archive",
		AWSEndpoint:   "http://localhost:9001",
		AWSRegion:     "weur",
		NoSignRequest: true,
	}
	require.NoError(t, WriteLightClientConfig(path, want))

	got, err := LoadLightClientConfig(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadLightClientConfigErrors(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name    string
		content string
	}{
		{"unknown key", `
rpc_url = "http://localhost:9000"
graphql_url = "http://localhost:9003"
checkpoints_dir = "checkpoints"
full_node_url = "http://localhost:9000"
`},
		{"no sync source", `
rpc_url = "http://localhost:9000"
checkpoints_dir = "checkpoints"
`},
		{"not toml", `rpc_url: http://localhost:9000`},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0644))
			_, err := LoadLightClientConfig(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadLightClientConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestLoadLightClientConfigWithStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "light_client.toml")
	content := `
rpc_url = "http://localhost:9000"
graphql_url = "http://localhost:9003"
checkpoints_dir = "/tmp/checkpoints"
sync_before_check = true

[checkpoint_store_config]
object_store = "s3"
bucket = "checkpoints"
aws_endpoint = "http://localhost:9001"

[archive_store_config]
object_store = "file"
directory = "/tmp/archive"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadLightClientConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.SyncBeforeCheck)
	assert.Equal(t, "/tmp/checkpoints/checkpoints.yaml", cfg.CheckpointsListFile())
	require.NotNil(t, cfg.CheckpointStore)
	assert.Equal(t, ObjectStoreS3, cfg.CheckpointStore.ObjectStore)
	assert.Equal(t, "checkpoints", cfg.CheckpointStore.Bucket)
	require.NotNil(t, cfg.ArchiveStore)
	assert.Equal(t, "/tmp/archive", cfg.ArchiveStore.Directory)
}
