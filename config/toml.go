package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"

	tmos "github.com/iotaledger/iota-trust/libs/os"
)

// defaultDirPerm is the default permissions used when creating directories.
const defaultDirPerm = 0700

var configTemplate *template.Template

func init() {
	var err error
	tmpl := template.New("configFileTemplate").Funcs(template.FuncMap{
		"StringsJoin": strings.Join,
	})
	if configTemplate, err = tmpl.Parse(defaultConfigTemplate); err != nil {
		panic(err)
	}
}

/****** these are for production settings ***********/

// EnsureRoot creates the root, config, and data directories if they don't
// exist, and writes the default config file when there is none.
func EnsureRoot(rootDir string) error {
	if err := tmos.EnsureDir(rootDir, defaultDirPerm); err != nil {
		return err
	}
	if err := tmos.EnsureDir(filepath.Join(rootDir, defaultConfigDir), defaultDirPerm); err != nil {
		return err
	}
	if err := tmos.EnsureDir(filepath.Join(rootDir, defaultDataDir), defaultDirPerm); err != nil {
		return err
	}
	return writeDefaultConfigFileIfNone(rootDir)
}

// WriteConfigFile renders config using the template and writes it to
// <rootDir>/config/config.toml.
func WriteConfigFile(rootDir string, config *Config) error {
	return config.WriteToTemplate(filepath.Join(rootDir, defaultConfigFilePath))
}

// WriteToTemplate writes the config to the exact file specified by
// the path, in the default toml template and does not mangle the path
// or filename at all.
func (cfg *Config) WriteToTemplate(path string) error {
	var buffer bytes.Buffer

	if err := configTemplate.Execute(&buffer, cfg); err != nil {
		return err
	}

	return tmos.WriteFileAtomic(path, buffer.Bytes(), 0644)
}

func writeDefaultConfigFileIfNone(rootDir string) error {
	configFilePath := filepath.Join(rootDir, defaultConfigFilePath)
	if !tmos.FileExists(configFilePath) {
		return WriteConfigFile(rootDir, DefaultConfig())
	}
	return nil
}

// LoadLightClientConfig reads a standalone light client config file and
// validates it.
func LoadLightClientConfig(path string) (*LightClientConfig, error) {
	cfg := &LightClientConfig{}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load light client config %q: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in light client config %q: %v", path, undecoded)
	}
	if err := cfg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("invalid light client config %q: %w", path, err)
	}
	return cfg, nil
}

// WriteLightClientConfig writes cfg as a standalone light client config
// file.
func WriteLightClientConfig(path string, cfg *LightClientConfig) error {
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(cfg); err != nil {
		return err
	}
	return tmos.WriteFileAtomic(path, buffer.Bytes(), 0644)
}

// Note: any changes to the comments/variables/mapstructure
// must be reflected in the appropriate struct in config/config.go
const defaultConfigTemplate = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

# NOTE: Any path below can be absolute (e.g. "/var/iota-trust/data") or
# relative to the home directory (e.g. "data"). The home directory is
# "$HOME/.iota-trust" by default, but could be changed via $IOTA_HOME env
# variable or --home cmd flag.

#######################################################################
###                   Main Base Config Options                      ###
#######################################################################

# Network the light client presets are taken from: mainnet | testnet | devnet
network = "{{ .BaseConfig.Network }}"

# Output level for logging: debug | info | error
log_level = "{{ .BaseConfig.LogLevel }}"

# Output format: 'plain' (colored text), 'text' or 'json'
log_format = "{{ .BaseConfig.LogFormat }}"

#######################################################################
###                 Light Client Configuration Options              ###
#######################################################################
[light_client]

# JSON-RPC endpoint of a full node
rpc_url = "{{ .LightClient.RPCURL }}"

# GraphQL endpoint of a full node, used to list end-of-epoch checkpoints
graphql_url = "{{ .LightClient.GraphQLURL }}"

# Directory holding checkpoints.yaml, genesis.blob and the synced checkpoints
checkpoints_dir = "{{ .LightClient.CheckpointsDir }}"

# Where to download genesis.blob from when it is missing
genesis_blob_download_url = "{{ .LightClient.GenesisBlobDownloadURL }}"

# Sync and verify the checkpoint chain before every check command
sync_before_check = {{ .LightClient.SyncBeforeCheck }}
{{ with .LightClient.CheckpointStore }}
# Store of full checkpoints, used to sync and to check transactions and objects
[light_client.checkpoint_store_config]
object_store = "{{ .ObjectStore }}"
directory = "{{ .Directory }}"
bucket = "{{ .Bucket }}"
aws_endpoint = "{{ .AWSEndpoint }}"
aws_region = "{{ .AWSRegion }}"
aws_virtual_hosted_style_request = {{ .AWSVirtualHostedStyleRequest }}
no_sign_request = {{ .NoSignRequest }}
google_service_account = "{{ .GoogleServiceAccount }}"
url = "{{ .URL }}"
object_store_connection_limit = {{ .ConnectionLimit }}
{{ end }}{{ with .LightClient.ArchiveStore }}
# Archive store, used to sync only
[light_client.archive_store_config]
object_store = "{{ .ObjectStore }}"
directory = "{{ .Directory }}"
bucket = "{{ .Bucket }}"
aws_endpoint = "{{ .AWSEndpoint }}"
aws_region = "{{ .AWSRegion }}"
aws_virtual_hosted_style_request = {{ .AWSVirtualHostedStyleRequest }}
no_sign_request = {{ .NoSignRequest }}
google_service_account = "{{ .GoogleServiceAccount }}"
url = "{{ .URL }}"
object_store_connection_limit = {{ .ConnectionLimit }}
{{ end }}
#######################################################################
###                  KV Server Configuration Options                ###
#######################################################################
[kv_server]

# TCP or UNIX socket address for the REST key/value server to listen on
laddr = "{{ .KVServer.ListenAddress }}"

# Database backend: goleveldb | cleveldb | boltdb | rocksdb | badgerdb | memdb
db_backend = "{{ .KVServer.DBBackend }}"

# Database directory
db_dir = "{{ .KVServer.DBPath }}"

# A list of origins a cross-domain request can be executed from
cors_allowed_origins = [{{ range .KVServer.CORSAllowedOrigins }}{{ printf "%q, " . }}{{end}}]

# Maximum number of simultaneous connections. 0 - unlimited.
max_open_connections = {{ .KVServer.MaxOpenConnections }}

# Maximum number of concurrent HTTP/2 streams per connection
max_concurrent_streams = {{ .KVServer.MaxConcurrentStreams }}

# Timeouts of a request and its response
read_timeout = "{{ .KVServer.ReadTimeout }}"
write_timeout = "{{ .KVServer.WriteTimeout }}"

# Maximum size of request headers
max_header_bytes = {{ .KVServer.MaxHeaderBytes }}

#######################################################################
###                  KV Client Configuration Options                ###
#######################################################################
[kv_client]

# Base URL of the primary REST key/value service
url = "{{ .KVClient.URL }}"

# Base URL of a service to ask for the keys the primary does not have
fallback_url = "{{ .KVClient.FallbackURL }}"

# Timeout of a single request
timeout = "{{ .KVClient.Timeout }}"

#######################################################################
###       Instrumentation Configuration Options                     ###
#######################################################################
[instrumentation]

# When true, Prometheus metrics are served under /metrics on the KV server.
prometheus = {{ .Instrumentation.Prometheus }}

# Instrumentation namespace
namespace = "{{ .Instrumentation.Namespace }}"
`

/****** these are for test settings ***********/

// ResetTestRoot creates a fresh home directory with the test config.
func ResetTestRoot(dir, testName string) (*Config, error) {
	rootDir, err := os.MkdirTemp(dir, fmt.Sprintf("%s-*", testName))
	if err != nil {
		return nil, err
	}
	if err := tmos.EnsureDir(filepath.Join(rootDir, defaultConfigDir), defaultDirPerm); err != nil {
		return nil, err
	}
	if err := tmos.EnsureDir(filepath.Join(rootDir, defaultDataDir), defaultDirPerm); err != nil {
		return nil, err
	}

	config := TestConfig().SetRoot(rootDir)
	if err := WriteConfigFile(rootDir, config); err != nil {
		return nil, err
	}
	return config, nil
}
