package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCmd(run func(cmd *cobra.Command, args []string) error) *cobra.Command {
	viper.Reset()
	cmd := &cobra.Command{Use: "iota-trust", RunE: run}
	return PrepareBaseCmd(cmd, "IOTA_TRUST", "/default/home")
}

func TestSetupEnv(t *testing.T) {
	cases := []struct {
		args     []string
		env      map[string]string
		expected string
	}{
		{nil, nil, ""},
		{[]string{"--foobar", "bang!"}, nil, "bang!"},
		{nil, map[string]string{"IOTA_TRUST_FOOBAR": "env"}, "env"},
		{nil, map[string]string{"IOTA_TRUSTFOOBAR": "short"}, "short"},
		{[]string{"--foobar", "flag"}, map[string]string{"IOTA_TRUST_FOOBAR": "env"}, "flag"},
	}

	for idx, tc := range cases {
		i := idx
		var foo string
		cmd := newTestCmd(func(cmd *cobra.Command, args []string) error {
			foo = viper.GetString("foobar")
			return nil
		})
		cmd.Flags().String("foobar", "", "Some test value from config")

		args := append([]string{cmd.Use}, tc.args...)
		err := RunWithArgs(cmd, args, tc.env)
		require.NoError(t, err, "%d", i)
		assert.Equal(t, tc.expected, foo, "%d", i)
	}
}

func TestSetupConfig(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(home, "config", "config.toml"), []byte(`boo = "from-file"`), 0600))

	cases := []struct {
		args     []string
		env      map[string]string
		expected string
	}{
		{nil, nil, ""},
		{[]string{"--home", home}, nil, "from-file"},
		{nil, map[string]string{"IOTA_TRUST_HOME": home}, "from-file"},
		{[]string{"--home", home, "--boo", "flag"}, nil, "flag"},
	}

	for idx, tc := range cases {
		i := idx
		var boo string
		cmd := newTestCmd(func(cmd *cobra.Command, args []string) error {
			boo = viper.GetString("boo")
			return nil
		})
		cmd.Flags().String("boo", "", "Some test value from config")

		args := append([]string{cmd.Use}, tc.args...)
		err := RunWithArgs(cmd, args, tc.env)
		require.NoError(t, err, "%d", i)
		assert.Equal(t, tc.expected, boo, "%d", i)
	}
}

func TestSetupOutput(t *testing.T) {
	cmd := newTestCmd(func(cmd *cobra.Command, args []string) error {
		cmd.Print(viper.GetString(OutputFlag))
		return nil
	})
	out, err := RunCaptureWithArgs(cmd, []string{cmd.Use, "-o", "json"}, nil)
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, out)

	cmd = newTestCmd(func(cmd *cobra.Command, args []string) error { return nil })
	_, err = RunCaptureWithArgs(cmd, []string{cmd.Use, "--output", "yaml"}, nil)
	assert.Error(t, err)
}

func TestExecute(t *testing.T) {
	cmd := newTestCmd(func(cmd *cobra.Command, args []string) error {
		return errors.New("boom")
	})
	cmd.SetArgs([]string{})

	var stderr bytes.Buffer
	assert.Equal(t, 1, Execute(cmd, &stderr))
	assert.True(t, strings.HasPrefix(stderr.String(), "ERROR: boom"), stderr.String())

	cmd = newTestCmd(func(cmd *cobra.Command, args []string) error { return nil })
	cmd.SetArgs([]string{})
	assert.Equal(t, 0, Execute(cmd, &stderr))
}
