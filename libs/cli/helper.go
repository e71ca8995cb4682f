package cli

import (
	"bytes"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// RunWithArgs executes cmd with args and the given environment variables
// set, restoring os.Args and the environment afterwards.
func RunWithArgs(cmd *cobra.Command, args []string, env map[string]string) error {
	oargs := os.Args
	oenv := map[string]string{}
	defer func() {
		os.Args = oargs
		for k, v := range oenv {
			os.Setenv(k, v)
		}
	}()

	for k, v := range env {
		oenv[k] = os.Getenv(k)
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}

	os.Args = args
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

// RunCaptureWithArgs runs cmd like RunWithArgs and returns what it wrote to
// its output.
func RunCaptureWithArgs(cmd *cobra.Command, args []string, env map[string]string) (string, error) {
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(io.Discard)
	err := RunWithArgs(cmd, args, env)
	return buf.String(), err
}
