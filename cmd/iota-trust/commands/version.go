package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/iotaledger/iota-trust/version"
)

var verbose bool

// VersionCmd ...
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Run: func(cmd *cobra.Command, args []string) {
		if verbose {
			values, _ := json.MarshalIndent(version.Get(), "", "  ")
			cmd.Println(string(values))
		} else {
			cmd.Println(version.Version)
		}
	},
}

func init() {
	VersionCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show protocol and build versions")
}
