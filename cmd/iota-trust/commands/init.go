package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iotaledger/iota-trust/config"
	"github.com/iotaledger/iota-trust/libs/log"
	tmos "github.com/iotaledger/iota-trust/libs/os"
	"github.com/iotaledger/iota-trust/light"
)

// MakeInitCommand constructs the command that writes the configuration of a
// network and fetches its genesis blob.
func MakeInitCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	var (
		network     string
		skipGenesis bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the home directory for a network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := config.LightClientConfigForNetwork(network)
			if err != nil {
				return err
			}
			lc.RootDir = conf.RootDir
			conf.Network = network
			conf.LightClient = lc

			configFile := filepath.Join(conf.RootDir, "config", "config.toml")
			if tmos.FileExists(configFile) {
				logger.Info("Found config file", "path", configFile)
			} else {
				if err := tmos.EnsureDir(filepath.Dir(configFile), 0700); err != nil {
					return err
				}
				if err := config.WriteConfigFile(conf.RootDir, conf); err != nil {
					return fmt.Errorf("writing %s: %w", configFile, err)
				}
				logger.Info("Generated config file", "path", configFile, "network", network)
			}

			if skipGenesis {
				return tmos.EnsureDir(lc.CheckpointsDirPath(), 0700)
			}
			return light.Setup(cmd.Context(), lc, logger)
		},
	}
	cmd.Flags().StringVar(&network, "network", "mainnet", "network to configure: mainnet | testnet | devnet")
	cmd.Flags().BoolVar(&skipGenesis, "skip-genesis", false, "do not fetch the genesis blob")
	return cmd
}
