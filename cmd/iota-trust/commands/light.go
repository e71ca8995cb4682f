package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iotaledger/iota-trust/config"
	"github.com/iotaledger/iota-trust/libs/cli"
	"github.com/iotaledger/iota-trust/libs/log"
	"github.com/iotaledger/iota-trust/light"
	"github.com/iotaledger/iota-trust/types"
)

const lightConfigFlag = "light-config"

// addLightClientFlags adds the flags of the commands driving the light
// client.
func addLightClientFlags(cmd *cobra.Command) {
	cmd.Flags().String(lightConfigFlag, "",
		"standalone light client config file; the [light_client] section of config.toml is used when empty")
}

// lightClientConfig returns the light client configuration the command runs
// with.
func lightClientConfig(cmd *cobra.Command, conf *config.Config) (*config.LightClientConfig, error) {
	path, err := cmd.Flags().GetString(lightConfigFlag)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return conf.LightClient, nil
	}

	lc, err := config.LoadLightClientConfig(path)
	if err != nil {
		return nil, err
	}
	lc.RootDir = conf.RootDir
	return lc, nil
}

// newLightClient builds the light client of the command and, when the
// configuration asks for it and sync is set, brings the checkpoint chain up
// to date first.
func newLightClient(cmd *cobra.Command, conf *config.Config, logger log.Logger, sync bool) (*light.Client, error) {
	lc, err := lightClientConfig(cmd, conf)
	if err != nil {
		return nil, err
	}

	c, err := light.NewClientFromConfig(cmd.Context(), lc, logger.With("module", "light"))
	if err != nil {
		return nil, err
	}

	if sync && lc.SyncBeforeCheck {
		logger.Info("Syncing checkpoints before check")
		if err := c.SyncAndVerifyCheckpoints(cmd.Context()); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func outputJSON() bool {
	return viper.GetString(cli.OutputFlag) == cli.OutputJSON
}

func printJSON(w io.Writer, v interface{}) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(bz))
	return err
}

// MakeSyncCommand constructs the command that syncs and verifies the chain
// of end-of-epoch checkpoints.
func MakeSyncCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync and verify the chain of end-of-epoch checkpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newLightClient(cmd, conf, logger, false)
			if err != nil {
				return err
			}
			if err := c.SyncAndVerifyCheckpoints(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("Checkpoint chain synced and verified")
			return nil
		},
	}
	addLightClientFlags(cmd)
	return cmd
}

// MakeCheckTransactionCommand constructs the command that verifies the
// effects and events of a transaction.
func MakeCheckTransactionCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-transaction [digest]",
		Short: "Verify the effects and events of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := types.ParseDigest(args[0])
			if err != nil {
				return fmt.Errorf("invalid transaction digest %q: %w", args[0], err)
			}
			digest := types.TransactionDigest(d)

			c, err := newLightClient(cmd, conf, logger, true)
			if err != nil {
				return err
			}
			effects, events, err := c.GetVerifiedEffectsAndEvents(cmd.Context(), digest)
			if err != nil {
				return err
			}

			if outputJSON() {
				return printJSON(cmd.OutOrStdout(), struct {
					Effects *types.TransactionEffects `json:"effects"`
					Events  *types.TransactionEvents  `json:"events"`
				}{effects, events})
			}

			cmd.Printf("Executed Digest: %v Effects: %v\n", digest, effects.Digest())
			if events.IsEmpty() {
				cmd.Println("No events found")
				return nil
			}
			for i, ev := range events.Data {
				cmd.Printf("Event %d: %s emitted by %v in %v::%s\n", i, ev.Type, ev.Sender, ev.PackageID, ev.TransactionModule)
			}
			return nil
		},
	}
	addLightClientFlags(cmd)
	return cmd
}

// MakeCheckObjectCommand constructs the command that verifies the latest
// version of an object.
func MakeCheckObjectCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-object [object id]",
		Short: "Verify the latest version of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParseObjectID(args[0])
			if err != nil {
				return fmt.Errorf("invalid object id %q: %w", args[0], err)
			}

			c, err := newLightClient(cmd, conf, logger, true)
			if err != nil {
				return err
			}
			object, seq, err := c.GetVerifiedObjectCheckpoint(cmd.Context(), id)
			if err != nil {
				return err
			}

			ref := object.ComputeObjectReference()
			if outputJSON() {
				return printJSON(cmd.OutOrStdout(), struct {
					Object     *types.Object                  `json:"object"`
					Reference  types.ObjectRef                `json:"reference"`
					Checkpoint types.CheckpointSequenceNumber `json:"checkpoint"`
				}{object, ref, seq})
			}

			cmd.Printf("Successfully verified object: %v\n", id)
			cmd.Printf("Version: %d\nDigest: %v\nPrevious transaction: %v\nCheckpoint: %d\n",
				ref.Version, ref.Digest, object.PreviousTransaction, seq)
			return nil
		},
	}
	addLightClientFlags(cmd)
	return cmd
}

// MakeCheckpointCommand constructs the command that verifies a checkpoint.
func MakeCheckpointCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint [sequence number]",
		Short: "Verify a checkpoint against the committee of its epoch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := parseSequenceNumber(args[0])
			if err != nil {
				return err
			}

			c, err := newLightClient(cmd, conf, logger, true)
			if err != nil {
				return err
			}
			checkpoint, err := c.GetVerifiedCheckpoint(cmd.Context(), seq)
			if err != nil {
				return err
			}

			summary := &checkpoint.CheckpointSummary
			if outputJSON() {
				return printJSON(cmd.OutOrStdout(), summary)
			}
			cmd.Printf("Checkpoint %d of epoch %d verified\nDigest: %v\nTransactions: %d\nEnd of epoch: %t\n",
				summary.SequenceNumber(), summary.Epoch(), summary.Digest(),
				checkpoint.CheckpointContents.Size(), summary.Data.IsEndOfEpoch())
			return nil
		},
	}
	addLightClientFlags(cmd)
	return cmd
}
