package commands

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/iotaledger/iota-trust/config"
	"github.com/iotaledger/iota-trust/kvstore"
	kvdb "github.com/iotaledger/iota-trust/kvstore/db"
	kvhttp "github.com/iotaledger/iota-trust/kvstore/http"
	"github.com/iotaledger/iota-trust/libs/log"
	tmos "github.com/iotaledger/iota-trust/libs/os"
	"github.com/iotaledger/iota-trust/light"
	rpckv "github.com/iotaledger/iota-trust/rpc/kv"
	"github.com/iotaledger/iota-trust/types"
)

// MakeKVCommand constructs the kv command group.
func MakeKVCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kv",
		Short: "Read from, serve and fill a REST key/value store",
	}
	cmd.AddCommand(
		makeKVFetchCommand(conf, logger),
		makeKVServeCommand(conf, logger),
		makeKVIngestCommand(conf, logger),
	)
	return cmd
}

func kvMetrics(conf *config.Config) *kvstore.Metrics {
	if conf.Instrumentation.Prometheus {
		return kvstore.PrometheusMetrics(conf.Instrumentation.Namespace)
	}
	return kvstore.NopMetrics()
}

// newKVClient returns a store over the configured service, falling back to
// the second service for missing keys when one is configured.
func newKVClient(conf *config.Config, logger log.Logger) (*kvstore.TransactionKVStore, error) {
	opts := []kvhttp.Option{kvhttp.WithTimeout(conf.KVClient.Timeout), kvhttp.WithLogger(logger)}
	primary, err := kvhttp.New(conf.KVClient.URL, opts...)
	if err != nil {
		return nil, err
	}
	if conf.KVClient.FallbackURL == "" {
		return kvstore.New("http", kvMetrics(conf), primary), nil
	}

	fallback, err := kvhttp.New(conf.KVClient.FallbackURL, opts...)
	if err != nil {
		return nil, err
	}
	return kvstore.NewFallbackKV(primary, fallback, kvMetrics(conf), "fallback"), nil
}

// fetchKey reads the item addressed by k.
func fetchKey(ctx context.Context, s *kvstore.TransactionKVStore, k kvstore.Key) (interface{}, error) {
	switch k := k.(type) {
	case kvstore.TransactionKey:
		return s.GetTx(ctx, types.TransactionDigest(k))
	case kvstore.TransactionEffectsKey:
		return s.GetFxByTxDigest(ctx, types.TransactionDigest(k))
	case kvstore.CheckpointSummaryKey:
		return s.GetCheckpointSummary(ctx, types.CheckpointSequenceNumber(k))
	case kvstore.CheckpointContentsKey:
		return s.GetCheckpointContents(ctx, types.CheckpointSequenceNumber(k))
	case kvstore.CheckpointSummaryByDigestKey:
		return s.GetCheckpointSummaryByDigest(ctx, types.CheckpointDigest(k))
	case kvstore.TransactionToCheckpointKey:
		return s.GetTransactionCheckpoint(ctx, types.TransactionDigest(k))
	case kvstore.ObjectKey:
		obj, err := s.GetObject(ctx, k.ObjectID, k.Version)
		if err == nil && obj == nil {
			return nil, fmt.Errorf("object %v not found", k)
		}
		return obj, err
	case kvstore.EventsByTransactionDigestKey:
		events, err := s.MultiGetEventsByTxDigests(ctx, []types.TransactionDigest{types.TransactionDigest(k)})
		if err != nil {
			return nil, err
		}
		if len(events) == 0 || events[0] == nil {
			return nil, fmt.Errorf("no events for transaction %v", types.TransactionDigest(k))
		}
		return events[0], nil
	default:
		return nil, fmt.Errorf("unsupported key %T", k)
	}
}

func makeKVFetchCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [item type] [key]",
		Short: "Fetch one item; the key is encoded as in the REST path",
		Long: `Fetch one item from the configured key/value service.

Item types are tx, fx, cc, cs, tx2c, ob and evtx. The key is the URL-safe
base64 encoding used in REST paths.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := kvstore.ParseKey(args[0], args[1])
			if err != nil {
				return err
			}

			s, err := newKVClient(conf, logger.With("module", "kv"))
			if err != nil {
				return err
			}
			v, err := fetchKey(cmd.Context(), s, k)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
}

// openKVDB opens the database of the KV server.
func openKVDB(conf *config.Config) (*kvdb.Store, func() error, error) {
	db, err := config.DefaultDBProvider(&config.DBContext{ID: "kv", Config: conf.KVServer})
	if err != nil {
		return nil, nil, fmt.Errorf("opening kv database: %w", err)
	}
	return kvdb.New(db), db.Close, nil
}

func makeKVServeCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the local key/value database over REST",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logger.With("module", "kv_server")

			store, closeDB, err := openKVDB(conf)
			if err != nil {
				return err
			}

			listener, err := rpckv.Listen(conf.KVServer.ListenAddress, conf.KVServer.MaxOpenConnections)
			if err != nil {
				_ = closeDB()
				return err
			}

			handler := rpckv.NewHandler(store, logger, rpckv.Options{
				CORSAllowedOrigins: conf.KVServer.CORSAllowedOrigins,
				Metrics:            conf.Instrumentation.Prometheus,
			})
			srvCfg := rpckv.DefaultConfig()
			srvCfg.MaxOpenConnections = conf.KVServer.MaxOpenConnections
			srvCfg.MaxConcurrentStreams = conf.KVServer.MaxConcurrentStreams
			srvCfg.ReadTimeout = conf.KVServer.ReadTimeout
			srvCfg.WriteTimeout = conf.KVServer.WriteTimeout
			srvCfg.MaxHeaderBytes = conf.KVServer.MaxHeaderBytes

			// Stop upon receiving SIGTERM or CTRL-C.
			ctx, stop := tmos.SignalContext(cmd.Context(), logger)
			defer stop()

			err = rpckv.Serve(ctx, listener, handler, logger, srvCfg)
			if cerr := closeDB(); cerr != nil {
				logger.Error("unable to close the database", "err", cerr)
			}
			return err
		},
	}
}

func makeKVIngestCommand(conf *config.Config, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [sequence number]...",
		Short: "Verify checkpoints with the light client and store them in the local key/value database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seqs := make([]types.CheckpointSequenceNumber, 0, len(args))
			for _, arg := range args {
				seq, err := parseSequenceNumber(arg)
				if err != nil {
					return err
				}
				seqs = append(seqs, seq)
			}

			c, err := newLightClient(cmd, conf, logger, true)
			if err != nil {
				return err
			}

			store, closeDB, err := openKVDB(conf)
			if err != nil {
				return err
			}

			var result *multierror.Error
			for _, seq := range seqs {
				if err := ingestCheckpoint(cmd.Context(), c, store, seq); err != nil {
					result = multierror.Append(result, err)
					break
				}
				logger.Info("Ingested checkpoint", "seq", seq)
			}
			if err := closeDB(); err != nil {
				result = multierror.Append(result, err)
			}
			return result.ErrorOrNil()
		},
	}
	addLightClientFlags(cmd)
	return cmd
}

func ingestCheckpoint(ctx context.Context, c *light.Client, store *kvdb.Store, seq types.CheckpointSequenceNumber) error {
	checkpoint, err := c.GetVerifiedCheckpoint(ctx, seq)
	if err != nil {
		return err
	}
	return store.PutCheckpointData(checkpoint)
}
