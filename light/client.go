package light

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/iotaledger/iota-trust/internal/committee"
	"github.com/iotaledger/iota-trust/libs/log"
	"github.com/iotaledger/iota-trust/light/provider"
	"github.com/iotaledger/iota-trust/light/store"
	"github.com/iotaledger/iota-trust/types"
)

// Option sets a parameter for the light client.
type Option func(*Client)

// Logger option can be used to set a logger for the client.
func Logger(l log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// GraphQL option lets the client list end-of-epoch checkpoints through the
// GraphQL service of a full node.
func GraphQL(g *GraphQLClient) Option {
	return func(c *Client) {
		c.graphql = g
	}
}

// ArchiveStore option lets the client list end-of-epoch checkpoints and
// download their summaries from an archive.
func ArchiveStore(a *Archive) Option {
	return func(c *Client) {
		c.archive = a
	}
}

// FullCheckpointStore option makes the client read full checkpoints from a
// checkpoint store instead of the full node.
func FullCheckpointStore(s *CheckpointStore) Option {
	return func(c *Client) {
		c.checkpoints = s
	}
}

// Committees option makes the client record every committee it verifies in
// s and resolve committees from it before walking the local chain.
func Committees(s *committee.Store) Option {
	return func(c *Client) {
		c.committees = s
	}
}

// Client follows the chain of end-of-epoch checkpoints from genesis, which
// lets it verify any checkpoint, and through it any transaction, its events
// and the objects it wrote, against the committee of its epoch.
//
// Trust is anchored in the genesis committee only. Every committee after it
// is read from the end-of-epoch checkpoint of the previous epoch, which is
// itself verified against the committee that signed it.
type Client struct {
	genesisCommittee *types.Committee

	store       store.Store
	provider    provider.Provider
	graphql     *GraphQLClient
	archive     *Archive
	checkpoints *CheckpointStore
	committees  *committee.Store

	logger log.Logger
}

// NewClient returns a light client trusting genesis. At least one of the
// GraphQL and ArchiveStore options must be given for the client to sync.
func NewClient(
	genesis *types.Genesis,
	trustedStore store.Store,
	primary provider.Provider,
	options ...Option,
) (*Client, error) {
	if err := genesis.ValidateBasic(); err != nil {
		return nil, err
	}

	c := &Client{
		genesisCommittee: genesis.GenesisCommittee(),
		store:            trustedStore,
		provider:         primary,
		logger:           log.NewNopLogger(),
	}
	for _, o := range options {
		o(c)
	}
	if c.committees != nil {
		if err := c.committees.InitGenesisCommittee(c.genesisCommittee); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// checkpointList returns the local list, which is empty before the first
// sync.
func (c *Client) checkpointList() (store.CheckpointList, error) {
	list, err := c.store.CheckpointList()
	if errors.Is(err, store.ErrNoCheckpointList) {
		return store.CheckpointList{}, nil
	}
	return list, err
}

// SyncCheckpointList asks every configured source for the end-of-epoch
// checkpoints, merges their answers and stores the result. A source that
// fails is logged and skipped. ErrUnableToSync is returned when the merged
// list is empty.
func (c *Client) SyncCheckpointList(ctx context.Context) (store.CheckpointList, error) {
	var (
		merged store.CheckpointList
		errs   *multierror.Error
	)

	if c.archive != nil {
		list, err := c.archive.EndOfEpochCheckpoints(ctx)
		if err != nil {
			c.logger.Error("Failed to sync checkpoint list from archive", "archive", c.archive, "err", err)
			errs = multierror.Append(errs, fmt.Errorf("archive: %w", err))
		} else {
			merged = store.Merge(merged, list)
		}
	}

	if c.graphql != nil {
		list, err := c.syncFromGraphQL(ctx)
		if err != nil {
			c.logger.Error("Failed to sync checkpoint list from graphql", "url", c.graphql, "err", err)
			errs = multierror.Append(errs, fmt.Errorf("graphql: %w", err))
		} else {
			merged = store.Merge(merged, list)
		}
	}

	if merged.IsEmpty() {
		if errs != nil {
			return merged, fmt.Errorf("%w: %v", ErrUnableToSync, errs)
		}
		return merged, ErrUnableToSync
	}

	if err := c.store.SaveCheckpointList(merged); err != nil {
		return merged, fmt.Errorf("saving checkpoint list: %w", err)
	}
	c.logger.Info("Synced checkpoint list", "epochs", merged.Len())
	return merged, nil
}

// syncFromGraphQL extends the local list with the last checkpoint of every
// epoch after its last entry, up to but excluding the current epoch.
func (c *Client) syncFromGraphQL(ctx context.Context) (store.CheckpointList, error) {
	list, err := c.store.CheckpointList()
	if err != nil {
		if !errors.Is(err, store.ErrNoCheckpointList) {
			c.logger.Info("Can't read local checkpoint list, starting from genesis", "err", err)
		}
		list = store.CheckpointList{}
	}

	var lastEpoch uint64
	if list.IsEmpty() {
		seq, err := c.graphql.LastCheckpointOfEpoch(ctx, 0)
		if err != nil {
			return list, err
		}
		list.Checkpoints = append(list.Checkpoints, seq)
	} else {
		lastEpoch = uint64(list.Len() - 1)
	}

	latest, err := c.provider.LatestCheckpoint(ctx)
	if err != nil {
		return list, fmt.Errorf("latest checkpoint: %w", err)
	}
	currentEpoch, err := c.provider.CheckpointEpoch(ctx, latest)
	if err != nil {
		return list, fmt.Errorf("epoch of checkpoint %d: %w", latest, err)
	}

	for epoch := lastEpoch + 1; epoch < currentEpoch; epoch++ {
		seq, err := c.graphql.LastCheckpointOfEpoch(ctx, epoch)
		if err != nil {
			return list, err
		}
		c.logger.Debug("Found end-of-epoch checkpoint", "epoch", epoch, "seq", seq)
		list.Checkpoints = append(list.Checkpoints, seq)
	}
	return list, nil
}

// MissingCheckpoints returns the entries of list without a readable local
// summary.
func (c *Client) MissingCheckpoints(list store.CheckpointList) []types.CheckpointSequenceNumber {
	var missing []types.CheckpointSequenceNumber
	for _, seq := range list.Checkpoints {
		if _, err := c.store.CheckpointSummary(seq); err != nil {
			missing = append(missing, seq)
		}
	}
	return missing
}

// DownloadCheckpoints fetches the summaries of seqs and stores them
// unverified. The archive is preferred, then the checkpoint store, then the
// full node.
func (c *Client) DownloadCheckpoints(ctx context.Context, seqs []types.CheckpointSequenceNumber) error {
	if len(seqs) == 0 {
		return nil
	}

	if c.archive != nil {
		summaries, err := c.archive.Summaries(ctx, seqs)
		if err != nil {
			return fmt.Errorf("downloading summaries from archive: %w", err)
		}
		for _, summary := range summaries {
			if err := c.store.SaveCheckpointSummary(summary); err != nil {
				return err
			}
		}
		c.logger.Info("Downloaded checkpoint summaries", "source", c.archive, "count", len(summaries))
		return nil
	}

	var (
		download func(context.Context, types.CheckpointSequenceNumber) (*types.CertifiedCheckpointSummary, error)
		source   string
	)
	if c.checkpoints != nil {
		download, source = c.checkpoints.CheckpointSummary, c.checkpoints.String()
	} else {
		download, source = c.provider.CheckpointSummary, c.provider.String()
	}
	for _, seq := range seqs {
		summary, err := download(ctx, seq)
		if err != nil {
			return fmt.Errorf("downloading summary %d from %s: %w", seq, source, err)
		}
		if err := c.store.SaveCheckpointSummary(summary); err != nil {
			return err
		}
		c.logger.Debug("Downloaded checkpoint summary", "seq", seq, "source", source)
	}
	c.logger.Info("Downloaded checkpoint summaries", "source", source, "count", len(seqs))
	return nil
}

// VerifyCheckpoints walks list from genesis. Every summary must be signed by
// the committee declared in the summary before it, and must itself declare
// the next committee. It returns the committee of the epoch after the last
// entry.
//
// Every listed summary must be present locally. A missing or unreadable one
// means the checkpoints directory was tampered with and VerifyCheckpoints
// panics.
func (c *Client) VerifyCheckpoints(list store.CheckpointList) (*types.Committee, error) {
	var recorded types.EpochID
	if c.committees != nil {
		latest, ok, err := c.committees.LatestEpoch()
		if err != nil {
			return nil, err
		}
		if ok {
			recorded = latest
		}
	}

	committee := c.genesisCommittee
	for _, seq := range list.Checkpoints {
		summary, err := c.store.CheckpointSummary(seq)
		if err != nil {
			panic(fmt.Sprintf("corrupted checkpoint directory: summary %d: %v", seq, err))
		}

		if err := summary.Verify(committee); err != nil {
			return nil, ErrVerificationFailed{Seq: seq, Epoch: committee.Epoch, Reason: err}
		}

		next, err := summary.Data.NextEpochCommittee()
		if err != nil {
			return nil, fmt.Errorf("checkpoint %d: %w", seq, err)
		}
		if next == nil {
			return nil, ErrNotEndOfEpoch{Seq: seq}
		}
		c.logger.Debug("Verified end-of-epoch checkpoint", "seq", seq, "epoch", summary.Epoch())
		if c.committees != nil && next.Epoch > recorded {
			if err := c.committees.InsertNewCommittee(next); err != nil {
				return nil, err
			}
		}
		committee = next
	}
	return committee, nil
}

// SyncAndVerifyCheckpoints brings the local checkpoint chain up to date:
// sync the list, download the summaries not stored yet and verify the whole
// chain.
func (c *Client) SyncAndVerifyCheckpoints(ctx context.Context) error {
	list, err := c.SyncCheckpointList(ctx)
	if err != nil {
		return err
	}

	missing := c.MissingCheckpoints(list)
	if err := c.DownloadCheckpoints(ctx, missing); err != nil {
		return err
	}

	committee, err := c.VerifyCheckpoints(list)
	if err != nil {
		return err
	}
	c.logger.Info("Verified checkpoint chain", "checkpoints", list.Len(), "current_epoch", committee.Epoch)
	return nil
}
