package light

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/iotaledger/iota-trust/light/store"
	"github.com/iotaledger/iota-trust/storage/objectstore"
	"github.com/iotaledger/iota-trust/types"
)

const (
	archiveManifestPath = "MANIFEST"

	// DefaultDownloadConcurrency bounds parallel downloads from an archive.
	DefaultDownloadConcurrency = 5
)

// Manifest is the index of an archive.
type Manifest struct {
	EndOfEpochCheckpoints []uint64 `json:"end_of_epoch_checkpoints"`
}

// Archive reads the end-of-epoch checkpoint list and checkpoint summaries
// from an object store. Summaries live at summaries/<seq>.sum.
type Archive struct {
	store       objectstore.ObjectStore
	concurrency int
}

// NewArchive returns an Archive over backend downloading at most concurrency
// summaries at a time.
func NewArchive(backend objectstore.ObjectStore, concurrency int) *Archive {
	if concurrency <= 0 {
		concurrency = DefaultDownloadConcurrency
	}
	return &Archive{store: backend, concurrency: concurrency}
}

func (a *Archive) String() string {
	return a.store.String()
}

func archiveSummaryPath(seq types.CheckpointSequenceNumber) string {
	return "summaries/" + strconv.FormatUint(seq, 10) + ".sum"
}

// Manifest reads the archive index.
func (a *Archive) Manifest(ctx context.Context) (*Manifest, error) {
	bz, err := a.store.Get(ctx, archiveManifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading archive manifest: %w", err)
	}
	m := new(Manifest)
	if err := types.Unmarshal(bz, m); err != nil {
		return nil, fmt.Errorf("decoding archive manifest: %w", err)
	}
	return m, nil
}

// WriteManifest replaces the archive index.
func (a *Archive) WriteManifest(ctx context.Context, m *Manifest) error {
	bz, err := types.Marshal(m)
	if err != nil {
		return err
	}
	return a.store.Put(ctx, archiveManifestPath, bz)
}

// EndOfEpochCheckpoints returns the checkpoint list of the manifest.
func (a *Archive) EndOfEpochCheckpoints(ctx context.Context) (store.CheckpointList, error) {
	m, err := a.Manifest(ctx)
	if err != nil {
		return store.CheckpointList{}, err
	}
	return store.Merge(store.CheckpointList{Checkpoints: m.EndOfEpochCheckpoints}, store.CheckpointList{}), nil
}

// Summaries downloads the summaries of seqs, in the order of seqs. They are
// not verified.
func (a *Archive) Summaries(
	ctx context.Context,
	seqs []types.CheckpointSequenceNumber,
) ([]*types.CertifiedCheckpointSummary, error) {
	summaries := make([]*types.CertifiedCheckpointSummary, len(seqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, seq := range seqs {
		i, seq := i, seq
		g.Go(func() error {
			bz, err := a.store.Get(ctx, archiveSummaryPath(seq))
			if errors.Is(err, objectstore.ErrNotFound) {
				return fmt.Errorf("checkpoint %d is not archived", seq)
			}
			if err != nil {
				return err
			}
			summary := new(types.CertifiedCheckpointSummary)
			if err := types.Unmarshal(bz, summary); err != nil {
				return fmt.Errorf("decoding archived summary %d: %w", seq, err)
			}
			if summary.SequenceNumber() != seq {
				return fmt.Errorf("archived summary %d holds checkpoint %d", seq, summary.SequenceNumber())
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// WriteSummary archives a summary.
func (a *Archive) WriteSummary(ctx context.Context, summary *types.CertifiedCheckpointSummary) error {
	bz, err := types.Marshal(summary)
	if err != nil {
		return err
	}
	return a.store.Put(ctx, archiveSummaryPath(summary.SequenceNumber()), bz)
}

// CheckpointStore reads full checkpoints, stored as <seq>.chk, from an
// object store.
type CheckpointStore struct {
	store objectstore.ObjectStore
}

// NewCheckpointStore returns a CheckpointStore over backend.
func NewCheckpointStore(backend objectstore.ObjectStore) *CheckpointStore {
	return &CheckpointStore{store: backend}
}

func (s *CheckpointStore) String() string {
	return s.store.String()
}

func fullCheckpointPath(seq types.CheckpointSequenceNumber) string {
	return strconv.FormatUint(seq, 10) + ".chk"
}

// FullCheckpoint downloads checkpoint seq.
func (s *CheckpointStore) FullCheckpoint(ctx context.Context, seq types.CheckpointSequenceNumber) (*types.CheckpointData, error) {
	bz, err := s.store.Get(ctx, fullCheckpointPath(seq))
	if err != nil {
		return nil, fmt.Errorf("reading full checkpoint %d: %w", seq, err)
	}
	data := new(types.CheckpointData)
	if err := types.Unmarshal(bz, data); err != nil {
		return nil, fmt.Errorf("decoding full checkpoint %d: %w", seq, err)
	}
	if got := data.CheckpointSummary.SequenceNumber(); got != seq {
		return nil, fmt.Errorf("full checkpoint %d holds checkpoint %d", seq, got)
	}
	return data, nil
}

// CheckpointSummary downloads checkpoint seq and returns its summary.
func (s *CheckpointStore) CheckpointSummary(
	ctx context.Context,
	seq types.CheckpointSequenceNumber,
) (*types.CertifiedCheckpointSummary, error) {
	data, err := s.FullCheckpoint(ctx, seq)
	if err != nil {
		return nil, err
	}
	return &data.CheckpointSummary, nil
}

// WriteFullCheckpoint uploads a full checkpoint.
func (s *CheckpointStore) WriteFullCheckpoint(ctx context.Context, data *types.CheckpointData) error {
	bz, err := types.Marshal(data)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, fullCheckpointPath(data.CheckpointSummary.SequenceNumber()), bz)
}
