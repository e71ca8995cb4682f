package light_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/iota-trust/light"
	"github.com/iotaledger/iota-trust/storage/objectstore"
	"github.com/iotaledger/iota-trust/types"
)

func TestArchive(t *testing.T) {
	chain := makeChain(t, 5)
	a := chain.archive(t)
	ctx := context.Background()

	list, err := a.EndOfEpochCheckpoints(ctx)
	require.NoError(t, err)
	assert.Equal(t, chain.list(), list)

	// results follow the order asked for
	seqs := []uint64{lastOfEpoch(3), lastOfEpoch(0), lastOfEpoch(4), lastOfEpoch(1)}
	summaries, err := a.Summaries(ctx, seqs)
	require.NoError(t, err)
	require.Len(t, summaries, len(seqs))
	for i, summary := range summaries {
		assert.Equal(t, seqs[i], summary.SequenceNumber())
	}

	_, err = a.Summaries(ctx, []uint64{lastOfEpoch(0), 12345})
	assert.Error(t, err)
}

func TestArchiveWithoutManifest(t *testing.T) {
	backend, err := objectstore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = light.NewArchive(backend, 0).EndOfEpochCheckpoints(context.Background())
	assert.ErrorIs(t, err, objectstore.ErrNotFound)
}

func TestArchiveRejectsMisplacedSummary(t *testing.T) {
	backend, err := objectstore.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	committee, keys := types.MakeCommittee(0, 4)
	data, err := types.MakeCheckpointData(committee, keys, 7, 1, nil)
	require.NoError(t, err)
	require.NoError(t, backend.Put(ctx, "summaries/8.sum", types.MustMarshal(&data.CheckpointSummary)))

	_, err = light.NewArchive(backend, 1).Summaries(ctx, []uint64{8})
	assert.Error(t, err)
}

func TestCheckpointStore(t *testing.T) {
	backend, err := objectstore.NewFileStore(t.TempDir())
	require.NoError(t, err)
	s := light.NewCheckpointStore(backend)
	ctx := context.Background()

	committee, keys := types.MakeCommittee(2, 4)
	data, err := types.MakeCheckpointData(committee, keys, 21, 3, nil)
	require.NoError(t, err)
	require.NoError(t, s.WriteFullCheckpoint(ctx, data))

	got, err := s.FullCheckpoint(ctx, 21)
	require.NoError(t, err)
	require.NoError(t, got.ValidateBasic())
	assert.Equal(t, data.CheckpointSummary.Digest(), got.CheckpointSummary.Digest())

	summary, err := s.CheckpointSummary(ctx, 21)
	require.NoError(t, err)
	assert.NoError(t, summary.Verify(committee))

	_, err = s.FullCheckpoint(ctx, 22)
	assert.ErrorIs(t, err, objectstore.ErrNotFound)
}
