package file

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/iota-trust/config"
	"github.com/iotaledger/iota-trust/light/store"
	"github.com/iotaledger/iota-trust/types"
)

func newStore(t *testing.T) (*Store, *config.LightClientConfig) {
	cfg := &config.LightClientConfig{CheckpointsDir: t.TempDir()}
	s, err := New(cfg)
	require.NoError(t, err)
	return s, cfg
}

func TestCheckpointList(t *testing.T) {
	s, cfg := newStore(t)

	_, err := s.CheckpointList()
	assert.ErrorIs(t, err, store.ErrNoCheckpointList)

	want := store.CheckpointList{Checkpoints: []uint64{10, 20, 30}}
	require.NoError(t, s.SaveCheckpointList(want))

	got, err := s.CheckpointList()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// the file is plain yaml
	bz, err := os.ReadFile(cfg.CheckpointsListFile())
	require.NoError(t, err)
	assert.Equal(t, "checkpoints:\n- 10\n- 20\n- 30\n", string(bz))

	require.NoError(t, s.SaveCheckpointList(store.CheckpointList{}))
	got, err = s.CheckpointList()
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestCheckpointSummary(t *testing.T) {
	s, cfg := newStore(t)

	committee, keys := types.MakeCommittee(0, 4)
	data, err := types.MakeCheckpointData(committee, keys, 42, 2, nil)
	require.NoError(t, err)

	_, err = s.CheckpointSummary(42)
	assert.ErrorIs(t, err, store.ErrCheckpointNotFound)

	require.NoError(t, s.SaveCheckpointSummary(&data.CheckpointSummary))
	assert.FileExists(t, cfg.CheckpointSummaryFile(42))

	got, err := s.CheckpointSummary(42)
	require.NoError(t, err)
	assert.Equal(t, data.CheckpointSummary.Digest(), got.Digest())
	assert.NoError(t, got.Verify(committee))

	// a corrupt file is an error, but not a missing one
	require.NoError(t, os.WriteFile(cfg.CheckpointSummaryFile(43), []byte("garbage"), 0644))
	_, err = s.CheckpointSummary(43)
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrCheckpointNotFound)

	// so is a summary stored under the wrong name
	require.NoError(t, os.Rename(cfg.CheckpointSummaryFile(42), cfg.CheckpointSummaryFile(44)))
	_, err = s.CheckpointSummary(44)
	assert.Error(t, err)
}

func TestFullCheckpoint(t *testing.T) {
	s, cfg := newStore(t)

	committee, keys := types.MakeCommittee(3, 4)
	data, err := types.MakeCheckpointData(committee, keys, 7, 3, nil)
	require.NoError(t, err)

	_, err = s.FullCheckpoint(7)
	assert.ErrorIs(t, err, store.ErrCheckpointNotFound)

	require.NoError(t, s.SaveFullCheckpoint(data))
	assert.FileExists(t, cfg.FullCheckpointFile(7, ""))

	got, err := s.FullCheckpoint(7)
	require.NoError(t, err)
	assert.NoError(t, got.ValidateBasic())
	assert.Equal(t, data.CheckpointContents.Digest(), got.CheckpointContents.Digest())
	require.Len(t, got.Transactions, 3)
	assert.Equal(t, data.Transactions[2].Transaction.Digest(), got.Transactions[2].Transaction.Digest())
}
