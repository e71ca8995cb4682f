package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckpointTryIntoVerified(t *testing.T) {
	c0, keys0 := MakeCommittee(0, 4)
	c1, _ := MakeCommittee(1, 4)

	data, err := MakeCheckpointData(c0, keys0, 10, 3, c1)
	require.NoError(t, err)
	require.NoError(t, data.ValidateBasic())

	verified, err := data.CheckpointSummary.TryIntoVerified(c0)
	require.NoError(t, err)
	require.EqualValues(t, 10, verified.SequenceNumber())
	require.True(t, verified.Data.IsEndOfEpoch())

	next, err := verified.Data.NextEpochCommittee()
	require.NoError(t, err)
	require.True(t, c1.Equal(next))

	// Signed by epoch 0, so epoch 1's committee must not verify it.
	_, err = data.CheckpointSummary.TryIntoVerified(c1)
	require.Error(t, err)
}

func TestCheckpointVerifyWithContents(t *testing.T) {
	c, keys := MakeCommittee(2, 4)
	data, err := MakeCheckpointData(c, keys, 1, 2, nil)
	require.NoError(t, err)

	require.NoError(t, data.CheckpointSummary.VerifyWithContents(c, &data.CheckpointContents))
	require.NoError(t, data.CheckpointSummary.VerifyWithContents(c, nil))

	other, err := MakeCheckpointData(c, keys, 1, 2, nil)
	require.NoError(t, err)
	require.Error(t, data.CheckpointSummary.VerifyWithContents(c, &other.CheckpointContents))

	next, err := data.CheckpointSummary.Data.NextEpochCommittee()
	require.NoError(t, err)
	require.Nil(t, next)
}

func TestCheckpointRejectsMismatchedSigEpoch(t *testing.T) {
	c, keys := MakeCommittee(2, 4)
	data, err := MakeCheckpointData(c, keys, 1, 1, nil)
	require.NoError(t, err)

	data.CheckpointSummary.Data.Epoch = 3
	var wrongEpoch ErrWrongEpoch
	require.True(t, errors.As(data.CheckpointSummary.Verify(c), &wrongEpoch))
}

func TestCheckpointDataEncodingRoundTrip(t *testing.T) {
	c, keys := MakeCommittee(0, 4)
	data, err := MakeCheckpointData(c, keys, 0, 4, nil)
	require.NoError(t, err)

	bz, err := Marshal(data)
	require.NoError(t, err)

	var decoded CheckpointData
	require.NoError(t, Unmarshal(bz, &decoded))
	require.Equal(t, data.CheckpointSummary.Digest(), decoded.CheckpointSummary.Digest())
	require.Equal(t, data.CheckpointContents.Digest(), decoded.CheckpointContents.Digest())
	require.NoError(t, decoded.CheckpointSummary.VerifyWithContents(c, &decoded.CheckpointContents))
	for i := range data.Transactions {
		require.Equal(t, data.Transactions[i].Effects.Digest(), decoded.Transactions[i].Effects.Digest())
	}
}
