package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthoritySignInfoVerify(t *testing.T) {
	c, keys := MakeCommittee(1, 4)
	digest := RandomDigest()

	sig, err := NewAuthoritySignInfo(IntentScopeTransactionEffects, 1, digest, keys[2])
	require.NoError(t, err)
	require.NoError(t, sig.Verify(IntentScopeTransactionEffects, digest, c))

	// other scope
	require.Error(t, sig.Verify(IntentScopeCheckpointSummary, digest, c))

	// other digest
	require.ErrorIs(t, sig.Verify(IntentScopeTransactionEffects, RandomDigest(), c), ErrInvalidSignature)

	// other epoch
	other, _ := MakeCommittee(2, 4)
	var wrongEpoch ErrWrongEpoch
	require.True(t, errors.As(sig.Verify(IntentScopeTransactionEffects, digest, other), &wrongEpoch))
}

func TestQuorumSignInfoVerifySecure(t *testing.T) {
	c, keys := MakeCommittee(5, 4)
	digest := RandomDigest()

	sign := func(keysToUse ...int) AuthorityQuorumSignInfo {
		var sigs []AuthoritySignInfo
		for _, i := range keysToUse {
			s, err := NewAuthoritySignInfo(IntentScopeCheckpointSummary, 5, digest, keys[i])
			require.NoError(t, err)
			sigs = append(sigs, s)
		}
		q, err := NewAuthorityQuorumSignInfo(c, sigs)
		require.NoError(t, err)
		return q
	}

	t.Run("all signers", func(t *testing.T) {
		q := sign(0, 1, 2, 3)
		require.NoError(t, q.VerifySecure(IntentScopeCheckpointSummary, digest, c))

		signers, err := q.Signers(c)
		require.NoError(t, err)
		require.Equal(t, c.Names(), signers)
	})

	t.Run("exact quorum", func(t *testing.T) {
		q := sign(3, 0, 2)
		require.NoError(t, q.VerifySecure(IntentScopeCheckpointSummary, digest, c))
	})

	t.Run("below quorum", func(t *testing.T) {
		q := sign(0, 1)
		var notEnough ErrNotEnoughVotingPowerSigned
		require.True(t, errors.As(q.VerifySecure(IntentScopeCheckpointSummary, digest, c), &notEnough))
		require.EqualValues(t, 2, notEnough.Got)
		require.EqualValues(t, 3, notEnough.Needed)
	})

	t.Run("tampered signature", func(t *testing.T) {
		q := sign(0, 1, 2)
		q.Signatures[1] = append([]byte(nil), q.Signatures[1]...)
		q.Signatures[1][0] ^= 0x01
		require.ErrorIs(t, q.VerifySecure(IntentScopeCheckpointSummary, digest, c), ErrInvalidSignature)
	})

	t.Run("signature count mismatch", func(t *testing.T) {
		q := sign(0, 1, 2)
		q.Signatures = q.Signatures[:2]
		require.Error(t, q.VerifySecure(IntentScopeCheckpointSummary, digest, c))
	})

	t.Run("wrong committee epoch", func(t *testing.T) {
		q := sign(0, 1, 2, 3)
		shifted := *c
		shifted.Epoch += 10
		var wrongEpoch ErrWrongEpoch
		require.True(t, errors.As(q.VerifySecure(IntentScopeCheckpointSummary, digest, &shifted), &wrongEpoch))
	})

	t.Run("duplicate signer", func(t *testing.T) {
		s, err := NewAuthoritySignInfo(IntentScopeCheckpointSummary, 5, digest, keys[0])
		require.NoError(t, err)
		_, err = NewAuthorityQuorumSignInfo(c, []AuthoritySignInfo{s, s})
		require.Error(t, err)
	})
}
