package ed25519_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/iota-trust/crypto"
	"github.com/iotaledger/iota-trust/crypto/ed25519"
)

func TestSignAndValidateEd25519(t *testing.T) {
	privKey := ed25519.GenPrivKey()
	pubKey := privKey.PubKey()

	msg := crypto.CRandBytes(128)
	sig, err := privKey.Sign(msg)
	require.NoError(t, err)

	// Test the signature
	assert.True(t, pubKey.VerifySignature(msg, sig))

	// Mutate the signature, just one bit.
	sig[7] ^= byte(0x01)

	assert.False(t, pubKey.VerifySignature(msg, sig))
}

func TestGenPrivKeyFromSecretIsDeterministic(t *testing.T) {
	a := ed25519.GenPrivKeyFromSecret([]byte("validator-0"))
	b := ed25519.GenPrivKeyFromSecret([]byte("validator-0"))
	c := ed25519.GenPrivKeyFromSecret([]byte("validator-1"))

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.True(t, a.PubKey().Equals(b.PubKey()))
}

func TestBatchSafe(t *testing.T) {
	v := ed25519.NewBatchVerifier()

	for i := 0; i <= 38; i++ {
		priv := ed25519.GenPrivKey()
		pub := priv.PubKey()

		var msg []byte
		if i%2 == 0 {
			msg = []byte("easter")
		} else {
			msg = []byte("egg")
		}

		sig, err := priv.Sign(msg)
		require.NoError(t, err)

		err = v.Add(pub, msg, sig)
		require.NoError(t, err)
	}

	ok, valid := v.Verify()
	require.True(t, ok)
	require.Len(t, valid, 39)
}

func TestBatchRejectsBadSignature(t *testing.T) {
	v := ed25519.NewBatchVerifier()

	good := ed25519.GenPrivKey()
	sig, err := good.Sign([]byte("msg"))
	require.NoError(t, err)
	require.NoError(t, v.Add(good.PubKey(), []byte("msg"), sig))

	bad := ed25519.GenPrivKey()
	sig, err = bad.Sign([]byte("other"))
	require.NoError(t, err)
	require.NoError(t, v.Add(bad.PubKey(), []byte("msg"), sig))

	ok, valid := v.Verify()
	require.False(t, ok)
	require.Equal(t, []bool{true, false}, valid)

	require.Error(t, v.Add(good.PubKey(), []byte("msg"), []byte{1, 2, 3}))
}
