package crypto

import (
	"golang.org/x/crypto/blake2b"
)

const (
	// HashSize is the size in bytes of a Checksum.
	HashSize = blake2b.Size256
)

// Checksum returns the Blake2b-256 of the bz.
func Checksum(bz []byte) []byte {
	h := blake2b.Sum256(bz)
	return h[:]
}

type PubKey interface {
	Bytes() []byte
	VerifySignature(msg []byte, sig []byte) bool
	Equals(PubKey) bool
	Type() string
}

type PrivKey interface {
	Bytes() []byte
	Sign(msg []byte) ([]byte, error)
	PubKey() PubKey
	Equals(PrivKey) bool
	Type() string
}

// BatchVerifier verifies many signatures in one pass.
type BatchVerifier interface {
	// Add appends an entry into the BatchVerifier.
	Add(key PubKey, message, signature []byte) error
	// Verify verifies all the entries in the BatchVerifier, and returns
	// if every signature in the batch is valid, and a vector of bools
	// indicating the verification status of each signature (in the order
	// that signatures were added to the batch).
	Verify() (bool, []bool)
}
