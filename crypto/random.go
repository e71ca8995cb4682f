package crypto

import (
	crand "crypto/rand"
	"io"
)

// CRandBytes returns numBytes of cryptographically secure random bytes.
// It panics if the OS entropy source fails.
func CRandBytes(numBytes int) []byte {
	b := make([]byte, numBytes)
	if _, err := crand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// CReader returns a crand.Reader.
func CReader() io.Reader {
	return crand.Reader
}
