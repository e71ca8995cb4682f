package types

import (
	"crypto/rand"
	"fmt"

	"github.com/btcsuite/btcutil/base58"

	"github.com/iotaledger/iota-trust/crypto"
)

// DigestLength is the size in bytes of every digest.
const DigestLength = crypto.HashSize

// Digest is a Blake2b-256 hash. Its text form is base58.
type Digest [DigestLength]byte

// DigestOf hashes the canonical encoding of v, prefixed by the type tag, so
// that values of different types never share a digest.
func DigestOf(tag string, v interface{}) Digest {
	bz := append([]byte(tag+"::"), MustMarshal(v)...)
	var d Digest
	copy(d[:], crypto.Checksum(bz))
	return d
}

// DigestFromBytes copies bz into a Digest. bz must be exactly DigestLength
// bytes long.
func DigestFromBytes(bz []byte) (Digest, error) {
	var d Digest
	if len(bz) != DigestLength {
		return d, fmt.Errorf("invalid digest length: expected %d, got %d", DigestLength, len(bz))
	}
	copy(d[:], bz)
	return d, nil
}

// ParseDigest parses a base58 encoded digest.
func ParseDigest(s string) (Digest, error) {
	bz := base58.Decode(s)
	if len(bz) == 0 {
		return Digest{}, fmt.Errorf("invalid base58 digest %q", s)
	}
	return DigestFromBytes(bz)
}

// RandomDigest returns a digest filled with random bytes.
func RandomDigest() Digest {
	var d Digest
	if _, err := rand.Read(d[:]); err != nil {
		panic(err)
	}
	return d
}

func (d Digest) Bytes() []byte {
	return d[:]
}

func (d Digest) String() string {
	return base58.Encode(d[:])
}

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TransactionDigest identifies a transaction.
type TransactionDigest Digest

func (d TransactionDigest) Bytes() []byte                 { return d[:] }
func (d TransactionDigest) String() string                { return Digest(d).String() }
func (d TransactionDigest) MarshalText() ([]byte, error)  { return Digest(d).MarshalText() }
func (d *TransactionDigest) UnmarshalText(t []byte) error { return (*Digest)(d).UnmarshalText(t) }

// TransactionEffectsDigest identifies the effects of a transaction.
type TransactionEffectsDigest Digest

func (d TransactionEffectsDigest) Bytes() []byte                 { return d[:] }
func (d TransactionEffectsDigest) String() string                { return Digest(d).String() }
func (d TransactionEffectsDigest) MarshalText() ([]byte, error)  { return Digest(d).MarshalText() }
func (d *TransactionEffectsDigest) UnmarshalText(t []byte) error { return (*Digest)(d).UnmarshalText(t) }

// TransactionEventsDigest identifies the events emitted by a transaction.
type TransactionEventsDigest Digest

func (d TransactionEventsDigest) Bytes() []byte                 { return d[:] }
func (d TransactionEventsDigest) String() string                { return Digest(d).String() }
func (d TransactionEventsDigest) MarshalText() ([]byte, error)  { return Digest(d).MarshalText() }
func (d *TransactionEventsDigest) UnmarshalText(t []byte) error { return (*Digest)(d).UnmarshalText(t) }

// CheckpointDigest identifies a checkpoint summary.
type CheckpointDigest Digest

func (d CheckpointDigest) Bytes() []byte                 { return d[:] }
func (d CheckpointDigest) String() string                { return Digest(d).String() }
func (d CheckpointDigest) MarshalText() ([]byte, error)  { return Digest(d).MarshalText() }
func (d *CheckpointDigest) UnmarshalText(t []byte) error { return (*Digest)(d).UnmarshalText(t) }

// CheckpointContentsDigest identifies the contents of a checkpoint.
type CheckpointContentsDigest Digest

func (d CheckpointContentsDigest) Bytes() []byte                 { return d[:] }
func (d CheckpointContentsDigest) String() string                { return Digest(d).String() }
func (d CheckpointContentsDigest) MarshalText() ([]byte, error)  { return Digest(d).MarshalText() }
func (d *CheckpointContentsDigest) UnmarshalText(t []byte) error { return (*Digest)(d).UnmarshalText(t) }

// ObjectDigest identifies one version of an object.
type ObjectDigest Digest

func (d ObjectDigest) Bytes() []byte                 { return d[:] }
func (d ObjectDigest) String() string                { return Digest(d).String() }
func (d ObjectDigest) MarshalText() ([]byte, error)  { return Digest(d).MarshalText() }
func (d *ObjectDigest) UnmarshalText(t []byte) error { return (*Digest)(d).UnmarshalText(t) }
