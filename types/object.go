package types

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// ObjectIDLength is the size in bytes of an ObjectID and of an
	// IotaAddress.
	ObjectIDLength = 32
)

// SequenceNumber is the version of an object.
type SequenceNumber uint64

// ObjectID identifies an object across all of its versions.
type ObjectID [ObjectIDLength]byte

// ParseObjectID parses a 0x-prefixed (or bare) hex object id. Short ids are
// left-padded with zeros.
func ParseObjectID(s string) (ObjectID, error) {
	var id ObjectID
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(s) == 0 || len(s) > 2*ObjectIDLength {
		return id, fmt.Errorf("invalid object id length %d", len(s))
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	bz, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("invalid object id: %w", err)
	}
	copy(id[ObjectIDLength-len(bz):], bz)
	return id, nil
}

// RandomObjectID returns a random object id.
func RandomObjectID() ObjectID {
	var id ObjectID
	if _, err := rand.Read(id[:]); err != nil {
		panic(err)
	}
	return id
}

func (id ObjectID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

func (id ObjectID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ObjectID) UnmarshalText(text []byte) error {
	parsed, err := ParseObjectID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// IotaAddress is an account address.
type IotaAddress [ObjectIDLength]byte

func (a IotaAddress) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a IotaAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ObjectRef pins one version of an object.
type ObjectRef struct {
	_        struct{} `cbor:",toarray"`
	ObjectID ObjectID       `json:"objectId"`
	Version  SequenceNumber `json:"version"`
	Digest   ObjectDigest   `json:"digest"`
}

func (r ObjectRef) String() string {
	return fmt.Sprintf("(%v, %d, %v)", r.ObjectID, r.Version, r.Digest)
}

// OwnerKind enumerates the ways an object can be owned.
type OwnerKind uint8

const (
	OwnerAddress OwnerKind = iota
	OwnerObject
	OwnerShared
	OwnerImmutable
)

// Owner describes who may use an object.
type Owner struct {
	Kind                 OwnerKind      `json:"kind"`
	Address              IotaAddress    `json:"address"`
	InitialSharedVersion SequenceNumber `json:"initialSharedVersion,omitempty"`
}

// MoveObject holds the typed contents of an object.
type MoveObject struct {
	ID       ObjectID       `json:"id"`
	Type     string         `json:"type"`
	Version  SequenceNumber `json:"version"`
	Contents []byte         `json:"contents"`
}

// Object is a versioned on-chain object.
type Object struct {
	Data                MoveObject        `json:"data"`
	Owner               Owner             `json:"owner"`
	PreviousTransaction TransactionDigest `json:"previousTransaction"`
	StorageRebate       uint64            `json:"storageRebate"`
}

func (o *Object) ID() ObjectID {
	return o.Data.ID
}

func (o *Object) Version() SequenceNumber {
	return o.Data.Version
}

// Digest hashes the full object, including owner and previous transaction.
func (o *Object) Digest() ObjectDigest {
	return ObjectDigest(DigestOf("Object", o))
}

// ComputeObjectReference returns the reference of this exact object version.
func (o *Object) ComputeObjectReference() ObjectRef {
	return ObjectRef{
		ObjectID: o.ID(),
		Version:  o.Version(),
		Digest:   o.Digest(),
	}
}
