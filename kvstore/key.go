package kvstore

import (
	"encoding/base64"
	"fmt"

	"github.com/iotaledger/iota-trust/types"
)

// ItemType is the REST resource name of a kind of stored item.
type ItemType string

const (
	ItemTypeTransaction             ItemType = "tx"
	ItemTypeTransactionEffects      ItemType = "fx"
	ItemTypeCheckpointContents      ItemType = "cc"
	ItemTypeCheckpointSummary       ItemType = "cs"
	ItemTypeTransactionToCheckpoint ItemType = "tx2c"
	ItemTypeObject                  ItemType = "ob"
	ItemTypeEventTransactionDigest  ItemType = "evtx"
)

// ParseItemType validates s as an ItemType.
func ParseItemType(s string) (ItemType, error) {
	switch it := ItemType(s); it {
	case ItemTypeTransaction, ItemTypeTransactionEffects, ItemTypeCheckpointContents,
		ItemTypeCheckpointSummary, ItemTypeTransactionToCheckpoint, ItemTypeObject,
		ItemTypeEventTransactionDigest:
		return it, nil
	default:
		return "", fmt.Errorf("invalid item type: %q", s)
	}
}

func (it ItemType) String() string { return string(it) }

// Key identifies one stored item. Keys are comparable values.
type Key interface {
	ItemType() ItemType
	// rawKey is the undecorated key: digest bytes or a canonical encoding.
	rawKey() []byte
}

type (
	TransactionKey               types.TransactionDigest
	TransactionEffectsKey        types.TransactionDigest
	CheckpointContentsKey        types.CheckpointSequenceNumber
	CheckpointSummaryKey         types.CheckpointSequenceNumber
	CheckpointSummaryByDigestKey types.CheckpointDigest
	TransactionToCheckpointKey   types.TransactionDigest
	EventsByTransactionDigestKey types.TransactionDigest
)

// ObjectKey addresses an object at a specific version.
type ObjectKey struct {
	_        struct{}             `cbor:",toarray"`
	ObjectID types.ObjectID       `json:"objectId"`
	Version  types.SequenceNumber `json:"version"`
}

func NewObjectKey(id types.ObjectID, version types.SequenceNumber) ObjectKey {
	return ObjectKey{ObjectID: id, Version: version}
}

func (TransactionKey) ItemType() ItemType               { return ItemTypeTransaction }
func (TransactionEffectsKey) ItemType() ItemType        { return ItemTypeTransactionEffects }
func (CheckpointContentsKey) ItemType() ItemType        { return ItemTypeCheckpointContents }
func (CheckpointSummaryKey) ItemType() ItemType         { return ItemTypeCheckpointSummary }
func (CheckpointSummaryByDigestKey) ItemType() ItemType { return ItemTypeCheckpointSummary }
func (TransactionToCheckpointKey) ItemType() ItemType   { return ItemTypeTransactionToCheckpoint }
func (ObjectKey) ItemType() ItemType                    { return ItemTypeObject }
func (EventsByTransactionDigestKey) ItemType() ItemType { return ItemTypeEventTransactionDigest }

func (k TransactionKey) rawKey() []byte               { return k[:] }
func (k TransactionEffectsKey) rawKey() []byte        { return k[:] }
func (k CheckpointSummaryByDigestKey) rawKey() []byte { return k[:] }
func (k TransactionToCheckpointKey) rawKey() []byte   { return k[:] }
func (k EventsByTransactionDigestKey) rawKey() []byte { return k[:] }

func (k CheckpointContentsKey) rawKey() []byte {
	return newTaggedSequenceNumber(types.CheckpointSequenceNumber(k)).bytes()
}

func (k CheckpointSummaryKey) rawKey() []byte {
	return newTaggedSequenceNumber(types.CheckpointSequenceNumber(k)).bytes()
}

func (k ObjectKey) rawKey() []byte {
	return types.MustMarshal(k)
}

func (k TransactionKey) String() string {
	return fmt.Sprintf("tx(%v)", types.TransactionDigest(k))
}

func (k TransactionEffectsKey) String() string {
	return fmt.Sprintf("fx(%v)", types.TransactionDigest(k))
}

func (k CheckpointContentsKey) String() string {
	return fmt.Sprintf("cc(%d)", uint64(k))
}

func (k CheckpointSummaryKey) String() string {
	return fmt.Sprintf("cs(%d)", uint64(k))
}

func (k CheckpointSummaryByDigestKey) String() string {
	return fmt.Sprintf("cs(%v)", types.CheckpointDigest(k))
}

func (k TransactionToCheckpointKey) String() string {
	return fmt.Sprintf("tx2c(%v)", types.TransactionDigest(k))
}

func (k ObjectKey) String() string {
	return fmt.Sprintf("ob(%v, %d)", k.ObjectID, k.Version)
}

func (k EventsByTransactionDigestKey) String() string {
	return fmt.Sprintf("evtx(%v)", types.TransactionDigest(k))
}

// taggedKey wraps non-digest keys so that their encoding can never be
// mistaken for the raw bytes of a digest.
type taggedKey struct {
	_   struct{} `cbor:",toarray"`
	Tag uint8
	Seq uint64
}

const tagCheckpointSequenceNumber uint8 = 0

func newTaggedSequenceNumber(seq types.CheckpointSequenceNumber) taggedKey {
	return taggedKey{Tag: tagCheckpointSequenceNumber, Seq: seq}
}

func (k taggedKey) bytes() []byte {
	return types.MustMarshal(k)
}

func decodeTaggedSequenceNumber(bz []byte) (types.CheckpointSequenceNumber, error) {
	var k taggedKey
	if err := types.Unmarshal(bz, &k); err != nil {
		return 0, fmt.Errorf("failed to deserialize checkpoint sequence number: %w", err)
	}
	if k.Tag != tagCheckpointSequenceNumber {
		return 0, fmt.Errorf("unknown key tag %d", k.Tag)
	}
	return k.Seq, nil
}

// RawKey returns the storage key of k without the item type.
func RawKey(k Key) []byte {
	return k.rawKey()
}

// EncodeKey returns the URL-safe form of the raw key of k.
func EncodeKey(k Key) string {
	return base64.RawURLEncoding.EncodeToString(k.rawKey())
}

// ToPathElements returns the REST route elements of k:
// /<item type>/<encoded key>.
func ToPathElements(k Key) (ItemType, string) {
	return k.ItemType(), EncodeKey(k)
}

// ParseKey is the inverse of ToPathElements.
func ParseKey(itemType, encoded string) (Key, error) {
	it, err := ParseItemType(itemType)
	if err != nil {
		return nil, err
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 url string: %w", err)
	}
	return KeyFromRaw(it, raw)
}

// KeyFromRaw decodes a raw key of the given item type.
func KeyFromRaw(it ItemType, raw []byte) (Key, error) {
	switch it {
	case ItemTypeTransaction:
		return digestKey(raw, func(d types.Digest) Key { return TransactionKey(d) })

	case ItemTypeTransactionEffects:
		return digestKey(raw, func(d types.Digest) Key { return TransactionEffectsKey(d) })

	case ItemTypeCheckpointContents:
		seq, err := decodeTaggedSequenceNumber(raw)
		if err != nil {
			return nil, err
		}
		return CheckpointContentsKey(seq), nil

	case ItemTypeCheckpointSummary:
		// A digest first, a tagged sequence number otherwise.
		if d, err := types.DigestFromBytes(raw); err == nil {
			return CheckpointSummaryByDigestKey(d), nil
		}
		seq, err := decodeTaggedSequenceNumber(raw)
		if err != nil {
			return nil, err
		}
		return CheckpointSummaryKey(seq), nil

	case ItemTypeTransactionToCheckpoint:
		return digestKey(raw, func(d types.Digest) Key { return TransactionToCheckpointKey(d) })

	case ItemTypeObject:
		var k ObjectKey
		if err := types.Unmarshal(raw, &k); err != nil {
			return nil, fmt.Errorf("failed to deserialize object key: %w", err)
		}
		return k, nil

	case ItemTypeEventTransactionDigest:
		return digestKey(raw, func(d types.Digest) Key { return EventsByTransactionDigestKey(d) })

	default:
		return nil, fmt.Errorf("invalid item type: %q", it)
	}
}

func digestKey(raw []byte, mk func(types.Digest) Key) (Key, error) {
	d, err := types.DigestFromBytes(raw)
	if err != nil {
		return nil, err
	}
	return mk(d), nil
}
