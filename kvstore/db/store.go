package db

import (
	"context"
	"fmt"
	"sync"

	dbm "github.com/tendermint/tm-db"

	"github.com/iotaledger/iota-trust/kvstore"
	"github.com/iotaledger/iota-trust/types"
)

// Store is a kvstore.Store over a tm-db database. Values are kept in their
// canonical encoding under "<item type>/<raw key>", so they can be served
// byte for byte over REST.
type Store struct {
	mtx sync.Mutex
	db  dbm.DB
}

var _ kvstore.Store = (*Store)(nil)

// New returns a Store backed by db.
func New(db dbm.DB) *Store {
	return &Store{db: db}
}

func storageKey(k kvstore.Key) []byte {
	raw := kvstore.RawKey(k)
	key := make([]byte, 0, len(k.ItemType())+1+len(raw))
	key = append(key, string(k.ItemType())...)
	key = append(key, '/')
	return append(key, raw...)
}

// GetRaw returns the encoded value stored under k, or nil if there is none.
func (s *Store) GetRaw(_ context.Context, k kvstore.Key) ([]byte, error) {
	return s.db.Get(storageKey(k))
}

// PutRaw stores an already encoded value under k.
func (s *Store) PutRaw(k kvstore.Key, value []byte) error {
	return s.db.SetSync(storageKey(k), value)
}

func get[T any](s *Store, k kvstore.Key) (*T, error) {
	bz, err := s.db.Get(storageKey(k))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	v := new(T)
	if err := types.Unmarshal(bz, v); err != nil {
		return nil, fmt.Errorf("decoding %v: %w", k, err)
	}
	return v, nil
}

func multiGet[T any, K any](s *Store, keys []K, mk func(K) kvstore.Key) ([]*T, error) {
	out := make([]*T, len(keys))
	for i, k := range keys {
		v, err := get[T](s, mk(k))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func txKey(d types.TransactionDigest) kvstore.Key { return kvstore.TransactionKey(d) }
func fxKey(d types.TransactionDigest) kvstore.Key { return kvstore.TransactionEffectsKey(d) }
func tx2cKey(d types.TransactionDigest) kvstore.Key {
	return kvstore.TransactionToCheckpointKey(d)
}
func evtxKey(d types.TransactionDigest) kvstore.Key {
	return kvstore.EventsByTransactionDigestKey(d)
}
func summaryKey(seq types.CheckpointSequenceNumber) kvstore.Key {
	return kvstore.CheckpointSummaryKey(seq)
}
func contentsKey(seq types.CheckpointSequenceNumber) kvstore.Key {
	return kvstore.CheckpointContentsKey(seq)
}
func summaryByDigestKey(d types.CheckpointDigest) kvstore.Key {
	return kvstore.CheckpointSummaryByDigestKey(d)
}

func (s *Store) MultiGet(
	_ context.Context,
	txKeys []types.TransactionDigest,
	fxKeys []types.TransactionDigest,
) ([]*types.Transaction, []*types.TransactionEffects, error) {
	txs, err := multiGet[types.Transaction](s, txKeys, txKey)
	if err != nil {
		return nil, nil, err
	}
	fxs, err := multiGet[types.TransactionEffects](s, fxKeys, fxKey)
	if err != nil {
		return nil, nil, err
	}
	return txs, fxs, nil
}

func (s *Store) MultiGetCheckpoints(
	_ context.Context,
	summaries []types.CheckpointSequenceNumber,
	contents []types.CheckpointSequenceNumber,
	summariesByDigest []types.CheckpointDigest,
) ([]*types.CertifiedCheckpointSummary, []*types.CheckpointContents, []*types.CertifiedCheckpointSummary, error) {
	sums, err := multiGet[types.CertifiedCheckpointSummary](s, summaries, summaryKey)
	if err != nil {
		return nil, nil, nil, err
	}
	conts, err := multiGet[types.CheckpointContents](s, contents, contentsKey)
	if err != nil {
		return nil, nil, nil, err
	}
	byDigest, err := multiGet[types.CertifiedCheckpointSummary](s, summariesByDigest, summaryByDigestKey)
	if err != nil {
		return nil, nil, nil, err
	}
	return sums, conts, byDigest, nil
}

func (s *Store) GetTransactionPerpetualCheckpoint(
	_ context.Context,
	digest types.TransactionDigest,
) (*types.CheckpointSequenceNumber, error) {
	return get[types.CheckpointSequenceNumber](s, tx2cKey(digest))
}

func (s *Store) GetObject(
	_ context.Context,
	id types.ObjectID,
	version types.SequenceNumber,
) (*types.Object, error) {
	return get[types.Object](s, kvstore.NewObjectKey(id, version))
}

func (s *Store) MultiGetTransactionsPerpetualCheckpoints(
	_ context.Context,
	digests []types.TransactionDigest,
) ([]*types.CheckpointSequenceNumber, error) {
	return multiGet[types.CheckpointSequenceNumber](s, digests, tx2cKey)
}

func (s *Store) MultiGetEventsByTxDigests(
	_ context.Context,
	digests []types.TransactionDigest,
) ([]*types.TransactionEvents, error) {
	return multiGet[types.TransactionEvents](s, digests, evtxKey)
}

type batch struct {
	dbm.Batch
	err error
}

func (b *batch) put(k kvstore.Key, v interface{}) {
	if b.err != nil {
		return
	}
	bz, err := types.Marshal(v)
	if err != nil {
		b.err = fmt.Errorf("encoding %v: %w", k, err)
		return
	}
	b.err = b.Set(storageKey(k), bz)
}

func (s *Store) write(fn func(b *batch)) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	b := &batch{Batch: s.db.NewBatch()}
	defer b.Close()

	fn(b)
	if b.err != nil {
		return b.err
	}
	return b.WriteSync()
}

// PutTransaction stores tx under its digest.
func (s *Store) PutTransaction(tx *types.Transaction) error {
	return s.write(func(b *batch) {
		b.put(txKey(tx.Digest()), tx)
	})
}

// PutEffects stores fx under the digest of its transaction.
func (s *Store) PutEffects(fx *types.TransactionEffects) error {
	return s.write(func(b *batch) {
		b.put(fxKey(fx.TransactionDigest), fx)
	})
}

// PutEvents stores the events of a transaction.
func (s *Store) PutEvents(digest types.TransactionDigest, events *types.TransactionEvents) error {
	return s.write(func(b *batch) {
		b.put(evtxKey(digest), events)
	})
}

// PutObject stores obj under its id and version.
func (s *Store) PutObject(obj *types.Object) error {
	return s.write(func(b *batch) {
		b.put(kvstore.NewObjectKey(obj.ID(), obj.Version()), obj)
	})
}

// PutCheckpoint stores a summary by sequence number and by digest, and its
// contents by sequence number when not nil.
func (s *Store) PutCheckpoint(summary *types.CertifiedCheckpointSummary, contents *types.CheckpointContents) error {
	return s.write(func(b *batch) {
		b.put(summaryKey(summary.SequenceNumber()), summary)
		b.put(summaryByDigestKey(summary.Digest()), summary)
		if contents != nil {
			b.put(contentsKey(summary.SequenceNumber()), contents)
		}
	})
}

// PutCheckpointData stores a full checkpoint: its summary and contents, and
// for every transaction the transaction, effects, events, output objects and
// the checkpoint it belongs to. It is written atomically.
func (s *Store) PutCheckpointData(data *types.CheckpointData) error {
	seq := data.CheckpointSummary.SequenceNumber()
	return s.write(func(b *batch) {
		b.put(summaryKey(seq), &data.CheckpointSummary)
		b.put(summaryByDigestKey(data.CheckpointSummary.Digest()), &data.CheckpointSummary)
		b.put(contentsKey(seq), &data.CheckpointContents)

		for i := range data.Transactions {
			tx := &data.Transactions[i]
			digest := tx.Transaction.Digest()
			b.put(txKey(digest), &tx.Transaction)
			b.put(fxKey(digest), &tx.Effects)
			b.put(tx2cKey(digest), seq)
			if tx.Events != nil {
				b.put(evtxKey(digest), tx.Events)
			}
			for j := range tx.OutputObjects {
				obj := &tx.OutputObjects[j]
				b.put(kvstore.NewObjectKey(obj.ID(), obj.Version()), obj)
			}
		}
	})
}
