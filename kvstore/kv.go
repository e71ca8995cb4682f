package kvstore

import (
	"context"
	"time"

	"github.com/iotaledger/iota-trust/types"
)

// TransactionKVStore wraps a Store and records fetch metrics for every call,
// labelled with the store name. It adds single-item getters on top of the
// batched Store API.
type TransactionKVStore struct {
	name    string
	metrics *Metrics
	inner   Store
}

var _ Store = (*TransactionKVStore)(nil)

// New wraps inner. A nil metrics records nothing.
func New(name string, metrics *Metrics, inner Store) *TransactionKVStore {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &TransactionKVStore{name: name, metrics: metrics, inner: inner}
}

// Name returns the store label used in metrics.
func (s *TransactionKVStore) Name() string {
	return s.name
}

func (s *TransactionKVStore) observe(typ string, start time.Time, batchSize int) {
	s.metrics.FetchLatencyMs.With("store", s.name, "type", typ).
		Observe(float64(time.Since(start).Milliseconds()))
	s.metrics.FetchBatchSize.With("store", s.name, "type", typ).Observe(float64(batchSize))
}

// record counts requested keys as successes or errors depending on err. A
// lookup that returns no error succeeds for every key, found or not.
func (s *TransactionKVStore) record(typ string, err error, requested, notFound int) {
	if err != nil {
		s.metrics.FetchError.With("store", s.name, "type", typ).Add(float64(requested))
		return
	}
	if requested > 0 {
		s.metrics.FetchSuccess.With("store", s.name, "type", typ).Add(float64(requested))
	}
	if notFound > 0 {
		s.metrics.FetchNotFound.With("store", s.name, "type", typ).Add(float64(notFound))
	}
}

func countNil[T any](values []*T) int {
	n := 0
	for _, v := range values {
		if v == nil {
			n++
		}
	}
	return n
}

func (s *TransactionKVStore) MultiGet(
	ctx context.Context,
	txKeys []types.TransactionDigest,
	fxKeys []types.TransactionDigest,
) ([]*types.Transaction, []*types.TransactionEffects, error) {
	start := time.Now()
	txs, fxs, err := s.inner.MultiGet(ctx, txKeys, fxKeys)
	s.metrics.FetchLatencyMs.With("store", s.name, "type", "transaction").
		Observe(float64(time.Since(start).Milliseconds()))
	s.metrics.FetchBatchSize.With("store", s.name, "type", "tx").Observe(float64(len(txKeys)))
	s.metrics.FetchBatchSize.With("store", s.name, "type", "fx").Observe(float64(len(fxKeys)))

	s.record("tx", err, len(txKeys), countNil(txs))
	s.record("fx", err, len(fxKeys), countNil(fxs))
	return txs, fxs, err
}

func (s *TransactionKVStore) MultiGetCheckpoints(
	ctx context.Context,
	summaries []types.CheckpointSequenceNumber,
	contents []types.CheckpointSequenceNumber,
	summariesByDigest []types.CheckpointDigest,
) ([]*types.CertifiedCheckpointSummary, []*types.CheckpointContents, []*types.CertifiedCheckpointSummary, error) {
	start := time.Now()
	sums, conts, sumsByDigest, err := s.inner.MultiGetCheckpoints(ctx, summaries, contents, summariesByDigest)

	numSummaries := len(summaries) + len(summariesByDigest)
	s.metrics.FetchLatencyMs.With("store", s.name, "type", "checkpoint").
		Observe(float64(time.Since(start).Milliseconds()))
	s.metrics.FetchBatchSize.With("store", s.name, "type", "checkpoint_summary").Observe(float64(numSummaries))
	s.metrics.FetchBatchSize.With("store", s.name, "type", "checkpoint_content").Observe(float64(len(contents)))

	s.record("ckpt_summary", err, numSummaries, countNil(sums)+countNil(sumsByDigest))
	s.record("ckpt_contents", err, len(contents), countNil(conts))
	return sums, conts, sumsByDigest, err
}

func (s *TransactionKVStore) GetTransactionPerpetualCheckpoint(
	ctx context.Context,
	digest types.TransactionDigest,
) (*types.CheckpointSequenceNumber, error) {
	start := time.Now()
	seq, err := s.inner.GetTransactionPerpetualCheckpoint(ctx, digest)
	s.observe("tx2c", start, 1)
	s.record("tx2c", err, 1, countNil([]*types.CheckpointSequenceNumber{seq}))
	return seq, err
}

func (s *TransactionKVStore) GetObject(
	ctx context.Context,
	id types.ObjectID,
	version types.SequenceNumber,
) (*types.Object, error) {
	start := time.Now()
	obj, err := s.inner.GetObject(ctx, id, version)
	s.observe("ob", start, 1)
	s.record("ob", err, 1, countNil([]*types.Object{obj}))
	return obj, err
}

func (s *TransactionKVStore) MultiGetTransactionsPerpetualCheckpoints(
	ctx context.Context,
	digests []types.TransactionDigest,
) ([]*types.CheckpointSequenceNumber, error) {
	start := time.Now()
	seqs, err := s.inner.MultiGetTransactionsPerpetualCheckpoints(ctx, digests)
	s.observe("tx2c", start, len(digests))
	s.record("tx2c", err, len(digests), countNil(seqs))
	return seqs, err
}

func (s *TransactionKVStore) MultiGetEventsByTxDigests(
	ctx context.Context,
	digests []types.TransactionDigest,
) ([]*types.TransactionEvents, error) {
	start := time.Now()
	events, err := s.inner.MultiGetEventsByTxDigests(ctx, digests)
	s.observe("evtx", start, len(digests))
	s.record("evtx", err, len(digests), countNil(events))
	return events, err
}

func (s *TransactionKVStore) MultiGetTx(
	ctx context.Context,
	keys []types.TransactionDigest,
) ([]*types.Transaction, error) {
	txs, _, err := s.MultiGet(ctx, keys, nil)
	return txs, err
}

func (s *TransactionKVStore) MultiGetFxByTxDigest(
	ctx context.Context,
	keys []types.TransactionDigest,
) ([]*types.TransactionEffects, error) {
	_, fxs, err := s.MultiGet(ctx, nil, keys)
	return fxs, err
}

func (s *TransactionKVStore) MultiGetCheckpointsSummaries(
	ctx context.Context,
	keys []types.CheckpointSequenceNumber,
) ([]*types.CertifiedCheckpointSummary, error) {
	sums, _, _, err := s.MultiGetCheckpoints(ctx, keys, nil, nil)
	return sums, err
}

func (s *TransactionKVStore) MultiGetCheckpointsContents(
	ctx context.Context,
	keys []types.CheckpointSequenceNumber,
) ([]*types.CheckpointContents, error) {
	_, conts, _, err := s.MultiGetCheckpoints(ctx, nil, keys, nil)
	return conts, err
}

func (s *TransactionKVStore) MultiGetCheckpointsSummariesByDigest(
	ctx context.Context,
	keys []types.CheckpointDigest,
) ([]*types.CertifiedCheckpointSummary, error) {
	_, _, sums, err := s.MultiGetCheckpoints(ctx, nil, nil, keys)
	return sums, err
}

// first returns the first element of values, or nil.
func first[T any](values []*T) *T {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// GetTx returns the transaction with the given digest, or
// ErrTransactionNotFound.
func (s *TransactionKVStore) GetTx(ctx context.Context, digest types.TransactionDigest) (*types.Transaction, error) {
	txs, err := s.MultiGetTx(ctx, []types.TransactionDigest{digest})
	if err != nil {
		return nil, err
	}
	if tx := first(txs); tx != nil {
		return tx, nil
	}
	return nil, types.ErrTransactionNotFound{Digest: digest}
}

// GetFxByTxDigest returns the effects of the given transaction, or
// ErrTransactionNotFound.
func (s *TransactionKVStore) GetFxByTxDigest(
	ctx context.Context,
	digest types.TransactionDigest,
) (*types.TransactionEffects, error) {
	fxs, err := s.MultiGetFxByTxDigest(ctx, []types.TransactionDigest{digest})
	if err != nil {
		return nil, err
	}
	if fx := first(fxs); fx != nil {
		return fx, nil
	}
	return nil, types.ErrTransactionNotFound{Digest: digest}
}

// GetCheckpointSummary returns the summary of checkpoint seq, or
// ErrVerifiedCheckpointNotFound.
func (s *TransactionKVStore) GetCheckpointSummary(
	ctx context.Context,
	seq types.CheckpointSequenceNumber,
) (*types.CertifiedCheckpointSummary, error) {
	sums, err := s.MultiGetCheckpointsSummaries(ctx, []types.CheckpointSequenceNumber{seq})
	if err != nil {
		return nil, err
	}
	if sum := first(sums); sum != nil {
		return sum, nil
	}
	return nil, types.ErrVerifiedCheckpointNotFound{Seq: seq}
}

// GetCheckpointContents returns the contents of checkpoint seq, or
// ErrVerifiedCheckpointNotFound.
func (s *TransactionKVStore) GetCheckpointContents(
	ctx context.Context,
	seq types.CheckpointSequenceNumber,
) (*types.CheckpointContents, error) {
	conts, err := s.MultiGetCheckpointsContents(ctx, []types.CheckpointSequenceNumber{seq})
	if err != nil {
		return nil, err
	}
	if c := first(conts); c != nil {
		return c, nil
	}
	return nil, types.ErrVerifiedCheckpointNotFound{Seq: seq}
}

// GetCheckpointSummaryByDigest returns the summary with the given digest, or
// ErrVerifiedCheckpointDigestNotFound.
func (s *TransactionKVStore) GetCheckpointSummaryByDigest(
	ctx context.Context,
	digest types.CheckpointDigest,
) (*types.CertifiedCheckpointSummary, error) {
	sums, err := s.MultiGetCheckpointsSummariesByDigest(ctx, []types.CheckpointDigest{digest})
	if err != nil {
		return nil, err
	}
	if sum := first(sums); sum != nil {
		return sum, nil
	}
	return nil, types.ErrVerifiedCheckpointDigestNotFound{Digest: digest}
}

// GetTransactionCheckpoint returns the sequence number of the checkpoint
// that includes the given transaction, or ErrTransactionNotFound.
func (s *TransactionKVStore) GetTransactionCheckpoint(
	ctx context.Context,
	digest types.TransactionDigest,
) (types.CheckpointSequenceNumber, error) {
	seq, err := s.GetTransactionPerpetualCheckpoint(ctx, digest)
	if err != nil {
		return 0, err
	}
	if seq == nil {
		return 0, types.ErrTransactionNotFound{Digest: digest}
	}
	return *seq, nil
}
