package kvstore

import (
	"context"

	"github.com/iotaledger/iota-trust/types"
)

// FallbackStore reads from primary and asks fallback only for the keys
// primary did not have. Results keep the positions of the original keys.
type FallbackStore struct {
	primary  Store
	fallback Store
}

var _ Store = (*FallbackStore)(nil)

func NewFallbackStore(primary, fallback Store) *FallbackStore {
	return &FallbackStore{primary: primary, fallback: fallback}
}

// NewFallbackKV returns a FallbackStore wrapped for metrics under label.
func NewFallbackKV(primary, fallback Store, metrics *Metrics, label string) *TransactionKVStore {
	return New(label, metrics, NewFallbackStore(primary, fallback))
}

// findFallback returns the keys whose value is missing, with their indices.
func findFallback[T any, K any](values []*T, keys []K) ([]K, []int) {
	var (
		n       = countNil(values)
		missing = make([]K, 0, n)
		indices = make([]int, 0, n)
	)
	for i, v := range values {
		if v == nil {
			missing = append(missing, keys[i])
			indices = append(indices, i)
		}
	}
	return missing, indices
}

// mergeRes writes fallback results back to the indices they were asked for.
// Indices without a fallback result are reset to nil.
func mergeRes[T any](values []*T, fallback []*T, indices []int) {
	for i, idx := range indices {
		if i < len(fallback) {
			values[idx] = fallback[i]
		} else {
			values[idx] = nil
		}
	}
}

func (s *FallbackStore) MultiGet(
	ctx context.Context,
	txKeys []types.TransactionDigest,
	fxKeys []types.TransactionDigest,
) ([]*types.Transaction, []*types.TransactionEffects, error) {
	txs, fxs, err := s.primary.MultiGet(ctx, txKeys, fxKeys)
	if err != nil {
		return nil, nil, err
	}

	missingTx, txIndices := findFallback(txs, txKeys)
	missingFx, fxIndices := findFallback(fxs, fxKeys)
	if len(missingTx) == 0 && len(missingFx) == 0 {
		return txs, fxs, nil
	}

	fallbackTxs, fallbackFxs, err := s.fallback.MultiGet(ctx, missingTx, missingFx)
	if err != nil {
		return nil, nil, err
	}

	mergeRes(txs, fallbackTxs, txIndices)
	mergeRes(fxs, fallbackFxs, fxIndices)
	return txs, fxs, nil
}

func (s *FallbackStore) MultiGetCheckpoints(
	ctx context.Context,
	summaries []types.CheckpointSequenceNumber,
	contents []types.CheckpointSequenceNumber,
	summariesByDigest []types.CheckpointDigest,
) ([]*types.CertifiedCheckpointSummary, []*types.CheckpointContents, []*types.CertifiedCheckpointSummary, error) {
	sums, conts, sumsByDigest, err := s.primary.MultiGetCheckpoints(ctx, summaries, contents, summariesByDigest)
	if err != nil {
		return nil, nil, nil, err
	}

	missingSums, sumIndices := findFallback(sums, summaries)
	missingConts, contIndices := findFallback(conts, contents)
	missingByDigest, byDigestIndices := findFallback(sumsByDigest, summariesByDigest)
	if len(missingSums) == 0 && len(missingConts) == 0 && len(missingByDigest) == 0 {
		return sums, conts, sumsByDigest, nil
	}

	fallbackSums, fallbackConts, fallbackByDigest, err := s.fallback.MultiGetCheckpoints(
		ctx, missingSums, missingConts, missingByDigest)
	if err != nil {
		return nil, nil, nil, err
	}

	mergeRes(sums, fallbackSums, sumIndices)
	mergeRes(conts, fallbackConts, contIndices)
	mergeRes(sumsByDigest, fallbackByDigest, byDigestIndices)
	return sums, conts, sumsByDigest, nil
}

func (s *FallbackStore) GetTransactionPerpetualCheckpoint(
	ctx context.Context,
	digest types.TransactionDigest,
) (*types.CheckpointSequenceNumber, error) {
	seq, err := s.primary.GetTransactionPerpetualCheckpoint(ctx, digest)
	if err != nil || seq != nil {
		return seq, err
	}
	return s.fallback.GetTransactionPerpetualCheckpoint(ctx, digest)
}

func (s *FallbackStore) GetObject(
	ctx context.Context,
	id types.ObjectID,
	version types.SequenceNumber,
) (*types.Object, error) {
	obj, err := s.primary.GetObject(ctx, id, version)
	if err != nil || obj != nil {
		return obj, err
	}
	return s.fallback.GetObject(ctx, id, version)
}

func (s *FallbackStore) MultiGetTransactionsPerpetualCheckpoints(
	ctx context.Context,
	digests []types.TransactionDigest,
) ([]*types.CheckpointSequenceNumber, error) {
	seqs, err := s.primary.MultiGetTransactionsPerpetualCheckpoints(ctx, digests)
	if err != nil {
		return nil, err
	}

	missing, indices := findFallback(seqs, digests)
	if len(missing) == 0 {
		return seqs, nil
	}

	fallbackSeqs, err := s.fallback.MultiGetTransactionsPerpetualCheckpoints(ctx, missing)
	if err != nil {
		return nil, err
	}
	mergeRes(seqs, fallbackSeqs, indices)
	return seqs, nil
}

func (s *FallbackStore) MultiGetEventsByTxDigests(
	ctx context.Context,
	digests []types.TransactionDigest,
) ([]*types.TransactionEvents, error) {
	events, err := s.primary.MultiGetEventsByTxDigests(ctx, digests)
	if err != nil {
		return nil, err
	}

	missing, indices := findFallback(events, digests)
	if len(missing) == 0 {
		return events, nil
	}

	fallbackEvents, err := s.fallback.MultiGetEventsByTxDigests(ctx, missing)
	if err != nil {
		return nil, err
	}
	mergeRes(events, fallbackEvents, indices)
	return events, nil
}
