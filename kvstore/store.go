package kvstore

import (
	"context"

	"github.com/iotaledger/iota-trust/types"
)

//go:generate mockery --case underscore --name Store

// Store is a batched read-only view of transactions, effects, checkpoints,
// objects and events.
//
// Multi-key lookups are positional: the i-th result belongs to the i-th key,
// and every result list is as long as its key list. A nil result means the
// item was not found; an error means the lookup as a whole failed.
type Store interface {
	MultiGet(
		ctx context.Context,
		txKeys []types.TransactionDigest,
		fxKeys []types.TransactionDigest,
	) ([]*types.Transaction, []*types.TransactionEffects, error)

	MultiGetCheckpoints(
		ctx context.Context,
		summaries []types.CheckpointSequenceNumber,
		contents []types.CheckpointSequenceNumber,
		summariesByDigest []types.CheckpointDigest,
	) ([]*types.CertifiedCheckpointSummary, []*types.CheckpointContents, []*types.CertifiedCheckpointSummary, error)

	GetTransactionPerpetualCheckpoint(
		ctx context.Context,
		digest types.TransactionDigest,
	) (*types.CheckpointSequenceNumber, error)

	GetObject(
		ctx context.Context,
		id types.ObjectID,
		version types.SequenceNumber,
	) (*types.Object, error)

	MultiGetTransactionsPerpetualCheckpoints(
		ctx context.Context,
		digests []types.TransactionDigest,
	) ([]*types.CheckpointSequenceNumber, error)

	MultiGetEventsByTxDigests(
		ctx context.Context,
		digests []types.TransactionDigest,
	) ([]*types.TransactionEvents, error)
}
