package provider

import (
	"context"

	"github.com/iotaledger/iota-trust/types"
)

//go:generate mockery --case underscore --name Provider

// Provider gives the light client access to a full node. Nothing it returns
// is trusted: the client verifies every checkpoint against a committee it
// derived itself.
type Provider interface {
	// TransactionCheckpoint returns the sequence number of the checkpoint
	// that includes the transaction. ErrNotFound is returned for unknown or
	// not yet checkpointed transactions.
	TransactionCheckpoint(ctx context.Context, digest types.TransactionDigest) (types.CheckpointSequenceNumber, error)

	// LatestCheckpoint returns the sequence number of the newest checkpoint
	// the node knows.
	LatestCheckpoint(ctx context.Context) (types.CheckpointSequenceNumber, error)

	// CheckpointEpoch returns the epoch of checkpoint seq.
	CheckpointEpoch(ctx context.Context, seq types.CheckpointSequenceNumber) (types.EpochID, error)

	// CheckpointSummary returns the certified summary of checkpoint seq.
	CheckpointSummary(ctx context.Context, seq types.CheckpointSequenceNumber) (*types.CertifiedCheckpointSummary, error)

	// FullCheckpoint returns checkpoint seq with its contents and executed
	// transactions.
	FullCheckpoint(ctx context.Context, seq types.CheckpointSequenceNumber) (*types.CheckpointData, error)

	// Object returns the latest version of an object.
	Object(ctx context.Context, id types.ObjectID) (*types.Object, error)

	String() string
}
