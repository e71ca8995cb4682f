package light

import (
	"errors"
	"fmt"

	"github.com/iotaledger/iota-trust/types"
)

var (
	// ErrUnableToSync is returned when no configured source produced a
	// single end-of-epoch checkpoint.
	ErrUnableToSync = errors.New("unable to sync from configured sources")

	// ErrNeedSync is returned when the local checkpoint list does not reach
	// the epoch of the checkpoint being checked.
	ErrNeedSync = errors.New("checkpoint sequence number does not match, need to sync")

	// ErrTransactionNotInCheckpoint is returned when a checkpoint does not
	// hold the transaction asked for.
	ErrTransactionNotInCheckpoint = errors.New("transaction not found in checkpoint contents")

	// ErrEventsDigestMismatch is returned when the events shipped with a
	// transaction do not hash to the events digest of its effects.
	ErrEventsDigestMismatch = errors.New("events digest does not match")

	// ErrObjectNotInEffects is returned when an object is not among the
	// objects changed by its previous transaction.
	ErrObjectNotInEffects = errors.New("object not found in the effects of its previous transaction")
)

// ErrNotEndOfEpoch means a checkpoint of the checkpoint list carries no
// end-of-epoch data, so the next committee can't be derived from it.
type ErrNotEndOfEpoch struct {
	Seq types.CheckpointSequenceNumber
}

func (e ErrNotEndOfEpoch) Error() string {
	return fmt.Sprintf("expected all checkpoints to be end-of-epoch checkpoints, %d is not", e.Seq)
}

// ErrVerificationFailed means a checkpoint could not be verified against
// the committee of its epoch.
type ErrVerificationFailed struct {
	Seq    types.CheckpointSequenceNumber
	Epoch  types.EpochID
	Reason error
}

func (e ErrVerificationFailed) Unwrap() error {
	return e.Reason
}

func (e ErrVerificationFailed) Error() string {
	return fmt.Sprintf("verify checkpoint %d with the committee of epoch %d: %v", e.Seq, e.Epoch, e.Reason)
}
