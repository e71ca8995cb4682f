package light

import (
	"context"
	"fmt"

	"github.com/iotaledger/iota-trust/types"
)

// ExtractVerifiedEffectsAndEvents checks checkpoint against committee and
// returns the effects and events of txDigest from it.
//
// The summary signature and the contents digest are verified first. The
// transaction must then be listed in the contents with the digest of the
// effects shipped with it, and its events must hash to the events digest of
// those effects. Events are nil when the transaction emitted none and its
// effects declare no events digest.
func ExtractVerifiedEffectsAndEvents(
	checkpoint *types.CheckpointData,
	committee *types.Committee,
	txDigest types.TransactionDigest,
) (*types.TransactionEffects, *types.TransactionEvents, error) {
	summary := &checkpoint.CheckpointSummary
	if err := summary.VerifyWithContents(committee, &checkpoint.CheckpointContents); err != nil {
		return nil, nil, ErrVerificationFailed{Seq: summary.SequenceNumber(), Epoch: committee.Epoch, Reason: err}
	}

	contents := checkpoint.CheckpointContents.Transactions
	n := len(contents)
	if len(checkpoint.Transactions) < n {
		n = len(checkpoint.Transactions)
	}

	var tx *types.CheckpointTransaction
	for i := 0; i < n; i++ {
		candidate := &checkpoint.Transactions[i]
		if contents[i].Transaction == txDigest && candidate.Effects.ExecutionDigests() == contents[i] {
			tx = candidate
			break
		}
	}
	if tx == nil {
		return nil, nil, fmt.Errorf("%w: %v in checkpoint %d", ErrTransactionNotInCheckpoint, txDigest, summary.SequenceNumber())
	}

	if !eventsMatchDigest(tx.Events, tx.Effects.EventsDigest) {
		return nil, nil, fmt.Errorf("%w: transaction %v", ErrEventsDigestMismatch, txDigest)
	}

	effects := tx.Effects
	var events *types.TransactionEvents
	if tx.Events != nil {
		events = &types.TransactionEvents{}
		if tx.Events.Data != nil {
			events.Data = make([]types.Event, len(tx.Events.Data))
			copy(events.Data, tx.Events.Data)
		}
	}
	return &effects, events, nil
}

// eventsMatchDigest treats missing events and a missing digest alike: both
// must be absent, or the events must hash to the digest.
func eventsMatchDigest(events *types.TransactionEvents, digest *types.TransactionEventsDigest) bool {
	switch {
	case events == nil && digest == nil:
		return true
	case events == nil || digest == nil:
		return false
	default:
		return events.Digest() == *digest
	}
}

// fullCheckpoint reads a full checkpoint from the checkpoint store if one is
// configured, and from the full node otherwise.
func (c *Client) fullCheckpoint(ctx context.Context, seq types.CheckpointSequenceNumber) (*types.CheckpointData, error) {
	if c.checkpoints != nil {
		return c.checkpoints.FullCheckpoint(ctx, seq)
	}
	return c.provider.FullCheckpoint(ctx, seq)
}

// CommitteeFor returns the committee that signs checkpoint seq of epoch: the
// recorded committee of epoch if the client has one, otherwise the next
// committee declared by the latest local end-of-epoch checkpoint before
// seq, or the genesis committee if there is none. ErrNeedSync is returned
// when that committee is not of epoch.
func (c *Client) CommitteeFor(seq types.CheckpointSequenceNumber, epoch types.EpochID) (*types.Committee, error) {
	if c.committees != nil {
		known, err := c.committees.GetCommittee(epoch)
		if err != nil {
			return nil, err
		}
		if known != nil {
			return known, nil
		}
	}

	list, err := c.checkpointList()
	if err != nil {
		return nil, err
	}

	committee := c.genesisCommittee
	if prev, ok := list.Before(seq); ok {
		summary, err := c.store.CheckpointSummary(prev)
		if err != nil {
			return nil, fmt.Errorf("reading end-of-epoch checkpoint %d: %w", prev, err)
		}
		committee, err = summary.Data.NextEpochCommittee()
		if err != nil {
			return nil, fmt.Errorf("checkpoint %d: %w", prev, err)
		}
		if committee == nil {
			return nil, ErrNotEndOfEpoch{Seq: prev}
		}
	}

	if committee.Epoch != epoch {
		return nil, fmt.Errorf("%w: checkpoint %d is of epoch %d, local chain reaches epoch %d",
			ErrNeedSync, seq, epoch, committee.Epoch)
	}
	return committee, nil
}

// GetVerifiedCheckpoint fetches checkpoint seq and verifies its summary and
// contents against the committee of its epoch.
func (c *Client) GetVerifiedCheckpoint(ctx context.Context, seq types.CheckpointSequenceNumber) (*types.CheckpointData, error) {
	checkpoint, err := c.fullCheckpoint(ctx, seq)
	if err != nil {
		return nil, fmt.Errorf("fetching checkpoint %d: %w", seq, err)
	}

	committee, err := c.CommitteeFor(seq, checkpoint.CheckpointSummary.Epoch())
	if err != nil {
		return nil, err
	}

	summary := &checkpoint.CheckpointSummary
	if err := summary.VerifyWithContents(committee, &checkpoint.CheckpointContents); err != nil {
		return nil, ErrVerificationFailed{Seq: seq, Epoch: committee.Epoch, Reason: err}
	}
	if err := checkpoint.ValidateBasic(); err != nil {
		return nil, ErrVerificationFailed{Seq: seq, Epoch: committee.Epoch, Reason: err}
	}
	return checkpoint, nil
}

// GetVerifiedEffectsAndEvents finds the checkpoint of txDigest through the
// full node and returns the verified effects and events of the transaction.
func (c *Client) GetVerifiedEffectsAndEvents(
	ctx context.Context,
	txDigest types.TransactionDigest,
) (*types.TransactionEffects, *types.TransactionEvents, error) {
	seq, err := c.provider.TransactionCheckpoint(ctx, txDigest)
	if err != nil {
		return nil, nil, fmt.Errorf("looking up checkpoint of transaction %v: %w", txDigest, err)
	}

	checkpoint, err := c.fullCheckpoint(ctx, seq)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching checkpoint %d: %w", seq, err)
	}

	committee, err := c.CommitteeFor(seq, checkpoint.CheckpointSummary.Epoch())
	if err != nil {
		return nil, nil, err
	}

	c.logger.Debug("Verifying transaction", "tx", txDigest, "seq", seq, "epoch", committee.Epoch)
	return ExtractVerifiedEffectsAndEvents(checkpoint, committee, txDigest)
}

// GetVerifiedObject fetches an object from the full node and checks that
// its reference is among the objects written by its previous transaction,
// whose effects are verified.
func (c *Client) GetVerifiedObject(ctx context.Context, id types.ObjectID) (*types.Object, error) {
	object, err := c.provider.Object(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching object %v: %w", id, err)
	}

	effects, _, err := c.GetVerifiedEffectsAndEvents(ctx, object.PreviousTransaction)
	if err != nil {
		return nil, err
	}

	ref := object.ComputeObjectReference()
	for _, changed := range effects.AllChangedObjects() {
		if changed == ref {
			return object, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrObjectNotInEffects, ref)
}

// GetVerifiedObjectCheckpoint verifies an object and returns the sequence
// number of the checkpoint holding its previous transaction.
func (c *Client) GetVerifiedObjectCheckpoint(
	ctx context.Context,
	id types.ObjectID,
) (*types.Object, types.CheckpointSequenceNumber, error) {
	object, err := c.GetVerifiedObject(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	seq, err := c.provider.TransactionCheckpoint(ctx, object.PreviousTransaction)
	if err != nil {
		return nil, 0, err
	}

	checkpoint, err := c.GetVerifiedCheckpoint(ctx, seq)
	if err != nil {
		return nil, 0, err
	}
	for _, digests := range checkpoint.CheckpointContents.Transactions {
		if digests.Transaction == object.PreviousTransaction {
			return object, seq, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: %v in checkpoint %d", ErrTransactionNotInCheckpoint, object.PreviousTransaction, seq)
}
