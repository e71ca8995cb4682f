package types

// ExecutionStatus reports whether execution succeeded.
type ExecutionStatus struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// GasCostSummary breaks down the gas charged.
type GasCostSummary struct {
	ComputationCost         uint64 `json:"computationCost"`
	StorageCost             uint64 `json:"storageCost"`
	StorageRebate           uint64 `json:"storageRebate"`
	NonRefundableStorageFee uint64 `json:"nonRefundableStorageFee"`
}

// IDOperation records whether an object id was created or deleted.
type IDOperation uint8

const (
	IDOperationNone IDOperation = iota
	IDOperationCreated
	IDOperationDeleted
)

// ObjectInputState is the state of an object before the transaction.
type ObjectInputState struct {
	Version SequenceNumber `json:"version"`
	Digest  ObjectDigest   `json:"digest"`
	Owner   Owner          `json:"owner"`
}

// ObjectOutputState is the state of an object after the transaction. Its
// version is the lamport version of the effects.
type ObjectOutputState struct {
	Digest ObjectDigest `json:"digest"`
	Owner  Owner        `json:"owner"`
}

// ObjectChange is one entry of the changed-object set.
type ObjectChange struct {
	ObjectID    ObjectID           `json:"objectId"`
	InputState  *ObjectInputState  `json:"inputState,omitempty"`
	OutputState *ObjectOutputState `json:"outputState,omitempty"`
	IDOperation IDOperation        `json:"idOperation"`
}

// ExecutionDigests pairs a transaction with its effects. Checkpoint contents
// are a list of these.
type ExecutionDigests struct {
	_           struct{}                 `cbor:",toarray"`
	Transaction TransactionDigest        `json:"transaction"`
	Effects     TransactionEffectsDigest `json:"effects"`
}

// TransactionEffects is the outcome of executing a transaction.
type TransactionEffects struct {
	Status            ExecutionStatus          `json:"status"`
	ExecutedEpoch     EpochID                  `json:"executedEpoch"`
	GasUsed           GasCostSummary           `json:"gasUsed"`
	TransactionDigest TransactionDigest        `json:"transactionDigest"`
	EventsDigest      *TransactionEventsDigest `json:"eventsDigest,omitempty"`
	Dependencies      []TransactionDigest      `json:"dependencies"`
	LamportVersion    SequenceNumber           `json:"lamportVersion"`
	ChangedObjects    []ObjectChange           `json:"changedObjects"`
}

func (e *TransactionEffects) Digest() TransactionEffectsDigest {
	return TransactionEffectsDigest(DigestOf("TransactionEffects", e))
}

func (e *TransactionEffects) Epoch() EpochID {
	return e.ExecutedEpoch
}

func (e *TransactionEffects) ExecutionDigests() ExecutionDigests {
	return ExecutionDigests{
		Transaction: e.TransactionDigest,
		Effects:     e.Digest(),
	}
}

// OldObjectMetadata returns the pre-state references of every object that
// existed before the transaction.
func (e *TransactionEffects) OldObjectMetadata() []ObjectRef {
	refs := make([]ObjectRef, 0, len(e.ChangedObjects))
	for _, c := range e.ChangedObjects {
		if c.InputState == nil {
			continue
		}
		refs = append(refs, ObjectRef{
			ObjectID: c.ObjectID,
			Version:  c.InputState.Version,
			Digest:   c.InputState.Digest,
		})
	}
	return refs
}

// AllChangedObjects returns the post-state references of every created,
// mutated or unwrapped object.
func (e *TransactionEffects) AllChangedObjects() []ObjectRef {
	refs := make([]ObjectRef, 0, len(e.ChangedObjects))
	for _, c := range e.ChangedObjects {
		if c.OutputState == nil {
			continue
		}
		refs = append(refs, ObjectRef{
			ObjectID: c.ObjectID,
			Version:  e.LamportVersion,
			Digest:   c.OutputState.Digest,
		})
	}
	return refs
}

// SignedTransactionEffects are effects signed by the executing validator.
type SignedTransactionEffects struct {
	Data    TransactionEffects `json:"data"`
	AuthSig AuthoritySignInfo  `json:"authSig"`
}

func (e *SignedTransactionEffects) Digest() TransactionEffectsDigest {
	return e.Data.Digest()
}

func (e *SignedTransactionEffects) Epoch() EpochID {
	return e.AuthSig.Epoch
}
