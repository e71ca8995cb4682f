package types

import (
	"crypto/rand"
	"fmt"
	"sort"

	"github.com/iotaledger/iota-trust/crypto/ed25519"
)

// MakeCommittee returns a committee of n members with equal voting power and
// their keys, in committee order. Keys are derived from epoch and index, so
// the same arguments always give the same committee.
func MakeCommittee(epoch EpochID, n int) (*Committee, []ed25519.PrivKey) {
	keys := make([]ed25519.PrivKey, n)
	for i := range keys {
		keys[i] = ed25519.GenPrivKeyFromSecret([]byte(fmt.Sprintf("validator-%d-%d", epoch, i)))
	}
	return MakeCommitteeWithKeys(epoch, keys)
}

// MakeCommitteeWithKeys returns a committee with one member per key, each
// with voting power 1, and the keys sorted in committee order.
func MakeCommitteeWithKeys(epoch EpochID, keys []ed25519.PrivKey) (*Committee, []ed25519.PrivKey) {
	sorted := append([]ed25519.PrivKey(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool {
		return string(sorted[i].PubKey().Bytes()) < string(sorted[j].PubKey().Bytes())
	})

	rights := make([]AuthorityVotingPower, len(sorted))
	for i, k := range sorted {
		name, err := AuthorityNameFromPubKey(k.PubKey().(ed25519.PubKey))
		if err != nil {
			panic(err)
		}
		rights[i] = AuthorityVotingPower{Name: name, Power: 1}
	}

	committee, err := NewCommitteeFromVotingRights(epoch, rights)
	if err != nil {
		panic(err)
	}
	return committee, sorted
}

// NameOf returns the AuthorityName of key.
func NameOf(key ed25519.PrivKey) AuthorityName {
	name, err := AuthorityNameFromPubKey(key.PubKey().(ed25519.PubKey))
	if err != nil {
		panic(err)
	}
	return name
}

func signQuorum(
	scope IntentScope,
	digest Digest,
	committee *Committee,
	keys []ed25519.PrivKey,
) (AuthorityQuorumSignInfo, error) {
	sigs := make([]AuthoritySignInfo, 0, len(keys))
	for _, k := range keys {
		sig, err := NewAuthoritySignInfo(scope, committee.Epoch, digest, k)
		if err != nil {
			return AuthorityQuorumSignInfo{}, err
		}
		sigs = append(sigs, sig)
	}
	return NewAuthorityQuorumSignInfo(committee, sigs)
}

// SignCheckpointSummary certifies summary with every key.
func SignCheckpointSummary(
	summary CheckpointSummary,
	committee *Committee,
	keys []ed25519.PrivKey,
) (CertifiedCheckpointSummary, error) {
	authSig, err := signQuorum(IntentScopeCheckpointSummary, Digest(summary.Digest()), committee, keys)
	if err != nil {
		return CertifiedCheckpointSummary{}, err
	}
	return CertifiedCheckpointSummary{Data: summary, AuthSig: authSig}, nil
}

// CertifyTransaction certifies tx with every key.
func CertifyTransaction(tx Transaction, committee *Committee, keys []ed25519.PrivKey) (CertifiedTransaction, error) {
	authSig, err := signQuorum(IntentScopeSenderSignedTransaction, Digest(tx.Digest()), committee, keys)
	if err != nil {
		return CertifiedTransaction{}, err
	}
	return CertifiedTransaction{Data: tx, AuthSig: authSig}, nil
}

// SignTransaction signs tx as a single validator.
func SignTransaction(tx Transaction, epoch EpochID, key ed25519.PrivKey) (SignedTransaction, error) {
	sig, err := NewAuthoritySignInfo(IntentScopeSenderSignedTransaction, epoch, Digest(tx.Digest()), key)
	if err != nil {
		return SignedTransaction{}, err
	}
	return SignedTransaction{Data: tx, AuthSig: sig}, nil
}

// SignEffects signs effects as a single validator.
func SignEffects(effects TransactionEffects, epoch EpochID, key ed25519.PrivKey) (SignedTransactionEffects, error) {
	sig, err := NewAuthoritySignInfo(IntentScopeTransactionEffects, epoch, Digest(effects.Digest()), key)
	if err != nil {
		return SignedTransactionEffects{}, err
	}
	return SignedTransactionEffects{Data: effects, AuthSig: sig}, nil
}

func randomBytes(n int) []byte {
	bz := make([]byte, n)
	if _, err := rand.Read(bz); err != nil {
		panic(err)
	}
	return bz
}

func RandomTransactionDigest() TransactionDigest {
	return TransactionDigest(RandomDigest())
}

func RandomAddress() IotaAddress {
	var a IotaAddress
	copy(a[:], randomBytes(ObjectIDLength))
	return a
}

// RandomEvent returns an event with random contents.
func RandomEvent() Event {
	return Event{
		PackageID:         RandomObjectID(),
		TransactionModule: "test",
		Sender:            RandomAddress(),
		Type:              "0x2::test::Event",
		Contents:          randomBytes(16),
	}
}

// RandomObject returns an address-owned object at version.
func RandomObject(version SequenceNumber) Object {
	return Object{
		Data: MoveObject{
			ID:       RandomObjectID(),
			Type:     "0x2::coin::Coin<0x2::iota::IOTA>",
			Version:  version,
			Contents: randomBytes(32),
		},
		Owner:               Owner{Kind: OwnerAddress, Address: RandomAddress()},
		PreviousTransaction: RandomTransactionDigest(),
	}
}

// RandomTransaction returns a transaction with a random sender and payload.
func RandomTransaction() Transaction {
	return Transaction{
		Data: TransactionData{
			Sender:    RandomAddress(),
			GasBudget: 1_000_000,
			GasPrice:  1000,
			Payload:   randomBytes(32),
		},
		TxSignatures: [][]byte{randomBytes(64)},
	}
}

// MakeCheckpointTransaction returns an executed transaction in epoch that
// mutates one object, creates another and emits numEvents events. With
// numEvents < 0 the transaction has no events and its effects no events
// digest.
func MakeCheckpointTransaction(epoch EpochID, numEvents int) CheckpointTransaction {
	tx := RandomTransaction()
	txDigest := tx.Digest()

	input := RandomObject(1)
	lamport := input.Version() + 1

	mutated := input
	mutated.Data.Version = lamport
	mutated.Data.Contents = randomBytes(32)
	mutated.PreviousTransaction = txDigest

	created := RandomObject(lamport)
	created.PreviousTransaction = txDigest

	effects := TransactionEffects{
		Status:            ExecutionStatus{Success: true},
		ExecutedEpoch:     epoch,
		TransactionDigest: txDigest,
		LamportVersion:    lamport,
		ChangedObjects: []ObjectChange{
			{
				ObjectID: input.ID(),
				InputState: &ObjectInputState{
					Version: input.Version(),
					Digest:  input.Digest(),
					Owner:   input.Owner,
				},
				OutputState: &ObjectOutputState{Digest: mutated.Digest(), Owner: mutated.Owner},
			},
			{
				ObjectID:    created.ID(),
				OutputState: &ObjectOutputState{Digest: created.Digest(), Owner: created.Owner},
				IDOperation: IDOperationCreated,
			},
		},
	}

	var events *TransactionEvents
	if numEvents >= 0 {
		events = &TransactionEvents{Data: make([]Event, 0, numEvents)}
		for i := 0; i < numEvents; i++ {
			events.Data = append(events.Data, RandomEvent())
		}
		d := events.Digest()
		effects.EventsDigest = &d
	}

	return CheckpointTransaction{
		Transaction:   tx,
		Effects:       effects,
		Events:        events,
		InputObjects:  []Object{input},
		OutputObjects: []Object{mutated, created},
	}
}

// MakeCheckpointData builds a full checkpoint of numTxs transactions signed
// by committee. When next is not nil the checkpoint is the last one of its
// epoch and declares next as the following committee.
func MakeCheckpointData(
	committee *Committee,
	keys []ed25519.PrivKey,
	seq CheckpointSequenceNumber,
	numTxs int,
	next *Committee,
) (*CheckpointData, error) {
	data := &CheckpointData{}
	for i := 0; i < numTxs; i++ {
		tx := MakeCheckpointTransaction(committee.Epoch, i%3)
		data.Transactions = append(data.Transactions, tx)
		data.CheckpointContents.Transactions = append(data.CheckpointContents.Transactions, tx.Effects.ExecutionDigests())
	}

	summary := CheckpointSummary{
		Epoch:                    committee.Epoch,
		SequenceNumber:           seq,
		NetworkTotalTransactions: seq + uint64(numTxs),
		ContentDigest:            data.CheckpointContents.Digest(),
		TimestampMs:              1_700_000_000_000 + seq,
	}
	if next != nil {
		summary.EndOfEpochData = &EndOfEpochData{
			NextEpochCommittee:       next.VotingRights,
			NextEpochProtocolVersion: 1,
		}
	}

	certified, err := SignCheckpointSummary(summary, committee, keys)
	if err != nil {
		return nil, err
	}
	data.CheckpointSummary = certified
	return data, nil
}
