package types

import (
	"errors"
	"fmt"

	"github.com/prysmaticlabs/go-bitfield"

	"github.com/iotaledger/iota-trust/crypto/ed25519"
)

// IntentScope separates the signing domains of the different signed
// messages.
type IntentScope uint8

const (
	IntentScopeSenderSignedTransaction IntentScope = iota
	IntentScopeTransactionEffects
	IntentScopeCheckpointSummary
)

type signedMessage struct {
	_      struct{} `cbor:",toarray"`
	Scope  IntentScope
	Epoch  EpochID
	Digest Digest
}

// SignBytes returns the bytes a validator signs to vouch for digest in
// epoch.
func SignBytes(scope IntentScope, epoch EpochID, digest Digest) []byte {
	return MustMarshal(signedMessage{Scope: scope, Epoch: epoch, Digest: digest})
}

// AuthoritySignInfo is a single validator's signature.
type AuthoritySignInfo struct {
	Epoch     EpochID       `json:"epoch"`
	Authority AuthorityName `json:"authority"`
	Signature []byte        `json:"signature"`
}

// NewAuthoritySignInfo signs digest in scope and epoch with key.
func NewAuthoritySignInfo(scope IntentScope, epoch EpochID, digest Digest, key ed25519.PrivKey) (AuthoritySignInfo, error) {
	pk, ok := key.PubKey().(ed25519.PubKey)
	if !ok {
		return AuthoritySignInfo{}, errors.New("unexpected public key type")
	}
	name, err := AuthorityNameFromPubKey(pk)
	if err != nil {
		return AuthoritySignInfo{}, err
	}
	sig, err := key.Sign(SignBytes(scope, epoch, digest))
	if err != nil {
		return AuthoritySignInfo{}, err
	}
	return AuthoritySignInfo{Epoch: epoch, Authority: name, Signature: sig}, nil
}

// Verify checks the signature against the committee of its epoch.
func (s AuthoritySignInfo) Verify(scope IntentScope, digest Digest, committee *Committee) error {
	if s.Epoch != committee.Epoch {
		return ErrWrongEpoch{Expected: committee.Epoch, Actual: s.Epoch}
	}
	if committee.Weight(s.Authority) == 0 {
		return fmt.Errorf("unknown signer %v", s.Authority.ShortString())
	}
	if !s.Authority.PubKey().VerifySignature(SignBytes(scope, s.Epoch, digest), s.Signature) {
		return fmt.Errorf("%w from %v", ErrInvalidSignature, s.Authority.ShortString())
	}
	return nil
}

// AuthorityQuorumSignInfo carries the signatures of a quorum. SignersMap
// marks which committee members (by index) signed, and Signatures holds their
// signatures in index order.
type AuthorityQuorumSignInfo struct {
	Epoch      EpochID          `json:"epoch"`
	SignersMap bitfield.Bitlist `json:"signersMap"`
	Signatures [][]byte         `json:"signatures"`
}

// NewAuthorityQuorumSignInfo aggregates individual signatures. It does not
// check that they form a quorum; VerifySecure does.
func NewAuthorityQuorumSignInfo(committee *Committee, sigs []AuthoritySignInfo) (AuthorityQuorumSignInfo, error) {
	bySigner := make(map[int][]byte, len(sigs))
	for _, s := range sigs {
		if s.Epoch != committee.Epoch {
			return AuthorityQuorumSignInfo{}, ErrWrongEpoch{Expected: committee.Epoch, Actual: s.Epoch}
		}
		idx, ok := committee.AuthorityIndex(s.Authority)
		if !ok {
			return AuthorityQuorumSignInfo{}, fmt.Errorf("unknown signer %v", s.Authority.ShortString())
		}
		if _, dup := bySigner[idx]; dup {
			return AuthorityQuorumSignInfo{}, fmt.Errorf("duplicate signer %v", s.Authority.ShortString())
		}
		bySigner[idx] = s.Signature
	}

	signers := bitfield.NewBitlist(uint64(committee.Size()))
	signatures := make([][]byte, 0, len(sigs))
	for idx := 0; idx < committee.Size(); idx++ {
		sig, ok := bySigner[idx]
		if !ok {
			continue
		}
		signers.SetBitAt(uint64(idx), true)
		signatures = append(signatures, sig)
	}

	return AuthorityQuorumSignInfo{
		Epoch:      committee.Epoch,
		SignersMap: signers,
		Signatures: signatures,
	}, nil
}

// Signers returns the names of the members that signed.
func (q AuthorityQuorumSignInfo) Signers(committee *Committee) ([]AuthorityName, error) {
	if len(q.SignersMap) == 0 || q.SignersMap.Len() != uint64(committee.Size()) {
		return nil, fmt.Errorf("signers map does not match committee of size %d", committee.Size())
	}
	names := make([]AuthorityName, 0, len(q.Signatures))
	for idx := 0; idx < committee.Size(); idx++ {
		if q.SignersMap.BitAt(uint64(idx)) {
			name, _ := committee.AuthorityByIndex(idx)
			names = append(names, name)
		}
	}
	return names, nil
}

// VerifySecure checks that a quorum (2f+1 by voting power) of committee
// signed digest in scope.
func (q AuthorityQuorumSignInfo) VerifySecure(scope IntentScope, digest Digest, committee *Committee) error {
	if q.Epoch != committee.Epoch {
		return ErrWrongEpoch{Expected: committee.Epoch, Actual: q.Epoch}
	}

	signers, err := q.Signers(committee)
	if err != nil {
		return err
	}
	if len(signers) != len(q.Signatures) {
		return fmt.Errorf("signers map has %d signers but %d signatures were given",
			len(signers), len(q.Signatures))
	}

	var (
		msg       = SignBytes(scope, q.Epoch, digest)
		bv        = ed25519.NewBatchVerifier()
		tallied   StakeUnit
		threshold = committee.QuorumThreshold()
	)
	for i, name := range signers {
		if err := bv.Add(name.PubKey(), msg, q.Signatures[i]); err != nil {
			return fmt.Errorf("%w from %v: %v", ErrInvalidSignature, name.ShortString(), err)
		}
		tallied += committee.Weight(name)
	}

	if tallied < threshold {
		return ErrNotEnoughVotingPowerSigned{Got: tallied, Needed: threshold}
	}

	if ok, valid := bv.Verify(); !ok {
		for i, v := range valid {
			if !v {
				return fmt.Errorf("%w from %v", ErrInvalidSignature, signers[i].ShortString())
			}
		}
		return ErrInvalidSignature
	}

	return nil
}
