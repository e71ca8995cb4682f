package types

import (
	"errors"
	"fmt"
)

var (
	// ErrValidatorHaltedAtEpochEnd is returned by a validator that stopped
	// accepting transactions because its epoch is closing.
	ErrValidatorHaltedAtEpochEnd = errors.New("validator halted at epoch end")

	// ErrInvalidSignature means at least one signature failed to verify.
	ErrInvalidSignature = errors.New("invalid signature")
)

// ErrByzantineAuthoritySuspicion means a validator returned a response that
// an honest validator could not have produced.
type ErrByzantineAuthoritySuspicion struct {
	Authority AuthorityName
	Reason    string
}

func (e ErrByzantineAuthoritySuspicion) Error() string {
	return fmt.Sprintf("byzantine authority suspicion (authority %v): %s", e.Authority.ShortString(), e.Reason)
}

// ErrMissingCommitteeAtEpoch means the committee of an epoch is unknown
// locally.
type ErrMissingCommitteeAtEpoch struct {
	Epoch EpochID
}

func (e ErrMissingCommitteeAtEpoch) Error() string {
	return fmt.Sprintf("missing committee information for epoch %d", e.Epoch)
}

// ErrWrongEpoch means a signature or committee belongs to another epoch.
type ErrWrongEpoch struct {
	Expected EpochID
	Actual   EpochID
}

func (e ErrWrongEpoch) Error() string {
	return fmt.Sprintf("wrong epoch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrFailedToVerifyTxCertWithExecutedEffects means a validator reported a
// transaction as executed without a certificate that could be verified.
type ErrFailedToVerifyTxCertWithExecutedEffects struct {
	ValidatorName AuthorityName
	Err           error
}

func (e ErrFailedToVerifyTxCertWithExecutedEffects) Error() string {
	return fmt.Sprintf("validator %v responded with executed effects but the certificate could not be verified: %v",
		e.ValidatorName.ShortString(), e.Err)
}

func (e ErrFailedToVerifyTxCertWithExecutedEffects) Unwrap() error {
	return e.Err
}

// ErrNotEnoughVotingPowerSigned is returned when not enough validators signed.
type ErrNotEnoughVotingPowerSigned struct {
	Got    StakeUnit
	Needed StakeUnit
}

func (e ErrNotEnoughVotingPowerSigned) Error() string {
	return fmt.Sprintf("invalid commit -- insufficient voting power: got %d, needed at least %d", e.Got, e.Needed)
}

// ErrTransactionNotFound is returned when a transaction (or its effects) is
// unknown.
type ErrTransactionNotFound struct {
	Digest TransactionDigest
}

func (e ErrTransactionNotFound) Error() string {
	return fmt.Sprintf("could not find the referenced transaction %v", e.Digest)
}

// ErrVerifiedCheckpointNotFound is returned when a checkpoint sequence number
// is unknown.
type ErrVerifiedCheckpointNotFound struct {
	Seq CheckpointSequenceNumber
}

func (e ErrVerifiedCheckpointNotFound) Error() string {
	return fmt.Sprintf("verified checkpoint not found for sequence number: %d", e.Seq)
}

// ErrVerifiedCheckpointDigestNotFound is returned when a checkpoint digest is
// unknown.
type ErrVerifiedCheckpointDigestNotFound struct {
	Digest CheckpointDigest
}

func (e ErrVerifiedCheckpointDigestNotFound) Error() string {
	return fmt.Sprintf("verified checkpoint not found for digest: %v", e.Digest)
}

// IndividualErrorIndicatesEpochChange reports whether err is what an honest
// validator returns while the caller's view of the epoch is behind or ahead
// of the validator's.
func IndividualErrorIndicatesEpochChange(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrValidatorHaltedAtEpochEnd) {
		return true
	}
	var missing ErrMissingCommitteeAtEpoch
	return errors.As(err, &missing)
}

// IsNotFound reports whether err is one of the not-found errors above.
func IsNotFound(err error) bool {
	var (
		tx  ErrTransactionNotFound
		seq ErrVerifiedCheckpointNotFound
		dg  ErrVerifiedCheckpointDigestNotFound
	)
	return errors.As(err, &tx) || errors.As(err, &seq) || errors.As(err, &dg)
}
