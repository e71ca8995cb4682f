package types

import (
	"errors"
	"fmt"
)

// CheckpointSequenceNumber numbers checkpoints from 0.
type CheckpointSequenceNumber = uint64

// EndOfEpochData is only present on the last checkpoint of an epoch.
type EndOfEpochData struct {
	// NextEpochCommittee is the committee that signs the checkpoints of the
	// following epoch.
	NextEpochCommittee       []AuthorityVotingPower `json:"nextEpochCommittee"`
	NextEpochProtocolVersion uint64                 `json:"nextEpochProtocolVersion"`
	EpochCommitments         [][]byte               `json:"epochCommitments"`
}

// CheckpointSummary is the signed header of a checkpoint.
type CheckpointSummary struct {
	Epoch                      EpochID                  `json:"epoch"`
	SequenceNumber             CheckpointSequenceNumber `json:"sequenceNumber"`
	NetworkTotalTransactions   uint64                   `json:"networkTotalTransactions"`
	ContentDigest              CheckpointContentsDigest `json:"contentDigest"`
	PreviousDigest             *CheckpointDigest        `json:"previousDigest,omitempty"`
	EpochRollingGasCostSummary GasCostSummary           `json:"epochRollingGasCostSummary"`
	TimestampMs                uint64                   `json:"timestampMs"`
	EndOfEpochData             *EndOfEpochData          `json:"endOfEpochData,omitempty"`
	VersionSpecificData        []byte                   `json:"versionSpecificData,omitempty"`
}

func (s *CheckpointSummary) Digest() CheckpointDigest {
	return CheckpointDigest(DigestOf("CheckpointSummary", s))
}

func (s *CheckpointSummary) IsEndOfEpoch() bool {
	return s.EndOfEpochData != nil
}

// NextEpochCommittee returns the committee declared for epoch+1, or nil if
// this is not an end-of-epoch checkpoint.
func (s *CheckpointSummary) NextEpochCommittee() (*Committee, error) {
	if s.EndOfEpochData == nil {
		return nil, nil
	}
	return NewCommitteeFromVotingRights(s.Epoch+1, s.EndOfEpochData.NextEpochCommittee)
}

// CertifiedCheckpointSummary is a summary signed by a quorum of its epoch's
// committee.
type CertifiedCheckpointSummary struct {
	Data    CheckpointSummary       `json:"data"`
	AuthSig AuthorityQuorumSignInfo `json:"authSig"`
}

func (c *CertifiedCheckpointSummary) Digest() CheckpointDigest {
	return c.Data.Digest()
}

func (c *CertifiedCheckpointSummary) SequenceNumber() CheckpointSequenceNumber {
	return c.Data.SequenceNumber
}

func (c *CertifiedCheckpointSummary) Epoch() EpochID {
	return c.Data.Epoch
}

// Verify checks the quorum signature against committee.
func (c *CertifiedCheckpointSummary) Verify(committee *Committee) error {
	if c.AuthSig.Epoch != c.Data.Epoch {
		return ErrWrongEpoch{Expected: c.Data.Epoch, Actual: c.AuthSig.Epoch}
	}
	if err := c.AuthSig.VerifySecure(IntentScopeCheckpointSummary, Digest(c.Digest()), committee); err != nil {
		return fmt.Errorf("checkpoint %d: %w", c.Data.SequenceNumber, err)
	}
	return nil
}

// VerifyWithContents checks the signature and, when contents is not nil,
// that contents hash to the declared content digest.
func (c *CertifiedCheckpointSummary) VerifyWithContents(committee *Committee, contents *CheckpointContents) error {
	if err := c.Verify(committee); err != nil {
		return err
	}
	if contents == nil {
		return nil
	}
	if got := contents.Digest(); got != c.Data.ContentDigest {
		return fmt.Errorf("checkpoint %d: content digest mismatch: expected %v, got %v",
			c.Data.SequenceNumber, c.Data.ContentDigest, got)
	}
	return nil
}

// TryIntoVerified verifies the summary and returns it as a
// VerifiedCheckpoint.
func (c CertifiedCheckpointSummary) TryIntoVerified(committee *Committee) (*VerifiedCheckpoint, error) {
	if err := c.Verify(committee); err != nil {
		return nil, err
	}
	return &VerifiedCheckpoint{CertifiedCheckpointSummary: c}, nil
}

// VerifiedCheckpoint is a CertifiedCheckpointSummary whose signature has been
// checked. Only TryIntoVerified creates one.
type VerifiedCheckpoint struct {
	CertifiedCheckpointSummary
}

// CheckpointContents lists the transactions of a checkpoint in execution
// order.
type CheckpointContents struct {
	Transactions   []ExecutionDigests `json:"transactions"`
	UserSignatures [][][]byte         `json:"userSignatures"`
}

func (c *CheckpointContents) Digest() CheckpointContentsDigest {
	return CheckpointContentsDigest(DigestOf("CheckpointContents", c))
}

func (c *CheckpointContents) Size() int {
	return len(c.Transactions)
}

// CheckpointTransaction is one executed transaction of a full checkpoint.
type CheckpointTransaction struct {
	Transaction   Transaction        `json:"transaction"`
	Effects       TransactionEffects `json:"effects"`
	Events        *TransactionEvents `json:"events,omitempty"`
	InputObjects  []Object           `json:"inputObjects"`
	OutputObjects []Object           `json:"outputObjects"`
}

// CheckpointData is a full checkpoint: summary, contents and the executed
// transactions in the order of the contents.
type CheckpointData struct {
	CheckpointSummary  CertifiedCheckpointSummary `json:"checkpointSummary"`
	CheckpointContents CheckpointContents         `json:"checkpointContents"`
	Transactions       []CheckpointTransaction    `json:"transactions"`
}

// ValidateBasic checks the shape of the checkpoint without verifying any
// signature.
func (d *CheckpointData) ValidateBasic() error {
	if len(d.Transactions) != d.CheckpointContents.Size() {
		return fmt.Errorf("checkpoint has %d transactions but contents list %d",
			len(d.Transactions), d.CheckpointContents.Size())
	}
	if d.CheckpointContents.Digest() != d.CheckpointSummary.Data.ContentDigest {
		return errors.New("contents do not match the summary content digest")
	}
	return nil
}
