package types

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/iotaledger/iota-trust/crypto/ed25519"
)

// EpochID numbers epochs starting at 0 (genesis).
type EpochID = uint64

// StakeUnit is the unit of voting power.
type StakeUnit = uint64

// AuthorityName is the ed25519 public key of a validator.
type AuthorityName [ed25519.PubKeySize]byte

// AuthorityNameFromPubKey converts a public key into an AuthorityName.
func AuthorityNameFromPubKey(pk ed25519.PubKey) (AuthorityName, error) {
	var name AuthorityName
	if len(pk) != ed25519.PubKeySize {
		return name, fmt.Errorf("invalid public key size %d", len(pk))
	}
	copy(name[:], pk)
	return name, nil
}

func (n AuthorityName) PubKey() ed25519.PubKey {
	return ed25519.PubKey(n[:])
}

func (n AuthorityName) String() string {
	return "k#" + hex.EncodeToString(n[:])
}

// ShortString returns the first few bytes of the name, good enough for
// metric labels and logs.
func (n AuthorityName) ShortString() string {
	return hex.EncodeToString(n[:4])
}

func (n AuthorityName) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// AuthorityVotingPower is one committee member.
type AuthorityVotingPower struct {
	_     struct{}      `cbor:",toarray"`
	Name  AuthorityName `json:"name"`
	Power StakeUnit     `json:"power"`
}

// Committee is the weighted validator set of one epoch. Members are kept
// sorted by name, so a member's index is stable and can be used in signer
// bitmaps.
type Committee struct {
	Epoch        EpochID                `json:"epoch"`
	VotingRights []AuthorityVotingPower `json:"votingRights"`
}

// NewCommittee builds a committee from a name -> power map.
func NewCommittee(epoch EpochID, members map[AuthorityName]StakeUnit) (*Committee, error) {
	rights := make([]AuthorityVotingPower, 0, len(members))
	for name, power := range members {
		rights = append(rights, AuthorityVotingPower{Name: name, Power: power})
	}
	return NewCommitteeFromVotingRights(epoch, rights)
}

// NewCommitteeFromVotingRights builds a committee from a member list, in any
// order.
func NewCommitteeFromVotingRights(epoch EpochID, rights []AuthorityVotingPower) (*Committee, error) {
	sorted := make([]AuthorityVotingPower, len(rights))
	copy(sorted, rights)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].Name[:], sorted[j].Name[:]) < 0
	})

	c := &Committee{Epoch: epoch, VotingRights: sorted}
	if err := c.ValidateBasic(); err != nil {
		return nil, err
	}
	return c, nil
}

// ValidateBasic checks that the committee is non-empty, sorted, free of
// duplicates and has positive voting power.
func (c *Committee) ValidateBasic() error {
	if len(c.VotingRights) == 0 {
		return errors.New("committee has no members")
	}
	for i, m := range c.VotingRights {
		if m.Power == 0 {
			return fmt.Errorf("member %v has zero voting power", m.Name)
		}
		if i > 0 && bytes.Compare(c.VotingRights[i-1].Name[:], m.Name[:]) >= 0 {
			return fmt.Errorf("members are not sorted or contain duplicate %v", m.Name)
		}
	}
	return nil
}

func (c *Committee) Size() int {
	return len(c.VotingRights)
}

func (c *Committee) TotalVotes() StakeUnit {
	var total StakeUnit
	for _, m := range c.VotingRights {
		total += m.Power
	}
	return total
}

// QuorumThreshold is the voting power of 2f+1 members.
func (c *Committee) QuorumThreshold() StakeUnit {
	return 2*c.TotalVotes()/3 + 1
}

// ValidityThreshold is the voting power of f+1 members.
func (c *Committee) ValidityThreshold() StakeUnit {
	return (c.TotalVotes() + 2) / 3
}

// AuthorityIndex returns the position of name in the committee.
func (c *Committee) AuthorityIndex(name AuthorityName) (int, bool) {
	i := sort.Search(len(c.VotingRights), func(i int) bool {
		return bytes.Compare(c.VotingRights[i].Name[:], name[:]) >= 0
	})
	if i < len(c.VotingRights) && c.VotingRights[i].Name == name {
		return i, true
	}
	return 0, false
}

// AuthorityByIndex returns the member at position idx.
func (c *Committee) AuthorityByIndex(idx int) (AuthorityName, bool) {
	if idx < 0 || idx >= len(c.VotingRights) {
		return AuthorityName{}, false
	}
	return c.VotingRights[idx].Name, true
}

// Weight returns the voting power of name, or 0 if it is not a member.
func (c *Committee) Weight(name AuthorityName) StakeUnit {
	if i, ok := c.AuthorityIndex(name); ok {
		return c.VotingRights[i].Power
	}
	return 0
}

func (c *Committee) Names() []AuthorityName {
	names := make([]AuthorityName, len(c.VotingRights))
	for i, m := range c.VotingRights {
		names[i] = m.Name
	}
	return names
}

// Equal reports whether both committees have the same epoch and members.
func (c *Committee) Equal(other *Committee) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.Epoch != other.Epoch || len(c.VotingRights) != len(other.VotingRights) {
		return false
	}
	for i := range c.VotingRights {
		if c.VotingRights[i] != other.VotingRights[i] {
			return false
		}
	}
	return true
}

func (c *Committee) String() string {
	return fmt.Sprintf("Committee{epoch: %d, members: %d, total: %d}", c.Epoch, c.Size(), c.TotalVotes())
}
