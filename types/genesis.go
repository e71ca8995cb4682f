package types

import (
	"errors"
	"fmt"
	"os"

	tmos "github.com/iotaledger/iota-trust/libs/os"
)

// Genesis is the content of the genesis blob: the chain id, the committee of
// epoch 0 and the genesis checkpoint.
type Genesis struct {
	ChainID    string                      `json:"chainId"`
	Committee  Committee                   `json:"committee"`
	Checkpoint *CertifiedCheckpointSummary `json:"checkpoint,omitempty"`
	Objects    []Object                    `json:"objects,omitempty"`
}

// GenesisFromBytes decodes and validates a genesis blob.
func GenesisFromBytes(bz []byte) (*Genesis, error) {
	var g Genesis
	if err := Unmarshal(bz, &g); err != nil {
		return nil, err
	}
	if err := g.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}
	return &g, nil
}

// LoadGenesis reads a genesis blob from path.
func LoadGenesis(path string) (*Genesis, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read genesis file %v: %w", path, err)
	}
	return GenesisFromBytes(bz)
}

// SaveAs writes the genesis blob to path atomically.
func (g *Genesis) SaveAs(path string) error {
	bz, err := Marshal(g)
	if err != nil {
		return err
	}
	return tmos.WriteFileAtomic(path, bz, 0644)
}

func (g *Genesis) ValidateBasic() error {
	if g.ChainID == "" {
		return errors.New("chain id is empty")
	}
	if g.Committee.Epoch != 0 {
		return fmt.Errorf("genesis committee must be of epoch 0, got %d", g.Committee.Epoch)
	}
	if err := g.Committee.ValidateBasic(); err != nil {
		return fmt.Errorf("genesis committee: %w", err)
	}
	if g.Checkpoint != nil {
		if err := g.Checkpoint.Verify(&g.Committee); err != nil {
			return fmt.Errorf("genesis checkpoint: %w", err)
		}
	}
	return nil
}

// GenesisCommittee returns a copy of the committee of epoch 0.
func (g *Genesis) GenesisCommittee() *Committee {
	c := g.Committee
	c.VotingRights = append([]AuthorityVotingPower(nil), g.Committee.VotingRights...)
	return &c
}
