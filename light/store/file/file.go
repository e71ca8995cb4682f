package file

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/iotaledger/iota-trust/config"
	tmos "github.com/iotaledger/iota-trust/libs/os"
	"github.com/iotaledger/iota-trust/light/store"
	"github.com/iotaledger/iota-trust/types"
)

// Store keeps the checkpoint list in checkpoints.yaml and every checkpoint
// in its own file of the checkpoints directory: <seq>.sum for summaries and
// <seq>.chk for full checkpoints. Files are written atomically.
type Store struct {
	cfg *config.LightClientConfig
}

var _ store.Store = (*Store)(nil)

// New returns a Store over the checkpoints directory of cfg, creating the
// directory if needed.
func New(cfg *config.LightClientConfig) (*Store, error) {
	if err := tmos.EnsureDir(cfg.CheckpointsDirPath(), 0700); err != nil {
		return nil, err
	}
	return &Store{cfg: cfg}, nil
}

func (s *Store) CheckpointList() (store.CheckpointList, error) {
	var list store.CheckpointList
	bz, err := os.ReadFile(s.cfg.CheckpointsListFile())
	if errors.Is(err, os.ErrNotExist) {
		return list, store.ErrNoCheckpointList
	}
	if err != nil {
		return list, err
	}
	if err := yaml.Unmarshal(bz, &list); err != nil {
		return list, fmt.Errorf("parsing %s: %w", s.cfg.CheckpointsListFile(), err)
	}
	return list, nil
}

func (s *Store) SaveCheckpointList(list store.CheckpointList) error {
	if list.Checkpoints == nil {
		list.Checkpoints = []uint64{}
	}
	bz, err := yaml.Marshal(list)
	if err != nil {
		return err
	}
	return tmos.WriteFileAtomic(s.cfg.CheckpointsListFile(), bz, 0644)
}

func (s *Store) CheckpointSummary(seq types.CheckpointSequenceNumber) (*types.CertifiedCheckpointSummary, error) {
	summary := new(types.CertifiedCheckpointSummary)
	if err := readFile(s.cfg.CheckpointSummaryFile(seq), summary); err != nil {
		return nil, err
	}
	if summary.SequenceNumber() != seq {
		return nil, fmt.Errorf("summary file of checkpoint %d holds checkpoint %d", seq, summary.SequenceNumber())
	}
	return summary, nil
}

func (s *Store) SaveCheckpointSummary(summary *types.CertifiedCheckpointSummary) error {
	return writeFile(s.cfg.CheckpointSummaryFile(summary.SequenceNumber()), summary)
}

func (s *Store) FullCheckpoint(seq types.CheckpointSequenceNumber) (*types.CheckpointData, error) {
	data := new(types.CheckpointData)
	if err := readFile(s.cfg.FullCheckpointFile(seq, ""), data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) SaveFullCheckpoint(data *types.CheckpointData) error {
	return writeFile(s.cfg.FullCheckpointFile(data.CheckpointSummary.SequenceNumber(), ""), data)
}

func readFile(path string, v interface{}) error {
	bz, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return store.ErrCheckpointNotFound
	}
	if err != nil {
		return err
	}
	if err := types.Unmarshal(bz, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func writeFile(path string, v interface{}) error {
	bz, err := types.Marshal(v)
	if err != nil {
		return err
	}
	return tmos.WriteFileAtomic(path, bz, 0644)
}
