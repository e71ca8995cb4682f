package store

import (
	"errors"
	"sort"

	"github.com/iotaledger/iota-trust/types"
)

var (
	// ErrCheckpointNotFound is returned when no summary or full checkpoint
	// is stored for a sequence number.
	ErrCheckpointNotFound = errors.New("checkpoint not found")
	// ErrNoCheckpointList is returned when the checkpoint list has never
	// been written.
	ErrNoCheckpointList = errors.New("no checkpoint list")
)

// CheckpointList holds the sequence numbers of the last checkpoint of every
// epoch, sorted and without duplicates.
type CheckpointList struct {
	Checkpoints []uint64 `yaml:"checkpoints"`
}

func (l CheckpointList) Len() int {
	return len(l.Checkpoints)
}

func (l CheckpointList) IsEmpty() bool {
	return len(l.Checkpoints) == 0
}

// Before returns the greatest entry strictly below seq.
func (l CheckpointList) Before(seq uint64) (uint64, bool) {
	i := sort.Search(len(l.Checkpoints), func(i int) bool { return l.Checkpoints[i] >= seq })
	if i == 0 {
		return 0, false
	}
	return l.Checkpoints[i-1], true
}

// Merge returns the sorted union of a and b.
func Merge(a, b CheckpointList) CheckpointList {
	seen := make(map[uint64]struct{}, a.Len()+b.Len())
	merged := make([]uint64, 0, a.Len()+b.Len())
	for _, list := range [][]uint64{a.Checkpoints, b.Checkpoints} {
		for _, seq := range list {
			if _, ok := seen[seq]; ok {
				continue
			}
			seen[seq] = struct{}{}
			merged = append(merged, seq)
		}
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i] < merged[j] })
	return CheckpointList{Checkpoints: merged}
}

// Store persists the checkpoint list and the checkpoints it names.
type Store interface {
	// CheckpointList returns the stored list, or ErrNoCheckpointList.
	CheckpointList() (CheckpointList, error)
	// SaveCheckpointList replaces the stored list.
	SaveCheckpointList(CheckpointList) error

	// CheckpointSummary returns the summary of checkpoint seq, or
	// ErrCheckpointNotFound. A stored summary that can't be decoded is an
	// error of its own.
	CheckpointSummary(seq types.CheckpointSequenceNumber) (*types.CertifiedCheckpointSummary, error)
	// SaveCheckpointSummary stores a summary under its sequence number.
	SaveCheckpointSummary(*types.CertifiedCheckpointSummary) error

	// FullCheckpoint returns the full checkpoint seq, or
	// ErrCheckpointNotFound.
	FullCheckpoint(seq types.CheckpointSequenceNumber) (*types.CheckpointData, error)
	// SaveFullCheckpoint stores a full checkpoint under its sequence number.
	SaveFullCheckpoint(*types.CheckpointData) error
}
