package commands

import (
	"fmt"
	"strconv"

	"github.com/iotaledger/iota-trust/types"
)

func parseSequenceNumber(s string) (types.CheckpointSequenceNumber, error) {
	seq, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid checkpoint sequence number %q: %w", s, err)
	}
	return seq, nil
}
