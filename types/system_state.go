package types

// SystemState is the summary of the on-chain system state object that
// validators serve. It is signed as part of checkpoints, so it is passed
// through without further checks.
type SystemState struct {
	Epoch                 EpochID                `json:"epoch"`
	ProtocolVersion       uint64                 `json:"protocolVersion"`
	SystemStateVersion    uint64                 `json:"systemStateVersion"`
	ReferenceGasPrice     uint64                 `json:"referenceGasPrice"`
	EpochStartTimestampMs uint64                 `json:"epochStartTimestampMs"`
	SafeMode              bool                   `json:"safeMode"`
	ActiveValidators      []AuthorityVotingPower `json:"activeValidators"`
}
