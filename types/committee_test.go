package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitteeThresholds(t *testing.T) {
	testCases := []struct {
		name     string
		powers   []StakeUnit
		quorum   StakeUnit
		validity StakeUnit
	}{
		{"four equal", []StakeUnit{1, 1, 1, 1}, 3, 2},
		{"ten thousand", []StakeUnit{2500, 2500, 2500, 2500}, 6667, 3334},
		{"single", []StakeUnit{7}, 5, 3},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			members := make(map[AuthorityName]StakeUnit)
			for i, p := range tc.powers {
				var name AuthorityName
				name[0] = byte(i + 1)
				members[name] = p
			}
			c, err := NewCommittee(3, members)
			require.NoError(t, err)
			assert.Equal(t, tc.quorum, c.QuorumThreshold())
			assert.Equal(t, tc.validity, c.ValidityThreshold())
			assert.EqualValues(t, 3, c.Epoch)
		})
	}
}

func TestCommitteeIndexing(t *testing.T) {
	c, keys := MakeCommittee(0, 4)
	require.Equal(t, 4, c.Size())

	for i, k := range keys {
		name := NameOf(k)
		idx, ok := c.AuthorityIndex(name)
		require.True(t, ok)
		require.Equal(t, i, idx)

		byIdx, ok := c.AuthorityByIndex(i)
		require.True(t, ok)
		require.Equal(t, name, byIdx)
		require.EqualValues(t, 1, c.Weight(name))
	}

	var stranger AuthorityName
	_, ok := c.AuthorityIndex(stranger)
	require.False(t, ok)
	require.Zero(t, c.Weight(stranger))

	_, ok = c.AuthorityByIndex(4)
	require.False(t, ok)
}

func TestCommitteeValidateBasic(t *testing.T) {
	_, err := NewCommitteeFromVotingRights(0, nil)
	require.Error(t, err)

	var a, b AuthorityName
	a[0], b[0] = 1, 2
	_, err = NewCommitteeFromVotingRights(0, []AuthorityVotingPower{{Name: a, Power: 1}, {Name: a, Power: 1}})
	require.Error(t, err, "duplicate member")

	_, err = NewCommitteeFromVotingRights(0, []AuthorityVotingPower{{Name: a, Power: 1}, {Name: b, Power: 0}})
	require.Error(t, err, "zero power")

	c, err := NewCommitteeFromVotingRights(0, []AuthorityVotingPower{{Name: b, Power: 1}, {Name: a, Power: 1}})
	require.NoError(t, err)
	require.Equal(t, a, c.VotingRights[0].Name)
}

func TestCommitteeEncodingRoundTrip(t *testing.T) {
	c, _ := MakeCommittee(7, 5)

	bz, err := Marshal(c)
	require.NoError(t, err)

	var decoded Committee
	require.NoError(t, Unmarshal(bz, &decoded))
	require.True(t, c.Equal(&decoded))
	require.NoError(t, decoded.ValidateBasic())
}
