package store

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func genList() *rapid.Generator {
	return rapid.Custom(func(t *rapid.T) CheckpointList {
		return CheckpointList{
			Checkpoints: rapid.SliceOf(rapid.Uint64Range(0, 64)).Draw(t, "checkpoints").([]uint64),
		}
	})
}

func TestMerge(t *testing.T) {
	merged := Merge(
		CheckpointList{Checkpoints: []uint64{30, 10, 20}},
		CheckpointList{Checkpoints: []uint64{20, 40}},
	)
	assert.Equal(t, []uint64{10, 20, 30, 40}, merged.Checkpoints)

	assert.True(t, Merge(CheckpointList{}, CheckpointList{}).IsEmpty())
}

func TestMergeProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genList().Draw(t, "a").(CheckpointList)
		b := genList().Draw(t, "b").(CheckpointList)

		ab := Merge(a, b)
		ba := Merge(b, a)
		if !assert.Equal(t, ab.Checkpoints, ba.Checkpoints, "merge is not commutative") {
			t.FailNow()
		}
		aba := Merge(ab, a)
		if !assert.Equal(t, ab.Checkpoints, aba.Checkpoints, "merge is not idempotent") {
			t.FailNow()
		}

		// sorted, without duplicates, and containing every input
		if !sort.SliceIsSorted(ab.Checkpoints, func(i, j int) bool { return ab.Checkpoints[i] < ab.Checkpoints[j] }) {
			t.Fatalf("merge result is not sorted: %v", ab.Checkpoints)
		}
		for i := 1; i < ab.Len(); i++ {
			if ab.Checkpoints[i] == ab.Checkpoints[i-1] {
				t.Fatalf("duplicate %d in %v", ab.Checkpoints[i], ab.Checkpoints)
			}
		}
		for _, seq := range append(append([]uint64{}, a.Checkpoints...), b.Checkpoints...) {
			i := sort.Search(ab.Len(), func(i int) bool { return ab.Checkpoints[i] >= seq })
			if i == ab.Len() || ab.Checkpoints[i] != seq {
				t.Fatalf("%d missing from %v", seq, ab.Checkpoints)
			}
		}
	})
}

func TestBefore(t *testing.T) {
	list := CheckpointList{Checkpoints: []uint64{10, 20, 30}}

	testCases := []struct {
		seq    uint64
		want   uint64
		wantOk bool
	}{
		{0, 0, false},
		{10, 0, false},
		{11, 10, true},
		{20, 10, true},
		{25, 20, true},
		{31, 30, true},
	}
	for _, tc := range testCases {
		got, ok := list.Before(tc.seq)
		assert.Equal(t, tc.wantOk, ok, "seq %d", tc.seq)
		assert.Equal(t, tc.want, got, "seq %d", tc.seq)
	}

	_, ok := CheckpointList{}.Before(100)
	assert.False(t, ok)
}
