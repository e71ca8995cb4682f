package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEffectsObjectSets(t *testing.T) {
	tx := MakeCheckpointTransaction(0, 1)

	old := tx.Effects.OldObjectMetadata()
	require.Len(t, old, 1)
	require.Equal(t, tx.InputObjects[0].ComputeObjectReference(), old[0])

	changed := tx.Effects.AllChangedObjects()
	require.Len(t, changed, 2)
	for i, o := range tx.OutputObjects {
		require.Equal(t, o.ComputeObjectReference(), changed[i])
	}
}

func TestEffectsEventsDigest(t *testing.T) {
	withEvents := MakeCheckpointTransaction(0, 2)
	require.NotNil(t, withEvents.Effects.EventsDigest)
	require.Equal(t, withEvents.Events.Digest(), *withEvents.Effects.EventsDigest)

	withoutEvents := MakeCheckpointTransaction(0, -1)
	require.Nil(t, withoutEvents.Effects.EventsDigest)
	require.True(t, withoutEvents.Events.IsEmpty())
}

func TestExecutionDigests(t *testing.T) {
	tx := MakeCheckpointTransaction(0, 0)
	ed := tx.Effects.ExecutionDigests()
	require.Equal(t, tx.Transaction.Digest(), ed.Transaction)
	require.Equal(t, tx.Effects.Digest(), ed.Effects)
}
