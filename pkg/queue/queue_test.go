package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queues(t *testing.T) map[string]Queue {
	t.Helper()
	mem := NewMemQueue()
	bq, err := NewBoltQueue(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bq.Close() })
	return map[string]Queue{"memqueue": mem, "boltqueue": bq}
}

func TestEnqueueDrainOrderPreserved(t *testing.T) {
	for name, q := range queues(t) {
		t.Run(name, func(t *testing.T) {
			_, err := q.Enqueue(OpSpawnBody, SpawnBody{ObjID: 1})
			require.NoError(t, err)
			_, err = q.Enqueue(OpRemoveBody, RemoveBody{ObjID: 1})
			require.NoError(t, err)

			cmds, err := q.Drain(0)
			require.NoError(t, err)
			require.Len(t, cmds, 2)
			assert.Equal(t, OpSpawnBody, cmds[0].Op)
			assert.Equal(t, OpRemoveBody, cmds[1].Op)
			assert.Less(t, cmds[0].Seq, cmds[1].Seq)

			var spawn SpawnBody
			require.NoError(t, Decode(cmds[0], &spawn))
			assert.Equal(t, uint64(1), spawn.ObjID)
		})
	}
}

func TestDrainRemovesEntries(t *testing.T) {
	for name, q := range queues(t) {
		t.Run(name, func(t *testing.T) {
			_, err := q.Enqueue(OpRemoveBody, RemoveBody{ObjID: 1})
			require.NoError(t, err)

			first, err := q.Drain(0)
			require.NoError(t, err)
			assert.Len(t, first, 1)

			second, err := q.Drain(0)
			require.NoError(t, err)
			assert.Empty(t, second)
		})
	}
}
