package ha

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/azrael-sim/clerk/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bootstrapSingleNode(t *testing.T) (*Node, store.Store) {
	t.Helper()
	s, err := store.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	fsm := NewClerkFSM(s)

	n, err := NewNode(Config{
		NodeID:   "clerk-1",
		BindAddr: "127.0.0.1:0",
		DataDir:  t.TempDir(),
	}, fsm)
	require.NoError(t, err)
	require.NoError(t, n.Bootstrap())

	require.Eventually(t, n.IsLeader, 3*time.Second, 10*time.Millisecond)
	return n, s
}

func TestBootstrapBecomesLeader(t *testing.T) {
	n, s := bootstrapSingleNode(t)
	defer func() {
		_ = n.Shutdown()
		_ = s.Close()
	}()

	assert.True(t, n.IsLeader())
	assert.Equal(t, 1, n.PeerCount())
}

func TestProposePutReplicatesToStore(t *testing.T) {
	n, s := bootstrapSingleNode(t)
	defer func() {
		_ = n.Shutdown()
		_ = s.Close()
	}()

	cmd := Command{
		Op:         OpPut,
		Collection: store.CollectionTemplates,
		Data:       mustJSON(t, []store.PutOp{{AID: "demo", Data: store.Doc{"aid": "demo"}}}),
	}
	_, err := n.Propose(cmd)
	require.NoError(t, err)

	doc, ok, err := s.GetOne(store.CollectionTemplates, "demo", nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "demo", doc["aid"])
}

func TestProposeRejectedWhenNotLeader(t *testing.T) {
	s, err := store.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()
	fsm := NewClerkFSM(s)
	n, err := NewNode(Config{NodeID: "clerk-1", BindAddr: "127.0.0.1:0", DataDir: t.TempDir()}, fsm)
	require.NoError(t, err)

	_, err = n.Propose(Command{Op: OpReset, Collection: store.CollectionTemplates})
	assert.Error(t, err)
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
