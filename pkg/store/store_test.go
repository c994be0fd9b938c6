package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends runs every contract test below against both implementations,
// the same way the original test suite ran its database contract table
// against both an in-memory and a persistent backend.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	mem, err := NewMemStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mem.Close() })

	bolt, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })

	return map[string]Store{"memstore": mem, "boltstore": bolt}
}

func TestPutIfAbsent(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			res, err := s.Put(CollectionTemplates, []PutOp{
				{AID: "sphere", Data: Doc{"aid": "sphere"}},
			})
			require.NoError(t, err)
			assert.True(t, res["sphere"])

			res, err = s.Put(CollectionTemplates, []PutOp{
				{AID: "sphere", Data: Doc{"aid": "sphere-v2"}},
			})
			require.NoError(t, err)
			assert.False(t, res["sphere"], "re-adding an existing aid must fail that item")

			doc, ok, err := s.GetOne(CollectionTemplates, "sphere", nil)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "sphere", doc["aid"])
		})
	}
}

func TestModPreconditionsAndMutations(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Put(CollectionInstances, []PutOp{
				{AID: "1", Data: Doc{"rbs": Doc{"version": 0.0}}},
			})
			require.NoError(t, err)

			res, err := s.Mod(CollectionInstances, []ModOp{
				{AID: "1", Inc: map[string]float64{"rbs.version": 1}},
			})
			require.NoError(t, err)
			assert.True(t, res["1"].OK)
			assert.Equal(t, 1.0, res["1"].Doc["rbs"].(Doc)["version"], "Mod's result carries the post-mutation document")

			doc, ok, err := s.GetOne(CollectionInstances, "1", nil)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 1.0, doc["rbs"].(Doc)["version"])

			// A failed precondition leaves the document untouched.
			res, err = s.Mod(CollectionInstances, []ModOp{
				{
					AID:    "1",
					Exists: []ExistsCheck{{Path: "rbs.nonexistent", Exists: true}},
					Set:    map[string]interface{}{"rbs.version": 99.0},
				},
			})
			require.NoError(t, err)
			assert.False(t, res["1"].OK)

			doc, _, err = s.GetOne(CollectionInstances, "1", nil)
			require.NoError(t, err)
			assert.Equal(t, 1.0, doc["rbs"].(Doc)["version"], "failed precondition must not mutate")
		})
	}
}

func TestProjectionMissingPathsAreAbsentNotErrors(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Put(CollectionInstances, []PutOp{
				{AID: "1", Data: Doc{"rbs": Doc{"position": []interface{}{0.0, 0.0, 0.0}}}},
			})
			require.NoError(t, err)

			doc, ok, err := s.GetOne(CollectionInstances, "1", []Path{
				{"rbs", "position"},
				{"frag", "foo", "scale"},
			})
			require.NoError(t, err)
			require.True(t, ok)
			assert.Contains(t, doc, "rbs")
			assert.NotContains(t, doc, "frag")
		})
	}
}

func TestGetMultiSkipsUnknownAIDs(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Put(CollectionInstances, []PutOp{
				{AID: "1", Data: Doc{"objID": 1.0}},
			})
			require.NoError(t, err)

			res, err := s.GetMulti(CollectionInstances, []string{"1", "999"}, nil)
			require.NoError(t, err)
			assert.Contains(t, res, "1")
			assert.NotContains(t, res, "999")
		})
	}
}

func TestCountAndReset(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Put(CollectionInstances, []PutOp{
				{AID: "1", Data: Doc{}},
				{AID: "2", Data: Doc{}},
			})
			require.NoError(t, err)

			n, err := s.Count(CollectionInstances)
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			require.NoError(t, s.Reset(CollectionInstances))

			n, err = s.Count(CollectionInstances)
			require.NoError(t, err)
			assert.Equal(t, 0, n)
		})
	}
}
