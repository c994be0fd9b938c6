package igor

import (
	"testing"

	"github.com/azrael-sim/clerk/pkg/types"
	"github.com/stretchr/testify/assert"
)

func p2p(rbA, rbB uint64) types.ConstraintMeta {
	return types.ConstraintMeta{AID: "c1", ConType: types.ConstraintTypeP2P, RbA: rbA, RbB: rbB}
}

func TestAddConstraintsDeduplicates(t *testing.T) {
	idx := New()
	n := idx.AddConstraints([]types.ConstraintMeta{p2p(1, 2)})
	assert.Equal(t, 1, n)

	n = idx.AddConstraints([]types.ConstraintMeta{p2p(1, 2)})
	assert.Equal(t, 1, n, "re-adding an identical constraint is a no-op still counted as 1")
	assert.Len(t, idx.GetConstraints(nil), 1)
}

func TestGetConstraintsByBodySet(t *testing.T) {
	idx := New()
	idx.AddConstraints([]types.ConstraintMeta{p2p(1, 2), p2p(3, 4)})

	got := idx.GetConstraints([]uint64{2})
	assert.Len(t, got, 1)
	assert.Equal(t, uint64(1), got[0].RbA)

	got = idx.GetConstraints([]uint64{2, 4})
	assert.Len(t, got, 2)
}

func TestDeleteConstraintsRemovesFromBothIndexes(t *testing.T) {
	idx := New()
	idx.AddConstraints([]types.ConstraintMeta{p2p(1, 2)})

	n := idx.DeleteConstraints([]types.ConstraintMeta{p2p(1, 2)})
	assert.Equal(t, 1, n)
	assert.Empty(t, idx.GetConstraints(nil))
	assert.Empty(t, idx.GetConstraints([]uint64{1}))
}

func TestDeletingBodyDoesNotDeleteConstraints(t *testing.T) {
	// Removing a body is not Igor's job; this index only deletes
	// what DeleteConstraints is explicitly told to delete.
	idx := New()
	idx.AddConstraints([]types.ConstraintMeta{p2p(1, 2)})
	assert.Len(t, idx.GetConstraints([]uint64{1}), 1)
}
