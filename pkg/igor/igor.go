package igor

import (
	"sync"

	"github.com/azrael-sim/clerk/pkg/types"
)

// Index is the constraint index ("Igor"). It is safe for concurrent
// use; all methods hold the index's own mutex rather than relying on
// pkg/store, since a constraint set is a secondary index over Clerk's
// in-process view, not a document itself.
type Index struct {
	mu          sync.RWMutex
	constraints map[types.ConstraintKey]types.ConstraintMeta
	byBody      map[uint64]map[types.ConstraintKey]struct{}
}

// New returns an empty constraint index.
func New() *Index {
	return &Index{
		constraints: make(map[types.ConstraintKey]types.ConstraintMeta),
		byBody:      make(map[uint64]map[types.ConstraintKey]struct{}),
	}
}

// AddConstraints inserts every constraint not already present (by key)
// and returns the count added, including re-adds of identical
// constraints counted as 1 each per the de-duplication contract.
func (idx *Index) AddConstraints(cs []types.ConstraintMeta) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	added := 0
	for _, c := range cs {
		k := c.Key()
		if _, exists := idx.constraints[k]; !exists {
			idx.constraints[k] = c
			idx.index(k, c)
		}
		added++
	}
	return added
}

func (idx *Index) index(k types.ConstraintKey, c types.ConstraintMeta) {
	for _, body := range []uint64{c.RbA, c.RbB} {
		set, ok := idx.byBody[body]
		if !ok {
			set = make(map[types.ConstraintKey]struct{})
			idx.byBody[body] = set
		}
		set[k] = struct{}{}
	}
}

func (idx *Index) deindex(k types.ConstraintKey, c types.ConstraintMeta) {
	for _, body := range []uint64{c.RbA, c.RbB} {
		if set, ok := idx.byBody[body]; ok {
			delete(set, k)
			if len(set) == 0 {
				delete(idx.byBody, body)
			}
		}
	}
}

// DeleteConstraints removes every listed constraint present in the
// index and returns the count actually deleted.
func (idx *Index) DeleteConstraints(cs []types.ConstraintMeta) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	deleted := 0
	for _, c := range cs {
		k := c.Key()
		if existing, ok := idx.constraints[k]; ok {
			idx.deindex(k, existing)
			delete(idx.constraints, k)
			deleted++
		}
	}
	return deleted
}

// GetConstraints returns every constraint touching any body in
// bodyIDs. A nil bodyIDs means "all constraints".
func (idx *Index) GetConstraints(bodyIDs []uint64) []types.ConstraintMeta {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if bodyIDs == nil {
		out := make([]types.ConstraintMeta, 0, len(idx.constraints))
		for _, c := range idx.constraints {
			out = append(out, c)
		}
		return out
	}

	seen := make(map[types.ConstraintKey]struct{})
	var out []types.ConstraintMeta
	for _, body := range bodyIDs {
		for k := range idx.byBody[body] {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, idx.constraints[k])
		}
	}
	return out
}

// Reset discards every constraint.
func (idx *Index) Reset() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.constraints = make(map[types.ConstraintKey]types.ConstraintMeta)
	idx.byBody = make(map[uint64]map[types.ConstraintKey]struct{})
}
