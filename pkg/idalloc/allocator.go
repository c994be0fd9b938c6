package idalloc

import (
	"fmt"

	"github.com/azrael-sim/clerk/pkg/azerr"
	"github.com/azrael-sim/clerk/pkg/store"
)

const counterAID = "objID"

// Allocator issues unique, strictly increasing object IDs. Once an ID
// is returned it is never reissued, even across a Reset of the
// instance collection — only Reset on the allocator itself rewinds
// the counter.
type Allocator struct {
	store store.Store
}

// New wraps a document store as an ID allocator.
func New(s store.Store) *Allocator {
	return &Allocator{store: s}
}

// Allocate reserves n contiguous IDs and returns first, where the
// reserved range is [first+1, first+n]. Allocate(0) returns the
// current counter value and reserves nothing. A negative n is an
// InvalidArgument.
func (a *Allocator) Allocate(n int64) (first int64, err error) {
	if n < 0 {
		return 0, azerr.New(azerr.InvalidArgument, "idalloc: n must be >= 0, got %d", n)
	}

	if err := a.ensureCounter(); err != nil {
		return 0, err
	}

	if n == 0 {
		doc, _, err := a.store.GetOne(store.CollectionCounters, counterAID, nil)
		if err != nil {
			return 0, err
		}
		return int64(doc["value"].(float64)), nil
	}

	res, err := a.store.Mod(store.CollectionCounters, []store.ModOp{
		{AID: counterAID, Inc: map[string]float64{"value": float64(n)}},
	})
	if err != nil {
		return 0, err
	}
	result, applied := res[counterAID]
	if !applied || !result.OK {
		return 0, fmt.Errorf("idalloc: conflict incrementing counter")
	}

	// result.Doc is read inside the same Mod transaction that applied
	// the increment, so two overlapping Allocate calls can never both
	// observe the same post-value — a separate GetOne here would race.
	post := int64(result.Doc["value"].(float64))
	return post - n, nil
}

// Reset zeroes the counter; subsequent IDs begin at 1.
func (a *Allocator) Reset() error {
	return a.store.Reset(store.CollectionCounters)
}

func (a *Allocator) ensureCounter() error {
	_, ok, err := a.store.GetOne(store.CollectionCounters, counterAID, nil)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	_, err = a.store.Put(store.CollectionCounters, []store.PutOp{
		{AID: counterAID, Data: store.Doc{"value": 0.0}},
	})
	return err
}
