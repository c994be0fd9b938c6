package store

import (
	"fmt"
	"strings"
)

// Well-known collection names.
const (
	CollectionTemplates = "templates"
	CollectionInstances = "instances"
	CollectionCounters  = "counters"
)

// Doc is a generic document: a JSON-shaped tree of maps, slices and
// primitive values. Field paths index into it as sequences of string
// keys; keys must not contain '.'.
type Doc = map[string]interface{}

// Path is a field-path key sequence, e.g. []string{"rbs", "position"}.
type Path []string

// Validate rejects a path containing a key with a literal dot, which
// would be ambiguous with the dotted-path wire shorthand some callers
// use when building Path values from strings.
func (p Path) Validate() error {
	for _, key := range p {
		if strings.Contains(key, ".") {
			return fmt.Errorf("store: path key %q must not contain '.'", key)
		}
	}
	return nil
}

// PutOp inserts Data at AID iff no document with that AID currently
// exists in the collection.
type PutOp struct {
	AID  string
	Data Doc
}

// ModOp atomically applies field mutations to the document at AID.
// All Exists preconditions are checked first; if any fails the op is
// a no-op for that document. Inc applies only to numeric fields; a
// non-numeric target fails the whole op for that document.
type ModOp struct {
	AID    string
	Exists []ExistsCheck
	Inc    map[string]float64     // dotted path -> delta
	Set    map[string]interface{} // dotted path -> value
	Unset  []string               // dotted paths to remove
}

// ExistsCheck is a single precondition: the field at Path must (or
// must not) exist before the mutation is applied.
type ExistsCheck struct {
	Path   string
	Exists bool
}

// ModResult is the per-document outcome of a ModOp: whether it
// applied, and if so the document as it stood immediately after the
// mutation, in the same transaction that applied it. Callers that
// need the post-mutation value of a field they just incremented (the
// ID allocator's counter, say) read Doc instead of issuing a second,
// separately-atomic GetOne.
type ModResult struct {
	OK  bool
	Doc Doc
}

// Store is the backend-agnostic document store contract. Both the
// BoltDB-backed and the buntdb in-memory implementation satisfy it
// identically.
type Store interface {
	// Put inserts each op's Data iff that AID is currently absent.
	// Returns per-AID success.
	Put(collection string, ops []PutOp) (map[string]bool, error)

	// Mod atomically applies each op's field mutations to the
	// document it names. The read of each document's post-mutation
	// state is part of the same transaction as the write, so a
	// caller using Inc as a conditional-increment primitive can read
	// the post-value off the result without a second, racing op.
	Mod(collection string, ops []ModOp) (map[string]ModResult, error)

	// GetOne returns the document at aid, optionally projected to
	// only the listed field paths. ok is false if no such document.
	GetOne(collection, aid string, projection []Path) (Doc, bool, error)

	// GetMulti returns a map of aid -> document for every aid that
	// exists; missing aids are simply absent from the result map.
	GetMulti(collection string, aids []string, projection []Path) (map[string]Doc, error)

	// GetAll returns every document in the collection, keyed by aid.
	GetAll(collection string, projection []Path) (map[string]Doc, error)

	// Count returns the number of documents in the collection.
	Count(collection string) (int, error)

	// Delete removes each named aid from the collection if present.
	// Deleting an absent aid is not an error.
	Delete(collection string, aids []string) error

	// Reset deletes every document in the collection.
	Reset(collection string) error

	// Close releases backend resources.
	Close() error
}

// dotted joins a Path into the dotted-string key ModOp uses for its
// Set/Inc maps, matching the shorthand callers find natural to write
// (e.g. "rbs.position") while the on-the-wire projection lists stay
// as explicit []string sequences.
func dotted(p Path) string {
	return strings.Join(p, ".")
}

// splitDotted reverses dotted, used internally by backends that store
// mutations as dotted strings.
func splitDotted(s string) Path {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}
