/*
Package store implements Azrael's document store: a small key/value
abstraction over a durable or in-memory backend, supporting atomic
put-if-absent, projected reads, and field-level mutation (increment,
set, unset, conditional-exists).

There are two logical collections used by the rest of the core —
Templates (indexed by template name) and Instances (indexed by object
ID, decimal string form) — plus a reserved Counters collection used by
the ID allocator's conditional-increment primitive. Both the BoltDB
backend (boltstore.go) and the buntdb in-memory backend (memstore.go)
satisfy the same Store interface and are run through the same
contract tests in store_test.go, the way the original implementation
ran its in-memory and MongoDB backends through one shared test table.

Every method is atomic per document; multi-document requests are not
required to be atomic across documents — callers (Clerk) compensate
via the per-aid result maps that Put and Mod return.
*/
package store
