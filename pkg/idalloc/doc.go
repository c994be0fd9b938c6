/*
Package idalloc implements Azrael's ID allocator: an atomic monotonic
counter that is the sole source of new instance object IDs.

The counter is itself a document in pkg/store's reserved Counters
collection, so its conditional-increment primitive is just store.Mod's
per-document atomicity — the one write-hot resource in the whole core
needs no locking beyond what
the store already guarantees.
*/
package idalloc
