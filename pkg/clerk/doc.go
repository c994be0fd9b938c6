/*
Package clerk implements Clerk: Azrael's front-door RPC dispatcher.

Clerk validates every request, enforces the cross-component invariants
in the data model, composes operations across the document
store (pkg/store), the constraint index (pkg/igor), the asset store
(pkg/dibbler) and the ID allocator (pkg/idalloc), and enqueues
state-mutation commands onto the physics command queue (pkg/queue)
consumed by the stepping engine.

Per the "global singleton services -> explicit dependency injection"
design note, all five collaborators are constructor parameters
(New), never package-level singletons, so tests can substitute
in-memory fakes for every one of them.

Dispatch looks the command name up in a name-to-handler map (handlers
in clerk.go); a name missing from the map yields an "Invalid command"
envelope, and nothing checks that every command has an entry. Each
request is decoded through pkg/codec (which also runs struct-tag
validation); handlers return their typed response values as they are,
without passing them back through pkg/codec. Handlers are straight-line
code with explicit error short-circuits; bulk operations degrade to
per-item reporting for partial-failure operations.
*/
package clerk
