/*
Package queue implements Azrael's physics command queue: an ordered,
append-only sequence of tagged records produced by Clerk and consumed
by the (out-of-scope) stepping engine.

Every command is one of SpawnBody, RemoveBody, SetBody, SetForce or
DirectForceAndTorque, encoded as a tagged command union — a string Op
plus a json.RawMessage Data — so new command kinds can be added
without touching the queue's storage layer.

Clerk only ever holds a Producer — Enqueue and Depth, never a read of
the entries — because
Clerk is forbidden from reading the queue back; the queue is
write-shared but single-consumer. Drain exists on the concrete
implementations for the stepping engine (and, in this repo, the
test-only Euler stepper in pkg/clerk) to consume from.
*/
package queue
