/*
Package types defines the core data structures shared across Azrael's
world-state service.

This package contains the domain model used by the document store, the
constraint index, the asset store and Clerk: templates, spawned
instances, rigid bodies, collision shapes, fragments, parts
(boosters/factories) and constraints. These types are serialised as
JSON both at rest (in the document store) and on the wire (in Clerk's
request/response envelopes), so field names are part of the external
contract, not just internal bookkeeping.

# Core Types

Template topology:
  - Template: immutable blueprint an instance is spawned from
  - RigidBody: physical defaults/state (scale, mass, pose, velocities, locks)
  - CollisionShape: named collision primitive (Empty, Sphere, Box, Plane)
  - Fragment: named renderable sub-part (RAW or DAE geometry plus pose)
  - Booster: part that applies a directional force when commanded
  - Factory: part that spawns instances of another template when commanded

Live state:
  - Instance: a spawned, mutable body identified by objID
  - ConstraintMeta: a P2P or 6DofSpring2 link between two bodies

# Enumeration pattern

Enums follow the same typed-string-constant shape used throughout this
repo:

	type ConstraintType string
	const (
	    ConstraintTypeP2P        ConstraintType = "P2P"
	    ConstraintType6DofSpring ConstraintType = "6DofSpring2"
	)

# Integration points

This package is imported by pkg/igor (constraint indexing),
pkg/dibbler (fragment asset storage), pkg/queue (physics command
payloads) and pkg/clerk (request dispatch and codec); pkg/store works
on generic documents and does not import it. Its only behavior is
struct-tag validation, the vector/quaternion arithmetic in vecmath.go
and ConstraintMeta.Key; state transitions live in pkg/clerk.
*/
package types
