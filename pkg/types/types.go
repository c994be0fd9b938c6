package types

// Vec3 is a 3-element vector: position, velocity, direction, force.
type Vec3 [3]float64

// Quat is a rotation quaternion in (x, y, z, w) order, matching the
// wire convention a 180°-about-X rotation serializes as [1,0,0,0].
type Quat [4]float64

// CollisionShapeType names a collision primitive.
type CollisionShapeType string

const (
	CollisionShapeEmpty  CollisionShapeType = "Empty"
	CollisionShapeSphere CollisionShapeType = "Sphere"
	CollisionShapeBox    CollisionShapeType = "Box"
	CollisionShapePlane  CollisionShapeType = "Plane"
)

// CollisionShape is a named collision primitive attached to a rigid body.
type CollisionShape struct {
	CSType   CollisionShapeType `json:"cstype" validate:"required,oneof=Empty Sphere Box Plane"`
	Position Vec3               `json:"position"`
	Rotation Quat               `json:"rotation"`
	CSData   []float64          `json:"csdata,omitempty"`
}

// RigidBody holds the physical defaults of a template, or the live state
// of a spawned instance.
type RigidBody struct {
	Scale       float64                   `json:"scale"`
	IMass       float64                   `json:"imass"`
	Restitution float64                   `json:"restitution"`
	Rotation    Quat                      `json:"rotation"`
	Position    Vec3                      `json:"position"`
	VelocityLin Vec3                      `json:"velocityLin"`
	VelocityRot Vec3                      `json:"velocityRot"`
	CShapes     map[string]CollisionShape `json:"cshapes,omitempty"`
	AxesLockLin [3]bool                   `json:"axesLockLin"`
	AxesLockRot [3]bool                   `json:"axesLockRot"`
	Version     int64                     `json:"version"`
}

// FragmentType names the kind of geometry carried by a fragment.
type FragmentType string

const (
	// FragmentRAW and FragmentDAE are the two persisted fragment kinds.
	FragmentRAW FragmentType = "RAW"
	FragmentDAE FragmentType = "DAE"
	// FragmentNone is a tombstone accepted only in update requests; it is
	// never itself a stored fragment type.
	FragmentNone FragmentType = "NONE"
)

// Fragment is a named renderable sub-part of a template or instance.
// FragData is opaque to the store; Dibbler owns its bytes.
type Fragment struct {
	FragType FragmentType `json:"fragtype" validate:"required,oneof=RAW DAE NONE"`
	Scale    float64      `json:"scale"`
	Position Vec3         `json:"position"`
	Rotation Quat         `json:"rotation"`
	FragData []byte       `json:"fragdata,omitempty"`
}

// Booster is a part that applies a directional force along Direction
// when commanded via control_parts; a commanded force outside
// [MinVal, MaxVal] is rejected.
type Booster struct {
	Position  Vec3    `json:"pos"`
	Direction Vec3    `json:"direction"`
	MinVal    float64 `json:"minval"`
	MaxVal    float64 `json:"maxval"`
	Force     float64 `json:"force"`
}

// ExitSpeedRange bounds the exit speed a factory may impart on a spawned
// child, as (min, max).
type ExitSpeedRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Factory is a part that spawns instances of TemplateID when commanded,
// imparting an exit velocity along Direction in the parent's local frame.
type Factory struct {
	Position   Vec3           `json:"pos"`
	Direction  Vec3           `json:"direction"`
	TemplateID string         `json:"templateID" validate:"required"`
	ExitSpeed  ExitSpeedRange `json:"exit_speed"`
}

// Template is an immutable blueprint an instance is spawned from. Once
// added via AddTemplates it is never mutated.
type Template struct {
	AID       string                    `json:"aid" validate:"required,excludesall=./"`
	RBS       RigidBody                 `json:"rbs"`
	CShapes   map[string]CollisionShape `json:"cshapes,omitempty"`
	Fragments map[string]Fragment       `json:"fragments,omitempty"`
	Boosters  map[string]Booster        `json:"boosters,omitempty"`
	Factories map[string]Factory        `json:"factories,omitempty"`
}

// Instance is a live, mutable body spawned from a Template. ObjID is
// allocated by the ID allocator and is never reused once removed.
type Instance struct {
	ObjID      uint64              `json:"objID"`
	TemplateID string              `json:"templateID" validate:"required"`
	RBS        RigidBody           `json:"rbs"`
	Fragments  map[string]Fragment `json:"fragments,omitempty"`
	Custom     string              `json:"custom,omitempty" validate:"max=65536"`
}

// ConstraintType names the kind of physical link a ConstraintMeta encodes.
type ConstraintType string

const (
	ConstraintTypeP2P        ConstraintType = "P2P"
	ConstraintType6DofSpring ConstraintType = "6DofSpring2"
)

// ConstraintMeta links two bodies, RbA < RbB by convention, so that
// (ConType, RbA, RbB, AID) forms a stable de-duplication key in Igor.
type ConstraintMeta struct {
	AID     string                 `json:"aid"`
	ConType ConstraintType         `json:"conType" validate:"required,oneof=P2P 6DofSpring2"`
	RbA     uint64                 `json:"rb_a"`
	RbB     uint64                 `json:"rb_b"`
	ConData map[string]interface{} `json:"condata,omitempty"`
}

// Key returns the de-duplication key Igor indexes constraints by.
func (c ConstraintMeta) Key() ConstraintKey {
	return ConstraintKey{ConType: c.ConType, RbA: c.RbA, RbB: c.RbB, AID: c.AID}
}

// ConstraintKey is the tuple (conType, rb_a, rb_b, aid) that identifies a
// constraint for de-duplication purposes.
type ConstraintKey struct {
	ConType ConstraintType
	RbA     uint64
	RbB     uint64
	AID     string
}

// Default template names pre-installed on reset.
const (
	TemplateEmpty  = "_templateEmpty"
	TemplateSphere = "_templateSphere"
	TemplateBox    = "_templateBox"
	TemplatePlane  = "_templatePlane"
)
