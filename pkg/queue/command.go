package queue

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/azrael-sim/clerk/pkg/types"
)

// Op names a physics command kind.
type Op string

const (
	OpSpawnBody            Op = "SpawnBody"
	OpRemoveBody           Op = "RemoveBody"
	OpSetBody              Op = "SetBody"
	OpSetForce             Op = "SetForce"
	OpDirectForceAndTorque Op = "DirectForceAndTorque"
)

// Command is the tagged-union envelope every queue entry is stored
// and transmitted as: a sequence number, a correlation ID, the
// command kind, and its kind-specific payload.
type Command struct {
	Seq  uint64          `json:"seq"`
	ID   uuid.UUID       `json:"id"`
	Op   Op              `json:"op"`
	Data json.RawMessage `json:"data"`
}

// SpawnBody creates a new body in the stepping engine's world.
type SpawnBody struct {
	ObjID uint64          `json:"objID"`
	RBS   types.RigidBody `json:"rbs"`
}

// RemoveBody deletes a body from the stepping engine's world.
type RemoveBody struct {
	ObjID uint64 `json:"objID"`
}

// SetBody applies a partial rigid-body patch to a live body.
type SetBody struct {
	ObjID uint64                 `json:"objID"`
	Patch map[string]interface{} `json:"patch"`
}

// SetForce applies Force at RelPos (object-local) to ObjID;
// last-write-wins per objID until the stepping engine consumes it.
type SetForce struct {
	ObjID  uint64     `json:"objID"`
	Force  types.Vec3 `json:"force"`
	RelPos types.Vec3 `json:"relPos"`
}

// DirectForceAndTorque applies a precomputed force/torque pair in
// object coordinates, the result of a booster firing.
type DirectForceAndTorque struct {
	ObjID  uint64     `json:"objID"`
	Force  types.Vec3 `json:"force"`
	Torque types.Vec3 `json:"torque"`
}

// encode marshals a payload into a Command with a fresh correlation
// ID; Seq is filled in by the backing Queue implementation.
func encode(op Op, payload interface{}) (Command, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Command{}, err
	}
	return Command{ID: uuid.New(), Op: op, Data: data}, nil
}

// Decode unmarshals a Command's Data into out, the way a stepping
// engine or test stepper consumes a drained entry.
func Decode(cmd Command, out interface{}) error {
	return json.Unmarshal(cmd.Data, out)
}
