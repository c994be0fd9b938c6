package clerk

import (
	"fmt"

	"github.com/azrael-sim/clerk/pkg/azerr"
	"github.com/azrael-sim/clerk/pkg/queue"
	"github.com/azrael-sim/clerk/pkg/store"
	"github.com/azrael-sim/clerk/pkg/types"
)

type setForceRequest struct {
	ObjID  uint64     `json:"objID"`
	Force  types.Vec3 `json:"force"`
	RelPos types.Vec3 `json:"relpos"`
}

// handleSetForce appends a force command; last-write-wins per objID
// until the stepping engine consumes it.
func handleSetForce(c *Clerk, data map[string]interface{}) (Response, error) {
	var req setForceRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}
	if _, found, err := c.store.GetOne(store.CollectionInstances, objIDKey(req.ObjID), []store.Path{{"objID"}}); err != nil {
		return Response{}, err
	} else if !found {
		return Response{}, azerr.New(azerr.NotFound, "object %d not found", req.ObjID)
	}

	if _, err := c.queue.Enqueue(queue.OpSetForce, queue.SetForce{
		ObjID: req.ObjID, Force: req.Force, RelPos: req.RelPos,
	}); err != nil {
		return Response{}, err
	}
	return ok(nil), nil
}

func (c *Clerk) loadInstanceAndTemplate(objID uint64) (types.Instance, types.Template, error) {
	doc, found, err := c.store.GetOne(store.CollectionInstances, objIDKey(objID), nil)
	if err != nil {
		return types.Instance{}, types.Template{}, err
	}
	if !found {
		return types.Instance{}, types.Template{}, azerr.New(azerr.NotFound, "object %d not found", objID)
	}
	var inst types.Instance
	if err := fromDoc(doc, &inst); err != nil {
		return types.Instance{}, types.Template{}, err
	}

	tDoc, found, err := c.store.GetOne(store.CollectionTemplates, inst.TemplateID, nil)
	if err != nil {
		return types.Instance{}, types.Template{}, err
	}
	if !found {
		return types.Instance{}, types.Template{}, azerr.New(azerr.IntegrityLoss, "instance %d references missing template %q", objID, inst.TemplateID)
	}
	var tmpl types.Template
	if err := fromDoc(tDoc, &tmpl); err != nil {
		return types.Instance{}, types.Template{}, err
	}
	return inst, tmpl, nil
}

// boosterForceTorque computes the object-frame force/torque pair a
// single booster firing at the given command force contributes; a
// command force outside the booster's own [minval, maxval] range is
// rejected with InvalidArgument.
func boosterForceTorque(b types.Booster, cmdForce float64) (types.Vec3, types.Vec3, error) {
	if cmdForce < b.MinVal || cmdForce > b.MaxVal {
		return types.Vec3{}, types.Vec3{}, azerr.New(azerr.InvalidArgument,
			"booster force %g out of range [%g, %g]", cmdForce, b.MinVal, b.MaxVal)
	}
	force := b.Direction.Normalize().Scale(cmdForce)
	torque := b.Position.Cross(force)
	return force, torque, nil
}

type controlPartsRequest struct {
	ObjID        uint64                        `json:"objID"`
	CmdBoosters  map[string]boosterCommand     `json:"cmd_boosters,omitempty"`
	CmdFactories map[string]factoryCommand     `json:"cmd_factories,omitempty"`
}

type boosterCommand struct {
	Force float64 `json:"force"`
}

type factoryCommand struct {
	ExitSpeed float64 `json:"exit_speed"`
}

// handleControlParts fires boosters and/or factories in one atomic
// request: an unknown part ID in either map, an out-of-range booster
// force or an out-of-range exit speed rejects the whole request before
// anything is queued or spawned.
func handleControlParts(c *Clerk, data map[string]interface{}) (Response, error) {
	var req controlPartsRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}

	inst, tmpl, err := c.loadInstanceAndTemplate(req.ObjID)
	if err != nil {
		return Response{}, err
	}

	for partID := range req.CmdBoosters {
		if _, ok := tmpl.Boosters[partID]; !ok {
			return Response{}, azerr.New(azerr.InvalidArgument, "unknown booster part %q", partID)
		}
	}
	for partID, cmd := range req.CmdFactories {
		factory, ok := tmpl.Factories[partID]
		if !ok {
			return Response{}, azerr.New(azerr.InvalidArgument, "unknown factory part %q", partID)
		}
		if cmd.ExitSpeed < factory.ExitSpeed.Min || cmd.ExitSpeed > factory.ExitSpeed.Max {
			return Response{}, azerr.New(azerr.InvalidArgument,
				"factory %q exit speed %g out of range [%g, %g]", partID, cmd.ExitSpeed, factory.ExitSpeed.Min, factory.ExitSpeed.Max)
		}
	}

	totalForce := types.Vec3{}
	totalTorque := types.Vec3{}
	for partID, cmd := range req.CmdBoosters {
		force, torque, err := boosterForceTorque(tmpl.Boosters[partID], cmd.Force)
		if err != nil {
			return Response{}, err
		}
		totalForce = totalForce.Add(force)
		totalTorque = totalTorque.Add(torque)
	}
	if req.CmdBoosters != nil {
		if _, err := c.queue.Enqueue(queue.OpDirectForceAndTorque, queue.DirectForceAndTorque{
			ObjID: req.ObjID, Force: totalForce, Torque: totalTorque,
		}); err != nil {
			return Response{}, err
		}
	}

	spawned := make([]uint64, 0, len(req.CmdFactories))
	for partID, cmd := range req.CmdFactories {
		objID, err := c.spawnFromFactory(inst, tmpl.Factories[partID], cmd.ExitSpeed)
		if err != nil {
			return Response{}, err
		}
		spawned = append(spawned, objID)
	}

	return ok(spawned), nil
}

// spawnFromFactory spawns a child instance of factory.TemplateID whose
// world position/rotation equal the parent's, transformed by the
// parent's current rotation, and whose linear velocity is the
// parent's plus exit_speed along the rotated factory direction.
func (c *Clerk) spawnFromFactory(parent types.Instance, factory types.Factory, exitSpeed float64) (uint64, error) {
	tDoc, found, err := c.store.GetOne(store.CollectionTemplates, factory.TemplateID, nil)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, azerr.New(azerr.NotFound, "factory template %q not found", factory.TemplateID)
	}
	var tmpl types.Template
	if err := fromDoc(tDoc, &tmpl); err != nil {
		return 0, err
	}

	first, err := c.ids.Allocate(1)
	if err != nil {
		return 0, err
	}
	objID := uint64(first) + 1

	rbs := tmpl.RBS
	rbs.Position = parent.RBS.Position.Add(parent.RBS.Rotation.Rotate(factory.Position))
	rbs.Rotation = parent.RBS.Rotation
	rbs.VelocityLin = parent.RBS.VelocityLin.Add(parent.RBS.Rotation.Rotate(factory.Direction.Normalize()).Scale(exitSpeed))

	return c.finishFactorySpawn(tmpl, objID, rbs)
}

func (c *Clerk) finishFactorySpawn(tmpl types.Template, objID uint64, rbs types.RigidBody) (uint64, error) {
	if _, err := c.assets.SpawnTemplate(tmpl.AID, objID); err != nil {
		return 0, err
	}
	inst := types.Instance{ObjID: objID, TemplateID: tmpl.AID, RBS: rbs, Fragments: tmpl.Fragments}
	doc, err := toDoc(inst)
	if err != nil {
		return 0, err
	}
	res, err := c.store.Put(store.CollectionInstances, []store.PutOp{{AID: objIDKey(objID), Data: doc}})
	if err != nil {
		return 0, err
	}
	if !res[objIDKey(objID)] {
		return 0, fmt.Errorf("clerk: factory spawn collided on objID %d", objID)
	}
	if _, err := c.queue.Enqueue(queue.OpSpawnBody, queue.SpawnBody{ObjID: objID, RBS: rbs}); err != nil {
		return 0, err
	}
	return objID, nil
}

type updateBoosterForcesRequest struct {
	ObjID       uint64                 `json:"objID"`
	CmdBoosters map[string]boosterCommand `json:"cmd_boosters" validate:"required"`
}

type forceTorqueResponse struct {
	Force  types.Vec3 `json:"force"`
	Torque types.Vec3 `json:"torque"`
}

// handleUpdateBoosterForces computes and queues the combined
// force/torque of every named booster, returning the result in object
// coordinates.
func handleUpdateBoosterForces(c *Clerk, data map[string]interface{}) (Response, error) {
	var req updateBoosterForcesRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}

	_, tmpl, err := c.loadInstanceAndTemplate(req.ObjID)
	if err != nil {
		return Response{}, err
	}
	for partID := range req.CmdBoosters {
		if _, ok := tmpl.Boosters[partID]; !ok {
			return Response{}, azerr.New(azerr.InvalidArgument, "unknown booster part %q", partID)
		}
	}

	totalForce := types.Vec3{}
	totalTorque := types.Vec3{}
	for partID, cmd := range req.CmdBoosters {
		force, torque, err := boosterForceTorque(tmpl.Boosters[partID], cmd.Force)
		if err != nil {
			return Response{}, err
		}
		totalForce = totalForce.Add(force)
		totalTorque = totalTorque.Add(torque)
	}

	if _, err := c.queue.Enqueue(queue.OpDirectForceAndTorque, queue.DirectForceAndTorque{
		ObjID: req.ObjID, Force: totalForce, Torque: totalTorque,
	}); err != nil {
		return Response{}, err
	}
	return ok(forceTorqueResponse{Force: totalForce, Torque: totalTorque}), nil
}
