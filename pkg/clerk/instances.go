package clerk

import (
	"sort"
	"strconv"

	"github.com/azrael-sim/clerk/pkg/azerr"
	"github.com/azrael-sim/clerk/pkg/queue"
	"github.com/azrael-sim/clerk/pkg/store"
	"github.com/azrael-sim/clerk/pkg/types"
)

type spawnItem struct {
	TemplateID string          `json:"templateID" validate:"required"`
	RBS        *types.RigidBody `json:"rbs,omitempty"`
}

type spawnRequest struct {
	Items []spawnItem `json:"items" validate:"required,dive"`
}

// handleSpawn implements "spawn": atomic per object, skipping (not
// failing) items whose template is missing or whose assets fail to
// materialise.
func handleSpawn(c *Clerk, data map[string]interface{}) (Response, error) {
	var req spawnRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}

	var created []uint64
	for _, item := range req.Items {
		objID, spawned, err := c.spawnOne(item)
		if err != nil {
			return Response{}, err
		}
		if spawned {
			created = append(created, objID)
		}
	}
	return ok(created), nil
}

func (c *Clerk) spawnOne(item spawnItem) (uint64, bool, error) {
	tDoc, found, err := c.store.GetOne(store.CollectionTemplates, item.TemplateID, nil)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return 0, false, nil
	}
	var tmpl types.Template
	if err := fromDoc(tDoc, &tmpl); err != nil {
		return 0, false, err
	}

	first, err := c.ids.Allocate(1)
	if err != nil {
		return 0, false, err
	}
	objID := uint64(first) + 1

	// Assets first: if the asset store can't materialise this
	// instance, skip it without touching the document store.
	if _, err := c.assets.SpawnTemplate(tmpl.AID, objID); err != nil {
		return 0, false, nil
	}

	rbs := tmpl.RBS
	if item.RBS != nil {
		rbs = mergeRigidBody(rbs, *item.RBS)
	}
	inst := types.Instance{
		ObjID:      objID,
		TemplateID: tmpl.AID,
		RBS:        rbs,
		Fragments:  tmpl.Fragments,
	}

	doc, err := toDoc(inst)
	if err != nil {
		return 0, false, err
	}
	res, err := c.store.Put(store.CollectionInstances, []store.PutOp{{AID: objIDKey(objID), Data: doc}})
	if err != nil {
		return 0, false, err
	}
	if !res[objIDKey(objID)] {
		return 0, false, nil
	}

	if _, err := c.queue.Enqueue(queue.OpSpawnBody, queue.SpawnBody{ObjID: objID, RBS: rbs}); err != nil {
		return 0, false, err
	}
	return objID, true, nil
}

// mergeRigidBody applies client-supplied overrides over a template's
// defaults; zero-value fields in overrides are treated as "not set"
// for Scale/IMass/Position/VelocityLin/VelocityRot/Rotation, the
// fields documented as client-overridable at spawn time.
func mergeRigidBody(base, override types.RigidBody) types.RigidBody {
	out := base
	if override.Scale != 0 {
		out.Scale = override.Scale
	}
	if override.IMass != 0 {
		out.IMass = override.IMass
	}
	if override.Position != (types.Vec3{}) {
		out.Position = override.Position
	}
	if override.VelocityLin != (types.Vec3{}) {
		out.VelocityLin = override.VelocityLin
	}
	if override.VelocityRot != (types.Vec3{}) {
		out.VelocityRot = override.VelocityRot
	}
	if override.Rotation != (types.Quat{}) {
		out.Rotation = override.Rotation
	}
	return out
}

type removeRequest struct {
	ObjID uint64 `json:"objID"`
}

// handleRemove is idempotent: removing an already-absent object
// succeeds with no effect (P4).
func handleRemove(c *Clerk, data map[string]interface{}) (Response, error) {
	var req removeRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}

	key := objIDKey(req.ObjID)
	_, found, err := c.store.GetOne(store.CollectionInstances, key, nil)
	if err != nil {
		return Response{}, err
	}
	if !found {
		return ok(nil), nil
	}

	// Document first, assets second: a crash here leaves at most
	// orphan asset bytes, never an orphan document.
	if err := c.store.Delete(store.CollectionInstances, []string{key}); err != nil {
		return Response{}, err
	}
	if err := c.assets.DelInstance(req.ObjID); err != nil {
		if kind, ok := azerr.Of(err); !ok || kind != azerr.NotFound {
			return Response{}, err
		}
	}
	if _, err := c.queue.Enqueue(queue.OpRemoveBody, queue.RemoveBody{ObjID: req.ObjID}); err != nil {
		return Response{}, err
	}
	return ok(nil), nil
}

func handleGetAllObjectIDs(c *Clerk, data map[string]interface{}) (Response, error) {
	docs, err := c.store.GetAll(store.CollectionInstances, nil)
	if err != nil {
		return Response{}, err
	}
	ids := make([]uint64, 0, len(docs))
	for aid := range docs {
		n, err := strconv.ParseUint(aid, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, n)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ok(ids), nil
}

type objIDsRequest struct {
	ObjIDs []uint64 `json:"objIDs"`
}

func handleGetRigidBodies(c *Clerk, data map[string]interface{}) (Response, error) {
	var req objIDsRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}

	result := make(map[string]interface{})
	if req.ObjIDs == nil {
		docs, err := c.store.GetAll(store.CollectionInstances, []store.Path{{"rbs"}})
		if err != nil {
			return Response{}, err
		}
		for aid, doc := range docs {
			result[aid] = doc["rbs"]
		}
		return ok(result), nil
	}

	keys := make([]string, len(req.ObjIDs))
	for i, id := range req.ObjIDs {
		keys[i] = objIDKey(id)
	}
	docs, err := c.store.GetMulti(store.CollectionInstances, keys, []store.Path{{"rbs"}})
	if err != nil {
		return Response{}, err
	}
	for _, k := range keys {
		if doc, found := docs[k]; found {
			result[k] = doc["rbs"]
		} else {
			result[k] = nil
		}
	}
	return ok(result), nil
}

func handleGetObjectStates(c *Clerk, data map[string]interface{}) (Response, error) {
	var req objIDsRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}

	proj := []store.Path{{"rbs"}, {"fragments"}}
	var docs map[string]store.Doc
	var err error
	if req.ObjIDs == nil {
		docs, err = c.store.GetAll(store.CollectionInstances, proj)
	} else {
		keys := make([]string, len(req.ObjIDs))
		for i, id := range req.ObjIDs {
			keys[i] = objIDKey(id)
		}
		docs, err = c.store.GetMulti(store.CollectionInstances, keys, proj)
	}
	if err != nil {
		return Response{}, err
	}

	result := make(map[string]interface{}, len(docs))
	for aid, doc := range docs {
		frags, _ := doc["fragments"].(store.Doc)
		result[aid] = map[string]interface{}{
			"rbs":  doc["rbs"],
			"frag": stripFragmentData(frags),
		}
	}
	return ok(result), nil
}

// stripFragmentData removes fragdata from every fragment entry: state
// reads return pose metadata only, never raw/DAE bytes.
func stripFragmentData(frags store.Doc) store.Doc {
	out := make(store.Doc, len(frags))
	for name, v := range frags {
		f, ok := v.(store.Doc)
		if !ok {
			continue
		}
		meta := store.Doc{}
		for k, val := range f {
			if k == "fragdata" {
				continue
			}
			meta[k] = val
		}
		out[name] = meta
	}
	return out
}

type setRigidBodiesRequest struct {
	Items map[string]map[string]interface{} `json:"items" validate:"required"`
}

var allowedRigidBodyFields = map[string]bool{
	"scale": true, "imass": true, "restitution": true, "rotation": true,
	"position": true, "velocityLin": true, "velocityRot": true,
	"axesLockLin": true, "axesLockRot": true,
}

// handleSetRigidBodies rejects the entire request if any top-level
// field name is unknown; otherwise applies per-object and returns the
// failed object IDs.
func handleSetRigidBodies(c *Clerk, data map[string]interface{}) (Response, error) {
	var req setRigidBodiesRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}

	for _, fields := range req.Items {
		for name := range fields {
			if !allowedRigidBodyFields[name] {
				return Response{}, fieldError(name)
			}
		}
	}

	var failed []string
	var ops []store.ModOp
	for aid, fields := range req.Items {
		set := make(map[string]interface{}, len(fields))
		for name, v := range fields {
			set["rbs."+name] = v
		}
		ops = append(ops, store.ModOp{
			AID:    aid,
			Exists: []store.ExistsCheck{{Path: "objID", Exists: true}},
			Set:    set,
		})
	}
	results, err := c.store.Mod(store.CollectionInstances, ops)
	if err != nil {
		return Response{}, err
	}
	for aid, res := range results {
		if !res.OK {
			failed = append(failed, aid)
		}
	}
	return Response{OK: true, Data: failed}, nil
}

func fieldError(name string) error {
	return azerr.New(azerr.InvalidArgument, "unknown rigid body field %q", name)
}
