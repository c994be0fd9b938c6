package clerk

import (
	"fmt"
	"strconv"

	"github.com/azrael-sim/clerk/pkg/store"
	"github.com/azrael-sim/clerk/pkg/types"
)

// fragmentPatch mirrors the wire shape of a single set_fragments
// patch entry: every field optional, presence/absence driving which
// of the three update kinds applies.
type fragmentPatch struct {
	FragType *types.FragmentType `json:"fragtype,omitempty"`
	Scale    *float64            `json:"scale,omitempty"`
	Position *types.Vec3         `json:"position,omitempty"`
	Rotation *types.Quat         `json:"rotation,omitempty"`
	FragData []byte              `json:"fragdata,omitempty"`
}

func (p fragmentPatch) isTombstone() bool {
	return p.FragType != nil && *p.FragType == types.FragmentNone
}

func (p fragmentPatch) isDataWrite() bool {
	return p.FragData != nil
}

type setFragmentsRequest struct {
	Items map[string]map[string]fragmentPatch `json:"items" validate:"required"`
}

// handleSetFragments applies each object's fragment patches
// atomically for that object: an unknown fragment name within a
// known object fails the whole object (no partial fragment updates),
// while an unknown object fails only that object.
func handleSetFragments(c *Clerk, data map[string]interface{}) (Response, error) {
	var req setFragmentsRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}

	failed := make([]string, 0)
	for objIDStr, patches := range req.Items {
		if err := c.setFragmentsOne(objIDStr, patches); err != nil {
			failed = append(failed, objIDStr)
		}
	}
	return ok(failed), nil
}

func (c *Clerk) setFragmentsOne(objIDStr string, patches map[string]fragmentPatch) error {
	doc, found, err := c.store.GetOne(store.CollectionInstances, objIDStr, nil)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("clerk: object %s not found", objIDStr)
	}
	var inst types.Instance
	if err := fromDoc(doc, &inst); err != nil {
		return err
	}
	if inst.Fragments == nil {
		inst.Fragments = map[string]types.Fragment{}
	}
	for name := range patches {
		if _, exists := inst.Fragments[name]; !exists {
			return fmt.Errorf("clerk: unknown fragment %q on object %s", name, objIDStr)
		}
	}

	objID, err := strconv.ParseUint(objIDStr, 10, 64)
	if err != nil {
		return fmt.Errorf("clerk: invalid object id %q", objIDStr)
	}

	versionBump := false
	assetFrags := make(map[string]types.Fragment)
	for name, patch := range patches {
		cur := inst.Fragments[name]
		switch {
		case patch.isTombstone():
			delete(inst.Fragments, name)
			assetFrags[name] = types.Fragment{FragType: types.FragmentNone}
			versionBump = true
		case patch.isDataWrite():
			next := cur
			next.FragData = patch.FragData
			if patch.FragType != nil {
				next.FragType = *patch.FragType
			}
			if patch.Scale != nil {
				next.Scale = *patch.Scale
			}
			if patch.Position != nil {
				next.Position = *patch.Position
			}
			if patch.Rotation != nil {
				next.Rotation = *patch.Rotation
			}
			inst.Fragments[name] = next
			assetFrags[name] = next
			versionBump = true
		default:
			// Meta-only patch: the asset store is never called, so
			// stored fragment data is untouched.
			next := cur
			if patch.Scale != nil {
				next.Scale = *patch.Scale
			}
			if patch.Position != nil {
				next.Position = *patch.Position
			}
			if patch.Rotation != nil {
				next.Rotation = *patch.Rotation
			}
			inst.Fragments[name] = next
		}
	}

	if len(assetFrags) > 0 {
		if err := c.assets.UpdateFragments(objID, assetFrags); err != nil {
			return err
		}
	}

	fragsDoc, err := toDoc(inst.Fragments)
	if err != nil {
		return err
	}
	set := map[string]interface{}{"fragments": fragsDoc}
	if versionBump {
		set["rbs.version"] = inst.RBS.Version + 1
	}
	_, err = c.store.Mod(store.CollectionInstances, []store.ModOp{
		{AID: objIDStr, Set: set},
	})
	return err
}

type getFragmentsRequest struct {
	ObjIDs []uint64 `json:"objIDs" validate:"required"`
}

type fragmentView struct {
	FragType types.FragmentType `json:"fragtype"`
	URLFrag  string             `json:"url_frag"`
}

// handleGetFragments returns per-fragment {fragtype, url_frag}; unknown
// object IDs map to null rather than failing the request.
func handleGetFragments(c *Clerk, data map[string]interface{}) (Response, error) {
	var req getFragmentsRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}

	keys := make([]string, len(req.ObjIDs))
	for i, id := range req.ObjIDs {
		keys[i] = objIDKey(id)
	}
	docs, err := c.store.GetMulti(store.CollectionInstances, keys, []store.Path{{"objID"}, {"fragments"}})
	if err != nil {
		return Response{}, err
	}

	result := make(map[string]interface{}, len(keys))
	for i, k := range keys {
		doc, found := docs[k]
		if !found {
			result[k] = nil
			continue
		}
		var inst types.Instance
		if err := fromDoc(doc, &inst); err != nil {
			return Response{}, err
		}
		views := make(map[string]fragmentView, len(inst.Fragments))
		for name, f := range inst.Fragments {
			views[name] = fragmentView{
				FragType: f.FragType,
				URLFrag:  fmt.Sprintf("/instances/%d/%s", req.ObjIDs[i], name),
			}
		}
		result[k] = views
	}
	return ok(result), nil
}
