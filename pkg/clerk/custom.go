package clerk

import "github.com/azrael-sim/clerk/pkg/store"

const customFieldMaxBytes = 65536

type setCustomRequest struct {
	Items map[string]interface{} `json:"items" validate:"required"`
}

// handleSetCustom overwrites the custom field for each object whose
// value is a string within the 64 KiB bound and who exists; every
// other pair is a silent no-op reported in the failure list.
func handleSetCustom(c *Clerk, data map[string]interface{}) (Response, error) {
	var req setCustomRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}

	failed := make([]string, 0)
	var ops []store.ModOp
	candidates := make([]string, 0, len(req.Items))
	for aid, v := range req.Items {
		s, isString := v.(string)
		if !isString || len(s) > customFieldMaxBytes {
			failed = append(failed, aid)
			continue
		}
		ops = append(ops, store.ModOp{
			AID:    aid,
			Exists: []store.ExistsCheck{{Path: "objID", Exists: true}},
			Set:    map[string]interface{}{"custom": s},
		})
		candidates = append(candidates, aid)
	}

	if len(ops) > 0 {
		results, err := c.store.Mod(store.CollectionInstances, ops)
		if err != nil {
			return Response{}, err
		}
		for _, aid := range candidates {
			if !results[aid].OK {
				failed = append(failed, aid)
			}
		}
	}
	return ok(failed), nil
}

type getCustomRequest struct {
	ObjIDs []uint64 `json:"objIDs" validate:"required"`
}

// handleGetCustom reads the custom field per object; unknown objects
// map to null rather than failing the request.
func handleGetCustom(c *Clerk, data map[string]interface{}) (Response, error) {
	var req getCustomRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}

	keys := make([]string, len(req.ObjIDs))
	for i, id := range req.ObjIDs {
		keys[i] = objIDKey(id)
	}
	docs, err := c.store.GetMulti(store.CollectionInstances, keys, []store.Path{{"custom"}})
	if err != nil {
		return Response{}, err
	}

	result := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		if doc, found := docs[k]; found {
			result[k] = doc["custom"]
		} else {
			result[k] = nil
		}
	}
	return ok(result), nil
}
