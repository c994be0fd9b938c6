package clerk

import "github.com/azrael-sim/clerk/pkg/types"

type addConstraintsRequest struct {
	Constraints []types.ConstraintMeta `json:"constraints" validate:"required,dive"`
}

func handleAddConstraints(c *Clerk, data map[string]interface{}) (Response, error) {
	var req addConstraintsRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}
	return ok(c.igor.AddConstraints(req.Constraints)), nil
}

type deleteConstraintsRequest struct {
	Constraints []types.ConstraintMeta `json:"constraints" validate:"required,dive"`
}

func handleDeleteConstraints(c *Clerk, data map[string]interface{}) (Response, error) {
	var req deleteConstraintsRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}
	return ok(c.igor.DeleteConstraints(req.Constraints)), nil
}

type getConstraintsRequest struct {
	BodyIDs []uint64 `json:"bodyIDs"`
}

// handleGetConstraints passes straight through to Igor; a nil/absent
// bodyIDs means "every constraint".
func handleGetConstraints(c *Clerk, data map[string]interface{}) (Response, error) {
	var req getConstraintsRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}
	return ok(c.igor.GetConstraints(req.BodyIDs)), nil
}
