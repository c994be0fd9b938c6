package clerk

import (
	"fmt"

	"github.com/azrael-sim/clerk/pkg/azerr"
	"github.com/azrael-sim/clerk/pkg/store"
	"github.com/azrael-sim/clerk/pkg/types"
)

type addTemplatesRequest struct {
	Templates []types.Template `json:"templates" validate:"required,dive"`
}

func handleAddTemplates(c *Clerk, data map[string]interface{}) (Response, error) {
	var req addTemplatesRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}

	results := make(map[string]bool, len(req.Templates))
	for _, t := range req.Templates {
		succeeded, err := c.addTemplate(t)
		if err != nil {
			return Response{}, err
		}
		results[t.AID] = succeeded
	}
	return ok(results), nil
}

// addTemplate writes assets first, document second: on asset
// failure the document is never inserted, so a crash between the two
// only ever leaves orphan asset bytes.
func (c *Clerk) addTemplate(t types.Template) (bool, error) {
	if _, err := c.assets.AddTemplate(t); err != nil {
		if kind, ok := azerr.Of(err); ok && kind == azerr.AlreadyExists {
			return false, nil
		}
		return false, err
	}

	doc, err := toDoc(t)
	if err != nil {
		return false, err
	}
	res, err := c.store.Put(store.CollectionTemplates, []store.PutOp{{AID: t.AID, Data: doc}})
	if err != nil {
		return false, err
	}
	return res[t.AID], nil
}

type getTemplatesRequest struct {
	Names []string `json:"names" validate:"required"`
}

type templateView struct {
	Template types.Template `json:"template"`
	URLFrag  string         `json:"url_frag"`
}

func handleGetTemplates(c *Clerk, data map[string]interface{}) (Response, error) {
	var req getTemplatesRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}

	unique := dedupeStrings(req.Names)
	docs, err := c.store.GetMulti(store.CollectionTemplates, unique, nil)
	if err != nil {
		return Response{}, err
	}

	out := make(map[string]templateView, len(docs))
	for name, doc := range docs {
		var t types.Template
		if err := fromDoc(doc, &t); err != nil {
			return Response{}, err
		}
		out[name] = templateView{Template: t, URLFrag: "/templates/" + name}
	}
	return ok(out), nil
}

type getTemplateIDRequest struct {
	ObjID uint64 `json:"objID"`
}

func handleGetTemplateID(c *Clerk, data map[string]interface{}) (Response, error) {
	var req getTemplateIDRequest
	if err := decodeRequest(data, &req); err != nil {
		return Response{}, err
	}

	doc, found, err := c.store.GetOne(store.CollectionInstances, objIDKey(req.ObjID), []store.Path{{"templateID"}})
	if err != nil {
		return Response{}, err
	}
	if !found {
		return Response{}, fmt.Errorf("object %d not found", req.ObjID)
	}
	return ok(doc["templateID"]), nil
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
