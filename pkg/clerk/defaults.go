package clerk

import "github.com/azrael-sim/clerk/pkg/types"

// defaultTemplates are the four templates pre-installed on reset.
func defaultTemplates() []types.Template {
	placeholder := map[string]types.Fragment{
		"bar": {FragType: types.FragmentRAW, FragData: []byte("placeholder")},
	}
	return []types.Template{
		{
			AID:       types.TemplateEmpty,
			Fragments: placeholder,
		},
		{
			AID: types.TemplateSphere,
			RBS: types.RigidBody{
				CShapes: map[string]types.CollisionShape{
					"": {CSType: types.CollisionShapeSphere, CSData: []float64{1}},
				},
			},
			Fragments: placeholder,
		},
		{
			AID: types.TemplateBox,
			RBS: types.RigidBody{
				CShapes: map[string]types.CollisionShape{
					"": {CSType: types.CollisionShapeBox, CSData: []float64{1, 1, 1}},
				},
			},
			Fragments: placeholder,
		},
		{
			AID: types.TemplatePlane,
			RBS: types.RigidBody{
				IMass: 0,
				CShapes: map[string]types.CollisionShape{
					"": {CSType: types.CollisionShapePlane},
				},
			},
			Fragments: placeholder,
		},
	}
}

func (c *Clerk) installDefaultTemplates() error {
	for _, t := range defaultTemplates() {
		if _, err := c.addTemplate(t); err != nil {
			return err
		}
	}
	return nil
}
