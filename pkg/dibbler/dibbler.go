package dibbler

import (
	"github.com/azrael-sim/clerk/pkg/types"
)

// InstancePrefix and TemplatePrefix are the two URL namespaces assets
// live under.
const (
	InstancePrefix = "/instances"
	TemplatePrefix = "/templates"
)

// Store is the asset store contract. Every method's error, when
// non-nil, is classified via pkg/azerr (NotFound on missing target,
// AlreadyExists on name/objID collision).
type Store interface {
	// AddTemplate writes every fragment's bytes under
	// /templates/<name>/<frag>/... plus a meta document, and returns
	// the template's base URL. Fails with AlreadyExists if the name
	// is already present.
	AddTemplate(tmpl types.Template) (url string, err error)

	// SpawnTemplate copies the entire asset subtree of a template to
	// /instances/<objID>/... and returns the instance's base URL.
	// Fails with NotFound if the template is absent, AlreadyExists if
	// objID already has assets.
	SpawnTemplate(templateName string, objID uint64) (url string, err error)

	// UpdateFragments rewrites only the named fragments of an
	// instance. A fragment patch with FragData present replaces that
	// fragment's bytes (and meta); a patch with FragData absent
	// updates meta only and must not touch stored bytes; FragType ==
	// NONE deletes the fragment from the asset store entirely.
	UpdateFragments(objID uint64, frags map[string]types.Fragment) error

	// DelTemplate recursively removes a template's asset subtree.
	DelTemplate(templateName string) error

	// DelInstance recursively removes an instance's asset subtree.
	// Must not also match longer objID prefixes (e.g. deleting
	// instance 1 must not touch instance 11).
	DelInstance(objID uint64) error

	// Reset discards every stored asset.
	Reset() error
}
