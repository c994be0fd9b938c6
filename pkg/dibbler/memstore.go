package dibbler

import (
	"fmt"
	"sync"

	"github.com/OneOfOne/xxhash"

	"github.com/azrael-sim/clerk/pkg/azerr"
	"github.com/azrael-sim/clerk/pkg/types"
)

// MemStore implements Store entirely in memory, for Clerk's unit
// tests where spinning up a filesystem fixture would be pure
// overhead. It applies the same semantics as LocalStore (meta-only
// patches never touch stored data, tombstones delete, an identical
// re-patch leaves the same state) without touching disk; it keeps no
// digests.
type MemStore struct {
	mu        sync.Mutex
	templates map[string]map[string]types.Fragment
	instances map[uint64]map[string]types.Fragment
}

// NewMemStore returns an empty in-memory asset store.
func NewMemStore() *MemStore {
	return &MemStore{
		templates: make(map[string]map[string]types.Fragment),
		instances: make(map[uint64]map[string]types.Fragment),
	}
}

func (s *MemStore) AddTemplate(tmpl types.Template) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.templates[tmpl.AID]; exists {
		return "", azerr.New(azerr.AlreadyExists, "dibbler: template %q already exists", tmpl.AID)
	}
	frags := make(map[string]types.Fragment, len(tmpl.Fragments))
	for name, f := range tmpl.Fragments {
		frags[name] = f
	}
	s.templates[tmpl.AID] = frags
	return TemplatePrefix + "/" + tmpl.AID, nil
}

func (s *MemStore) SpawnTemplate(templateName string, objID uint64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tmplFrags, ok := s.templates[templateName]
	if !ok {
		return "", azerr.New(azerr.NotFound, "dibbler: template %q not found", templateName)
	}
	if _, exists := s.instances[objID]; exists {
		return "", azerr.New(azerr.AlreadyExists, "dibbler: instance %d already has assets", objID)
	}
	frags := make(map[string]types.Fragment, len(tmplFrags))
	for name, f := range tmplFrags {
		frags[name] = f
	}
	s.instances[objID] = frags
	return fmt.Sprintf("%s/%d", InstancePrefix, objID), nil
}

func (s *MemStore) UpdateFragments(objID uint64, frags map[string]types.Fragment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.instances[objID]
	if !ok {
		return azerr.New(azerr.NotFound, "dibbler: instance %d not found", objID)
	}
	for name, patch := range frags {
		if patch.FragType == types.FragmentNone {
			delete(existing, name)
			continue
		}
		if patch.FragData == nil {
			cur, ok := existing[name]
			if !ok {
				return azerr.New(azerr.NotFound, "dibbler: fragment %q not found on instance %d", name, objID)
			}
			cur.Scale, cur.Position, cur.Rotation, cur.FragType = patch.Scale, patch.Position, patch.Rotation, patch.FragType
			existing[name] = cur
			continue
		}
		existing[name] = patch
	}
	return nil
}

func (s *MemStore) DelTemplate(templateName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[templateName]; !ok {
		return azerr.New(azerr.NotFound, "dibbler: template %q not found", templateName)
	}
	delete(s.templates, templateName)
	return nil
}

func (s *MemStore) DelInstance(objID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[objID]; !ok {
		return azerr.New(azerr.NotFound, "dibbler: instance %d not found", objID)
	}
	delete(s.instances, objID)
	return nil
}

func (s *MemStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates = make(map[string]map[string]types.Fragment)
	s.instances = make(map[uint64]map[string]types.Fragment)
	return nil
}

// digest returns the xxhash digest LocalStore records for fragment
// data; nothing in the package calls it.
func digest(data []byte) uint64 { return xxhash.Checksum64(data) }
