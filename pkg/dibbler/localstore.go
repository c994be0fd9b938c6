package dibbler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/OneOfOne/xxhash"
	"github.com/pierrec/lz4/v3"

	"github.com/azrael-sim/clerk/pkg/azerr"
	"github.com/azrael-sim/clerk/pkg/types"
)

// fragMeta is the on-disk sidecar for one fragment: everything except
// the (possibly large, possibly absent) data bytes.
type fragMeta struct {
	FragType types.FragmentType `json:"fragtype"`
	Scale    float64            `json:"scale"`
	Position types.Vec3         `json:"position"`
	Rotation types.Quat         `json:"rotation"`
	Digest   uint64             `json:"digest,omitempty"`
}

// LocalStore implements Store on the local filesystem, one directory
// per template/instance and one subdirectory per fragment, the same
// basePath/<id>/... layout pkg/volume/local.go uses for volumes.
// Fragment data is lz4-compressed on disk; a fragment's xxhash digest
// is kept alongside its meta so repeated identical-data patches are
// detected without decompressing the stored blob.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates (if necessary) basePath and returns a
// filesystem-backed asset store rooted there.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("dibbler: create base dir: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

func (s *LocalStore) templateDir(name string) string { return filepath.Join(s.basePath, "templates", name) }
func (s *LocalStore) instanceDir(objID uint64) string {
	return filepath.Join(s.basePath, "instances", strconv.FormatUint(objID, 10))
}

func (s *LocalStore) AddTemplate(tmpl types.Template) (string, error) {
	dir := s.templateDir(tmpl.AID)
	if _, err := os.Stat(dir); err == nil {
		return "", azerr.New(azerr.AlreadyExists, "dibbler: template %q already exists", tmpl.AID)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("dibbler: create template dir: %w", err)
	}
	for name, frag := range tmpl.Fragments {
		if err := writeFragment(filepath.Join(dir, name), frag); err != nil {
			return "", err
		}
	}
	if err := writeNames(dir, tmpl.Fragments); err != nil {
		return "", err
	}
	return TemplatePrefix + "/" + tmpl.AID, nil
}

func (s *LocalStore) SpawnTemplate(templateName string, objID uint64) (string, error) {
	src := s.templateDir(templateName)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return "", azerr.New(azerr.NotFound, "dibbler: template %q not found", templateName)
	}
	dst := s.instanceDir(objID)
	if _, err := os.Stat(dst); err == nil {
		return "", azerr.New(azerr.AlreadyExists, "dibbler: instance %d already has assets", objID)
	}
	if err := copyTree(src, dst); err != nil {
		return "", fmt.Errorf("dibbler: spawn copy: %w", err)
	}
	return fmt.Sprintf("%s/%d", InstancePrefix, objID), nil
}

func (s *LocalStore) UpdateFragments(objID uint64, frags map[string]types.Fragment) error {
	dir := s.instanceDir(objID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return azerr.New(azerr.NotFound, "dibbler: instance %d not found", objID)
	}
	for name, frag := range frags {
		fragDir := filepath.Join(dir, name)
		if frag.FragType == types.FragmentNone {
			if err := os.RemoveAll(fragDir); err != nil {
				return fmt.Errorf("dibbler: tombstone %s: %w", name, err)
			}
			continue
		}
		if frag.FragData == nil {
			// Meta-only patch: never touch stored data bytes.
			if err := patchMetaOnly(fragDir, frag); err != nil {
				return err
			}
			continue
		}
		if err := writeFragment(fragDir, frag); err != nil {
			return err
		}
	}
	return nil
}

func (s *LocalStore) DelTemplate(templateName string) error {
	dir := s.templateDir(templateName)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return azerr.New(azerr.NotFound, "dibbler: template %q not found", templateName)
	}
	return os.RemoveAll(dir)
}

func (s *LocalStore) DelInstance(objID uint64) error {
	dir := s.instanceDir(objID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return azerr.New(azerr.NotFound, "dibbler: instance %d not found", objID)
	}
	// dir names the exact objID directory, so "/instances/1" and
	// "/instances/11" are always disjoint paths, never a string-prefix
	// collision.
	return os.RemoveAll(dir)
}

func (s *LocalStore) Reset() error {
	if err := os.RemoveAll(s.basePath); err != nil {
		return err
	}
	return os.MkdirAll(s.basePath, 0o755)
}

func writeFragment(fragDir string, frag types.Fragment) error {
	if err := os.MkdirAll(fragDir, 0o755); err != nil {
		return fmt.Errorf("dibbler: create fragment dir: %w", err)
	}
	meta := fragMeta{
		FragType: frag.FragType,
		Scale:    frag.Scale,
		Position: frag.Position,
		Rotation: frag.Rotation,
	}
	if frag.FragData != nil {
		meta.Digest = xxhash.Checksum64(frag.FragData)
		dataPath := filepath.Join(fragDir, "data.lz4")
		if prev, err := readMeta(fragDir); err == nil && prev.Digest == meta.Digest {
			if _, err := os.Stat(dataPath); err == nil {
				// Identical data already stored: only the meta is rewritten.
				return writeMeta(fragDir, meta)
			}
		}
		compressed, err := compress(frag.FragData)
		if err != nil {
			return fmt.Errorf("dibbler: compress fragment data: %w", err)
		}
		if err := os.WriteFile(dataPath, compressed, 0o644); err != nil {
			return fmt.Errorf("dibbler: write fragment data: %w", err)
		}
	}
	return writeMeta(fragDir, meta)
}

func patchMetaOnly(fragDir string, frag types.Fragment) error {
	if _, err := os.Stat(fragDir); os.IsNotExist(err) {
		return azerr.New(azerr.NotFound, "dibbler: fragment dir %q not found", fragDir)
	}
	existing, err := readMeta(fragDir)
	if err != nil {
		return err
	}
	existing.FragType = frag.FragType
	existing.Scale = frag.Scale
	existing.Position = frag.Position
	existing.Rotation = frag.Rotation
	return writeMeta(fragDir, existing)
}

func writeMeta(fragDir string, meta fragMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("dibbler: marshal meta: %w", err)
	}
	return os.WriteFile(filepath.Join(fragDir, "meta.json"), data, 0o644)
}

func readMeta(fragDir string) (fragMeta, error) {
	var meta fragMeta
	data, err := os.ReadFile(filepath.Join(fragDir, "meta.json"))
	if err != nil {
		return meta, fmt.Errorf("dibbler: read meta: %w", err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("dibbler: unmarshal meta: %w", err)
	}
	return meta, nil
}

// writeNames persists a meta.json at the template/instance root
// summarising the fragments present, matching the
// /templates/<template>/meta.json URL the asset web server serves.
func writeNames(dir string, frags map[string]types.Fragment) error {
	names := make(map[string]types.FragmentType, len(frags))
	for name, f := range frags {
		names[name] = f.FragType
	}
	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("dibbler: marshal names: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "meta.json"), data, 0o644)
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(data))
	return io.ReadAll(r)
}

func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}
