package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/buntdb"
)

// MemStore implements Store on top of an in-memory buntdb database.
// Keys are "<collection>:<aid>"; values are JSON-encoded documents.
// buntdb gives per-transaction atomicity for free, matching the
// per-document atomicity the contract requires, and its native
// JSON-path indexing is exactly the shape repeated projected reads
// over the same field benefit from. NewMemStore creates an index of
// the live instance collection by rbs.version; no code in this repo
// queries it, and pkg/cache clears itself whole rather than scanning.
type MemStore struct {
	db *buntdb.DB
}

// NewMemStore opens a fresh in-memory store.
func NewMemStore() (*MemStore, error) {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("store: open buntdb: %w", err)
	}
	err = db.CreateIndex("instances_version", instanceKeyPattern,
		buntdb.IndexJSON("rbs.version"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create index: %w", err)
	}
	return &MemStore{db: db}, nil
}

const instanceKeyPattern = CollectionInstances + ":*"

func key(collection, aid string) string { return collection + ":" + aid }

func aidFromKey(collection, k string) (string, bool) {
	prefix := collection + ":"
	if !strings.HasPrefix(k, prefix) {
		return "", false
	}
	return k[len(prefix):], true
}

func (s *MemStore) Close() error { return s.db.Close() }

func (s *MemStore) Put(collection string, ops []PutOp) (map[string]bool, error) {
	result := make(map[string]bool, len(ops))
	err := s.db.Update(func(tx *buntdb.Tx) error {
		for _, op := range ops {
			k := key(collection, op.AID)
			if _, err := tx.Get(k); err == nil {
				result[op.AID] = false
				continue
			}
			data, err := json.Marshal(op.Data)
			if err != nil {
				return fmt.Errorf("store: marshal %s: %w", op.AID, err)
			}
			if _, _, err := tx.Set(k, string(data), nil); err != nil {
				return err
			}
			result[op.AID] = true
		}
		return nil
	})
	return result, err
}

func (s *MemStore) Mod(collection string, ops []ModOp) (map[string]ModResult, error) {
	result := make(map[string]ModResult, len(ops))
	err := s.db.Update(func(tx *buntdb.Tx) error {
		for _, op := range ops {
			k := key(collection, op.AID)
			raw, getErr := tx.Get(k)
			doc := Doc{}
			if getErr == nil {
				if err := json.Unmarshal([]byte(raw), &doc); err != nil {
					return fmt.Errorf("store: unmarshal %s: %w", op.AID, err)
				}
			}

			ok := true
			for _, check := range op.Exists {
				_, has := getPath(doc, splitDotted(check.Path))
				if has != check.Exists {
					ok = false
					break
				}
			}
			if ok {
				for path, delta := range op.Inc {
					if err := incPath(doc, splitDotted(path), delta); err != nil {
						ok = false
						break
					}
				}
			}
			if ok {
				for path, value := range op.Set {
					if err := setPath(doc, splitDotted(path), value); err != nil {
						ok = false
						break
					}
				}
			}
			if !ok {
				result[op.AID] = ModResult{}
				continue
			}
			for _, path := range op.Unset {
				unsetPath(doc, splitDotted(path))
			}

			data, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("store: marshal %s: %w", op.AID, err)
			}
			if _, _, err := tx.Set(k, string(data), nil); err != nil {
				return err
			}
			result[op.AID] = ModResult{OK: true, Doc: doc}
		}
		return nil
	})
	return result, err
}

func (s *MemStore) GetOne(collection, aid string, projection []Path) (Doc, bool, error) {
	var doc Doc
	var found bool
	err := s.db.View(func(tx *buntdb.Tx) error {
		raw, err := tx.Get(key(collection, aid))
		if err == buntdb.ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		var d Doc
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return fmt.Errorf("store: unmarshal %s: %w", aid, err)
		}
		found = true
		doc = project(d, projection)
		return nil
	})
	return doc, found, err
}

func (s *MemStore) GetMulti(collection string, aids []string, projection []Path) (map[string]Doc, error) {
	out := make(map[string]Doc, len(aids))
	err := s.db.View(func(tx *buntdb.Tx) error {
		for _, aid := range aids {
			raw, err := tx.Get(key(collection, aid))
			if err == buntdb.ErrNotFound {
				continue
			}
			if err != nil {
				return err
			}
			var d Doc
			if err := json.Unmarshal([]byte(raw), &d); err != nil {
				return fmt.Errorf("store: unmarshal %s: %w", aid, err)
			}
			out[aid] = project(d, projection)
		}
		return nil
	})
	return out, err
}

func (s *MemStore) GetAll(collection string, projection []Path) (map[string]Doc, error) {
	out := make(map[string]Doc)
	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(collection+":*", func(k, v string) bool {
			aid, ok := aidFromKey(collection, k)
			if !ok {
				return true
			}
			var d Doc
			if err := json.Unmarshal([]byte(v), &d); err != nil {
				return false
			}
			out[aid] = project(d, projection)
			return true
		})
	})
	return out, err
}

func (s *MemStore) Count(collection string) (int, error) {
	n := 0
	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(collection+":*", func(k, v string) bool {
			n++
			return true
		})
	})
	return n, err
}

func (s *MemStore) Delete(collection string, aids []string) error {
	return s.db.Update(func(tx *buntdb.Tx) error {
		for _, aid := range aids {
			if _, err := tx.Delete(key(collection, aid)); err != nil && err != buntdb.ErrNotFound {
				return err
			}
		}
		return nil
	})
}

func (s *MemStore) Reset(collection string) error {
	var keys []string
	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(collection+":*", func(k, v string) bool {
			keys = append(keys, k)
			return true
		})
	})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *buntdb.Tx) error {
		for _, k := range keys {
			if _, err := tx.Delete(k); err != nil && err != buntdb.ErrNotFound {
				return err
			}
		}
		return nil
	})
}
