package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

// BoltStore implements Store on top of BoltDB, one bucket per
// collection, documents marshaled as JSON keyed by aid.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (creating if necessary) a BoltDB file under
// dataDir and ensures the well-known collections exist as buckets.
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "azrael.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{CollectionTemplates, CollectionInstances, CollectionCounters} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("store: create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error { return s.db.Close() }

func (s *BoltStore) Put(collection string, ops []PutOp) (map[string]bool, error) {
	result := make(map[string]bool, len(ops))
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, collection)
		if err != nil {
			return err
		}
		for _, op := range ops {
			if b.Get([]byte(op.AID)) != nil {
				result[op.AID] = false
				continue
			}
			data, err := json.Marshal(op.Data)
			if err != nil {
				return fmt.Errorf("store: marshal %s: %w", op.AID, err)
			}
			if err := b.Put([]byte(op.AID), data); err != nil {
				return err
			}
			result[op.AID] = true
		}
		return nil
	})
	return result, err
}

func (s *BoltStore) Mod(collection string, ops []ModOp) (map[string]ModResult, error) {
	result := make(map[string]ModResult, len(ops))
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, collection)
		if err != nil {
			return err
		}
		for _, op := range ops {
			ok, doc, err := applyMod(b, op)
			if err != nil {
				return err
			}
			if !ok {
				result[op.AID] = ModResult{}
				continue
			}
			data, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("store: marshal %s: %w", op.AID, err)
			}
			if err := b.Put([]byte(op.AID), data); err != nil {
				return err
			}
			result[op.AID] = ModResult{OK: true, Doc: doc}
		}
		return nil
	})
	return result, err
}

// applyMod evaluates preconditions and mutations for a single ModOp
// against the bucket's current value, returning the mutated document
// without writing it back — callers persist on success.
func applyMod(b *bolt.Bucket, op ModOp) (bool, Doc, error) {
	raw := b.Get([]byte(op.AID))
	doc := Doc{}
	exists := raw != nil
	if exists {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return false, nil, fmt.Errorf("store: unmarshal %s: %w", op.AID, err)
		}
	}

	for _, check := range op.Exists {
		_, has := getPath(doc, splitDotted(check.Path))
		if has != check.Exists {
			return false, nil, nil
		}
	}

	for path, delta := range op.Inc {
		if err := incPath(doc, splitDotted(path), delta); err != nil {
			return false, nil, nil
		}
	}
	for path, value := range op.Set {
		if err := setPath(doc, splitDotted(path), value); err != nil {
			return false, nil, nil
		}
	}
	for _, path := range op.Unset {
		unsetPath(doc, splitDotted(path))
	}

	return true, doc, nil
}

func (s *BoltStore) GetOne(collection, aid string, projection []Path) (Doc, bool, error) {
	var doc Doc
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, collection)
		if err != nil {
			return err
		}
		raw := b.Get([]byte(aid))
		if raw == nil {
			return nil
		}
		found = true
		var d Doc
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("store: unmarshal %s: %w", aid, err)
		}
		doc = project(d, projection)
		return nil
	})
	return doc, found, err
}

func (s *BoltStore) GetMulti(collection string, aids []string, projection []Path) (map[string]Doc, error) {
	out := make(map[string]Doc, len(aids))
	err := s.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, collection)
		if err != nil {
			return err
		}
		for _, aid := range aids {
			raw := b.Get([]byte(aid))
			if raw == nil {
				continue
			}
			var d Doc
			if err := json.Unmarshal(raw, &d); err != nil {
				return fmt.Errorf("store: unmarshal %s: %w", aid, err)
			}
			out[aid] = project(d, projection)
		}
		return nil
	})
	return out, err
}

func (s *BoltStore) GetAll(collection string, projection []Path) (map[string]Doc, error) {
	out := make(map[string]Doc)
	err := s.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, collection)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			var d Doc
			if err := json.Unmarshal(v, &d); err != nil {
				return fmt.Errorf("store: unmarshal %s: %w", k, err)
			}
			out[string(k)] = project(d, projection)
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) Count(collection string) (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, collection)
		if err != nil {
			return err
		}
		n = b.Stats().KeyN
		return nil
	})
	return n, err
}

func (s *BoltStore) Delete(collection string, aids []string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, collection)
		if err != nil {
			return err
		}
		for _, aid := range aids {
			if err := b.Delete([]byte(aid)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Reset(collection string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		name := []byte(collection)
		if err := tx.DeleteBucket(name); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket(name)
		return err
	})
}

func bucket(tx *bolt.Tx, collection string) (*bolt.Bucket, error) {
	b := tx.Bucket([]byte(collection))
	if b == nil {
		return nil, fmt.Errorf("store: unknown collection %q", collection)
	}
	return b, nil
}
