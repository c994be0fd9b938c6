package queue

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var bucketQueue = []byte("physics_queue")

// BoltQueue is a durable, append-only physics command log backed by
// BoltDB, one bucket holding every entry keyed by an 8-byte
// big-endian sequence number — the same append-only bucket idiom the
// teacher uses for its raft log store, generalized from raft.Log
// entries to physics commands.
type BoltQueue struct {
	db *bolt.DB
}

// NewBoltQueue opens (creating if necessary) a queue database file
// under dataDir.
func NewBoltQueue(dataDir string) (*BoltQueue, error) {
	db, err := bolt.Open(filepath.Join(dataDir, "queue.db"), 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("queue: open database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketQueue)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltQueue{db: db}, nil
}

func (q *BoltQueue) Close() error { return q.db.Close() }

func (q *BoltQueue) Enqueue(op Op, payload interface{}) (uint64, error) {
	cmd, err := encode(op, payload)
	if err != nil {
		return 0, err
	}
	var seq uint64
	err = q.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueue)
		next, err := b.NextSequence()
		if err != nil {
			return err
		}
		seq = next
		cmd.Seq = seq
		data, err := json.Marshal(cmd)
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), data)
	})
	return seq, err
}

func (q *BoltQueue) Depth() (int, error) {
	n := 0
	err := q.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketQueue).Stats().KeyN
		return nil
	})
	return n, err
}

func (q *BoltQueue) Drain(limit int) ([]Command, error) {
	var out []Command
	err := q.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketQueue)
		c := b.Cursor()
		var toDelete [][]byte
		for k, v := c.First(); k != nil && (limit <= 0 || len(out) < limit); k, v = c.Next() {
			var cmd Command
			if err := json.Unmarshal(v, &cmd); err != nil {
				return fmt.Errorf("queue: unmarshal entry: %w", err)
			}
			out = append(out, cmd)
			toDelete = append(toDelete, append([]byte(nil), k...))
		}
		for _, k := range toDelete {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

func (q *BoltQueue) Reset() error {
	return q.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketQueue); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket(bucketQueue)
		return err
	})
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
