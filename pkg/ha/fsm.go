package ha

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/azrael-sim/clerk/pkg/store"
	"github.com/hashicorp/raft"
)

// Op names the document-store primitive a Command replays.
type Op string

const (
	OpPut    Op = "put"
	OpMod    Op = "mod"
	OpDelete Op = "delete"
	OpReset  Op = "reset"
)

// Command is a single replicated mutation: one of store.Store's
// Put/Mod/Delete/Reset calls, tagged by Op and scoped to Collection.
type Command struct {
	Op         Op              `json:"op"`
	Collection string          `json:"collection"`
	Data       json.RawMessage `json:"data"`
}

// ClerkFSM applies replicated Commands to a store.Store under a mutex.
type ClerkFSM struct {
	mu    sync.Mutex
	store store.Store
}

// NewClerkFSM wraps a document store as a Raft FSM.
func NewClerkFSM(s store.Store) *ClerkFSM {
	return &ClerkFSM{store: s}
}

// Apply replays one committed log entry.
func (f *ClerkFSM) Apply(log *raft.Log) interface{} {
	var cmd Command
	if err := json.Unmarshal(log.Data, &cmd); err != nil {
		return fmt.Errorf("ha: unmarshal command: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch cmd.Op {
	case OpPut:
		var ops []store.PutOp
		if err := json.Unmarshal(cmd.Data, &ops); err != nil {
			return fmt.Errorf("ha: unmarshal put ops: %w", err)
		}
		results, err := f.store.Put(cmd.Collection, ops)
		if err != nil {
			return err
		}
		return results

	case OpMod:
		var ops []store.ModOp
		if err := json.Unmarshal(cmd.Data, &ops); err != nil {
			return fmt.Errorf("ha: unmarshal mod ops: %w", err)
		}
		results, err := f.store.Mod(cmd.Collection, ops)
		if err != nil {
			return err
		}
		return results

	case OpDelete:
		var aids []string
		if err := json.Unmarshal(cmd.Data, &aids); err != nil {
			return fmt.Errorf("ha: unmarshal delete aids: %w", err)
		}
		return f.store.Delete(cmd.Collection, aids)

	case OpReset:
		return f.store.Reset(cmd.Collection)

	default:
		return fmt.Errorf("ha: unknown op %q", cmd.Op)
	}
}

// Snapshot captures every known collection for log compaction. Azrael
// has a fixed, small collection set, so the snapshot simply walks all
// of them.
func (f *ClerkFSM) Snapshot() (raft.FSMSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := &clerkSnapshot{Collections: make(map[string]store.Doc)}
	for _, collection := range []string{store.CollectionTemplates, store.CollectionInstances, store.CollectionCounters} {
		docs, err := f.store.GetAll(collection, nil)
		if err != nil {
			return nil, fmt.Errorf("ha: snapshot %s: %w", collection, err)
		}
		for aid, doc := range docs {
			snap.Collections[collection+"/"+aid] = doc
		}
	}
	return snap, nil
}

// Restore replaces store contents from a previously captured snapshot.
func (f *ClerkFSM) Restore(rc io.ReadCloser) error {
	defer rc.Close()

	var snap clerkSnapshot
	if err := json.NewDecoder(rc).Decode(&snap); err != nil {
		return fmt.Errorf("ha: decode snapshot: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, collection := range []string{store.CollectionTemplates, store.CollectionInstances, store.CollectionCounters} {
		if err := f.store.Reset(collection); err != nil {
			return fmt.Errorf("ha: reset %s: %w", collection, err)
		}
	}

	byCollection := make(map[string][]store.PutOp)
	for key, doc := range snap.Collections {
		collection, aid, ok := splitKey(key)
		if !ok {
			continue
		}
		byCollection[collection] = append(byCollection[collection], store.PutOp{AID: aid, Data: doc})
	}
	for collection, ops := range byCollection {
		if _, err := f.store.Put(collection, ops); err != nil {
			return fmt.Errorf("ha: restore %s: %w", collection, err)
		}
	}
	return nil
}

func splitKey(key string) (collection, aid string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}

type clerkSnapshot struct {
	Collections map[string]store.Doc
}

// Persist writes the snapshot as JSON to the Raft-provided sink.
func (s *clerkSnapshot) Persist(sink raft.SnapshotSink) error {
	err := func() error {
		if err := json.NewEncoder(sink).Encode(s); err != nil {
			return err
		}
		return sink.Close()
	}()
	if err != nil {
		sink.Cancel()
	}
	return err
}

// Release is a no-op; the snapshot holds no external resources.
func (s *clerkSnapshot) Release() {}
