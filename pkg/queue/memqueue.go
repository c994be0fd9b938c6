package queue

import "sync"

// MemQueue is an in-memory Queue for tests: the test-only Euler
// stepper (pkg/clerk/clerk_test.go) drains it to check the scenario 5
// handoff (both linked bodies spawned, force queued for the right
// body) without a BoltDB fixture.
type MemQueue struct {
	mu      sync.Mutex
	entries []Command
	nextSeq uint64
}

// NewMemQueue returns an empty in-memory queue.
func NewMemQueue() *MemQueue { return &MemQueue{} }

func (q *MemQueue) Enqueue(op Op, payload interface{}) (uint64, error) {
	cmd, err := encode(op, payload)
	if err != nil {
		return 0, err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextSeq++
	cmd.Seq = q.nextSeq
	q.entries = append(q.entries, cmd)
	return cmd.Seq, nil
}

func (q *MemQueue) Depth() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries), nil
}

func (q *MemQueue) Drain(limit int) ([]Command, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if limit <= 0 || limit > len(q.entries) {
		limit = len(q.entries)
	}
	out := q.entries[:limit]
	q.entries = q.entries[limit:]
	return out, nil
}

func (q *MemQueue) Reset() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
	q.nextSeq = 0
	return nil
}

func (q *MemQueue) Close() error { return nil }
