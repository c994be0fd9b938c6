package queue

// Producer is the only capability Clerk is given: append a command
// and get back its sequence number, plus Depth to report backlog size
// for metrics. The concurrency model forbids Clerk from reading the
// queue back, so Producer deliberately has no Drain method — Depth
// reports a count, never an entry.
type Producer interface {
	Enqueue(op Op, payload interface{}) (seq uint64, err error)
	Depth() (int, error)
}

// Queue is the full capability the stepping engine (or, in tests, the
// Euler stepper) is given: Producer plus Drain to consume entries in
// order, and lifecycle management.
type Queue interface {
	Producer
	Drain(limit int) ([]Command, error)
	Reset() error
	Close() error
}
