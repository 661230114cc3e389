package mock

import "sync"

// Delivery is a simple core.Delivery implementation for testing.
type Delivery struct {
	T      uint64
	B      []byte
	AckErr error

	mu    sync.Mutex
	acked bool
}

func (d *Delivery) Tag() uint64  { return d.T }
func (d *Delivery) Body() []byte { return d.B }

func (d *Delivery) Ack() error {
	d.mu.Lock()
	d.acked = true
	d.mu.Unlock()
	return d.AckErr
}

// Acked reports whether Ack was called.
func (d *Delivery) Acked() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.acked
}
