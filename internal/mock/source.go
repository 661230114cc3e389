package mock

import (
	"context"
	"sync"

	"github.com/pipemq/pipemq/core"
)

// Source is a test double for core.Source. Deliveries queued with
// Enqueue are handed to the consumer in order; every method call is
// recorded so tests can assert on sequencing.
type Source struct {
	// QueueName is returned by Provision. May be non-UTF-8.
	QueueName string
	// ProvisionErr, QosErr and ConsumeErr fail the matching call.
	ProvisionErr error
	QosErr       error
	ConsumeErr   error
	// StreamErr is reported by Err after the delivery channel closes.
	// When set, the channel closes as soon as the queue drains instead
	// of blocking for cancellation.
	StreamErr error
	// CloseWhenDrained closes the delivery channel once the queue is
	// empty without reporting an error, like a broker-side cancel.
	CloseWhenDrained bool

	mu       sync.Mutex
	pending  []core.Delivery
	calls    []string
	prefetch int
	closed   bool
}

func NewSource() *Source {
	return &Source{QueueName: "mock-queue"}
}

// Enqueue adds a delivery to hand out during Consume. Must be called
// before the consumer starts.
func (s *Source) Enqueue(d core.Delivery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, d)
}

func (s *Source) Provision(context.Context) (string, error) {
	s.record("provision")
	if s.ProvisionErr != nil {
		return "", s.ProvisionErr
	}
	return s.QueueName, nil
}

func (s *Source) Qos(prefetch int) error {
	s.record("qos")
	if s.QosErr != nil {
		return s.QosErr
	}
	s.mu.Lock()
	s.prefetch = prefetch
	s.mu.Unlock()
	return nil
}

func (s *Source) Consume(ctx context.Context) (<-chan core.Delivery, error) {
	s.record("consume")
	if s.ConsumeErr != nil {
		return nil, s.ConsumeErr
	}
	s.mu.Lock()
	pending := s.pending
	s.mu.Unlock()

	out := make(chan core.Delivery)
	go func() {
		defer close(out)
		for _, d := range pending {
			select {
			case out <- d:
			case <-ctx.Done():
				return
			}
		}
		// Queue drained: block like a live broker until cancellation,
		// unless the test scripted a stream error or an early close.
		if s.StreamErr == nil && !s.CloseWhenDrained {
			<-ctx.Done()
		}
	}()
	return out, nil
}

func (s *Source) Err() error { return s.StreamErr }

func (s *Source) Close() error {
	s.record("close")
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Calls returns the method names invoked so far, in order.
func (s *Source) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// Prefetch returns the last prefetch passed to Qos, zero if none.
func (s *Source) Prefetch() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefetch
}

// IsClosed reports whether Close was called.
func (s *Source) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Source) record(name string) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()
}
