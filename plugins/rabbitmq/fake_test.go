package rabbitmq

// A fake amqpChannel so provisioning and consume logic can be tested
// without a live broker.

import (
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type bindCall struct {
	queue, exchange, routingKey string
}

type consumeCall struct {
	queue   string
	autoAck bool
}

type fakeChannel struct {
	// serverName is returned by DeclareQueue when the requested name
	// is empty, imitating a broker-generated queue name.
	serverName string

	declareErr error
	bindErr    error
	qosErr     error
	consumeErr error
	ackErr     error

	// deliveries feeds Consume. Tests close it to simulate the
	// connection dropping.
	deliveries chan amqp.Delivery

	mu       sync.Mutex
	declared []string
	binds    []bindCall
	qos      []int
	consumes []consumeCall
	acked    []uint64
	closed   bool
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		serverName: "amq.gen-fake",
		deliveries: make(chan amqp.Delivery, 16),
	}
}

func (f *fakeChannel) DeclareQueue(name string) (string, error) {
	f.mu.Lock()
	f.declared = append(f.declared, name)
	f.mu.Unlock()
	if f.declareErr != nil {
		return "", f.declareErr
	}
	if name == "" {
		return f.serverName, nil
	}
	return name, nil
}

func (f *fakeChannel) BindQueue(queue, exchange, routingKey string) error {
	f.mu.Lock()
	f.binds = append(f.binds, bindCall{queue, exchange, routingKey})
	f.mu.Unlock()
	return f.bindErr
}

func (f *fakeChannel) Qos(prefetch int) error {
	f.mu.Lock()
	f.qos = append(f.qos, prefetch)
	f.mu.Unlock()
	return f.qosErr
}

func (f *fakeChannel) Consume(queue string, autoAck bool) (<-chan amqp.Delivery, error) {
	f.mu.Lock()
	f.consumes = append(f.consumes, consumeCall{queue, autoAck})
	f.mu.Unlock()
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	return f.deliveries, nil
}

func (f *fakeChannel) Ack(tag uint64) error {
	f.mu.Lock()
	f.acked = append(f.acked, tag)
	f.mu.Unlock()
	return f.ackErr
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeChannel) declaredNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.declared))
	copy(out, f.declared)
	return out
}

func (f *fakeChannel) ackedTags() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uint64, len(f.acked))
	copy(out, f.acked)
	return out
}
