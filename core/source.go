package core

import "context"

// Delivery is one message handed to the consumer by a source.
// A delivery's tag is only meaningful until the next delivery is
// produced or the source is closed; do not hold on to it.
type Delivery interface {
	// Tag returns the source-assigned identifier for this delivery.
	Tag() uint64

	// Body returns the raw message payload.
	Body() []byte

	// Ack acknowledges this delivery with the broker.
	Ack() error
}

// Source is the contract a queue backend must implement.
// Plugins provide implementations for RabbitMQ, NATS and Kafka.
//
// The consumer drives a source through a fixed sequence:
// Provision once, Qos at most once, Consume once, then Close.
type Source interface {
	// Provision resolves the queue (or stream/topic) to consume from,
	// declaring and binding it if the configuration requires that, and
	// returns its final name.
	Provision(ctx context.Context) (string, error)

	// Qos asks the broker to cap the number of unacknowledged
	// deliveries outstanding at once. Purely a flow-control hint.
	Qos(prefetch int) error

	// Consume starts delivery of messages from the provisioned queue.
	// The returned channel is closed when the context is cancelled or
	// the underlying connection fails; Err reports which.
	Consume(ctx context.Context) (<-chan Delivery, error)

	// Err returns the reason the delivery channel was closed, or nil
	// if it closed cleanly.
	Err() error

	// Close tears down the connection to the broker.
	Close() error
}

// Handler processes one delivery. Returning ErrPipelineFailed marks the
// delivery as failed without stopping the run; any other error is fatal.
type Handler func(ctx context.Context, d Delivery) error

// Middleware wraps a Handler to add cross-cutting behavior.
type Middleware func(Handler) Handler
