package rabbitmq

// Option configures the RabbitMQ source.
type Option func(*options)

type options struct {
	queue      string
	exchange   string
	routingKey string
	declare    bool
	noAck      bool
}

func defaults() options {
	return options{} // consume a named, pre-existing queue with acks on
}

// WithQueue sets the queue to consume from. Empty means the broker
// assigns a name at declare time.
func WithQueue(name string) Option {
	return func(o *options) { o.queue = name }
}

// WithExchange binds the queue to the named exchange. The queue is
// always declared when an exchange is set.
func WithExchange(name string) Option {
	return func(o *options) { o.exchange = name }
}

// WithRoutingKey sets the key the queue is bound with. Requires an
// exchange; empty is valid and means no explicit key.
func WithRoutingKey(key string) Option {
	return func(o *options) { o.routingKey = key }
}

// WithDeclare forces the queue to be declared even when a name was given.
func WithDeclare(declare bool) Option {
	return func(o *options) { o.declare = declare }
}

// WithNoAck consumes in no-ack mode: the broker settles messages at
// delivery time and Ack becomes a no-op at the protocol level.
func WithNoAck(noAck bool) Option {
	return func(o *options) { o.noAck = noAck }
}
