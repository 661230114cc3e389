package rabbitmq

// A narrow interface over the amqp091 channel, sized to what the
// source actually uses. The fake implementation in fake_test.go makes
// the provisioning and consume logic testable without a broker.

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

// Values we pass on every channel call.
// See https://www.rabbitmq.com/amqp-0-9-1-reference.html.
const (
	// Declared queues model an ephemeral consumer: the broker deletes
	// them once the declaring connection closes.
	durable    = false
	autoDelete = true
	exclusive  = true

	// We always want to wait for the server's reply.
	noWait = false

	// Ack exactly one tag, never a batch.
	multiple = false
)

type amqpChannel interface {
	// DeclareQueue declares name (server-named when empty) as an
	// auto-delete exclusive queue and returns the final name.
	DeclareQueue(name string) (string, error)
	BindQueue(queue, exchange, routingKey string) error
	Qos(prefetch int) error
	Consume(queue string, autoAck bool) (<-chan amqp.Delivery, error)
	Ack(tag uint64) error
	Close() error
}

// channel adapts an *amqp.Channel to the amqpChannel interface.
type channel struct {
	ch *amqp.Channel
}

func (c *channel) DeclareQueue(name string) (string, error) {
	q, err := c.ch.QueueDeclare(name, durable, autoDelete, exclusive, noWait, nil)
	if err != nil {
		return "", err
	}
	return q.Name, nil
}

func (c *channel) BindQueue(queue, exchange, routingKey string) error {
	return c.ch.QueueBind(queue, routingKey, exchange, noWait, nil)
}

func (c *channel) Qos(prefetch int) error {
	return c.ch.Qos(prefetch, 0, false) // prefetchSize and global unused
}

func (c *channel) Consume(queue string, autoAck bool) (<-chan amqp.Delivery, error) {
	return c.ch.Consume(queue, "", // consumer tag (broker-assigned)
		autoAck,
		false, // exclusive
		false, // noLocal
		noWait,
		nil) // args
}

func (c *channel) Ack(tag uint64) error {
	return c.ch.Ack(tag, multiple)
}

func (c *channel) Close() error {
	return c.ch.Close()
}
