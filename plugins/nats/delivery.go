package nats

import (
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// delivery adapts a JetStream message to core.Delivery.
type delivery struct {
	msg jetstream.Msg
}

// Tag returns the message's stream sequence number. Like an AMQP
// delivery tag it is monotonic per stream and only meaningful while
// the message is unacknowledged.
func (d *delivery) Tag() uint64 {
	meta, err := d.msg.Metadata()
	if err != nil {
		return 0
	}
	return meta.Sequence.Stream
}

func (d *delivery) Body() []byte { return d.msg.Data() }

// Ack acknowledges the message, marking it as processed.
func (d *delivery) Ack() error {
	if err := d.msg.Ack(); err != nil {
		return fmt.Errorf("pipemq/nats: ack: %w", err)
	}
	return nil
}
