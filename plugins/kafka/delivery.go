package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// delivery adapts a kafka.Message to core.Delivery. It holds a
// reference to the reader for offset management.
type delivery struct {
	raw    kafka.Message
	reader *kafka.Reader
	ctx    context.Context
}

// Tag returns the message offset, the partition-scoped analogue of a
// delivery tag.
func (d *delivery) Tag() uint64 { return uint64(d.raw.Offset) }

func (d *delivery) Body() []byte { return d.raw.Value }

// Ack commits the offset for this message.
func (d *delivery) Ack() error {
	if err := d.reader.CommitMessages(d.ctx, d.raw); err != nil {
		return fmt.Errorf("pipemq/kafka: commit offset: %w", err)
	}
	return nil
}
