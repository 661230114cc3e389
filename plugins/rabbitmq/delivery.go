package rabbitmq

// delivery adapts one amqp delivery to core.Delivery. Only the tag and
// body cross the boundary; headers and routing metadata never reach
// the pipeline.
type delivery struct {
	ch   amqpChannel
	tag  uint64
	body []byte
}

func (d *delivery) Tag() uint64  { return d.tag }
func (d *delivery) Body() []byte { return d.body }

// Ack acknowledges exactly this delivery's tag, no requeue, no batch.
func (d *delivery) Ack() error {
	if err := d.ch.Ack(d.tag); err != nil {
		return rpcError("basic.ack", err)
	}
	return nil
}
