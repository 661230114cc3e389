package core

import (
	"errors"
	"fmt"
)

var (
	// ErrRoutingKeyWithoutExchange is returned when a routing key is
	// configured without an exchange to bind through. Detected before
	// any network I/O.
	ErrRoutingKeyWithoutExchange = errors.New("pipemq: routing key requires an exchange")

	// ErrPipelineFailed marks a delivery whose pipeline exited with a
	// non-zero status. The consumer withholds the ack and moves on.
	ErrPipelineFailed = errors.New("pipemq: pipeline exited with non-zero status")

	// ErrSourceClosed is returned when the delivery stream ends without
	// the run being cancelled and the source reports no cause.
	ErrSourceClosed = errors.New("pipemq: delivery stream closed")

	// ErrAlreadyStarted is returned when Run is called on a running consumer.
	ErrAlreadyStarted = errors.New("pipemq: consumer already started")

	// ErrNoSource is returned when a consumer is created without a source.
	ErrNoSource = errors.New("pipemq: source is nil")
)

// RPCError is a broker-rejected protocol request: which operation
// failed and the server's reply.
type RPCError struct {
	Op     string // protocol operation, e.g. "queue.declare"
	Code   int    // server reply code
	Reason string // server reply text
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("pipemq: %s: server returned %d (%s)", e.Op, e.Code, e.Reason)
}
