package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// maxPrefetch is the largest prefetch count the protocol can carry in
// a basic.qos frame (a 16-bit field).
const maxPrefetch = 65535

// Consumer drives the consume loop: it provisions the source, applies
// flow control, and for every delivery spawns the configured pipeline,
// streams the body into it, and acknowledges the delivery iff every
// stage exited with status zero.
//
// A single goroutine owns the loop. Message N+1 is not touched until
// message N's pipeline is streamed, reaped and settled, so at most one
// pipeline and one open body stream exist at any time.
type Consumer struct {
	src         Source
	stages      [][]string
	noAck       bool
	count       int
	stdout      io.Writer
	stderr      io.Writer
	middlewares []Middleware

	mu      sync.Mutex
	started bool
}

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

// WithNoAck runs the consumer in no-ack mode: the broker settles
// messages at delivery time and no acknowledgment is ever sent.
func WithNoAck(noAck bool) ConsumerOption {
	return func(c *Consumer) { c.noAck = noAck }
}

// WithCount bounds the number of deliveries processed before the run
// ends normally. Zero or negative means unbounded. A count between 1
// and 65535 is also used as the broker prefetch.
func WithCount(n int) ConsumerOption {
	return func(c *Consumer) { c.count = n }
}

// WithStdout redirects the last pipeline stage's standard output.
func WithStdout(w io.Writer) ConsumerOption {
	return func(c *Consumer) { c.stdout = w }
}

// WithStderr redirects the pipeline stages' standard error.
func WithStderr(w io.Writer) ConsumerOption {
	return func(c *Consumer) { c.stderr = w }
}

// NewConsumer creates a Consumer that feeds each delivery from src
// into a pipeline built from the given argv stages.
func NewConsumer(src Source, stages [][]string, fns ...ConsumerOption) *Consumer {
	c := &Consumer{
		src:    src,
		stages: stages,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, fn := range fns {
		fn(c)
	}
	return c
}

// Use registers per-delivery middleware. Middleware is applied in
// reverse registration order (first registered wraps outermost).
func (c *Consumer) Use(m Middleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.middlewares = append(c.middlewares, m)
}

// Run provisions the source and consumes deliveries until the count
// limit is reached or the context is cancelled. It returns nil on both
// of those paths; every other termination is a fatal error.
//
// The count limit is only checked between fully settled deliveries; a
// delivery in flight always runs to its acknowledgment decision.
func (c *Consumer) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.src == nil {
		c.mu.Unlock()
		return ErrNoSource
	}
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	mws := make([]Middleware, len(c.middlewares))
	copy(mws, c.middlewares)
	c.mu.Unlock()

	if _, err := c.src.Provision(ctx); err != nil {
		return err
	}

	// A count in prefetch range doubles as the QoS hint; anything
	// else still bounds the loop but leaves flow control to the broker.
	if c.count > 0 && c.count <= maxPrefetch {
		if err := c.src.Qos(c.count); err != nil {
			return err
		}
	}

	deliveries, err := c.src.Consume(ctx)
	if err != nil {
		return err
	}

	handler := applyMiddleware(c.handleDelivery, mws)

	for processed := 0; c.count <= 0 || processed < c.count; processed++ {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				if err := c.src.Err(); err != nil {
					return fmt.Errorf("pipemq: waiting for delivery: %w", err)
				}
				return ErrSourceClosed
			}
			if err := handler(ctx, d); err != nil && !errors.Is(err, ErrPipelineFailed) {
				return err
			}
		}
	}
	return nil
}

// handleDelivery runs one delivery through the pipeline. The pipeline
// is always reaped before this returns, whatever the outcome.
func (c *Consumer) handleDelivery(_ context.Context, d Delivery) error {
	p, err := NewPipeline(c.stages...)
	if err != nil {
		return err
	}
	p.Stdout = c.stdout
	p.Stderr = c.stderr

	if err := p.Start(); err != nil {
		return err
	}
	if err := p.Stream(d.Body()); err != nil {
		p.Finish()
		return err
	}
	if !p.Finish() {
		// Withholding the ack is the only failure signal given to the
		// broker; it may redeliver per its own policy.
		return ErrPipelineFailed
	}
	if c.noAck {
		return nil
	}
	if err := d.Ack(); err != nil {
		return fmt.Errorf("pipemq: ack delivery %d: %w", d.Tag(), err)
	}
	return nil
}

// applyMiddleware wraps a handler with middleware in reverse order.
// Given middleware [A, B, C], the call order is A -> B -> C -> handler.
func applyMiddleware(h Handler, mws []Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
