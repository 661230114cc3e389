// Package pipemq bridges message queues to external commands: each
// delivery's body is streamed into a subprocess pipeline's standard
// input, and the delivery is acknowledged only if every pipeline stage
// exits with status zero. It re-exports core types for convenience,
// so users can write:
//
//	c := pipemq.NewConsumer(src, [][]string{{"handle-order"}})
//	c.Run(ctx)
package pipemq

import (
	"github.com/pipemq/pipemq/core"
)

// Re-export core types at the package level for ergonomic usage.
type (
	Delivery   = core.Delivery
	Source     = core.Source
	Handler    = core.Handler
	Middleware = core.Middleware
	Consumer   = core.Consumer
	Pipeline   = core.Pipeline
)

// NewConsumer creates a Consumer that feeds deliveries from src into a
// pipeline built from the given argv stages.
func NewConsumer(src Source, stages [][]string, fns ...core.ConsumerOption) *Consumer {
	return core.NewConsumer(src, stages, fns...)
}

// Consumer options, re-exported for convenience.
var (
	WithNoAck  = core.WithNoAck
	WithCount  = core.WithCount
	WithStdout = core.WithStdout
	WithStderr = core.WithStderr
)
