package middleware

import (
	"context"
	"time"

	"github.com/pipemq/pipemq/core"
)

// MetricsCollector is the interface that metrics backends must implement.
// This keeps the middleware decoupled from any specific metrics library.
type MetricsCollector interface {
	// DeliveryProcessed records that a delivery ran through the
	// pipeline. tag is the delivery tag, duration is processing time,
	// and err is nil on success (ErrPipelineFailed for a failed pipeline).
	DeliveryProcessed(tag uint64, duration time.Duration, err error)
}

// Metrics returns middleware that reports processing metrics to the given collector.
func Metrics(collector MetricsCollector) core.Middleware {
	return func(next core.Handler) core.Handler {
		return func(ctx context.Context, d core.Delivery) error {
			start := time.Now()
			err := next(ctx, d)
			collector.DeliveryProcessed(d.Tag(), time.Since(start), err)
			return err
		}
	}
}
