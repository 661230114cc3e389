package middleware

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/pipemq/pipemq/core"
)

// Logging returns middleware that logs each delivery's tag, body size,
// pipeline duration and outcome.
func Logging() core.Middleware {
	return func(next core.Handler) core.Handler {
		return func(ctx context.Context, d core.Delivery) error {
			start := time.Now()
			err := next(ctx, d)
			elapsed := time.Since(start)

			switch {
			case errors.Is(err, core.ErrPipelineFailed):
				log.Printf("[pipemq] FAIL  tag=%d bytes=%d elapsed=%s pipeline exited non-zero",
					d.Tag(), len(d.Body()), elapsed)
			case err != nil:
				log.Printf("[pipemq] ERROR tag=%d bytes=%d elapsed=%s err=%v",
					d.Tag(), len(d.Body()), elapsed, err)
			default:
				log.Printf("[pipemq] OK    tag=%d bytes=%d elapsed=%s",
					d.Tag(), len(d.Body()), elapsed)
			}
			return err
		}
	}
}
