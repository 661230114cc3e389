package middleware

import (
	"context"
	"fmt"
	"log"
	"runtime"

	"github.com/pipemq/pipemq/core"
)

// Recovery returns middleware that recovers from panics while a
// delivery is being processed, logs the stack trace, and returns the
// panic as an error.
func Recovery() core.Middleware {
	return func(next core.Handler) core.Handler {
		return func(ctx context.Context, d core.Delivery) (err error) {
			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)
					log.Printf("[pipemq] PANIC recovered: %v\n%s", r, buf[:n])
					err = fmt.Errorf("pipemq: panic recovered: %v", r)
				}
			}()
			return next(ctx, d)
		}
	}
}
