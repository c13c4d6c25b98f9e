package context

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	RequestIDKey       = "request_id"
	RequestIDHeaderKey = "X-Request-ID"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func FromFiberCtx(c *fiber.Ctx) context.Context {
	ctx := context.Background()

	requestID, ok := c.Locals(RequestIDHeaderKey).(string)
	if !ok || requestID == "" {
		requestID = c.Get(RequestIDHeaderKey)

		if requestID == "" {
			requestID = "unknown"
		}
	}

	return WithRequestID(ctx, requestID)
}

// WithTimeout derives a request-scoped context with a deadline from a fiber request.
func WithTimeout(c *fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(FromFiberCtx(c), timeout)
}
