package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request trace identifier.
const RequestIDHeader = "X-Request-ID"

// RequestID ensures each request has a stable request identifier for tracing
// and logging. A client-provided value is echoed back unchanged.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(RequestIDHeader, reqID)
		c.Locals(RequestIDHeader, reqID)

		return c.Next()
	}
}
