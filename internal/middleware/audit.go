package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/folio-track/folio_api/internal/identity"
	"github.com/folio-track/folio_api/internal/portfolio"
)

// Audit emits one structured log line per request. It must run inside the
// error handler chain so the logged status is the final one.
func Audit(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Render now so the status below matches what the client sees.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("duration", time.Since(start)),
		}
		if requestID, _ := c.Locals(RequestIDHeader).(string); requestID != "" {
			attrs = append(attrs, slog.String("request_id", requestID))
		}
		if caller, ok := c.Locals(portfolio.CallerLocal).(identity.Caller); ok {
			attrs = append(attrs, slog.String("uid", caller.UID))
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
			if c.Response().StatusCode() >= fiber.StatusInternalServerError {
				logger.Error("request completed", attrs...)
			} else {
				logger.Warn("request completed", attrs...)
			}
			return nil
		}

		logger.Info("request completed", attrs...)
		return nil
	}
}
