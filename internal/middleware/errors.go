package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders errors as {"detail": "..."}. fiber.Error keeps its
// status and message; anything else becomes an opaque 500.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		detail := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			detail = fe.Message
		} else if logger != nil {
			logger.Error("unhandled error", slog.String("path", c.Path()), slog.Any("error", err))
		}

		return c.Status(status).JSON(fiber.Map{"detail": detail})
	}
}
