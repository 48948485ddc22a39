package portfolio

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/folio-track/folio_api/internal/identity"
)

// CallerLocal is the fiber.Ctx locals key holding the verified identity.Caller.
const CallerLocal = "caller"

// Handler exposes the entry-writing endpoint.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a portfolio handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Save records one entry for the authenticated caller. The response never
// includes the generated id.
func (h *Handler) Save(c *fiber.Ctx) error {
	caller, ok := c.Locals(CallerLocal).(identity.Caller)
	if !ok || caller.UID == "" {
		return fiber.NewError(http.StatusUnauthorized, "Invalid ID token")
	}

	id, err := h.service.Save(c.UserContext(), caller, c.Body())
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidBody):
			return fiber.NewError(http.StatusBadRequest, "Request body must be a JSON object")
		case errors.Is(err, ErrMissingFields):
			return fiber.NewError(http.StatusBadRequest, "Missing required fields")
		case errors.Is(err, ErrNonNumericValue):
			return fiber.NewError(http.StatusBadRequest, "Value must be numeric")
		case errors.Is(err, identity.ErrInvalidToken):
			return fiber.NewError(http.StatusUnauthorized, "Invalid ID token")
		default:
			if h.logger != nil {
				h.logger.Error("portfolio.save failed", slog.String("uid", caller.UID), slog.Any("error", err))
			}
			return fiber.NewError(http.StatusInternalServerError, "Failed to save entry")
		}
	}

	if h.logger != nil {
		h.logger.Info("portfolio.save completed",
			slog.String("uid", caller.UID),
			slog.String("path", DocumentPath(caller.UID, id)),
		)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "ok"})
}
