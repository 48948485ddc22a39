package routes

import (
    "github.com/gofiber/fiber/v2"

    "github.com/folio-track/folio_api/internal/portfolio"
)

// RegisterPortfolioRoutes wires the entry-writing endpoint behind the given guards.
func RegisterPortfolioRoutes(r fiber.Router, h *portfolio.Handler, guards ...fiber.Handler) {
    handlers := append(guards, h.Save)
    r.Post("/save", handlers...)
}
