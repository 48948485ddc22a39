package routes

import (
    "context"
    "net/http"
    "sort"
    "time"

    "github.com/gofiber/fiber/v2"
)

const runningBanner = "Portfolio backend is running!"

// RegisterHealthRoutes adds the banner and readiness endpoints.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
    app.Get("/", func(c *fiber.Ctx) error {
        return c.Status(http.StatusOK).JSON(fiber.Map{"message": runningBanner})
    })

    app.Get("/healthz", func(c *fiber.Ctx) error {
        ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
        defer cancel()

        names := make([]string, 0, len(d.Checks))
        for name := range d.Checks {
            names = append(names, name)
        }
        sort.Strings(names)

        status := http.StatusOK
        results := fiber.Map{}
        for _, name := range names {
            if err := d.Checks[name](ctx); err != nil {
                results[name] = err.Error()
                status = http.StatusServiceUnavailable
                continue
            }
            results[name] = "ok"
        }
        return c.Status(status).JSON(fiber.Map{
            "status":    results,
            "timestamp": time.Now().UTC().Format(time.RFC3339Nano),
        })
    })
}
