package routes

import (
    "context"
    "fmt"
    "log/slog"
    "strings"

    "github.com/gofiber/fiber/v2"
    "github.com/gofiber/fiber/v2/middleware/cors"
    "github.com/gofiber/fiber/v2/middleware/recover"
    "github.com/redis/go-redis/v9"

    "github.com/folio-track/folio_api/internal/config"
    "github.com/folio-track/folio_api/internal/identity"
    "github.com/folio-track/folio_api/internal/middleware"
    "github.com/folio-track/folio_api/internal/portfolio"
)

// HealthCheck reports whether a backend is reachable.
type HealthCheck func(ctx context.Context) error

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
    Cfg     config.Config
    Logger  *slog.Logger
    Tokens  identity.TokenVerifier
    Entries portfolio.Repository
    Cache   *redis.Client
    Checks  map[string]HealthCheck
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
    if d.Tokens == nil {
        return fmt.Errorf("token verifier is required")
    }
    if d.Entries == nil {
        return fmt.Errorf("entry repository is required")
    }
    if d.Logger == nil {
        return fmt.Errorf("logger is required")
    }

    // Middlewares
    app.Use(middleware.RequestID())
    app.Use(middleware.Audit(d.Logger))
    app.Use(recover.New())
    app.Use(cors.New(cors.Config{
        AllowOrigins:     strings.Join(d.Cfg.AllowedOrigins, ","),
        AllowCredentials: true,
        AllowMethods:     "GET,POST,HEAD,OPTIONS",
        AllowHeaders:     "Origin,Content-Type,Accept,Authorization,Idempotency-Key,X-Request-ID",
        ExposeHeaders:    middleware.RequestIDHeader,
    }))

    // Health
    RegisterHealthRoutes(app, d)

    // Services and handlers
    verifier := identity.NewVerifier(d.Tokens, d.Logger)
    entrySvc := portfolio.NewService(d.Entries)
    entryHandler := portfolio.NewHandler(entrySvc, d.Logger)

    // Protected routes
    chain := []fiber.Handler{middleware.BearerAuth(verifier)}
    if d.Cache != nil {
        chain = append(chain, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
    }
    RegisterPortfolioRoutes(app, entryHandler, chain...)

    return nil
}
