package server

import (
    "context"
    "time"

    "github.com/gofiber/fiber/v2"

    "github.com/folio-track/folio_api/internal/config"
    "github.com/folio-track/folio_api/internal/middleware"
    "github.com/folio-track/folio_api/internal/routes"
)

const maxBodyBytes = 64 * 1024

// Server wraps the Fiber application.
type Server struct {
    app *fiber.App
    cfg config.Config
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(d routes.Deps) (*Server, error) {
    app := fiber.New(fiber.Config{
        AppName:               d.Cfg.AppName,
        ReadTimeout:           30 * time.Second,
        WriteTimeout:          30 * time.Second,
        BodyLimit:             maxBodyBytes,
        ErrorHandler:          middleware.ErrorHandler(d.Logger),
        DisableStartupMessage: !d.Cfg.IsDev(),
    })

    if err := routes.Setup(app, d); err != nil {
        return nil, err
    }

    return &Server{app: app, cfg: d.Cfg}, nil
}

// App exposes the underlying Fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
    return s.app
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
    return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
    return s.app.ShutdownWithContext(ctx)
}
