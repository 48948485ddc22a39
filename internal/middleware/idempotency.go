package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/folio-track/folio_api/internal/identity"
	"github.com/folio-track/folio_api/internal/portfolio"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	idempotencyPrefix    = "idempotency:v1:"
	inProgressMarker     = "__in_progress__"
	cacheOpTimeout       = 2 * time.Second
)

type storedResponse struct {
	Status  int               `json:"status"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers"`
}

// Idempotency replays the stored response when a caller repeats a request
// with the same Idempotency-Key. It is opt-in: requests without the header
// go straight to the handler, so plain retries still create new entries.
// Keys are namespaced by caller uid, so it must run after BearerAuth.
func Idempotency(cache *redis.Client, ttl time.Duration, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch strings.ToUpper(c.Method()) {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		key := strings.TrimSpace(c.Get(idempotencyKeyHeader))
		if key == "" {
			return c.Next()
		}
		caller, ok := c.Locals(portfolio.CallerLocal).(identity.Caller)
		if !ok || caller.UID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid ID token")
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), cacheOpTimeout)
		defer cancel()

		cacheKey := idempotencyPrefix + caller.UID + ":" + key

		cached, err := cache.Get(ctx, cacheKey).Result()
		if err == nil {
			if cached == inProgressMarker {
				return fiber.NewError(fiber.StatusConflict, "duplicate request currently processing")
			}

			var stored storedResponse
			if err := json.Unmarshal([]byte(cached), &stored); err != nil {
				logger.Warn("failed to decode stored idempotent response", slog.String("key", key), slog.Any("error", err))
				return fiber.NewError(fiber.StatusConflict, "duplicate request")
			}

			for header, value := range stored.Headers {
				if strings.EqualFold(header, fiber.HeaderContentLength) || strings.EqualFold(header, RequestIDHeader) {
					continue
				}
				c.Set(header, value)
			}
			c.Set("Idempotent-Replayed", "true")
			return c.Status(stored.Status).SendString(stored.Body)
		}

		if err != redis.Nil {
			logger.Error("idempotency lookup failed", slog.String("key", key), slog.Any("error", err))
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
		}

		reserved, err := cache.SetNX(ctx, cacheKey, inProgressMarker, ttl).Result()
		if err != nil {
			logger.Error("idempotency reservation failed", slog.String("key", key), slog.Any("error", err))
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency reservation failure")
		}
		if !reserved {
			return fiber.NewError(fiber.StatusConflict, "duplicate request currently processing")
		}

		// Only a stored response keeps the key; failed or panicking requests
		// are forgotten so the caller can retry them.
		remembered := false
		defer func() {
			if remembered {
				return
			}
			cleanupCtx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
			defer cancel()
			cache.Del(cleanupCtx, cacheKey)
		}()

		if err := c.Next(); err != nil {
			return err
		}

		stored := storedResponse{
			Status:  c.Response().StatusCode(),
			Body:    string(c.Response().Body()),
			Headers: map[string]string{},
		}
		c.Response().Header.VisitAll(func(k, v []byte) {
			stored.Headers[string(k)] = string(v)
		})

		payload, err := json.Marshal(stored)
		if err != nil {
			logger.Error("failed to encode idempotent response", slog.String("key", key), slog.Any("error", err))
			return nil
		}

		persistCtx, persistCancel := context.WithTimeout(context.Background(), cacheOpTimeout)
		defer persistCancel()
		if err := cache.Set(persistCtx, cacheKey, payload, ttl).Err(); err != nil {
			// The entry is already written; report success and forget the key.
			logger.Error("failed to persist idempotent response", slog.String("key", key), slog.Any("error", err))
			return nil
		}
		remembered = true

		return nil
	}
}
