package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/folio-track/folio_api/internal/identity"
	"github.com/folio-track/folio_api/internal/logging"
	"github.com/folio-track/folio_api/internal/portfolio"
)

const testUIDHeader = "X-Test-UID"

func setupTestApp(t *testing.T) (*fiber.App, *int, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(nil)})
	logger := logging.Discard()
	calls := 0

	app.Use(recover.New())
	app.Use(func(c *fiber.Ctx) error {
		if uid := c.Get(testUIDHeader); uid != "" {
			c.Locals(portfolio.CallerLocal, identity.Caller{UID: uid})
		}
		return c.Next()
	})
	app.Use(Idempotency(cache, time.Minute, logger))
	app.Post("/resource", func(c *fiber.Ctx) error {
		calls++
		if c.Query("fail") != "" {
			return fiber.NewError(fiber.StatusBadRequest, "bad")
		}
		if c.Query("panic") != "" {
			panic("handler blew up")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"call": calls})
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}

	return app, &calls, cleanup
}

func post(t *testing.T, app *fiber.App, target, uid, key string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, target, strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if uid != "" {
		req.Header.Set(testUIDHeader, uid)
	}
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestIdempotencyIsOptIn(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		if status, _ := post(t, app, "/resource", "u1", ""); status != fiber.StatusOK {
			t.Fatalf("expected 200, got %d", status)
		}
	}
	if *calls != 2 {
		t.Fatalf("expected handler to run twice without a key, got %d", *calls)
	}
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	status, first := post(t, app, "/resource", "u1", "abc123")
	if status != fiber.StatusOK {
		t.Fatalf("expected status %d got %d", fiber.StatusOK, status)
	}

	// Second request should return the cached response without invoking handler again.
	status, second := post(t, app, "/resource", "u1", "abc123")
	if status != fiber.StatusOK {
		t.Fatalf("expected cached status %d got %d", fiber.StatusOK, status)
	}
	if second != first {
		t.Fatalf("expected cached payload %s got %s", first, second)
	}
	if *calls != 1 {
		t.Fatalf("expected a single handler call, got %d", *calls)
	}
}

func TestIdempotencyKeysAreScopedPerCaller(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	post(t, app, "/resource", "u1", "shared")
	post(t, app, "/resource", "u2", "shared")
	if *calls != 2 {
		t.Fatalf("expected separate handler calls per caller, got %d", *calls)
	}
}

func TestIdempotencyForgetsFailedRequests(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	if status, body := post(t, app, "/resource?fail=1", "u1", "k1"); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", status, body)
	}
	if status, _ := post(t, app, "/resource", "u1", "k1"); status != fiber.StatusOK {
		t.Fatalf("expected retry to succeed, got %d", status)
	}
	if *calls != 2 {
		t.Fatalf("expected handler to run for the retry, got %d calls", *calls)
	}
}

func TestIdempotencyForgetsPanickedRequests(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	if status, _ := post(t, app, "/resource?panic=1", "u1", "k1"); status != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if status, body := post(t, app, "/resource", "u1", "k1"); status != fiber.StatusOK {
		t.Fatalf("expected retry to succeed, got %d (%s)", status, body)
	}
	if *calls != 2 {
		t.Fatalf("expected handler to run for the retry, got %d calls", *calls)
	}
}

func TestIdempotencyRequiresCaller(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	if status, _ := post(t, app, "/resource", "", "k1"); status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if *calls != 0 {
		t.Fatalf("handler should not run, got %d calls", *calls)
	}
}
