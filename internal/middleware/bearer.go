package middleware

import (
    "errors"
    "net/http"

    "github.com/gofiber/fiber/v2"

    "github.com/folio-track/folio_api/internal/identity"
    "github.com/folio-track/folio_api/internal/portfolio"
)

// BearerAuth verifies the Authorization header on every request and stores
// the resulting identity.Caller in locals. Failures never reach the handler.
func BearerAuth(verifier *identity.Verifier) fiber.Handler {
    return func(c *fiber.Ctx) error {
        caller, err := verifier.Verify(c.UserContext(), c.Get(fiber.HeaderAuthorization))
        if err != nil {
            if errors.Is(err, identity.ErrMissingCredentials) {
                return fiber.NewError(http.StatusUnauthorized, "Missing or malformed Authorization header")
            }
            return fiber.NewError(http.StatusUnauthorized, "Invalid ID token")
        }

        c.Locals(portfolio.CallerLocal, caller)
        return c.Next()
    }
}
