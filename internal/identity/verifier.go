package identity

import (
    "context"
    "errors"
    "log/slog"
    "strings"
)

const bearerPrefix = "Bearer "

var (
    // ErrMissingCredentials is returned when the Authorization header is
    // absent or does not have the form "Bearer <token>".
    ErrMissingCredentials = errors.New("missing or malformed authorization header")

    // ErrInvalidToken is returned for any failure reported by the identity
    // provider. The provider's reason is logged, never returned.
    ErrInvalidToken = errors.New("invalid id token")
)

// TokenVerifier checks an opaque bearer token with the identity provider and
// returns the verified caller.
type TokenVerifier interface {
    VerifyToken(ctx context.Context, token string) (Caller, error)
}

// ParseBearer extracts the token from an Authorization header value. Only
// the first space separates scheme from token, so the token itself may
// contain spaces.
func ParseBearer(header string) (string, error) {
    if !strings.HasPrefix(header, bearerPrefix) {
        return "", ErrMissingCredentials
    }
    _, token, _ := strings.Cut(header, " ")
    if token == "" {
        return "", ErrMissingCredentials
    }
    return token, nil
}

// Verifier turns Authorization headers into callers.
type Verifier struct {
    tokens TokenVerifier
    logger *slog.Logger
}

// NewVerifier builds a Verifier backed by the given provider.
func NewVerifier(tokens TokenVerifier, logger *slog.Logger) *Verifier {
    return &Verifier{tokens: tokens, logger: logger}
}

// Verify authenticates a raw Authorization header value. Every call goes to
// the provider; results are not cached.
func (v *Verifier) Verify(ctx context.Context, header string) (Caller, error) {
    token, err := ParseBearer(header)
    if err != nil {
        return Caller{}, err
    }

    caller, err := v.tokens.VerifyToken(ctx, token)
    if err != nil {
        if v.logger != nil {
            v.logger.Warn("token verification failed", slog.Any("error", err))
        }
        return Caller{}, ErrInvalidToken
    }
    if caller.UID == "" {
        if v.logger != nil {
            v.logger.Warn("verified token carries no uid")
        }
        return Caller{}, ErrInvalidToken
    }
    return caller, nil
}
