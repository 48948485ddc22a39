package identity

import (
    "context"

    "firebase.google.com/go/v4/auth"
)

// AuthClientProvider yields the process-wide Firebase Auth client.
type AuthClientProvider interface {
    Auth(ctx context.Context) (*auth.Client, error)
}

// FirebaseTokenVerifier verifies Firebase ID tokens.
type FirebaseTokenVerifier struct {
    clients AuthClientProvider
}

// NewFirebaseTokenVerifier builds a verifier that resolves the Auth client
// lazily from the shared Firebase handle.
func NewFirebaseTokenVerifier(clients AuthClientProvider) *FirebaseTokenVerifier {
    return &FirebaseTokenVerifier{clients: clients}
}

// VerifyToken checks signature, expiry, audience and issuer of an ID token.
func (v *FirebaseTokenVerifier) VerifyToken(ctx context.Context, token string) (Caller, error) {
    client, err := v.clients.Auth(ctx)
    if err != nil {
        return Caller{}, err
    }
    decoded, err := client.VerifyIDToken(ctx, token)
    if err != nil {
        return Caller{}, err
    }
    return Caller{UID: decoded.UID, Claims: decoded.Claims}, nil
}
