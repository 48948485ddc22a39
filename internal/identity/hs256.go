package identity

import (
    "context"
    "crypto/hmac"
    "crypto/sha256"
    "encoding/base64"
    "encoding/json"
    "errors"
    "strings"
    "time"
)

var b64 = base64.RawURLEncoding

// HS256TokenVerifier verifies locally signed HS256 tokens. It stands in for
// the identity provider during development.
type HS256TokenVerifier struct {
    secret []byte
    now    func() time.Time
}

// NewHS256TokenVerifier builds a verifier for tokens signed with secret.
func NewHS256TokenVerifier(secret string) *HS256TokenVerifier {
    return &HS256TokenVerifier{secret: []byte(secret), now: time.Now}
}

// VerifyToken checks the signature and expiry and reads the uid from the
// "uid" claim, falling back to "sub".
func (v *HS256TokenVerifier) VerifyToken(_ context.Context, token string) (Caller, error) {
    claims, err := ParseAndVerifyHS256(token, v.secret)
    if err != nil {
        return Caller{}, err
    }
    exp, ok := claims["exp"].(float64)
    if !ok {
        return Caller{}, errors.New("missing exp claim")
    }
    if v.now().Unix() >= int64(exp) {
        return Caller{}, errors.New("token expired")
    }
    uid, _ := claims["uid"].(string)
    if uid == "" {
        uid, _ = claims["sub"].(string)
    }
    return Caller{UID: uid, Claims: claims}, nil
}

// SignHS256 creates a compact JWT string using HS256.
func SignHS256(claims map[string]any, secret []byte) (string, error) {
    h, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
    if err != nil {
        return "", err
    }
    c, err := json.Marshal(claims)
    if err != nil {
        return "", err
    }
    unsigned := b64.EncodeToString(h) + "." + b64.EncodeToString(c)
    return unsigned + "." + b64.EncodeToString(sign(unsigned, secret)), nil
}

// ParseAndVerifyHS256 verifies the token signature and returns its claims.
func ParseAndVerifyHS256(token string, secret []byte) (map[string]any, error) {
    parts := strings.Split(token, ".")
    if len(parts) != 3 {
        return nil, errors.New("invalid token format")
    }
    header, err := b64.DecodeString(parts[0])
    if err != nil {
        return nil, errors.New("invalid header encoding")
    }
    var hdr struct {
        Alg string `json:"alg"`
    }
    if err := json.Unmarshal(header, &hdr); err != nil || hdr.Alg != "HS256" {
        return nil, errors.New("unsupported token algorithm")
    }
    sig, err := b64.DecodeString(parts[2])
    if err != nil {
        return nil, errors.New("invalid signature encoding")
    }
    if !hmac.Equal(sig, sign(parts[0]+"."+parts[1], secret)) {
        return nil, errors.New("signature mismatch")
    }
    payload, err := b64.DecodeString(parts[1])
    if err != nil {
        return nil, errors.New("invalid payload encoding")
    }
    var claims map[string]any
    if err := json.Unmarshal(payload, &claims); err != nil {
        return nil, errors.New("invalid claims json")
    }
    return claims, nil
}

func sign(unsigned string, secret []byte) []byte {
    mac := hmac.New(sha256.New, secret)
    mac.Write([]byte(unsigned))
    return mac.Sum(nil)
}
