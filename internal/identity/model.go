package identity

// Caller is the identity established for a single request from a verified
// bearer token. It is never persisted or reused across requests.
type Caller struct {
    UID    string
    Claims map[string]any
}
