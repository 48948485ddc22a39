package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/folio-track/folio_api/internal/identity"
)

// ErrPersistence wraps any failure reported by the store. Writes are not retried.
var ErrPersistence = errors.New("failed to persist entry")

// Service records portfolio entries for verified callers.
type Service struct {
	repo Repository
}

// NewService constructs a portfolio service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save validates body and appends one entry to the caller's collection. The
// target collection comes from the verified caller only; nothing in body can
// redirect the write. The returned id is for logging.
func (s *Service) Save(ctx context.Context, caller identity.Caller, body []byte) (string, error) {
	// The uid must stay a single path segment of users/{uid}/portfolio.
	if caller.UID == "" || strings.Contains(caller.UID, "/") {
		return "", identity.ErrInvalidToken
	}
	sub, err := DecodeSubmission(body)
	if err != nil {
		return "", err
	}

	id, err := s.repo.Create(ctx, caller.UID, NewEntry{
		AssetType: sub.AssetType,
		Value:     sub.Value,
		Month:     sub.Month,
		CreatedBy: caller.UID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return id, nil
}
