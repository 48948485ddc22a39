package portfolio

import "context"

// Repository persists portfolio entries under users/{uid}/portfolio. Every
// call creates a new record with a store-generated id; nothing is updated.
type Repository interface {
	Create(ctx context.Context, uid string, entry NewEntry) (string, error)
}
