package portfolio

import (
	"context"

	"cloud.google.com/go/firestore"
)

// FirestoreClientProvider yields the process-wide Firestore client.
type FirestoreClientProvider interface {
	Firestore(ctx context.Context) (*firestore.Client, error)
}

// FirestoreRepository writes entries to Cloud Firestore.
type FirestoreRepository struct {
	clients FirestoreClientProvider
}

// NewFirestoreRepository builds a Firestore-backed repository.
func NewFirestoreRepository(clients FirestoreClientProvider) *FirestoreRepository {
	return &FirestoreRepository{clients: clients}
}

// Create adds a document with an auto-generated id. createdAt uses the
// server timestamp sentinel so the client clock is never trusted.
func (r *FirestoreRepository) Create(ctx context.Context, uid string, entry NewEntry) (string, error) {
	client, err := r.clients.Firestore(ctx)
	if err != nil {
		return "", err
	}
	doc := client.Collection(CollectionPath(uid)).NewDoc()
	if _, err := doc.Create(ctx, map[string]any{
		"assetType": entry.AssetType,
		"value":     entry.Value,
		"month":     entry.Month,
		"createdAt": firestore.ServerTimestamp,
		"createdBy": entry.CreatedBy,
	}); err != nil {
		return "", err
	}
	return doc.ID, nil
}
