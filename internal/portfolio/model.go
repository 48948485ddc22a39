package portfolio

import (
	"fmt"
	"time"
)

const (
	usersCollection     = "users"
	portfolioCollection = "portfolio"
)

// Submission is a validated request to record an asset value.
type Submission struct {
	AssetType string
	Value     float64
	Month     string
}

// NewEntry is what gets written to the store. CreatedAt is not part of it:
// the store stamps its own clock at write time.
type NewEntry struct {
	AssetType string
	Value     float64
	Month     string
	CreatedBy string
}

// Entry is a stored portfolio entry.
type Entry struct {
	ID        string
	AssetType string
	Value     float64
	Month     string
	CreatedAt time.Time
	CreatedBy string
}

// CollectionPath returns the sub-collection holding uid's entries.
func CollectionPath(uid string) string {
	return fmt.Sprintf("%s/%s/%s", usersCollection, uid, portfolioCollection)
}

// DocumentPath returns the full path of one entry.
func DocumentPath(uid, id string) string {
	return CollectionPath(uid) + "/" + id
}
