package domain

import (
	"context"
	"time"
)

// AdvertisementRow represents a classified advertisement record.
// OwnerID references the user that created it and is never reassigned.
type AdvertisementRow struct {
	ID          int
	Title       string
	Description string
	CreatedAt   time.Time
	OwnerID     int
}

// AdvertisementRepository defines the data-access contract for
// advertisement operations. Implementations live in
// internal/core/repository (Core layer).
type AdvertisementRepository interface {
	// Create inserts a new advertisement and returns the stored row,
	// including the generated id and creation timestamp.
	Create(ctx context.Context, title, description string, ownerID int) (*AdvertisementRow, error)

	// GetByID returns the advertisement with the given id.
	// Returns (nil, nil) when no advertisement is found.
	GetByID(ctx context.Context, id int) (*AdvertisementRow, error)

	// Update persists the mutable columns (title, description) of the
	// given row. CreatedAt and OwnerID are immutable.
	Update(ctx context.Context, row *AdvertisementRow) error

	// Delete removes the advertisement.
	Delete(ctx context.Context, id int) error

	// Search returns advertisements whose title or description contains
	// the given text, case-insensitively. An empty query matches all.
	Search(ctx context.Context, query string) ([]AdvertisementRow, error)
}
