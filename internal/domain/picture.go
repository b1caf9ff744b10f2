package domain

import (
	"context"

	"github.com/google/uuid"
)

// Picture pairs an uploaded image with the thumbnail derived from it at
// creation time. It always belongs to exactly one listing.
type Picture struct {
	ID        uuid.UUID `db:"id"`
	ListingID uuid.UUID `db:"listing_id"`
	SortOrder int       `db:"sort_order"`
	Original  []byte    `db:"original"`
	Thumbnail []byte    `db:"thumbnail"`
}

// PictureRepository defines the interface for picture storage operations
type PictureRepository interface {
	// Create inserts a picture; the owning listing must exist
	Create(ctx context.Context, picture *Picture) error

	// ListThumbnails retrieves every picture without its original, grouped
	// by listing and ordered by SortOrder
	ListThumbnails(ctx context.Context) ([]*Picture, error)

	// ListByListing retrieves the pictures of a listing with originals,
	// ordered by SortOrder
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]*Picture, error)
}
