package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Listing is a real-estate entry. It is created once and never updated.
type Listing struct {
	ID                 uuid.UUID `db:"id"`
	Name               string    `db:"name"`
	Phone              string    `db:"phone"`
	ContactFullName    string    `db:"full_name"`
	TransitStationName string    `db:"metro_station"`
	TransitDistance    float64   `db:"metro_distance"`
	CreatedAt          time.Time `db:"created_at"`
}

// NewListing holds the client supplied fields of a listing.
type NewListing struct {
	Name               string
	Phone              string
	ContactFullName    string
	TransitStationName string
	TransitDistance    float64
}

// Validate checks that every text field is non-empty and the distance is a
// non-negative finite number.
func (n NewListing) Validate() error {
	var errs []error
	for _, f := range []struct{ name, value string }{
		{"name", n.Name},
		{"phone", n.Phone},
		{"fullName", n.ContactFullName},
		{"metroStation", n.TransitStationName},
	} {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", f.name))
		}
	}
	if math.IsNaN(n.TransitDistance) || math.IsInf(n.TransitDistance, 0) || n.TransitDistance < 0 {
		errs = append(errs, fmt.Errorf("metroDistance must be a non-negative number, got %v", n.TransitDistance))
	}
	return errors.Join(errs...)
}

// Listing builds the record persisted for n.
func (n NewListing) Listing(id uuid.UUID, createdAt time.Time) *Listing {
	return &Listing{
		ID:                 id,
		Name:               n.Name,
		Phone:              n.Phone,
		ContactFullName:    n.ContactFullName,
		TransitStationName: n.TransitStationName,
		TransitDistance:    n.TransitDistance,
		CreatedAt:          createdAt,
	}
}

// ListingSummary is the lightweight view: listing fields plus thumbnails in
// picture order.
type ListingSummary struct {
	Listing
	Thumbnails [][]byte
}

// ListingDetail is the full view: the listing plus every picture with its
// original bytes, in picture order.
type ListingDetail struct {
	Listing
	Pictures []*Picture
}

// Originals returns the original image bytes in picture order.
func (d *ListingDetail) Originals() [][]byte {
	out := make([][]byte, 0, len(d.Pictures))
	for _, p := range d.Pictures {
		out = append(out, p.Original)
	}
	return out
}

// ListingRepository defines the interface for listing storage operations
type ListingRepository interface {
	// Create inserts a new listing
	Create(ctx context.Context, listing *Listing) error

	// GetByID retrieves a listing, nil when it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)

	// List retrieves all listings in insertion order
	List(ctx context.Context) ([]*Listing, error)
}
