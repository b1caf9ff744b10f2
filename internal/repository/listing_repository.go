package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lewtec/realtor/internal/domain"
)

// ListingRepository implements domain.ListingRepository using sqlx
type ListingRepository struct {
	q sqlx.ExtContext
}

// NewListingRepository creates a new ListingRepository
func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{q: db}
}

// NewListingRepositoryWithTx creates a new ListingRepository with a transaction
func NewListingRepositoryWithTx(tx *sqlx.Tx) *ListingRepository {
	return &ListingRepository{q: tx}
}

// Create inserts a new listing
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
INSERT INTO listings (id, name, phone, full_name, metro_station, metro_distance, created_at)
VALUES (:id, :name, :phone, :full_name, :metro_station, :metro_distance, :created_at)
`, listing)
	return err
}

// GetByID retrieves a listing by its ID
func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	var l domain.Listing
	err := sqlx.GetContext(ctx, r.q, &l, r.q.Rebind(`
SELECT id, name, phone, full_name, metro_station, metro_distance, created_at
FROM listings WHERE id = ?
`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// List retrieves all listings, oldest first
func (r *ListingRepository) List(ctx context.Context) ([]*domain.Listing, error) {
	var list []*domain.Listing
	err := sqlx.SelectContext(ctx, r.q, &list, `
SELECT id, name, phone, full_name, metro_station, metro_distance, created_at
FROM listings ORDER BY created_at, id
`)
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Verify that ListingRepository implements domain.ListingRepository
var _ domain.ListingRepository = (*ListingRepository)(nil)
