package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lewtec/realtor/internal/domain"
)

// PictureRepository implements domain.PictureRepository using sqlx
type PictureRepository struct {
	q sqlx.ExtContext
}

// NewPictureRepository creates a new PictureRepository
func NewPictureRepository(db *sqlx.DB) *PictureRepository {
	return &PictureRepository{q: db}
}

// NewPictureRepositoryWithTx creates a new PictureRepository with a transaction
func NewPictureRepositoryWithTx(tx *sqlx.Tx) *PictureRepository {
	return &PictureRepository{q: tx}
}

// Create inserts a picture
func (r *PictureRepository) Create(ctx context.Context, picture *domain.Picture) error {
	_, err := sqlx.NamedExecContext(ctx, r.q, `
INSERT INTO pictures (id, listing_id, sort_order, original, thumbnail)
VALUES (:id, :listing_id, :sort_order, :original, :thumbnail)
`, picture)
	return err
}

// ListThumbnails retrieves the thumbnails of every listing. Originals are
// not loaded.
func (r *PictureRepository) ListThumbnails(ctx context.Context) ([]*domain.Picture, error) {
	var pics []*domain.Picture
	err := sqlx.SelectContext(ctx, r.q, &pics, `
SELECT id, listing_id, sort_order, thumbnail
FROM pictures ORDER BY listing_id, sort_order
`)
	if err != nil {
		return nil, err
	}
	return pics, nil
}

// ListByListing retrieves the pictures of one listing, originals included.
// Thumbnails are not loaded.
func (r *PictureRepository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]*domain.Picture, error) {
	var pics []*domain.Picture
	err := sqlx.SelectContext(ctx, r.q, &pics, r.q.Rebind(`
SELECT id, listing_id, sort_order, original
FROM pictures WHERE listing_id = ? ORDER BY sort_order
`), listingID)
	if err != nil {
		return nil, err
	}
	return pics, nil
}

// Verify that PictureRepository implements domain.PictureRepository
var _ domain.PictureRepository = (*PictureRepository)(nil)
