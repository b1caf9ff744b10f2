// Package service implements listing ingestion and the read paths over it.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lewtec/realtor/internal/apperrors"
	"github.com/lewtec/realtor/internal/codec"
	"github.com/lewtec/realtor/internal/domain"
	"github.com/lewtec/realtor/internal/repository"
	"github.com/lewtec/realtor/internal/thumbnail"
	"github.com/rs/zerolog"
)

// UnitOfWork opens transactions over the listing store.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(tx *repository.Tx) error) error
	WithReadTx(ctx context.Context, fn func(tx *repository.Tx) error) error
}

// Service creates listings and answers queries about them. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	uow   UnitOfWork
	box   thumbnail.Box
	now   func() time.Time
	newID func() uuid.UUID
}

// Option customises a Service.
type Option func(*Service)

// WithThumbnailBox sets the bounding box thumbnails are derived into.
func WithThumbnailBox(box thumbnail.Box) Option {
	return func(s *Service) { s.box = box }
}

// WithClock replaces the clock used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the identifier generator.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *Service) { s.newID = newID }
}

// New creates a Service over uow.
func New(uow UnitOfWork, opts ...Option) *Service {
	s := &Service{
		uow:   uow,
		box:   thumbnail.DefaultBox,
		now:   func() time.Time { return time.Now().UTC() },
		newID: newV7,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newV7 returns time ordered identifiers so that id order follows
// insertion order.
func newV7() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// CreateListing persists a listing with one picture per image, all in one
// transaction. images must already be raw bytes. Either everything is
// committed or nothing is.
func (s *Service) CreateListing(ctx context.Context, in domain.NewListing, images [][]byte) (uuid.UUID, error) {
	return s.create(ctx, in, len(images), func(i int) ([]byte, error) {
		return images[i], nil
	})
}

// CreateListingEncoded is CreateListing for images still in their transport
// encoding. Decoding happens per item inside the transaction.
func (s *Service) CreateListingEncoded(ctx context.Context, in domain.NewListing, images []string) (uuid.UUID, error) {
	return s.create(ctx, in, len(images), func(i int) ([]byte, error) {
		return codec.Decode(images[i])
	})
}

func (s *Service) create(ctx context.Context, in domain.NewListing, n int, image func(i int) ([]byte, error)) (uuid.UUID, error) {
	logger := zerolog.Ctx(ctx)

	if err := in.Validate(); err != nil {
		return uuid.Nil, apperrors.New(apperrors.KindInvalidPayload, "create listing", err)
	}

	listing := in.Listing(s.newID(), s.now())

	err := s.uow.WithTx(ctx, func(tx *repository.Tx) error {
		if err := tx.Listings.Create(ctx, listing); err != nil {
			return apperrors.New(apperrors.KindStorage, "insert listing", err)
		}
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return apperrors.Item(apperrors.KindInternal, "create listing", i, err)
			}
			original, err := image(i)
			if err != nil {
				return apperrors.AtIndex(err, i)
			}
			thumb, err := thumbnail.Make(original, s.box)
			if err != nil {
				return apperrors.AtIndex(err, i)
			}
			pic := &domain.Picture{
				ID:        s.newID(),
				ListingID: listing.ID,
				SortOrder: i,
				Original:  original,
				Thumbnail: thumb,
			}
			if err := tx.Pictures.Create(ctx, pic); err != nil {
				return apperrors.Item(apperrors.KindStorage, "insert picture", i, err)
			}
		}
		return nil
	})
	if err != nil {
		err = apperrors.Wrap(apperrors.KindStorage, "create listing", err)
		logger.Warn().Err(err).
			Str("kind", apperrors.KindOf(err).String()).
			Int("images", n).
			Msg("listing creation rolled back")
		return uuid.Nil, err
	}

	logger.Info().
		Str("listing_id", listing.ID.String()).
		Int("images", n).
		Msg("listing created")
	return listing.ID, nil
}

// ListSummaries returns every listing with its thumbnails. Listings come
// oldest first and thumbnails follow the order the images were supplied in.
func (s *Service) ListSummaries(ctx context.Context) ([]*domain.ListingSummary, error) {
	var out []*domain.ListingSummary
	err := s.uow.WithReadTx(ctx, func(tx *repository.Tx) error {
		listings, err := tx.Listings.List(ctx)
		if err != nil {
			return apperrors.New(apperrors.KindStorage, "list listings", err)
		}
		pics, err := tx.Pictures.ListThumbnails(ctx)
		if err != nil {
			return apperrors.New(apperrors.KindStorage, "list thumbnails", err)
		}

		thumbs := make(map[uuid.UUID][][]byte, len(listings))
		for _, p := range pics {
			thumbs[p.ListingID] = append(thumbs[p.ListingID], p.Thumbnail)
		}

		out = make([]*domain.ListingSummary, 0, len(listings))
		for _, l := range listings {
			t := thumbs[l.ID]
			if t == nil {
				t = [][]byte{}
			}
			out = append(out, &domain.ListingSummary{Listing: *l, Thumbnails: t})
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "list summaries", err)
	}
	return out, nil
}

// GetDetail returns one listing with all of its original images. A missing
// listing yields a KindNotFound error.
func (s *Service) GetDetail(ctx context.Context, id uuid.UUID) (*domain.ListingDetail, error) {
	var out *domain.ListingDetail
	err := s.uow.WithReadTx(ctx, func(tx *repository.Tx) error {
		l, err := tx.Listings.GetByID(ctx, id)
		if err != nil {
			return apperrors.New(apperrors.KindStorage, "get listing", err)
		}
		if l == nil {
			return apperrors.New(apperrors.KindNotFound, "get listing", apperrors.ErrListingNotFound)
		}
		pics, err := tx.Pictures.ListByListing(ctx, id)
		if err != nil {
			return apperrors.New(apperrors.KindStorage, "list pictures", err)
		}
		if pics == nil {
			pics = []*domain.Picture{}
		}
		out = &domain.ListingDetail{Listing: *l, Pictures: pics}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "get detail", err)
	}
	return out, nil
}

func (s *Service) fail(ctx context.Context, op string, err error) error {
	err = apperrors.Wrap(apperrors.KindStorage, op, err)
	if !apperrors.KindOf(err).Clientside() {
		zerolog.Ctx(ctx).Error().Err(err).Msg(op + " failed")
	}
	return err
}
