package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lewtec/realtor/internal/apperrors"
	"github.com/lewtec/realtor/internal/codec"
	"github.com/lewtec/realtor/internal/domain"
	"github.com/lewtec/realtor/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func flatA() domain.NewListing {
	return domain.NewListing{
		Name:               "Flat A",
		Phone:              "+1",
		ContactFullName:    "Jane Doe",
		TransitStationName: "Central",
		TransitDistance:    0.5,
	}
}

func setup(t *testing.T) (*Service, *sqlx.DB) {
	t.Helper()
	db := repository.SetupTestDB(t)
	t.Cleanup(func() { repository.CleanupTestDB(t, db) })
	return New(repository.NewStore(db)), db
}

func TestCreateListing_Scenario(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	big := pngBytes(t, 800, 600)
	small := pngBytes(t, 100, 50)

	id, err := svc.CreateListing(ctx, flatA(), [][]byte{big, small})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	summaries, err := svc.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, id, summaries[0].ID)
	assert.Equal(t, "Flat A", summaries[0].Name)
	assert.Equal(t, "Central", summaries[0].TransitStationName)
	assert.Equal(t, 0.5, summaries[0].TransitDistance)
	require.Len(t, summaries[0].Thumbnails, 2)

	wantSizes := [][2]int{{200, 150}, {100, 50}}
	for i, thumb := range summaries[0].Thumbnails {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(thumb))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.LessOrEqual(t, cfg.Width, 200)
		assert.LessOrEqual(t, cfg.Height, 200)
		assert.Equal(t, wantSizes[i], [2]int{cfg.Width, cfg.Height}, "thumbnail %d", i)
	}

	detail, err := svc.GetDetail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, detail.ID)
	assert.Equal(t, "+1", detail.Phone)
	assert.Equal(t, "Jane Doe", detail.ContactFullName)
	require.Len(t, detail.Pictures, 2)
	for _, p := range detail.Pictures {
		assert.Equal(t, id, p.ListingID)
	}
	originals := detail.Originals()
	assert.True(t, bytes.Equal(big, originals[0]), "first original differs")
	assert.True(t, bytes.Equal(small, originals[1]), "second original differs")
}

func TestCreateListing_Atomicity(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	fixed := uuid.Must(uuid.NewV7())
	calls := 0
	svc.newID = func() uuid.UUID {
		calls++
		if calls == 1 {
			return fixed
		}
		return uuid.New()
	}

	_, err := svc.CreateListing(ctx, flatA(), [][]byte{pngBytes(t, 10, 10), []byte("not an image")})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidImageData, apperrors.KindOf(err))
	assert.Equal(t, 1, apperrors.IndexOf(err))

	_, err = svc.GetDetail(ctx, fixed)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	assert.Zero(t, repository.CountPictures(t, db, fixed))

	summaries, err := svc.ListSummaries(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestCreateListing_Validation(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	in := flatA()
	in.Name = ""
	in.TransitDistance = -1

	_, err := svc.CreateListing(ctx, in, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidPayload, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "name must not be empty")
	assert.Contains(t, err.Error(), "metroDistance")

	assert.Zero(t, repository.CountListings(t, db))
}

func TestCreateListing_NoImages(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	id, err := svc.CreateListing(ctx, flatA(), nil)
	require.NoError(t, err)

	detail, err := svc.GetDetail(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, detail.Pictures)
	assert.NotNil(t, detail.Pictures)

	summaries, err := svc.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.NotNil(t, summaries[0].Thumbnails)
	assert.Empty(t, summaries[0].Thumbnails)
}

func TestCreateListingEncoded(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	img := pngBytes(t, 30, 20)

	t.Run("decodes transport encoding", func(t *testing.T) {
		id, err := svc.CreateListingEncoded(ctx, flatA(), []string{codec.Encode(img)})
		require.NoError(t, err)

		detail, err := svc.GetDetail(ctx, id)
		require.NoError(t, err)
		require.Len(t, detail.Pictures, 1)
		assert.Equal(t, img, detail.Pictures[0].Original)
	})

	t.Run("malformed encoding aborts everything", func(t *testing.T) {
		before := repository.CountListings(t, db)

		_, err := svc.CreateListingEncoded(ctx, flatA(), []string{codec.Encode(img), "***"})
		require.Error(t, err)
		assert.Equal(t, apperrors.KindMalformedEncoding, apperrors.KindOf(err))
		assert.Equal(t, 1, apperrors.IndexOf(err))

		assert.Equal(t, before, repository.CountListings(t, db))
	})
}

func TestCreateListing_CancelledContext(t *testing.T) {
	svc, db := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.CreateListing(ctx, flatA(), [][]byte{pngBytes(t, 5, 5)})
	require.Error(t, err)

	assert.Zero(t, repository.CountListings(t, db))
}

func TestGetDetail_NotFound(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.GetDetail(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.True(t, errors.Is(err, apperrors.ErrListingNotFound))
}

func TestReferentialCompleteness(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	images := [][]byte{pngBytes(t, 3, 3), pngBytes(t, 4, 4), pngBytes(t, 5, 5), pngBytes(t, 6, 6)}
	id, err := svc.CreateListing(ctx, flatA(), images)
	require.NoError(t, err)
	other, err := svc.CreateListing(ctx, flatA(), [][]byte{pngBytes(t, 7, 7)})
	require.NoError(t, err)

	detail, err := svc.GetDetail(ctx, id)
	require.NoError(t, err)
	require.Len(t, detail.Pictures, len(images))
	for i, p := range detail.Pictures {
		assert.Equal(t, id, p.ListingID)
		assert.Equal(t, i, p.SortOrder)
		assert.Equal(t, images[i], p.Original)
	}

	summaries, err := svc.ListSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, id, summaries[0].ID)
	assert.Len(t, summaries[0].Thumbnails, 4)
	assert.Equal(t, other, summaries[1].ID)
	assert.Len(t, summaries[1].Thumbnails, 1)
}

type failingUoW struct{ err error }

func (f failingUoW) WithTx(ctx context.Context, fn func(tx *repository.Tx) error) error {
	return f.err
}

func (f failingUoW) WithReadTx(ctx context.Context, fn func(tx *repository.Tx) error) error {
	return f.err
}

func TestStorageFailuresAreClassified(t *testing.T) {
	svc := New(failingUoW{err: errors.New("connection refused")})
	ctx := context.Background()

	_, err := svc.CreateListing(ctx, flatA(), nil)
	assert.Equal(t, apperrors.KindStorage, apperrors.KindOf(err))

	_, err = svc.ListSummaries(ctx)
	assert.Equal(t, apperrors.KindStorage, apperrors.KindOf(err))

	_, err = svc.GetDetail(ctx, uuid.New())
	assert.Equal(t, apperrors.KindStorage, apperrors.KindOf(err))
}

func TestConcurrentCreates(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	img := pngBytes(t, 40, 40)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateListing(ctx, flatA(), [][]byte{img, img})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.EqualValues(t, workers, repository.CountListings(t, db))
}
