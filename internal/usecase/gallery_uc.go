package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"premium-gallery/internal/domain/model"
	"premium-gallery/internal/domain/ports/repository"
)

// Compile-time check
var _ GalleryUseCase = (*galleryUC)(nil)

type GalleryUseCase interface {
	// List returns the premium gallery, newest first.
	List(ctx context.Context) ([]*model.Image, error)
	// Seed inserts the fixed sample set; already-seeded rows are skipped.
	// Returns how many rows were actually inserted.
	Seed(ctx context.Context) (int, error)
}

type galleryUC struct {
	images repository.ImageRepository
	log    *zerolog.Logger
}

func NewGalleryUseCase(images repository.ImageRepository, logger *zerolog.Logger) *galleryUC {
	return &galleryUC{images: images, log: logger}
}

func (u *galleryUC) List(ctx context.Context) ([]*model.Image, error) {
	return u.images.List(ctx)
}

// sampleImages is the fixed catalog the seed endpoint installs.
var sampleImages = []struct{ title, url string }{
	{"Aurora over the fjord", "https://images.premium-gallery.dev/aurora-fjord.jpg"},
	{"Dunes at first light", "https://images.premium-gallery.dev/dunes-first-light.jpg"},
	{"Monsoon street, Mumbai", "https://images.premium-gallery.dev/monsoon-street.jpg"},
	{"Glacier lagoon", "https://images.premium-gallery.dev/glacier-lagoon.jpg"},
	{"Tea terraces, Munnar", "https://images.premium-gallery.dev/tea-terraces.jpg"},
	{"Night market long exposure", "https://images.premium-gallery.dev/night-market.jpg"},
}

func (u *galleryUC) Seed(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	batch := make([]*model.Image, 0, len(sampleImages))
	for _, s := range sampleImages {
		batch = append(batch, &model.Image{
			ID:        uuid.NewString(),
			Title:     s.title,
			URL:       s.url,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	inserted, err := u.images.SeedMany(ctx, batch)
	if err != nil {
		return inserted, err
	}
	u.log.Info().Int("inserted", inserted).Int("attempted", len(batch)).Msg("gallery seeded")
	return inserted, nil
}
