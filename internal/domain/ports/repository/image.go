package repository

import (
	"context"

	"premium-gallery/internal/domain/model"
)

type ImageRepository interface {
	// List returns all gallery images, newest first.
	List(ctx context.Context) ([]*model.Image, error)
	// SeedMany inserts the given images, skipping rows that already exist.
	// Returns the number of rows actually inserted.
	SeedMany(ctx context.Context, images []*model.Image) (int, error)
}
