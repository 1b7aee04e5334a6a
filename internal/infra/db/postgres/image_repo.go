package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"premium-gallery/internal/domain/model"
	"premium-gallery/internal/domain/ports/repository"
)

const uniqueViolation = "23505"

type PostgresImageRepo struct {
	db *pgxpool.Pool
}

func NewPostgresImageRepo(db *pgxpool.Pool) *PostgresImageRepo {
	return &PostgresImageRepo{db: db}
}

var _ repository.ImageRepository = (*PostgresImageRepo)(nil)

func (r *PostgresImageRepo) List(ctx context.Context) ([]*model.Image, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, url, created_at, updated_at
		FROM images ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Image
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.ID, &img.Title, &img.URL, &img.CreatedAt, &img.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &img)
	}
	return out, rows.Err()
}

// SeedMany inserts images one by one, skipping rows whose URL is already
// present. A duplicate never aborts the remaining inserts.
func (r *PostgresImageRepo) SeedMany(ctx context.Context, images []*model.Image) (int, error) {
	inserted := 0
	for _, img := range images {
		_, err := r.db.Exec(ctx, `
			INSERT INTO images (id, title, url, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5)
		`, img.ID, img.Title, img.URL, img.CreatedAt, img.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				continue
			}
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
