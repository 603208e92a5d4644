package site

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type AboutRepository interface {
	List(ctx context.Context) ([]About, error)
}

type aboutRepository struct {
	db DB
}

func NewAboutRepository(db DB) AboutRepository {
	return &aboutRepository{db: db}
}

func (r *aboutRepository) List(ctx context.Context) ([]About, error) {
	rows, err := r.db.Query(ctx, `SELECT id, description FROM about_us ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query about us: %w", err)
	}

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[About])
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan about us: %w", err)
	}

	return entries, nil
}
