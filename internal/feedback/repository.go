package feedback

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Create(ctx context.Context, f *Feedback) error
	Recent(ctx context.Context, limit int) ([]Feedback, error)
}

type repository struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Feedback) error {
	query := `
		INSERT INTO feedback (user_name, description, rating, image)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := r.db.QueryRow(ctx, query, f.UserName, f.Description, f.Rating, f.Image).Scan(&f.ID, &f.CreatedAt); err != nil {
		return fmt.Errorf("repository: failed to insert feedback: %w", err)
	}

	return nil
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Feedback, error) {
	query := `
		SELECT id, user_name, description, rating, image, created_at
		FROM feedback
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query feedback: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Feedback, error) {
		var f Feedback
		err := row.Scan(&f.ID, &f.UserName, &f.Description, &f.Rating, &f.Image, &f.CreatedAt)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan feedback: %w", err)
	}

	return entries, nil
}
