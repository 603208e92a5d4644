package booking

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	Create(ctx context.Context, b *Booking) error
}

type repository struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (name, phone_number, email, total_persons, booking_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, b.Name, b.PhoneNumber, b.Email, b.TotalPersons, b.BookingDate).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert booking: %w", err)
	}

	return nil
}
