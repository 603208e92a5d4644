package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/karan123216/Restaurant-Management-System/internal/catalog"
)

// DB is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so the same
// repository runs standalone or inside an order transaction.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	AddItem(ctx context.Context, userID uuid.UUID, itemID int64) (int, error)
	ListLines(ctx context.Context, userID uuid.UUID) ([]Line, error)
	ListLinesForUpdate(ctx context.Context, userID uuid.UUID) ([]Line, error)
	Clear(ctx context.Context, userID uuid.UUID, itemIDs []int64) (int64, error)
}

type postgresRepository struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &postgresRepository{db: db}
}

// AddItem inserts the line with quantity 1 or increments an existing one in a
// single statement, and returns the resulting quantity.
func (r *postgresRepository) AddItem(ctx context.Context, userID uuid.UUID, itemID int64) (int, error) {
	query := `
		INSERT INTO cart_lines (user_id, item_id, quantity, added_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET quantity = cart_lines.quantity + 1
		RETURNING quantity
	`

	var quantity int
	if err := r.db.QueryRow(ctx, query, userID, itemID).Scan(&quantity); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation && pgErr.ConstraintName == "cart_lines_item_id_fkey" {
			return 0, catalog.ErrItemNotFound
		}

		return 0, fmt.Errorf("repository: failed to upsert cart line for user %s: %w", userID, err)
	}

	return quantity, nil
}

const selectLines = `
	SELECT cl.item_id, i.name, cl.quantity, i.price_cents, cl.added_at
	FROM cart_lines cl
	JOIN items i ON i.id = cl.item_id
	WHERE cl.user_id = $1
	ORDER BY cl.added_at, cl.item_id
`

func (r *postgresRepository) ListLines(ctx context.Context, userID uuid.UUID) ([]Line, error) {
	return r.queryLines(ctx, selectLines, userID)
}

// ListLinesForUpdate locks the user's cart rows until the surrounding transaction ends.
func (r *postgresRepository) ListLinesForUpdate(ctx context.Context, userID uuid.UUID) ([]Line, error) {
	return r.queryLines(ctx, selectLines+" FOR UPDATE OF cl", userID)
}

func (r *postgresRepository) queryLines(ctx context.Context, query string, userID uuid.UUID) ([]Line, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query cart lines for user %s: %w", userID, err)
	}
	defer rows.Close()

	lines := make([]Line, 0)
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ItemID, &line.Name, &line.Quantity, &line.UnitPrice, &line.AddedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan cart line for user %s: %w", userID, err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed iterating cart lines for user %s: %w", userID, err)
	}

	return lines, nil
}

// Clear deletes the given lines of the user's cart. Lines added after the
// caller read the cart are left alone.
func (r *postgresRepository) Clear(ctx context.Context, userID uuid.UUID, itemIDs []int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1 AND item_id = ANY($2)`, userID, itemIDs)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to clear cart for user %s: %w", userID, err)
	}

	return tag.RowsAffected(), nil
}
