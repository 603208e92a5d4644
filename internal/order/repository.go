package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/karan123216/Restaurant-Management-System/internal/cart"
)

type Repository interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, now time.Time) (*Receipt, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// PlaceOrder turns the user's cart into an order in one transaction: the cart rows
// are locked and read, the order and its lines are inserted, and exactly the lines
// that were read are deleted. Any failure leaves orders and cart untouched.
func (r *postgresRepository) PlaceOrder(ctx context.Context, userID uuid.UUID, now time.Time) (receipt *Receipt, err error) {
	tx, beginErr := r.db.Begin(ctx)
	if beginErr != nil {
		return nil, fmt.Errorf("%w: begin: %w", ErrTransactionFailed, beginErr)
	}

	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic_value", p).Stringer("user_id", userID).Msg("Panic recovered during PlaceOrder, rolling back")
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("user_id", userID).Msg("Failed to rollback transaction after panic")
			}
			panic(p)
		} else if err != nil {
			if !errors.Is(err, ErrEmptyCart) {
				log.Warn().Err(err).Stringer("user_id", userID).Msg("Transaction for PlaceOrder failed, rolling back")
			}
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Error().Err(rbErr).Stringer("user_id", userID).Msg("Failed to rollback transaction")
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				log.Error().Err(commitErr).Stringer("order_id", receipt.Order.ID).Msg("Failed to commit transaction")
				receipt = nil
				err = fmt.Errorf("%w: commit: %w", ErrTransactionFailed, commitErr)
			}
		}
	}()

	carts := cart.NewRepository(tx)

	lines, err := carts.ListLinesForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}

	receipt, err = NewFromCart(userID, lines, now)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}
	o := receipt.Order

	queryOrder := `
		INSERT INTO orders (id, user_id, total_cents, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.Exec(ctx, queryOrder, o.ID, o.UserID, o.Total, string(o.Status), o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: insert order: %w", ErrTransactionFailed, err)
	}

	queryLine := `
		INSERT INTO order_lines (id, order_id, item_id, item_name, quantity, unit_price_cents, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	itemIDs := make([]int64, 0, len(lines))
	for position, line := range o.Lines {
		_, err = tx.Exec(ctx, queryLine, line.ID, o.ID, line.ItemID, line.Name, line.Quantity, line.UnitPrice, position)
		if err != nil {
			return nil, fmt.Errorf("%w: insert order line for order %s: %w", ErrTransactionFailed, o.ID, err)
		}
		itemIDs = append(itemIDs, *line.ItemID)
	}

	if _, err = carts.Clear(ctx, userID, itemIDs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}

	return receipt, nil
}

// Lines are read back in bill order.
const selectOrderLines = `
	SELECT id, order_id, item_id, item_name, quantity, unit_price_cents
	FROM order_lines
`

func scanLine(row pgx.Row) (Line, error) {
	var line Line
	err := row.Scan(&line.ID, &line.OrderID, &line.ItemID, &line.Name, &line.Quantity, &line.UnitPrice)
	return line, err
}

func (r *postgresRepository) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	queryOrder := `
		SELECT id, user_id, total_cents, status, created_at
		FROM orders
		WHERE id = $1
	`

	var o Order
	err := r.db.QueryRow(ctx, queryOrder, orderID).Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", orderID, err)
	}

	rows, err := r.db.Query(ctx, selectOrderLines+" WHERE order_id = $1 ORDER BY position, id", orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order lines for order id %s: %w", orderID, err)
	}
	defer rows.Close()

	o.Lines = make([]Line, 0)
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order line for order id %s: %w", orderID, err)
		}
		o.Lines = append(o.Lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order lines for order id %s: %w", orderID, err)
	}

	return &o, nil
}

func (r *postgresRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(newStatus), orderID)
	if err != nil {
		log.Error().Err(err).Stringer("order_id", orderID).Stringer("new_status", newStatus).Msg("repository: failed to update order status")
		return fmt.Errorf("repository: failed to update order status %s: %w", orderID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *postgresRepository) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	userOrdersQuery := `
		SELECT id, user_id, total_cents, status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`

	orderRows, err := r.db.Query(ctx, userOrdersQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders for user id %s: %w", userID, err)
	}
	defer orderRows.Close()

	ordersMap := make(map[uuid.UUID]*Order)
	var orderIDs []uuid.UUID

	for orderRows.Next() {
		var o Order
		if err := orderRows.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order for user id %s: %w", userID, err)
		}
		o.Lines = make([]Line, 0)
		ordersMap[o.ID] = &o
		orderIDs = append(orderIDs, o.ID)
	}

	if err = orderRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed iterating orders for user id %s: %w", userID, err)
	}

	if len(orderIDs) == 0 {
		return []Order{}, nil
	}

	lineRows, err := r.db.Query(ctx, selectOrderLines+" WHERE order_id = ANY($1) ORDER BY order_id, position, id", orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order lines for user id %s: %w", userID, err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		line, err := scanLine(lineRows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order line for user id %s: %w", userID, err)
		}

		if o, ok := ordersMap[line.OrderID]; ok {
			o.Lines = append(o.Lines, line)
		}
	}

	if err = lineRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed iterating order lines for user id %s: %w", userID, err)
	}

	result := make([]Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		result = append(result, *ordersMap[id])
	}

	return result, nil
}
