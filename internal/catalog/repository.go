package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListItems(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, id int64) (*Item, error)
	CreateCategory(ctx context.Context, name string) (*Category, error)
	CreateItem(ctx context.Context, in NewItem) (*Item, error)
	DeleteItem(ctx context.Context, id int64) (*CascadeResult, error)
	DeleteCategory(ctx context.Context, id int64) (*CascadeResult, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	categories := make([]Category, 0)
	if err := r.db.SelectContext(ctx, &categories, `SELECT id, name FROM categories ORDER BY id`); err != nil {
		return nil, fmt.Errorf("repository: failed to select categories: %w", err)
	}

	return categories, nil
}

func (r *postgresRepository) ListItems(ctx context.Context) ([]Item, error) {
	items := make([]Item, 0)
	query := `
		SELECT id, name, description, price_cents, category_id, image
		FROM items
		ORDER BY category_id, id
	`
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("repository: failed to select items: %w", err)
	}

	return items, nil
}

func (r *postgresRepository) GetItem(ctx context.Context, id int64) (*Item, error) {
	var item Item
	query := `
		SELECT id, name, description, price_cents, category_id, image
		FROM items
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}

		return nil, fmt.Errorf("repository: failed to select item %d: %w", id, err)
	}

	return &item, nil
}

func (r *postgresRepository) CreateCategory(ctx context.Context, name string) (*Category, error) {
	category := Category{Name: name}
	err := r.db.QueryRowxContext(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&category.ID)
	if err != nil {
		if isViolation(err, pgerrcode.UniqueViolation, "categories_name_key") {
			return nil, ErrCategoryExists
		}

		return nil, fmt.Errorf("repository: failed to insert category: %w", err)
	}

	return &category, nil
}

func (r *postgresRepository) CreateItem(ctx context.Context, in NewItem) (*Item, error) {
	item := Item{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		Image:       in.Image,
	}

	query := `
		INSERT INTO items (name, description, price_cents, category_id, image)
		VALUES (:name, :description, :price_cents, :category_id, :image)
		RETURNING id
	`
	rows, err := r.db.NamedQueryContext(ctx, query, item)
	if err != nil {
		if isViolation(err, pgerrcode.ForeignKeyViolation, "items_category_id_fkey") {
			return nil, ErrCategoryNotFound
		}

		return nil, fmt.Errorf("repository: failed to insert item: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			if isViolation(err, pgerrcode.ForeignKeyViolation, "items_category_id_fkey") {
				return nil, ErrCategoryNotFound
			}

			return nil, fmt.Errorf("repository: failed to insert item: %w", err)
		}

		return nil, fmt.Errorf("repository: insert item returned no id")
	}
	if err := rows.Scan(&item.ID); err != nil {
		return nil, fmt.Errorf("repository: failed to scan item id: %w", err)
	}

	return &item, nil
}

func (r *postgresRepository) DeleteItem(ctx context.Context, id int64) (*CascadeResult, error) {
	var result *CascadeResult

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var ids []int64
		if err := tx.SelectContext(ctx, &ids, `SELECT id FROM items WHERE id = $1 FOR UPDATE`, id); err != nil {
			return fmt.Errorf("repository: failed to lock item %d: %w", id, err)
		}
		if len(ids) == 0 {
			return ErrItemNotFound
		}

		var err error
		result, err = cascadeItems(ctx, tx, ids)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteCategory removes a category and, explicitly, everything hanging off its items:
// cart lines are deleted, order lines keep their snapshot but lose the item reference.
func (r *postgresRepository) DeleteCategory(ctx context.Context, id int64) (*CascadeResult, error) {
	var result *CascadeResult

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var found []int64
		if err := tx.SelectContext(ctx, &found, `SELECT id FROM categories WHERE id = $1 FOR UPDATE`, id); err != nil {
			return fmt.Errorf("repository: failed to lock category %d: %w", id, err)
		}
		if len(found) == 0 {
			return ErrCategoryNotFound
		}

		ids := make([]int64, 0)
		if err := tx.SelectContext(ctx, &ids, `SELECT id FROM items WHERE category_id = $1 ORDER BY id FOR UPDATE`, id); err != nil {
			return fmt.Errorf("repository: failed to lock items of category %d: %w", id, err)
		}

		var err error
		result, err = cascadeItems(ctx, tx, ids)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
			return fmt.Errorf("repository: failed to delete category %d: %w", id, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func cascadeItems(ctx context.Context, tx *sqlx.Tx, ids []int64) (*CascadeResult, error) {
	result := &CascadeResult{ItemIDs: ids}
	if len(ids) == 0 {
		return result, nil
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE item_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to delete cart lines: %w", err)
	}
	result.CartLines, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx, `UPDATE order_lines SET item_id = NULL WHERE item_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to detach order lines: %w", err)
	}
	result.DetachedOrderLines, _ = res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ANY($1)`, ids); err != nil {
		return nil, fmt.Errorf("repository: failed to delete items: %w", err)
	}

	return result, nil
}

func (r *postgresRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic_value", p).Msg("Panic recovered during catalog transaction, rolling back")
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction after panic")
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction")
			}
		} else if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("repository: failed to commit transaction: %w", commitErr)
		}
	}()

	return fn(tx)
}

func isViolation(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == code && (constraint == "" || pgErr.ConstraintName == constraint)
}
