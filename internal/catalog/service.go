package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"github.com/karan123216/Restaurant-Management-System/internal/identity"
)

var tracer = otel.Tracer("restaurant-service/catalog")

type Service interface {
	ListMenu(ctx context.Context) ([]MenuSection, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ListItems(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, id int64) (*Item, error)
	CreateCategory(ctx context.Context, actor identity.User, name string) (*Category, error)
	CreateItem(ctx context.Context, actor identity.User, in NewItem) (*Item, error)
	DeleteItem(ctx context.Context, actor identity.User, id int64) (*CascadeResult, error)
	DeleteCategory(ctx context.Context, actor identity.User, id int64) (*CascadeResult, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListMenu(ctx context.Context) ([]MenuSection, error) {
	ctx, span := tracer.Start(ctx, "catalog.ListMenu")
	defer span.End()

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list categories")
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list items")
		return nil, fmt.Errorf("service: failed to list items: %w", err)
	}

	return BuildMenu(categories, items), nil
}

func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list categories: %w", err)
	}

	return categories, nil
}

func (s *service) ListItems(ctx context.Context) ([]Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list items: %w", err)
	}

	return items, nil
}

func (s *service) GetItem(ctx context.Context, id int64) (*Item, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrItemNotFound
		}

		log.Error().Err(err).Int64("item_id", id).Msg("service: failed to get item")
		return nil, fmt.Errorf("service: failed to get item %d: %w", id, err)
	}

	return item, nil
}

func (s *service) CreateCategory(ctx context.Context, actor identity.User, name string) (*Category, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxCategoryName {
		return nil, fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidCategory, maxCategoryName)
	}

	category, err := s.repo.CreateCategory(ctx, name)
	if err != nil {
		if errors.Is(err, ErrCategoryExists) {
			return nil, ErrCategoryExists
		}

		log.Error().Err(err).Str("name", name).Msg("service: failed to create category")
		return nil, fmt.Errorf("service: failed to create category: %w", err)
	}

	log.Info().Int64("category_id", category.ID).Stringer("actor_id", actor.ID).Msg("Category created")
	return category, nil
}

func (s *service) CreateItem(ctx context.Context, actor identity.User, in NewItem) (*Item, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || utf8.RuneCountInString(in.Name) > maxItemName {
		return nil, fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidItem, maxItemName)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidItem)
	}

	item, err := s.repo.CreateItem(ctx, in)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}

		log.Error().Err(err).Str("name", in.Name).Msg("service: failed to create item")
		return nil, fmt.Errorf("service: failed to create item: %w", err)
	}

	log.Info().Int64("item_id", item.ID).Stringer("actor_id", actor.ID).Msg("Item created")
	return item, nil
}

func (s *service) DeleteItem(ctx context.Context, actor identity.User, id int64) (*CascadeResult, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}

	result, err := s.repo.DeleteItem(ctx, id)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrItemNotFound
		}

		log.Error().Err(err).Int64("item_id", id).Msg("service: failed to delete item")
		return nil, fmt.Errorf("service: failed to delete item %d: %w", id, err)
	}

	log.Info().
		Int64("item_id", id).
		Int64("cart_lines_removed", result.CartLines).
		Int64("order_lines_detached", result.DetachedOrderLines).
		Msg("Item deleted")
	return result, nil
}

func (s *service) DeleteCategory(ctx context.Context, actor identity.User, id int64) (*CascadeResult, error) {
	if err := actor.RequireStaff(); err != nil {
		return nil, err
	}

	result, err := s.repo.DeleteCategory(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}

		log.Error().Err(err).Int64("category_id", id).Msg("service: failed to delete category")
		return nil, fmt.Errorf("service: failed to delete category %d: %w", id, err)
	}

	log.Info().
		Int64("category_id", id).
		Int("items_removed", len(result.ItemIDs)).
		Int64("cart_lines_removed", result.CartLines).
		Int64("order_lines_detached", result.DetachedOrderLines).
		Msg("Category deleted")
	return result, nil
}
