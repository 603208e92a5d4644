package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/karan123216/Restaurant-Management-System/internal/catalog"
	"github.com/karan123216/Restaurant-Management-System/internal/identity"
)

// ItemReader is the catalog lookup used to reject unknown items before touching the cart.
type ItemReader interface {
	GetItem(ctx context.Context, id int64) (*catalog.Item, error)
}

type Service interface {
	AddToCart(ctx context.Context, user identity.User, itemID int64) (int, error)
	ListCart(ctx context.Context, user identity.User) ([]Line, error)
	Checkout(ctx context.Context, user identity.User) (View, error)
}

type service struct {
	repo  Repository
	items ItemReader
}

func NewService(repo Repository, items ItemReader) Service {
	return &service{repo: repo, items: items}
}

func (s *service) AddToCart(ctx context.Context, user identity.User, itemID int64) (int, error) {
	if err := user.RequireSession(); err != nil {
		return 0, err
	}

	if _, err := s.items.GetItem(ctx, itemID); err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			log.Warn().Int64("item_id", itemID).Stringer("user_id", user.ID).Msg("service: add to cart for unknown item")
			return 0, catalog.ErrItemNotFound
		}

		return 0, fmt.Errorf("service: failed to look up item %d: %w", itemID, err)
	}

	quantity, err := s.repo.AddItem(ctx, user.ID, itemID)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			return 0, catalog.ErrItemNotFound
		}

		log.Error().Err(err).Int64("item_id", itemID).Stringer("user_id", user.ID).Msg("service: failed to add item to cart")
		return 0, fmt.Errorf("service: failed to add item %d to cart: %w", itemID, err)
	}

	log.Info().Int64("item_id", itemID).Int("quantity", quantity).Stringer("user_id", user.ID).Msg("Item added to cart")
	return quantity, nil
}

func (s *service) ListCart(ctx context.Context, user identity.User) ([]Line, error) {
	if err := user.RequireSession(); err != nil {
		return nil, err
	}

	lines, err := s.repo.ListLines(ctx, user.ID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", user.ID).Msg("service: failed to list cart")
		return nil, fmt.Errorf("service: failed to list cart: %w", err)
	}

	return NewView(lines).Lines, nil
}

func (s *service) Checkout(ctx context.Context, user identity.User) (View, error) {
	if err := user.RequireSession(); err != nil {
		return View{}, err
	}

	lines, err := s.repo.ListLines(ctx, user.ID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", user.ID).Msg("service: failed to read cart for checkout")
		return View{}, fmt.Errorf("service: failed to read cart for checkout: %w", err)
	}

	return NewView(lines), nil
}
