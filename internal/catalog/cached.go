package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/karan123216/Restaurant-Management-System/internal/identity"
)

const menuKey = "catalog:menu"

func itemKey(id int64) string {
	return fmt.Sprintf("catalog:item:%d", id)
}

// cachedService keeps the menu and single items in Redis.
// A Redis failure never fails a read; the call falls through to next.
type cachedService struct {
	next        Service
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewCachedService(next Service, redisClient *redis.Client, ttl time.Duration) Service {
	return &cachedService{
		next:        next,
		redisClient: redisClient,
		cacheTTL:    ttl,
	}
}

func (s *cachedService) ListMenu(ctx context.Context) ([]MenuSection, error) {
	var menu []MenuSection
	if s.load(ctx, menuKey, &menu) {
		return menu, nil
	}

	menu, err := s.next.ListMenu(ctx)
	if err != nil {
		return nil, err
	}

	s.store(ctx, menuKey, menu)
	return menu, nil
}

func (s *cachedService) ListCategories(ctx context.Context) ([]Category, error) {
	return s.next.ListCategories(ctx)
}

func (s *cachedService) ListItems(ctx context.Context) ([]Item, error) {
	return s.next.ListItems(ctx)
}

func (s *cachedService) GetItem(ctx context.Context, id int64) (*Item, error) {
	key := itemKey(id)

	var item Item
	if s.load(ctx, key, &item) {
		return &item, nil
	}

	found, err := s.next.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	s.store(ctx, key, found)
	return found, nil
}

func (s *cachedService) CreateCategory(ctx context.Context, actor identity.User, name string) (*Category, error) {
	category, err := s.next.CreateCategory(ctx, actor, name)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, menuKey)
	return category, nil
}

func (s *cachedService) CreateItem(ctx context.Context, actor identity.User, in NewItem) (*Item, error) {
	item, err := s.next.CreateItem(ctx, actor, in)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, menuKey)
	return item, nil
}

func (s *cachedService) DeleteItem(ctx context.Context, actor identity.User, id int64) (*CascadeResult, error) {
	result, err := s.next.DeleteItem(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, menuKey, itemKey(id))
	return result, nil
}

func (s *cachedService) DeleteCategory(ctx context.Context, actor identity.User, id int64) (*CascadeResult, error) {
	result, err := s.next.DeleteCategory(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	keys := []string{menuKey}
	for _, itemID := range result.ItemIDs {
		keys = append(keys, itemKey(itemID))
	}
	s.invalidate(ctx, keys...)

	return result, nil
}

func (s *cachedService) load(ctx context.Context, key string, dst any) bool {
	val, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("cache: get failed, falling back to storage")
		}
		return false
	}

	if err := json.Unmarshal(val, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: corrupt entry, falling back to storage")
		return false
	}

	return true
}

func (s *cachedService) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: failed to encode entry")
		return
	}

	if err := s.redisClient.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: set failed")
	}
}

func (s *cachedService) invalidate(ctx context.Context, keys ...string) {
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache: invalidation failed")
	}
}
