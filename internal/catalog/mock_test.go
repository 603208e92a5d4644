package catalog_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/karan123216/Restaurant-Management-System/internal/catalog"
	"github.com/karan123216/Restaurant-Management-System/internal/identity"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockRepository) ListItems(ctx context.Context) ([]catalog.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockRepository) GetItem(ctx context.Context, id int64) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockRepository) CreateCategory(ctx context.Context, name string) (*catalog.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockRepository) CreateItem(ctx context.Context, in catalog.NewItem) (*catalog.Item, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockRepository) DeleteItem(ctx context.Context, id int64) (*catalog.CascadeResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CascadeResult), args.Error(1)
}

func (m *MockRepository) DeleteCategory(ctx context.Context, id int64) (*catalog.CascadeResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CascadeResult), args.Error(1)
}

// MockService stands in for the uncached service behind the Redis decorator.
type MockService struct {
	mock.Mock
}

func (m *MockService) ListMenu(ctx context.Context) ([]catalog.MenuSection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.MenuSection), args.Error(1)
}

func (m *MockService) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockService) ListItems(ctx context.Context) ([]catalog.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockService) GetItem(ctx context.Context, id int64) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockService) CreateCategory(ctx context.Context, actor identity.User, name string) (*catalog.Category, error) {
	args := m.Called(ctx, actor, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockService) CreateItem(ctx context.Context, actor identity.User, in catalog.NewItem) (*catalog.Item, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockService) DeleteItem(ctx context.Context, actor identity.User, id int64) (*catalog.CascadeResult, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CascadeResult), args.Error(1)
}

func (m *MockService) DeleteCategory(ctx context.Context, actor identity.User, id int64) (*catalog.CascadeResult, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CascadeResult), args.Error(1)
}
