package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/karan123216/Restaurant-Management-System/internal/booking"
	"github.com/karan123216/Restaurant-Management-System/internal/cart"
	"github.com/karan123216/Restaurant-Management-System/internal/catalog"
	httpHandler "github.com/karan123216/Restaurant-Management-System/internal/handler/http"
	"github.com/karan123216/Restaurant-Management-System/internal/identity"
	"github.com/karan123216/Restaurant-Management-System/internal/order"
)

var (
	customer = identity.User{ID: uuid.Must(uuid.NewV4()), Username: "alice", Email: "alice@example.com"}
	staff    = identity.User{ID: uuid.Must(uuid.NewV4()), Username: "chef", IsStaff: true}
)

// tokenAuthenticator accepts the tokens it knows about.
type tokenAuthenticator map[string]identity.User

func (a tokenAuthenticator) Authenticate(_ context.Context, token string) (identity.User, error) {
	u, ok := a[token]
	if !ok {
		return identity.Anonymous, identity.ErrUnauthenticated
	}
	return u, nil
}

var testTokens = tokenAuthenticator{
	"customer-token": customer,
	"staff-token":    staff,
}

func newTestRouter(handlers ...httpHandler.RouteRegistrar) http.Handler {
	return httpHandler.NewRouter(testTokens, handlers...)
}

func doRequest(router http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func sameUser(want identity.User) interface{} {
	return mock.MatchedBy(func(u identity.User) bool { return u.ID == want.ID })
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddToCart(ctx context.Context, user identity.User, itemID int64) (int, error) {
	args := m.Called(ctx, user, itemID)
	return args.Int(0), args.Error(1)
}

func (m *MockCartService) ListCart(ctx context.Context, user identity.User) ([]cart.Line, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Line), args.Error(1)
}

func (m *MockCartService) Checkout(ctx context.Context, user identity.User) (cart.View, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(cart.View), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, user identity.User) (*order.Receipt, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Receipt), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, user identity.User, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, user, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, user identity.User) ([]order.Order, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, actor identity.User, id uuid.UUID, status string) (*order.Order, error) {
	args := m.Called(ctx, actor, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListMenu(ctx context.Context) ([]catalog.MenuSection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.MenuSection), args.Error(1)
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCatalogService) ListItems(ctx context.Context) ([]catalog.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockCatalogService) GetItem(ctx context.Context, id int64) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, actor identity.User, name string) (*catalog.Category, error) {
	args := m.Called(ctx, actor, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCatalogService) CreateItem(ctx context.Context, actor identity.User, in catalog.NewItem) (*catalog.Item, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockCatalogService) DeleteItem(ctx context.Context, actor identity.User, id int64) (*catalog.CascadeResult, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CascadeResult), args.Error(1)
}

func (m *MockCatalogService) DeleteCategory(ctx context.Context, actor identity.User, id int64) (*catalog.CascadeResult, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.CascadeResult), args.Error(1)
}

// bookingFunc adapts a function to booking.Service.
type bookingFunc func(ctx context.Context, b booking.Booking) (*booking.Result, error)

func (f bookingFunc) Book(ctx context.Context, b booking.Booking) (*booking.Result, error) {
	return f(ctx, b)
}
