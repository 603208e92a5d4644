package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karan123216/Restaurant-Management-System/internal/auth"
	httpHandler "github.com/karan123216/Restaurant-Management-System/internal/handler/http"
	"github.com/karan123216/Restaurant-Management-System/internal/identity"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, username, email, password string) (*auth.Session, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*auth.Session, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (identity.User, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(identity.User), args.Error(1)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

func TestAuthHandler_handleSignup(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		setupMock    func(m *MockAuthService)
		expectedCode int
	}{
		{
			name: "Success",
			body: `{"username":"alice","email":"alice@example.com","password":"password123"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Signup", mock.Anything, "alice", "alice@example.com", "password123").
					Return(&auth.Session{Token: "jwt", ExpiresAt: time.Now().Add(time.Hour), User: customer}, nil).Once()
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Username taken",
			body: `{"username":"alice","password":"password123"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Signup", mock.Anything, "alice", "", "password123").Return(nil, auth.ErrUsernameTaken).Once()
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:         "Short password",
			body:         `{"username":"alice","password":"short"}`,
			setupMock:    func(m *MockAuthService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Malformed JSON",
			body:         `{"username":`,
			setupMock:    func(m *MockAuthService) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			tc.setupMock(mockService)
			router := newTestRouter(httpHandler.NewAuthHandler(mockService))

			rr := doRequest(router, http.MethodPost, "/api/auth/signup", tc.body, "")

			assert.Equal(t, tc.expectedCode, rr.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_handleLogin_InvalidCredentials(t *testing.T) {
	mockService := new(MockAuthService)
	mockService.On("Login", mock.Anything, "alice", "wrong-password").Return(nil, auth.ErrInvalidCredentials).Once()
	router := newTestRouter(httpHandler.NewAuthHandler(mockService))

	rr := doRequest(router, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"wrong-password"}`, "")

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	var resp httpHandler.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "/login", resp.Redirect)
	mockService.AssertExpectations(t)
}

func TestAuthHandler_handleLogout(t *testing.T) {
	router := newTestRouter(httpHandler.NewAuthHandler(new(MockAuthService)))

	assert.Equal(t, http.StatusNoContent, doRequest(router, http.MethodPost, "/api/auth/logout", "", "customer-token").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodPost, "/api/auth/logout", "", "").Code)
}
