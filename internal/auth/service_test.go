package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/karan123216/Restaurant-Management-System/internal/auth"
	"github.com/karan123216/Restaurant-Management-System/internal/identity"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *auth.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserRepository) SetStaff(ctx context.Context, username string, staff bool) error {
	args := m.Called(ctx, username, staff)
	return args.Error(0)
}

func newAuthService(repo auth.Repository) (auth.Service, *auth.TokenManager) {
	tm := auth.NewTokenManager("test-secret", "restaurant-service", time.Hour)
	return auth.NewService(repo, tm), tm
}

func TestAuthService_Signup_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc, tm := newAuthService(mockRepo)

	var stored *auth.User
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*auth.User")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*auth.User) }).
		Return(nil).
		Once()

	session, err := svc.Signup(context.Background(), " alice ", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, "alice", stored.Username)
	assert.False(t, stored.IsStaff)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)

	who, err := tm.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, who.ID)
	assert.Equal(t, "alice@example.com", who.Email)

	mockRepo.AssertExpectations(t)
}

func TestAuthService_Signup_UsernameTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc, _ := newAuthService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*auth.User")).Return(auth.ErrUsernameTaken).Once()

	_, err := svc.Signup(context.Background(), "alice", "", "s3cret-pass")
	require.ErrorIs(t, err, auth.ErrUsernameTaken)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &auth.User{Username: "alice", PasswordHash: string(hash)}

	tests := []struct {
		name     string
		password string
		repoUser *auth.User
		repoErr  error
		wantErr  error
	}{
		{name: "success", password: "right-password", repoUser: user},
		{name: "wrong password", password: "wrong-password", repoUser: user, wantErr: auth.ErrInvalidCredentials},
		{name: "unknown user", password: "right-password", repoErr: auth.ErrUserNotFound, wantErr: auth.ErrInvalidCredentials},
		{name: "storage failure", password: "right-password", repoErr: errors.New("timeout"), wantErr: errors.New("timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			svc, _ := newAuthService(mockRepo)
			mockRepo.On("GetByUsername", mock.Anything, "alice").Return(tt.repoUser, tt.repoErr).Once()

			session, err := svc.Login(context.Background(), "alice", tt.password)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				assert.Nil(t, session)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, session.Token)
			assert.Equal(t, "alice", session.User.Username)
		})
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	t.Run("creates missing admin", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc, _ := newAuthService(mockRepo)

		mockRepo.On("GetByUsername", mock.Anything, "admin").Return(nil, auth.ErrUserNotFound).Once()
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *auth.User) bool {
			return u.Username == "admin" && u.IsStaff
		})).Return(nil).Once()

		require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "admin-pass"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("promotes existing user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc, _ := newAuthService(mockRepo)

		mockRepo.On("GetByUsername", mock.Anything, "admin").Return(&auth.User{Username: "admin"}, nil).Once()
		mockRepo.On("SetStaff", mock.Anything, "admin", true).Return(nil).Once()

		require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", ""))
		mockRepo.AssertExpectations(t)
	})

	t.Run("already staff", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc, _ := newAuthService(mockRepo)

		mockRepo.On("GetByUsername", mock.Anything, "admin").Return(&auth.User{Username: "admin", IsStaff: true}, nil).Once()

		require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", ""))
		mockRepo.AssertNotCalled(t, "SetStaff", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing admin without password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc, _ := newAuthService(mockRepo)

		mockRepo.On("GetByUsername", mock.Anything, "admin").Return(nil, auth.ErrUserNotFound).Once()

		require.Error(t, svc.EnsureAdmin(context.Background(), "admin", ""))
	})

	t.Run("disabled", func(t *testing.T) {
		svc, _ := newAuthService(new(MockUserRepository))
		require.NoError(t, svc.EnsureAdmin(context.Background(), "", ""))
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	issuedAsStaff := identity.User{ID: userID, Username: "chef", Email: "chef@example.com", IsStaff: true}
	dbErr := errors.New("connection reset")

	testCases := []struct {
		name        string
		stored      *auth.User
		repoErr     error
		expected    identity.User
		expectedErr error
	}{
		{
			name:     "Staff still staff",
			stored:   &auth.User{ID: userID, Username: "chef", Email: "chef@example.com", IsStaff: true},
			expected: issuedAsStaff,
		},
		{
			name:     "Demoted after token was issued",
			stored:   &auth.User{ID: userID, Username: "chef", Email: "chef@example.com", IsStaff: false},
			expected: identity.User{ID: userID, Username: "chef", Email: "chef@example.com", IsStaff: false},
		},
		{
			name:        "Account removed",
			repoErr:     auth.ErrUserNotFound,
			expected:    identity.Anonymous,
			expectedErr: auth.ErrInvalidToken,
		},
		{
			name:        "Storage failure",
			repoErr:     dbErr,
			expected:    identity.Anonymous,
			expectedErr: dbErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			svc, tm := newAuthService(mockRepo)

			token, _, err := tm.Issue(issuedAsStaff)
			require.NoError(t, err)

			if tc.stored != nil {
				mockRepo.On("GetByID", mock.Anything, userID).Return(tc.stored, nil).Once()
			} else {
				mockRepo.On("GetByID", mock.Anything, userID).Return(nil, tc.repoErr).Once()
			}

			who, err := svc.Authenticate(context.Background(), token)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.expected, who)
			mockRepo.AssertExpectations(t)
		})
	}

	t.Run("Forged token never reaches storage", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc, _ := newAuthService(mockRepo)

		_, err := svc.Authenticate(context.Background(), "not-a-jwt")

		require.ErrorIs(t, err, auth.ErrInvalidToken)
		mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}
