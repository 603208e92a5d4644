package feedback_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/karan123216/Restaurant-Management-System/internal/feedback"
	"github.com/karan123216/Restaurant-Management-System/internal/testsuite"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, f *feedback.Feedback) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockRepository) Recent(ctx context.Context, limit int) ([]feedback.Feedback, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]feedback.Feedback), args.Error(1)
}

func TestFeedback_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      feedback.Feedback
		wantErr bool
	}{
		{name: "valid", in: feedback.Feedback{UserName: "Ann", Description: "Great", Rating: 5}},
		{name: "lowest rating", in: feedback.Feedback{UserName: "Ann", Description: "Meh", Rating: 1}},
		{name: "missing name", in: feedback.Feedback{UserName: "  ", Description: "Great", Rating: 5}, wantErr: true},
		{name: "long name", in: feedback.Feedback{UserName: strings.Repeat("a", 51), Description: "Great", Rating: 5}, wantErr: true},
		{name: "missing description", in: feedback.Feedback{UserName: "Ann", Rating: 3}, wantErr: true},
		{name: "rating zero", in: feedback.Feedback{UserName: "Ann", Description: "x", Rating: 0}, wantErr: true},
		{name: "rating six", in: feedback.Feedback{UserName: "Ann", Description: "x", Rating: 6}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, feedback.ErrInvalidFeedback)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestService_Submit(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := feedback.NewService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(f *feedback.Feedback) bool {
		return f.UserName == "Ann" && f.Rating == 4
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*feedback.Feedback).ID = 12
	}).Return(nil).Once()

	got, err := svc.Submit(context.Background(), feedback.Feedback{UserName: " Ann ", Description: "Tasty", Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.ID)

	_, err = svc.Submit(context.Background(), feedback.Feedback{UserName: "Ann", Description: "Tasty", Rating: 9})
	require.ErrorIs(t, err, feedback.ErrInvalidFeedback)

	mockRepo.AssertExpectations(t)
}

func TestService_Recent(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := feedback.NewService(mockRepo)

	mockRepo.On("Recent", mock.Anything, 5).Return(nil, nil).Once()
	mockRepo.On("Recent", mock.Anything, 2).Return(nil, errors.New("down")).Once()

	entries, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, entries)

	_, err = svc.Recent(context.Background(), 2)
	require.Error(t, err)

	mockRepo.AssertExpectations(t)
}

type RepositorySuite struct {
	testsuite.BaseSuite
	repo feedback.Repository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupSuite() {
	s.SetupInfrastructure()
	s.repo = feedback.NewRepository(s.DbPool)
}

func (s *RepositorySuite) TearDownSuite() {
	s.TearDownInfrastructure()
}

func (s *RepositorySuite) SetupTest() {
	s.TruncateTables()
}

func (s *RepositorySuite) TestRecent_NewestFirstWithLimit() {
	for _, name := range []string{"first", "second", "third"} {
		s.Require().NoError(s.repo.Create(s.Ctx, &feedback.Feedback{UserName: name, Description: "ok", Rating: 3}))
	}

	entries, err := s.repo.Recent(s.Ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("third", entries[0].UserName)
	s.Equal("second", entries[1].UserName)
}

func (s *RepositorySuite) TestCreate_RatingCheckConstraint() {
	err := s.repo.Create(s.Ctx, &feedback.Feedback{UserName: "x", Description: "y", Rating: 7})
	s.Error(err)
}
