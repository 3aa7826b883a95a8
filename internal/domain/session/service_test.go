package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, userID int, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockRepository) Validate(ctx context.Context, tokenHash string) (int, error) {
	args := m.Called(ctx, tokenHash)
	return args.Int(0), args.Error(1)
}

func TestService_Create(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	userID := 123

	mockRepo.On("Create", mock.Anything, userID, mock.MatchedBy(func(hash string) bool {
		return len(hash) == 64
	}), now.Add(TokenTTL)).Return(nil)

	token, err := service.Create(context.Background(), userID)
	require.NoError(t, err)
	// base64 от 32 байт с паддингом
	assert.Len(t, token, 44)

	mockRepo.AssertExpectations(t)
}

func TestService_Create_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Create", mock.Anything, 123, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(errors.New("database error"))

	_, err := service.Create(context.Background(), 123)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")

	mockRepo.AssertExpectations(t)
}

func TestService_CreateAndValidate(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	var stored string
	mockRepo.On("Create", mock.Anything, 123, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { stored = args.String(2) }).
		Return(nil)

	token, err := service.Create(context.Background(), 123)
	require.NoError(t, err)

	// в хранилище попадает только хэш, и Validate считает тот же хэш
	assert.NotEqual(t, token, stored)
	mockRepo.On("Validate", mock.Anything, mock.MatchedBy(func(hash string) bool { return hash == stored })).Return(123, nil)

	userID, err := service.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 123, userID)

	mockRepo.AssertExpectations(t)
}

func TestService_Validate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		token string
		setup func(m *MockRepository)
	}{
		{
			name:  "empty token",
			token: "  ",
			setup: func(m *MockRepository) {},
		},
		{
			name:  "unknown or expired",
			token: "invalid_token",
			setup: func(m *MockRepository) {
				m.On("Validate", mock.Anything, mock.AnythingOfType("string")).Return(0, errors.New("no rows"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			tt.setup(mockRepo)
			service := NewService(mockRepo, slog.Default())

			_, err := service.Validate(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidSession)
			mockRepo.AssertExpectations(t)
		})
	}
}
