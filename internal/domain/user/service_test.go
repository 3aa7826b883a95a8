package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, username, email, passwordHash string) (int, error) {
	args := m.Called(ctx, username, email, passwordHash)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) FindByIdentifier(ctx context.Context, identifier string) (User, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).(User), args.Error(1)
}

func newTestService(repo Repository) *Service {
	return NewService(repo, NewPasswordValidator(), slog.Default())
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestService_Register(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("Create", mock.Anything, "tecnico1", "tecnico1@example.mx", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("pozo2024")) == nil
	})).Return(123, nil)

	u, err := service.Register(context.Background(), " tecnico1 ", "Tecnico1@Example.mx", "pozo2024")
	require.NoError(t, err)
	assert.Equal(t, 123, u.ID)
	assert.Equal(t, "tecnico1", u.Username)
	assert.Equal(t, "tecnico1@example.mx", u.Email)
	assert.Empty(t, u.Password)

	mockRepo.AssertExpectations(t)
}

func TestService_Register_InvalidInput(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	_, err := service.Register(context.Background(), "ab", "ab@example.mx", "pozo2024")
	assert.ErrorIs(t, err, ErrInvalidInput)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Register_RepositoryErrors(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		check   func(t *testing.T, err error)
	}{
		{
			name:    "already exists passes through",
			repoErr: ErrAlreadyExists,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrAlreadyExists)
			},
		},
		{
			name:    "database error is wrapped",
			repoErr: errors.New("database error"),
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "database error")
				assert.NotErrorIs(t, err, ErrAlreadyExists)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := newTestService(mockRepo)
			mockRepo.On("Create", mock.Anything, "tecnico1", "t@example.mx", mock.AnythingOfType("string")).Return(0, tt.repoErr)

			_, err := service.Register(context.Background(), "tecnico1", "t@example.mx", "pozo2024")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestService_Authenticate_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	stored := User{ID: 123, Username: "tecnico1", Email: "t@example.mx", Password: hashOf(t, "pozo2024")}
	mockRepo.On("FindByIdentifier", mock.Anything, "t@example.mx").Return(stored, nil)

	u, err := service.Authenticate(context.Background(), "t@example.mx", "pozo2024")
	require.NoError(t, err)
	assert.Equal(t, 123, u.ID)
	assert.Equal(t, "tecnico1", u.Username)
	assert.Empty(t, u.Password, "хэш не должен покидать сервис")

	mockRepo.AssertExpectations(t)
}

func TestService_Authenticate_Failures(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		password   string
		setup      func(m *MockRepository)
		wantErr    error
	}{
		{
			name:       "empty identifier",
			identifier: "",
			password:   "pozo2024",
			setup:      func(m *MockRepository) {},
			wantErr:    ErrInvalidAuth,
		},
		{
			name:       "unknown user",
			identifier: "nadie",
			password:   "pozo2024",
			setup: func(m *MockRepository) {
				m.On("FindByIdentifier", mock.Anything, "nadie").Return(User{}, ErrNotFound)
			},
			wantErr: ErrInvalidAuth,
		},
		{
			name:       "wrong password",
			identifier: "tecnico1",
			password:   "otra1234",
			setup: func(m *MockRepository) {
				m.On("FindByIdentifier", mock.Anything, "tecnico1").Return(User{ID: 1, Password: "$2a$04$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva"}, nil)
			},
			wantErr: ErrInvalidAuth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			tt.setup(mockRepo)
			service := newTestService(mockRepo)

			_, err := service.Authenticate(context.Background(), tt.identifier, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_Authenticate_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	mockRepo.On("FindByIdentifier", mock.Anything, "tecnico1").Return(User{}, errors.New("connection refused"))

	_, err := service.Authenticate(context.Background(), "tecnico1", "pozo2024")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidAuth)
	assert.Contains(t, err.Error(), "connection refused")
}
