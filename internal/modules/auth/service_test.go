package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"navm8/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil && args.Error(0) == nil {
		u.ID = 7
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, t *domain.RefreshToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, id int64, replacedByID *int64) error {
	args := m.Called(ctx, id, replacedByID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) RevokeByUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type fakeJWT struct{}

func (fakeJWT) GenerateToken(userID int64) (string, error) { return "token", nil }

func TestRegister_Success(t *testing.T) {
	users := new(MockUserRepository)
	refresh := new(MockRefreshTokenRepository)

	users.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("GetByUsername", mock.Anything, "newbie").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	refresh.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(users, refresh, fakeJWT{}, time.Hour)

	result, err := service.Register(context.Background(), RegisterRequest{
		Username: "newbie",
		Email:    "New@Example.com",
		Password: "secret-password",
	})

	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", result.User.Email)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	// password never stored raw
	assert.NotEqual(t, "secret-password", result.User.PasswordHash)
}

func TestRegister_EmailTaken(t *testing.T) {
	users := new(MockUserRepository)
	refresh := new(MockRefreshTokenRepository)

	users.On("GetByEmail", mock.Anything, "taken@example.com").Return(&domain.User{ID: 1}, nil)

	service := NewService(users, refresh, fakeJWT{}, time.Hour)

	_, err := service.Register(context.Background(), RegisterRequest{
		Username: "whoever",
		Email:    "taken@example.com",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	refresh := new(MockRefreshTokenRepository)

	hash, _ := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	users.On("GetByEmail", mock.Anything, "u@example.com").Return(&domain.User{
		ID:           1,
		Email:        "u@example.com",
		PasswordHash: string(hash),
	}, nil)

	service := NewService(users, refresh, fakeJWT{}, time.Hour)

	_, err := service.Login(context.Background(), LoginRequest{Email: "u@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	refresh := new(MockRefreshTokenRepository)

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	service := NewService(users, refresh, fakeJWT{}, time.Hour)

	_, err := service.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_RevokedTokenRejectedAndFamilyRevoked(t *testing.T) {
	users := new(MockUserRepository)
	refresh := new(MockRefreshTokenRepository)

	revoked := time.Now().Add(-time.Minute)
	refresh.On("GetByHash", mock.Anything, mock.Anything).Return(&domain.RefreshToken{
		ID:        5,
		UserID:    1,
		ExpiresAt: time.Now().Add(time.Hour),
		RevokedAt: &revoked,
	}, nil)
	refresh.On("RevokeByUser", mock.Anything, int64(1)).Return(nil)

	service := NewService(users, refresh, fakeJWT{}, time.Hour)

	_, err := service.Refresh(context.Background(), "stolen-token")
	assert.ErrorIs(t, err, ErrInvalidRefresh)
	refresh.AssertCalled(t, "RevokeByUser", mock.Anything, int64(1))
}

func TestRefresh_RotatesToken(t *testing.T) {
	users := new(MockUserRepository)
	refresh := new(MockRefreshTokenRepository)

	refresh.On("GetByHash", mock.Anything, mock.Anything).Return(&domain.RefreshToken{
		ID:        5,
		UserID:    1,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1}, nil)
	refresh.On("Create", mock.Anything, mock.Anything).Return(nil)
	refresh.On("Revoke", mock.Anything, int64(5), (*int64)(nil)).Return(nil)

	service := NewService(users, refresh, fakeJWT{}, time.Hour)

	result, err := service.Refresh(context.Background(), "valid-token")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.RefreshToken)
	refresh.AssertCalled(t, "Revoke", mock.Anything, int64(5), (*int64)(nil))
}

func TestRefresh_RevokeFailureStopsRotation(t *testing.T) {
	users := new(MockUserRepository)
	refresh := new(MockRefreshTokenRepository)

	refresh.On("GetByHash", mock.Anything, mock.Anything).Return(&domain.RefreshToken{
		ID:        5,
		UserID:    1,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1}, nil)
	refresh.On("Revoke", mock.Anything, int64(5), (*int64)(nil)).Return(errors.New("connection reset"))

	service := NewService(users, refresh, fakeJWT{}, time.Hour)

	_, err := service.Refresh(context.Background(), "valid-token")
	assert.Error(t, err)
	// the presented token must be dead before any new one exists
	refresh.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
