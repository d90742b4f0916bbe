package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"navm8/internal/domain"
	pkgvalidator "navm8/internal/pkg/validator"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service contains all business logic for authentication.
type Service struct {
	users      UserRepository
	refresh    RefreshTokenRepository
	jwt        jwtService
	refreshTTL time.Duration
}

type LoginResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func NewService(users UserRepository, refresh RefreshTokenRepository, jwt jwtService, refreshTTL time.Duration) *Service {
	return &Service{
		users:      users,
		refresh:    refresh,
		jwt:        jwt,
		refreshTTL: refreshTTL,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	username := strings.TrimSpace(req.Username)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if fields := pkgvalidator.Validate(u); fields != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidUser, fields)
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, u)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, u)
}

// Refresh rotates the refresh token: the presented token is revoked and
// replaced, so a replayed token is always rejected.
func (s *Service) Refresh(ctx context.Context, rawToken string) (*LoginResult, error) {
	row, err := s.refresh.GetByHash(ctx, hashToken(rawToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	now := time.Now().UTC()
	if row.IsRevoked() || row.IsExpired(now) {
		// reuse of a rotated token: revoke everything for the user
		_ = s.refresh.RevokeByUser(ctx, row.UserID)
		return nil, ErrInvalidRefresh
	}

	u, err := s.users.GetByID(ctx, row.UserID)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	// revoke before issuing so a failed rotation can never leave two
	// live refresh tokens; a failed issue just means logging in again
	if err := s.refresh.Revoke(ctx, row.ID, nil); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, u)
}

func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.refresh.RevokeByUser(ctx, userID)
}

func (s *Service) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) issueTokens(ctx context.Context, u *domain.User) (*LoginResult, error) {
	access, err := s.jwt.GenerateToken(u.ID)
	if err != nil {
		return nil, err
	}

	raw := newRawToken()
	row := &domain.RefreshToken{
		UserID:    u.ID,
		TokenHash: hashToken(raw),
		JTI:       uuid.NewString(),
		ExpiresAt: time.Now().UTC().Add(s.refreshTTL),
	}
	if err := s.refresh.Create(ctx, row); err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         u,
		AccessToken:  access,
		RefreshToken: raw,
	}, nil
}

func newRawToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
