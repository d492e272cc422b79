package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	pkghash "github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

var ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *TokenService
}

func NewAuthService(r *repo.GormRepo, jwtSecret, refreshSecret []byte) *AuthService {
	return &AuthService{
		Repo:   r,
		Tokens: &TokenService{Repo: r, JWTSecret: jwtSecret, RefreshSecret: refreshSecret},
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", domain.ErrValidation)
	}

	pwHash, err := pkghash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: pwHash, Role: models.RoleUser}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, repoErr(err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*tokens.Pair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", domain.ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, repoErr(err)
	}
	if !pkghash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.Tokens.Issue(ctx, user)
}

// Refresh lets AuthService back the auto-refresh middleware.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	return s.Tokens.Rotate(ctx, refreshToken)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.Tokens.Revoke(ctx, refreshToken)
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, repoErr(err)
	}
	return u, nil
}

func (s *AuthService) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	total, users, err := s.Repo.ListUsers(ctx, offset, limit)
	if err != nil {
		return 0, nil, repoErr(err)
	}
	return total, users, nil
}

func (s *AuthService) SetRole(ctx context.Context, id uint, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}
	u, err := s.Repo.SetUserRole(ctx, id, role)
	if err != nil {
		return nil, repoErr(err)
	}
	return u, nil
}
