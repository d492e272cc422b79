package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

// TokenService issues access/refresh pairs. Refresh tokens are stored as
// sha256 hashes and are single use.
type TokenService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

func (t *TokenService) Issue(ctx context.Context, user *models.User) (*tokens.Pair, error) {
	pair, row, err := t.newPair(user)
	if err != nil {
		return nil, err
	}
	if err := t.Repo.SaveRefreshToken(ctx, row); err != nil {
		return nil, repoErr(err)
	}
	return pair, nil
}

// Rotate exchanges a valid refresh token for a new pair and revokes the old
// one. The role is re-read so a changed role takes effect on refresh.
func (t *TokenService) Rotate(ctx context.Context, rawRefresh string) (*tokens.Pair, error) {
	claims, err := tokens.RefreshClaimsFromToken(rawRefresh, t.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", domain.ErrUnauthorized)
	}
	user, err := t.Repo.GetUserByID(ctx, uint(userID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user gone", domain.ErrUnauthorized)
		}
		return nil, repoErr(err)
	}

	pair, row, err := t.newPair(user)
	if err != nil {
		return nil, err
	}
	if err := t.Repo.RotateRefreshToken(ctx, claims.ID, row); err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
		}
		return nil, repoErr(err)
	}
	return pair, nil
}

func (t *TokenService) Revoke(ctx context.Context, rawRefresh string) error {
	if rawRefresh == "" {
		return nil
	}
	return repoErr(t.Repo.RevokeRefreshToken(ctx, jwthelp.Sha256Hex(rawRefresh)))
}

func (t *TokenService) newPair(user *models.User) (*tokens.Pair, *models.RefreshToken, error) {
	now := time.Now()
	subject := strconv.FormatUint(uint64(user.ID), 10)
	accessExp := now.Add(tokens.AccessTTL)
	refreshExp := now.Add(tokens.RefreshTTL)
	jti := jwthelp.NewJTI()

	access, err := tokens.NewAccessToken(subject, user.Role, accessExp, t.JWTSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := tokens.NewRefreshToken(subject, jti, refreshExp, t.RefreshSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("sign refresh token: %w", err)
	}

	row := &models.RefreshToken{
		UserID:    user.ID,
		JTI:       jti,
		TokenHash: jwthelp.Sha256Hex(refresh),
		ExpiresAt: refreshExp,
	}
	pair := &tokens.Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		Role:         user.Role,
	}
	return pair, row, nil
}
