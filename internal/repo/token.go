package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

var ErrTokenRevoked = errors.New("refresh token expired or revoked")

func (r *GormRepo) SaveRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

// RotateRefreshToken revokes oldJTI and stores next atomically. A token that
// is unknown, revoked or expired cannot be rotated.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, next *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur models.RefreshToken
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("jti = ?", oldJTI).First(&cur).Error; err != nil {
			return err
		}
		if cur.Revoked || cur.ExpiresAt.Before(time.Now()) {
			return ErrTokenRevoked
		}
		if cur.UserID != next.UserID {
			return ErrTokenRevoked
		}

		if err := tx.Model(&cur).Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.Create(next).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}
