package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/refurb_shop/internal/models"
	jwthelp "github.com/Skotchmaster/refurb_shop/pkg/jwt"
)

var ErrTokenRevoked = errors.New("refresh token expired or revoked")

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func refreshRecord(userID uint, jti, token string, exp time.Time) *models.RefreshToken {
	return &models.RefreshToken{
		UserID:    userID,
		JTI:       jti,
		TokenHash: jwthelp.Sha256Hex(token),
		ExpiresAt: exp.UTC(),
	}
}

func (r *GormRepo) StoreRefreshToken(ctx context.Context, userID uint, jti, token string, exp time.Time) error {
	return r.DB.WithContext(ctx).Create(refreshRecord(userID, jti, token, exp)).Error
}

// RotateRefreshToken revokes oldJTI and stores the replacement atomically.
// A token that is unknown, expired, revoked or does not match its stored
// hash yields ErrTokenRevoked.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI, oldToken string, userID uint, newJTI, newToken string, exp time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur models.RefreshToken
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("jti = ?", oldJTI).First(&cur).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenRevoked
		}
		if err != nil {
			return err
		}
		if cur.Revoked || cur.UserID != userID || cur.TokenHash != jwthelp.Sha256Hex(oldToken) || time.Now().After(cur.ExpiresAt) {
			return ErrTokenRevoked
		}

		if err := tx.Model(&models.RefreshToken{}).Where("id = ?", cur.ID).Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.Create(refreshRecord(userID, newJTI, newToken, exp)).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, token string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked = ?", jwthelp.Sha256Hex(token), false).
		Update("revoked", true)
	return res.RowsAffected, res.Error
}
