package auth

import (
	"context"
	"errors"
	"time"

	domain "github.com/example/auth-api/domain/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTokenNotFound is returned when no refresh-token record matches.
var ErrTokenNotFound = errors.New("refresh token not found")

// RefreshTokenStore persists the current refresh token of each user.
// Upsert must be atomic per user: concurrent logins race and the last
// write wins.
type RefreshTokenStore interface {
	Upsert(ctx context.Context, userID, token string, expiredAt time.Time) error
	FindByUserID(ctx context.Context, userID string) (*domain.RefreshToken, error)
	// DeleteByToken removes the record holding token. Deleting a token that
	// is not stored is not an error.
	DeleteByToken(ctx context.Context, token string) error
}

// RefreshTokenRepository stores refresh tokens in SQL using GORM.
type RefreshTokenRepository struct {
	db *gorm.DB
}

var _ RefreshTokenStore = (*RefreshTokenRepository)(nil)

// NewRefreshTokenRepository creates a new RefreshTokenRepository.
func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{
		db: db,
	}
}

// Upsert inserts or replaces the refresh token row for userID.
func (r *RefreshTokenRepository) Upsert(ctx context.Context, userID, token string, expiredAt time.Time) error {
	record := domain.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiredAt: expiredAt,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "expired_at"}),
	}).Create(&record).Error
}

// FindByUserID returns the refresh token row for userID.
func (r *RefreshTokenRepository) FindByUserID(ctx context.Context, userID string) (*domain.RefreshToken, error) {
	var record domain.RefreshToken
	result := r.db.WithContext(ctx).First(&record, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, result.Error
	}
	return &record, nil
}

// DeleteByToken deletes the row whose token equals token.
func (r *RefreshTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&domain.RefreshToken{}).Error
}
