package user

import (
	"time"
)

// User represents a user entity in the system.
type User struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null;type:text" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null;type:text" json:"email"`
	PasswordHash string    `gorm:"not null;type:text" json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// RefreshToken is the server-side record of a user's current refresh token.
// There is at most one row per user.
type RefreshToken struct {
	UserID    string    `gorm:"primaryKey;type:text" json:"user_id"`
	Token     string    `gorm:"index;not null;type:text" json:"token"`
	ExpiredAt time.Time `gorm:"not null" json:"expired_at"`
}

// TableName returns the table name for the RefreshToken entity.
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
