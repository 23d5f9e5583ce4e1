package auth

import (
	"time"

	domain "github.com/example/auth-api/domain/user"
)

// Every response carries Error and Message. Error is the wire code of a
// known failure (see errorCode) and is empty on success; Message is the
// full error text.

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse represents a user registration response.
type RegisterResponse struct {
	UserID  string `json:"user_id,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a user login response with tokens.
type LoginResponse struct {
	AccessToken      string    `json:"access_token,omitempty"`
	RefreshToken     string    `json:"refresh_token,omitempty"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	Error            string    `json:"error,omitempty"`
	Message          string    `json:"message,omitempty"`
}

// AuthenticatedUserRequest carries the raw Authorization header value.
type AuthenticatedUserRequest struct {
	Authorization string `json:"authorization"`
}

// AuthenticatedUserResponse carries the resolved user.
type AuthenticatedUserResponse struct {
	User    *domain.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
	Message string       `json:"message,omitempty"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse represents a token refresh response.
type RefreshResponse struct {
	AccessToken string `json:"access_token,omitempty"`
	Error       string `json:"error,omitempty"`
	Message     string `json:"message,omitempty"`
}

// LogoutRequest represents a logout request.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutResponse represents a logout response.
type LogoutResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
