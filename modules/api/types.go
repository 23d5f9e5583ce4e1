package api

import domain "github.com/example/auth-api/domain/user"

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// InfoResponse is returned by the root endpoint.
type InfoResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// MessageResponse is a success flag with a human-readable message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DataResponse wraps a payload in the success envelope.
type DataResponse[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// RegisterData is the payload of a successful registration.
type RegisterData struct {
	User string `json:"user"`
}

// TokenData carries an access token.
type TokenData struct {
	Token string `json:"token"`
}

// UserData carries the authenticated user. The password hash is never
// serialized.
type UserData struct {
	User *domain.User `json:"user"`
}

// MessageData carries a message inside the data envelope, used by the
// /user endpoint for failures.
type MessageData struct {
	Message string `json:"message"`
}
