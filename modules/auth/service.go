package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/example/auth-api/domain/user"
	"github.com/google/uuid"
)

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthService handles authentication business logic.
type AuthService struct {
	users  UserStore
	tokens RefreshTokenStore
	hasher *PasswordHasher
	jwt    *TokenManager
}

var _ AuthPort = (*AuthService)(nil)

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, tokens RefreshTokenStore, hasher *PasswordHasher, jwt *TokenManager) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		jwt:    jwt,
	}
}

// Register creates a new user account and returns its ID. It does not log
// the user in.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, error) {
	if username == "" || email == "" || password == "" {
		return "", ErrMissingFields
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	// Email is checked before username.
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return "", storageError("find user by email", err)
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return "", ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return "", storageError("find user by username", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, ErrUserExists) {
			return "", ErrEmailTaken
		}
		return "", storageError("create user", err)
	}

	return user.ID, nil
}

// Login verifies credentials, records a new refresh token for the user and
// returns it together with an access token. Any earlier refresh token of the
// user stops being accepted by Refresh.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageError("find user by email", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	refreshToken, expiresAt, err := s.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	accessToken, err := s.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	if err := s.tokens.Upsert(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return nil, storageError("upsert refresh token", err)
	}

	return &LoginResult{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: expiresAt,
	}, nil
}

// AuthenticatedUser resolves the user behind an Authorization header value
// of the form "<scheme> <token>".
func (s *AuthService) AuthenticatedUser(ctx context.Context, authorization string) (*domain.User, error) {
	accessToken := bearerToken(authorization)
	if accessToken == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.jwt.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, storageError("find user by id", err)
	}

	return user, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token must verify and must still be the one stored for its user. The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrUnauthenticated
	}

	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	record, err := s.tokens.FindByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return "", ErrUnauthenticated
		}
		return "", fmt.Errorf("%w: find refresh token: %v", ErrUnauthenticated, err)
	}

	if record.Token != refreshToken {
		return "", ErrUnauthenticated
	}

	accessToken, err := s.jwt.GenerateAccessToken(claims.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout revokes the given refresh token. Revoking a token that is not
// stored succeeds.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrUnauthenticated
	}

	if err := s.tokens.DeleteByToken(ctx, refreshToken); err != nil {
		return storageError("delete refresh token", err)
	}

	return nil
}

// bearerToken returns the second space-separated segment of an
// Authorization header value. The scheme is not checked.
func bearerToken(authorization string) string {
	parts := strings.Split(authorization, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
