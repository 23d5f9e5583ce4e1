package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	AccessSecret         string
	RefreshSecret        string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	Issuer               string
}

// DefaultJWTConfig returns a default JWT configuration.
// In production, both secrets should be loaded from environment variables.
func DefaultJWTConfig() JWTConfig {
	return JWTConfig{
		AccessSecret:         "access-secret-change-in-production",
		RefreshSecret:        "refresh-secret-change-in-production",
		AccessTokenDuration:  30 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
		Issuer:               "auth-api",
	}
}

// TokenClaims represents the claims carried by both token kinds.
type TokenClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies access and refresh tokens. The two kinds
// use distinct secrets, so a token of one kind never verifies as the other.
type TokenManager struct {
	config JWTConfig
	now    func() time.Time
}

// NewTokenManager creates a new TokenManager with the given configuration.
func NewTokenManager(config JWTConfig) *TokenManager {
	return &TokenManager{
		config: config,
		now:    time.Now,
	}
}

// GenerateAccessToken signs a short-lived access token for the user.
func (m *TokenManager) GenerateAccessToken(userID string) (string, error) {
	token, _, err := m.generateToken(userID, m.config.AccessSecret, m.config.AccessTokenDuration)
	return token, err
}

// GenerateRefreshToken signs a long-lived refresh token for the user and
// returns it together with its expiry.
func (m *TokenManager) GenerateRefreshToken(userID string) (string, time.Time, error) {
	return m.generateToken(userID, m.config.RefreshSecret, m.config.RefreshTokenDuration)
}

func (m *TokenManager) generateToken(userID, secret string, duration time.Duration) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(duration)
	claims := TokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateAccessToken verifies an access token.
func (m *TokenManager) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	return m.validate(tokenString, m.config.AccessSecret)
}

// ValidateRefreshToken verifies a refresh token.
func (m *TokenManager) ValidateRefreshToken(tokenString string) (*TokenClaims, error) {
	return m.validate(tokenString, m.config.RefreshSecret)
}

// validate returns ErrExpiredToken for expired tokens and ErrInvalidToken for
// every other verification failure.
func (m *TokenManager) validate(tokenString, secret string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// RefreshTokenDuration returns the refresh token lifetime.
func (m *TokenManager) RefreshTokenDuration() time.Duration {
	return m.config.RefreshTokenDuration
}
