package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domain "github.com/example/auth-api/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface for authentication operations.
// This is the port that other modules use to access auth functionality.
type AuthPort interface {
	Register(ctx context.Context, username, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	AuthenticatedUser(ctx context.Context, authorization string) (*domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

var _ AuthPort = (*AuthAdapter)(nil)

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// Register registers a user through the register service.
func (a *AuthAdapter) Register(ctx context.Context, username, email, password string) (string, error) {
	req := RegisterRequest{Username: username, Email: email, Password: password}
	var resp RegisterResponse

	if err := call(ctx, a.container, "register", &req, &resp); err != nil {
		return "", err
	}
	if err := remoteError(resp.Error, resp.Message); err != nil {
		return "", err
	}
	return resp.UserID, nil
}

// Login logs a user in through the login service.
func (a *AuthAdapter) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req := LoginRequest{Email: email, Password: password}
	var resp LoginResponse

	if err := call(ctx, a.container, "login", &req, &resp); err != nil {
		return nil, err
	}
	if err := remoteError(resp.Error, resp.Message); err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken:      resp.AccessToken,
		RefreshToken:     resp.RefreshToken,
		RefreshExpiresAt: resp.RefreshExpiresAt,
	}, nil
}

// AuthenticatedUser resolves the user behind an Authorization header value.
func (a *AuthAdapter) AuthenticatedUser(ctx context.Context, authorization string) (*domain.User, error) {
	req := AuthenticatedUserRequest{Authorization: authorization}
	var resp AuthenticatedUserResponse

	if err := call(ctx, a.container, "authenticated-user", &req, &resp); err != nil {
		return nil, err
	}
	if err := remoteError(resp.Error, resp.Message); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, errors.New("authenticated-user returned no user")
	}
	return resp.User, nil
}

// Refresh exchanges a refresh token for a new access token.
func (a *AuthAdapter) Refresh(ctx context.Context, refreshToken string) (string, error) {
	req := RefreshRequest{RefreshToken: refreshToken}
	var resp RefreshResponse

	if err := call(ctx, a.container, "refresh", &req, &resp); err != nil {
		return "", err
	}
	if err := remoteError(resp.Error, resp.Message); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Logout revokes a refresh token.
func (a *AuthAdapter) Logout(ctx context.Context, refreshToken string) error {
	req := LogoutRequest{RefreshToken: refreshToken}
	var resp LogoutResponse

	if err := call(ctx, a.container, "logout", &req, &resp); err != nil {
		return err
	}
	return remoteError(resp.Error, resp.Message)
}

func call[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// wireError is a known auth error decoded from a service response. It
// matches the sentinel it was encoded from with errors.Is and keeps the full message.
type wireError struct {
	kind    error
	message string
}

func (e *wireError) Error() string { return e.message }

func (e *wireError) Unwrap() error { return e.kind }

// remoteError rebuilds the error described by a response's code and message.
func remoteError(code, message string) error {
	if code == "" {
		return nil
	}
	if message == "" {
		message = code
	}
	kind := errorFromCode(code)
	if kind == nil {
		return errors.New(message)
	}
	return &wireError{kind: kind, message: message}
}
