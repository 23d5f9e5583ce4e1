package api

import (
	"errors"
	"log"
	"time"

	"github.com/example/auth-api/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// RefreshCookieName is the cookie carrying the refresh token.
const RefreshCookieName = "refreshToken"

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	auth   auth.AuthPort
	config Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, config Config) *Handlers {
	return &Handlers{
		auth:   authPort,
		config: config,
	}
}

// Info describes the API.
func (h *Handlers) Info(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(InfoResponse{
		Success:     true,
		Message:     "Auth API",
		Description: "Auth API | Version 1",
	})
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	// An unreadable body is treated as one with no fields.
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, h.legacy(fiber.StatusBadRequest), "Please enter all fields!")
	}

	id, err := h.auth.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrPasswordTooLong):
			return failure(c, fiber.StatusBadRequest, "Password is too long!")
		case errors.Is(err, auth.ErrValidation):
			return failure(c, h.legacy(fiber.StatusBadRequest), "Please enter all fields!")
		case errors.Is(err, auth.ErrUsernameTaken):
			return failure(c, h.legacy(fiber.StatusConflict), "Username already taken!")
		case errors.Is(err, auth.ErrConflict):
			return failure(c, h.legacy(fiber.StatusConflict), "User already exists!")
		default:
			log.Printf("[api] Register failed: %v", err)
			return failure(c, fiber.StatusInternalServerError, "Error saving user!")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(DataResponse[RegisterData]{
		Success: true,
		Data:    RegisterData{User: id},
	})
}

// Login handles user login. The refresh token is only ever sent as an
// httpOnly cookie; the body carries the access token.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid credentials!")
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return failure(c, fiber.StatusBadRequest, "Invalid credentials!")
		}
		log.Printf("[api] Login failed: %v", err)
		return failure(c, fiber.StatusInternalServerError, "Error signing in!")
	}

	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    result.RefreshToken,
		Path:     "/",
		MaxAge:   int(time.Until(result.RefreshExpiresAt).Round(time.Second).Seconds()),
		Expires:  result.RefreshExpiresAt,
		Secure:   h.config.CookieSecure,
		HTTPOnly: true,
	})

	return c.Status(fiber.StatusOK).JSON(DataResponse[TokenData]{
		Success: true,
		Data:    TokenData{Token: result.AccessToken},
	})
}

// AuthenticatedUser returns the user identified by the bearer access token.
func (h *Handlers) AuthenticatedUser(c *fiber.Ctx) error {
	user, err := h.auth.AuthenticatedUser(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUnauthenticated):
			return dataFailure(c, fiber.StatusUnauthorized, "Unauthenticated!")
		case errors.Is(err, auth.ErrInvalidToken):
			return dataFailure(c, fiber.StatusForbidden, "Invalid token!")
		default:
			log.Printf("[api] Authenticated user lookup failed: %v", err)
			return dataFailure(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(fiber.StatusOK).JSON(DataResponse[UserData]{
		Success: true,
		Data:    UserData{User: user},
	})
}

// Refresh issues a new access token for the refresh cookie. Every failure is
// reported as 401.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	token, err := h.auth.Refresh(c.UserContext(), c.Cookies(RefreshCookieName))
	if err != nil {
		if !errors.Is(err, auth.ErrUnauthenticated) {
			log.Printf("[api] Refresh failed: %v", err)
		}
		return failure(c, fiber.StatusUnauthorized, "Unauthenticated!")
	}

	return c.Status(fiber.StatusOK).JSON(DataResponse[TokenData]{
		Success: true,
		Data:    TokenData{Token: token},
	})
}

// Logout revokes the refresh cookie and clears it.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies(RefreshCookieName)
	if refreshToken == "" {
		return failure(c, h.legacy(fiber.StatusUnauthorized), "Unauthenticated!")
	}

	if err := h.auth.Logout(c.UserContext(), refreshToken); err != nil {
		log.Printf("[api] Logout failed: %v", err)
		return failure(c, fiber.StatusInternalServerError, "Error signing out!")
	}

	c.ClearCookie(RefreshCookieName)

	return c.Status(fiber.StatusOK).JSON(MessageResponse{
		Success: true,
		Message: "Sign out successful!",
	})
}

// legacy returns 500 instead of status when legacy status codes are on.
func (h *Handlers) legacy(status int) int {
	if h.config.LegacyStatusCodes {
		return fiber.StatusInternalServerError
	}
	return status
}

func failure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(MessageResponse{
		Success: false,
		Message: message,
	})
}

func dataFailure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(DataResponse[MessageData]{
		Success: false,
		Data:    MessageData{Message: message},
	})
}
