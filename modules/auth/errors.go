package auth

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by AuthService matches exactly one of
// these with errors.Is, except unexpected internal failures.
var (
	// ErrValidation is returned when required input is missing.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when a unique user attribute is already taken.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials is returned when login credentials are invalid.
	// Unknown email and wrong password are deliberately the same error.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned when a credential is absent, or when a
	// refresh token is invalid, expired or revoked.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidToken is returned when an access token fails verification
	// or refers to a user that no longer exists.
	ErrInvalidToken = errors.New("invalid token")
	// ErrStorage is returned when the persistence layer fails.
	ErrStorage = errors.New("storage failure")
)

var (
	// ErrMissingFields is returned when username, email or password is empty.
	ErrMissingFields = fmt.Errorf("%w: please enter all fields", ErrValidation)
	// ErrPasswordTooLong is returned when a password exceeds MaxPasswordBytes.
	ErrPasswordTooLong = fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, MaxPasswordBytes)
	// ErrEmailTaken is returned when a user with the email already exists.
	ErrEmailTaken = fmt.Errorf("%w: user already exists", ErrConflict)
	// ErrUsernameTaken is returned when the username is already in use.
	ErrUsernameTaken = fmt.Errorf("%w: username already taken", ErrConflict)
	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = fmt.Errorf("%w: token has expired", ErrInvalidToken)
)

// wireErrors are the errors that survive a trip through the service
// container. They are matched by message.
var wireErrors = []error{
	ErrMissingFields,
	ErrPasswordTooLong,
	ErrEmailTaken,
	ErrUsernameTaken,
	ErrExpiredToken,
	ErrValidation,
	ErrConflict,
	ErrInvalidCredentials,
	ErrUnauthenticated,
	ErrInvalidToken,
	ErrStorage,
}

// storageError wraps a persistence failure so it matches ErrStorage while
// keeping the cause.
func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// internalErrorCode marks a failure outside the taxonomy on the wire.
const internalErrorCode = "internal"

// errorCode returns the message that identifies err on the wire. Errors
// outside the taxonomy map to internalErrorCode; nil maps to "".
func errorCode(err error) string {
	if err == nil {
		return ""
	}
	for _, known := range wireErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return internalErrorCode
}

// errorFromCode is the inverse of errorCode.
func errorFromCode(code string) error {
	for _, known := range wireErrors {
		if known.Error() == code {
			return known
		}
	}
	return nil
}
