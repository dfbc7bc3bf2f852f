package auth

import "errors"

var (
	// ErrUserExists is returned when registering a username that is taken.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned on a bad username or password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInactiveUser is returned when a deactivated account logs in.
	ErrInactiveUser = errors.New("inactive user")

	// ErrInvalidToken is returned when a bearer token fails validation.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrWeakCredentials is returned when username or password is empty.
	ErrWeakCredentials = errors.New("username and password are required")
)
