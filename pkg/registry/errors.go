package registry

import "errors"

var (
	// ErrUserExists is returned when registering a username that is taken.
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound is returned when the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrFileExists is returned when inserting a record for a (user, filename)
	// pair that already has one.
	ErrFileExists = errors.New("file record already exists")

	// ErrFileNotFound is returned when the requested file record does not exist.
	ErrFileNotFound = errors.New("file record not found")

	// ErrInvalidFilename is returned when a filename is empty or too long.
	ErrInvalidFilename = errors.New("invalid filename")

	// ErrDatabaseError is returned when a database operation fails.
	ErrDatabaseError = errors.New("database error")
)
