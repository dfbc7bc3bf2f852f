package filestore

import "errors"

var (
	// ErrUnsupportedType is returned when a file extension is outside the
	// allow-list.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrFileTooLarge is returned when a file exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrFileExists is returned when a user already has a file with the
	// requested name.
	ErrFileExists = errors.New("file already exists")

	// ErrFileNotFound is returned when the requested file does not exist.
	ErrFileNotFound = errors.New("file not found")
)
