package files

import "errors"

var (
	ErrNotFound      = errors.New("file or directory not found")
	ErrForbidden     = errors.New("forbidden")
	ErrNotADirectory = errors.New("not a directory")
	ErrTooLarge      = errors.New("upload exceeds maximum size")
	ErrInvalidName   = errors.New("invalid file name")
)
