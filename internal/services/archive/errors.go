package archive

import "errors"

// Define errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrArchiveNotFound = errors.New("archived session not found")
	ErrNotAdmin        = errors.New("only the session admin can do this")
	ErrNilConfig       = errors.New("config cannot be nil")
)
