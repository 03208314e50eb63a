package session

import "errors"

// Define errors
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrMemberNotFound     = errors.New("member not found")
	ErrNotAdmin           = errors.New("only the session admin can do this")
	ErrAdminCannotLeave   = errors.New("the admin cannot leave the session, only end it")
	ErrCannotKickAdmin    = errors.New("the admin cannot be kicked")
	ErrInvalidScoringType = errors.New("unknown scoring type")
	ErrNilConfig          = errors.New("config cannot be nil")
)
