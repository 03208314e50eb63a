package story

import "errors"

// Define errors
var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrStoryNotFound     = errors.New("story not found")
	ErrNotAdmin          = errors.New("only the session admin can do this")
	ErrActiveStoryExists = errors.New("another story is already active in this session")
	ErrInvalidTransition = errors.New("story cannot move to that status")
	ErrStoryCompleted    = errors.New("story is completed and no longer accepts votes")
	ErrTitleRequired     = errors.New("story title cannot be empty")
	ErrNotMember         = errors.New("user is not a member of this session")
	ErrNilConfig         = errors.New("config cannot be nil")
)
