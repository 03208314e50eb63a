package models

import (
	"time"
)

// Member represents a user's membership in a planning session
type Member struct {
	// SessionID is the session this membership belongs to
	SessionID string

	// UserID is the ID of the member
	UserID string

	// Name is the display name of the member
	Name string

	// IsAdmin is true iff UserID equals the session's CreatedBy
	IsAdmin bool

	// JoinedAt is when the member joined the session
	JoinedAt time.Time
}
