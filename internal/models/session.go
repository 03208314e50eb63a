package models

import (
	"time"
)

// Session represents a planning session
type Session struct {
	// ID is the unique identifier for this session
	ID string

	// Name is the display name of the session
	Name string

	// CreatedBy is the user ID of the session admin, fixed at creation
	CreatedBy string

	// IsActive indicates whether the session is still live (not archived)
	IsActive bool

	// CreatedAt is when the session was created
	CreatedAt time.Time
}
