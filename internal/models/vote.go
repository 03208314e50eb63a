package models

import (
	"strconv"
	"time"
)

// UnsureValue is the sentinel vote value for an "unsure" vote
const UnsureValue = "?"

// Vote represents a single member's estimate for a story
type Vote struct {
	// StoryID is the story this vote belongs to
	StoryID string

	// UserID is the ID of the voter; one vote per (story, user)
	UserID string

	// Name is the display name of the voter
	Name string

	// Value is the vote value: a numeric point value as text, or UnsureValue
	Value string

	// VotedAt is when the vote was last cast or updated
	VotedAt time.Time
}

// NumericValue returns the vote's point value and true when the value is numeric.
func (v *Vote) NumericValue() (int, bool) {
	n, err := strconv.Atoi(v.Value)
	if err != nil {
		return 0, false
	}
	return n, true
}
