package models

import (
	"time"
)

// StoryStatus represents the current state of a story
type StoryStatus string

const (
	// StoryStatusNew indicates a story that has not been estimated yet
	StoryStatusNew StoryStatus = "new"

	// StoryStatusVoting indicates a story with an open voting round
	StoryStatusVoting StoryStatus = "voting"

	// StoryStatusPending indicates voting has stopped and the story awaits final points
	StoryStatusPending StoryStatus = "pending"

	// StoryStatusCompleted indicates the story has final points and is closed
	StoryStatusCompleted StoryStatus = "completed"
)

// PointsUnset is the sentinel value for a story without final points
const PointsUnset = -1

// storyTransitions is the closed set of allowed status transitions.
var storyTransitions = map[StoryStatus][]StoryStatus{
	StoryStatusNew:     {StoryStatusVoting},
	StoryStatusVoting:  {StoryStatusPending},
	StoryStatusPending: {StoryStatusVoting, StoryStatusCompleted},
}

// ValidStoryTransition reports whether a story may move from one status to another.
func ValidStoryTransition(from, to StoryStatus) bool {
	for _, next := range storyTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsActiveStatus reports whether a status occupies the session's single active-story slot.
func (s StoryStatus) IsActiveStatus() bool {
	return s == StoryStatusVoting || s == StoryStatusPending
}

// Story represents a work item to be estimated in a session
type Story struct {
	// ID is the unique identifier for the story
	ID string

	// SessionID is the session this story belongs to
	SessionID string

	// Title is the story title
	Title string

	// Description is an optional longer description
	Description string

	// ExternalKey is an optional reference into the external issue tracker
	ExternalKey string

	// Status is the current lifecycle state of the story
	Status StoryStatus

	// Points is the finalized estimate, PointsUnset until committed
	Points int

	// VotingStartedAt is when the current voting round started, nil if none
	VotingStartedAt *time.Time

	// CreatedAt is when the story was created
	CreatedAt time.Time
}
