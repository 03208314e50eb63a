// Package board talks to the external issue tracker that stories can be
// imported from and pushed back to. The tracker is a collaborator, not a
// dependency: every caller treats its failures as non-fatal.
package board

//go:generate mockgen -package=mocks -destination=mocks/mock_client.go github.com/pointdeck/pointdeck/internal/board Client

import (
	"context"
	"time"
)

// Issue is a candidate work item on an external board
type Issue struct {
	// Key is the tracker's issue key, stored as a story's ExternalKey
	Key string `json:"key"`

	// Summary is the issue title
	Summary string `json:"summary"`

	// Description is the issue body, possibly empty
	Description string `json:"description"`

	// Points is the tracker's current estimate, nil when unestimated
	Points *int `json:"points"`

	// Updated is when the issue last changed on the tracker
	Updated time.Time `json:"updated"`
}

// Client is the story-metadata source/sink contract
type Client interface {
	// ListIssues returns candidate issues for a board
	ListIssues(ctx context.Context, boardID string) ([]Issue, error)

	// SetStoryPoints writes a final point value back to an issue
	SetStoryPoints(ctx context.Context, issueKey string, points int) error
}
