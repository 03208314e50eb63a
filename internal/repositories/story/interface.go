package story

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/pointdeck/pointdeck/internal/repositories/story Repository

import (
	"context"

	"github.com/pointdeck/pointdeck/internal/models"
)

// Repository defines the interface for story persistence in the live store.
//
// The single-active-story invariant is owned here: a session has one active
// slot, and a story can only enter voting by claiming it with a conditional
// write. This closes the check-then-act race between concurrent admins.
type Repository interface {
	// SaveStory persists a story
	SaveStory(ctx context.Context, input *SaveStoryInput) error

	// GetStory retrieves a story by ID
	GetStory(ctx context.Context, input *GetStoryInput) (*models.Story, error)

	// GetSessionStories retrieves all stories of a session
	GetSessionStories(ctx context.Context, input *GetSessionStoriesInput) (*GetSessionStoriesOutput, error)

	// ClaimActiveSlot atomically claims the session's active-story slot.
	// Claiming a slot the story already holds succeeds; a slot held by a
	// different story returns ErrActiveStoryExists.
	ClaimActiveSlot(ctx context.Context, input *ClaimActiveSlotInput) error

	// ReleaseActiveSlot releases the slot if the given story holds it
	ReleaseActiveSlot(ctx context.Context, input *ReleaseActiveSlotInput) error

	// GetActiveStoryID returns the story holding the slot, or "" if none
	GetActiveStoryID(ctx context.Context, input *GetActiveStoryIDInput) (string, error)

	// DeleteSessionStories removes all stories of a session and its slot
	DeleteSessionStories(ctx context.Context, input *DeleteSessionStoriesInput) error
}
