package vote

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/pointdeck/pointdeck/internal/repositories/vote Repository

import (
	"context"

	"github.com/pointdeck/pointdeck/internal/models"
)

// Repository defines the interface for vote persistence in the live store
type Repository interface {
	// SaveVote upserts a vote; a second vote by the same (story, user)
	// replaces the first
	SaveVote(ctx context.Context, input *SaveVoteInput) error

	// GetVote retrieves one user's vote for a story
	GetVote(ctx context.Context, input *GetVoteInput) (*models.Vote, error)

	// GetStoryVotes retrieves all votes for a story
	GetStoryVotes(ctx context.Context, input *GetStoryVotesInput) (*GetStoryVotesOutput, error)

	// DeleteStoryVotes removes all votes for a story
	DeleteStoryVotes(ctx context.Context, input *DeleteStoryVotesInput) error
}
