package story

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/pointdeck/pointdeck/internal/services/story Service

import (
	"context"

	"github.com/pointdeck/pointdeck/internal/models"
)

// SettingsProvider resolves a session's effective settings. The session
// service implements it.
type SettingsProvider interface {
	GetEffectiveSettings(ctx context.Context, sessionID string) (*models.SessionSettings, error)
}

// Service manages stories, voting rounds and the voting timer
type Service interface {
	// AddStory creates a story in the backlog. Admin only.
	AddStory(ctx context.Context, input *AddStoryInput) (*AddStoryOutput, error)

	// GetStory retrieves one story
	GetStory(ctx context.Context, input *GetStoryInput) (*models.Story, error)

	// GetSessionStories retrieves all stories of a session
	GetSessionStories(ctx context.Context, input *GetSessionStoriesInput) (*GetSessionStoriesOutput, error)

	// GetActiveStory retrieves the story holding the session's active slot
	GetActiveStory(ctx context.Context, input *GetActiveStoryInput) (*GetActiveStoryOutput, error)

	// StartVoting opens a voting round on a story. Admin only. Fails when
	// a different story is already active.
	StartVoting(ctx context.Context, input *StartVotingInput) (*StartVotingOutput, error)

	// StopVoting closes the round and moves the story to pending. Admin
	// only. Stopping a story that is already pending is a no-op, so a
	// manual stop racing the timer cannot fail.
	StopVoting(ctx context.Context, input *StopVotingInput) (*StopVotingOutput, error)

	// CompleteStory commits final points and releases the active slot.
	// Admin only. Without explicit points the consensus verdict is used,
	// and zero when there is none.
	CompleteStory(ctx context.Context, input *CompleteStoryInput) (*CompleteStoryOutput, error)

	// CastVote records or replaces the caller's vote on a story
	CastVote(ctx context.Context, input *CastVoteInput) (*CastVoteOutput, error)

	// GetStoryVotes retrieves a story's votes with their consensus summary
	GetStoryVotes(ctx context.Context, input *GetStoryVotesInput) (*GetStoryVotesOutput, error)

	// GetUserVote retrieves the caller's vote on a story, nil when absent
	GetUserVote(ctx context.Context, input *GetUserVoteInput) (*GetUserVoteOutput, error)

	// ResetVotes discards all votes on a story. Admin only.
	ResetVotes(ctx context.Context, input *ResetVotesInput) (*ResetVotesOutput, error)

	// GetTimer derives the countdown state for the session's active round
	GetTimer(ctx context.Context, input *GetTimerInput) (*TimerState, error)

	// CheckTimer stops the active round if its time has run out. Safe to
	// call from any member and from the background sweeper.
	CheckTimer(ctx context.Context, input *CheckTimerInput) (*CheckTimerOutput, error)
}
