package story

import (
	"github.com/pointdeck/pointdeck/internal/consensus"
	"github.com/pointdeck/pointdeck/internal/models"
)

type AddStoryInput struct {
	SessionID string

	// UserID is the caller; must be the session admin
	UserID string

	Title       string
	Description string

	// ExternalKey optionally links the story to an issue-tracker item
	ExternalKey string
}

type AddStoryOutput struct {
	Story *models.Story
}

type GetStoryInput struct {
	StoryID string
}

type GetSessionStoriesInput struct {
	SessionID string
}

type GetSessionStoriesOutput struct {
	Stories []*models.Story
}

type GetActiveStoryInput struct {
	SessionID string
}

type GetActiveStoryOutput struct {
	// Story is nil when no story is active
	Story *models.Story
}

type StartVotingInput struct {
	StoryID string
	UserID  string
}

type StartVotingOutput struct {
	Story *models.Story
}

type StopVotingInput struct {
	StoryID string
	UserID  string
}

type StopVotingOutput struct {
	Story *models.Story

	// Stopped is false when the story was already out of voting
	Stopped bool
}

type CompleteStoryInput struct {
	StoryID string
	UserID  string

	// Points overrides the consensus verdict when set
	Points *int
}

type CompleteStoryOutput struct {
	Story *models.Story
}

type CastVoteInput struct {
	StoryID string
	UserID  string

	// Name is the voter's display name, denormalized onto the vote
	Name string

	// Value is the vote as entered, a number like "5" or the unsure marker
	Value string
}

type CastVoteOutput struct {
	Vote *models.Vote
}

type GetStoryVotesInput struct {
	StoryID string
}

type GetStoryVotesOutput struct {
	Votes []*models.Vote

	// Summary is the consensus evaluation over the current votes
	Summary consensus.Summary

	// Unanimous is true when every non-admin member cast the same value
	Unanimous bool
}

type GetUserVoteInput struct {
	StoryID string
	UserID  string
}

type GetUserVoteOutput struct {
	// Vote is nil when the user has not voted
	Vote *models.Vote
}

type ResetVotesInput struct {
	StoryID string
	UserID  string
}

type ResetVotesOutput struct {
	Success bool
}

type GetTimerInput struct {
	SessionID string
}

// TimerState is the synchronized countdown derived from the voting round's
// start time and the session settings. Clients render it; nobody stores it.
type TimerState struct {
	// Running is true while a timed voting round is open
	Running bool

	// StoryID is the story being timed, "" when not running
	StoryID string

	// TimeLimit is the round length in seconds
	TimeLimit int

	// Remaining is seconds left, never negative
	Remaining int
}

type CheckTimerInput struct {
	SessionID string
}

type CheckTimerOutput struct {
	// Expired is true when the round was stopped by this check
	Expired bool
}
