package vote

import "github.com/pointdeck/pointdeck/internal/models"

type SaveVoteInput struct {
	Vote *models.Vote
}

type GetVoteInput struct {
	StoryID string
	UserID  string
}

type GetStoryVotesInput struct {
	StoryID string
}

type GetStoryVotesOutput struct {
	Votes []*models.Vote
}

type DeleteStoryVotesInput struct {
	StoryID string
}
