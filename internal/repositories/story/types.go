package story

import "github.com/pointdeck/pointdeck/internal/models"

type SaveStoryInput struct {
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

type ClaimActiveSlotInput struct {
	SessionID string
	StoryID   string
}

type ReleaseActiveSlotInput struct {
	SessionID string
	StoryID   string
}

type GetActiveStoryIDInput struct {
	SessionID string
}

type DeleteSessionStoriesInput struct {
	SessionID string
}
