package member

import "github.com/pointdeck/pointdeck/internal/models"

type SaveMemberInput struct {
	Member *models.Member
}

type GetMemberInput struct {
	SessionID string
	UserID    string
}

type GetSessionMembersInput struct {
	SessionID string
}

type GetSessionMembersOutput struct {
	Members []*models.Member
}

type DeleteMemberInput struct {
	SessionID string
	UserID    string
}

type DeleteSessionMembersInput struct {
	SessionID string
}
