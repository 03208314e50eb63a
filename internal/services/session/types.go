package session

import (
	"github.com/pointdeck/pointdeck/internal/models"
)

type CreateSessionInput struct {
	// Name is the display name for the session
	Name string

	// UserID becomes the session admin, fixed forever
	UserID string

	// UserName is the admin's display name for the member list
	UserName string
}

type CreateSessionOutput struct {
	Session *models.Session
}

type GetSessionInput struct {
	SessionID string
}

type GetSessionsByAdminInput struct {
	UserID string
}

type GetSessionsByAdminOutput struct {
	Sessions []*models.Session
}

type JoinSessionInput struct {
	SessionID string
	UserID    string

	// Name is the display name; ignored when the user is already a member
	Name string
}

type JoinSessionOutput struct {
	Member *models.Member

	// Rejoined is true when an existing membership was returned
	Rejoined bool
}

type LeaveSessionInput struct {
	SessionID string
	UserID    string
}

type LeaveSessionOutput struct {
	Success bool
}

type KickMemberInput struct {
	SessionID string

	// ActorID is the caller; must be the session admin
	ActorID string

	// TargetID is the member being removed
	TargetID string
}

type KickMemberOutput struct {
	Success bool
}

type GetSessionMembersInput struct {
	SessionID string
}

type GetSessionMembersOutput struct {
	Members []*models.Member
}

type GetSessionSettingsInput struct {
	SessionID string
}

type UpdateSessionSettingsInput struct {
	SessionID string
	UserID    string

	// Partial update: nil fields keep their current value
	TimedVoting     *bool
	VotingTimeLimit *int
	ScoringType     *models.ScoringType
	ShowKickButtons *bool
}

type GetUserSettingsInput struct {
	UserID string
}

type UpdateUserSettingsInput struct {
	UserID string

	TimedVoting     *bool
	VotingTimeLimit *int
	ScoringType     *models.ScoringType
	ShowKickButtons *bool
}
