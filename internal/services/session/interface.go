package session

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/pointdeck/pointdeck/internal/services/session Service

import (
	"context"

	"github.com/pointdeck/pointdeck/internal/models"
)

// Service manages planning sessions, their membership and their settings
type Service interface {
	// CreateSession creates a session with the caller as its admin. The
	// admin is also joined as the first member.
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)

	// GetSession retrieves a live session
	GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error)

	// GetSessionsByAdmin retrieves the caller's live sessions
	GetSessionsByAdmin(ctx context.Context, input *GetSessionsByAdminInput) (*GetSessionsByAdminOutput, error)

	// JoinSession adds the caller to a session. Joining a session the
	// caller already belongs to returns the existing membership.
	JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error)

	// LeaveSession removes the caller's membership. The admin cannot
	// leave; they end the session instead.
	LeaveSession(ctx context.Context, input *LeaveSessionInput) (*LeaveSessionOutput, error)

	// KickMember removes another member. Admin only; the admin cannot be
	// the target.
	KickMember(ctx context.Context, input *KickMemberInput) (*KickMemberOutput, error)

	// GetSessionMembers retrieves all members of a session
	GetSessionMembers(ctx context.Context, input *GetSessionMembersInput) (*GetSessionMembersOutput, error)

	// GetSessionSettings returns the session's effective settings, seeding
	// them from the admin's personal defaults on first access.
	GetSessionSettings(ctx context.Context, input *GetSessionSettingsInput) (*models.SessionSettings, error)

	// UpdateSessionSettings applies a partial settings update. Admin only.
	UpdateSessionSettings(ctx context.Context, input *UpdateSessionSettingsInput) (*models.SessionSettings, error)

	// GetUserSettings returns a user's personal defaults, falling back to
	// the global defaults when none are stored.
	GetUserSettings(ctx context.Context, input *GetUserSettingsInput) (*models.UserSettings, error)

	// UpdateUserSettings applies a partial update to a user's personal defaults
	UpdateUserSettings(ctx context.Context, input *UpdateUserSettingsInput) (*models.UserSettings, error)

	// GetEffectiveSettings is GetSessionSettings for collaborating
	// services that only know the session ID.
	GetEffectiveSettings(ctx context.Context, sessionID string) (*models.SessionSettings, error)
}
