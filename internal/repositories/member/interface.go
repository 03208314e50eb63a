package member

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/pointdeck/pointdeck/internal/repositories/member Repository

import (
	"context"

	"github.com/pointdeck/pointdeck/internal/models"
)

// Repository defines the interface for session membership persistence
type Repository interface {
	// SaveMember persists a membership; saving an existing (session, user)
	// pair overwrites it
	SaveMember(ctx context.Context, input *SaveMemberInput) error

	// GetMember retrieves one membership
	GetMember(ctx context.Context, input *GetMemberInput) (*models.Member, error)

	// GetSessionMembers retrieves all members of a session
	GetSessionMembers(ctx context.Context, input *GetSessionMembersInput) (*GetSessionMembersOutput, error)

	// DeleteMember removes one membership
	DeleteMember(ctx context.Context, input *DeleteMemberInput) error

	// DeleteSessionMembers removes all memberships of a session
	DeleteSessionMembers(ctx context.Context, input *DeleteSessionMembersInput) error
}
