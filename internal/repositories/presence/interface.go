package presence

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/pointdeck/pointdeck/internal/repositories/presence Repository

import (
	"context"
)

// Repository defines the interface for presence heartbeat persistence
type Repository interface {
	// UpdatePresence upserts a heartbeat for a (session, user) pair
	UpdatePresence(ctx context.Context, input *UpdatePresenceInput) error

	// GetActiveUsers returns the user IDs seen at or after the cutoff
	GetActiveUsers(ctx context.Context, input *GetActiveUsersInput) (*GetActiveUsersOutput, error)

	// Cleanup deletes heartbeats older than the cutoff and returns the count
	Cleanup(ctx context.Context, input *CleanupInput) (*CleanupOutput, error)

	// DeleteUser removes one user's heartbeat from a session
	DeleteUser(ctx context.Context, input *DeleteUserInput) error

	// DeleteSessionPresence removes all heartbeats of a session
	DeleteSessionPresence(ctx context.Context, input *DeleteSessionPresenceInput) error
}
