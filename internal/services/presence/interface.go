package presence

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/pointdeck/pointdeck/internal/services/presence Service

import "context"

// Service tracks who is currently looking at a session
type Service interface {
	// Heartbeat records that a user is active in a session right now
	Heartbeat(ctx context.Context, input *HeartbeatInput) error

	// GetActiveUsers returns the users seen within the activity window
	GetActiveUsers(ctx context.Context, input *GetActiveUsersInput) (*GetActiveUsersOutput, error)

	// Cleanup drops heartbeats older than the retention window
	Cleanup(ctx context.Context, input *CleanupInput) (*CleanupOutput, error)

	// CleanupAll runs Cleanup over every live session
	CleanupAll(ctx context.Context, input *CleanupAllInput) (*CleanupAllOutput, error)
}
