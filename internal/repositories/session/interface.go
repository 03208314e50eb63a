package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/pointdeck/pointdeck/internal/repositories/session Repository

import (
	"context"

	"github.com/pointdeck/pointdeck/internal/models"
)

// Repository defines the interface for session persistence in the live store
type Repository interface {
	// SaveSession persists a session
	SaveSession(ctx context.Context, input *SaveSessionInput) error

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error)

	// GetSessionsByAdmin retrieves all live sessions created by a user
	GetSessionsByAdmin(ctx context.Context, input *GetSessionsByAdminInput) (*GetSessionsByAdminOutput, error)

	// ListSessions retrieves all live sessions
	ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error)

	// DeleteSession removes a session and its indexes
	DeleteSession(ctx context.Context, input *DeleteSessionInput) error
}
