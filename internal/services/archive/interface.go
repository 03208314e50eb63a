package archive

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/pointdeck/pointdeck/internal/services/archive Service

import (
	"context"

	"github.com/pointdeck/pointdeck/internal/models"
)

// Service moves finished sessions out of the live store into durable storage
type Service interface {
	// ArchiveSession snapshots the full session graph into durable
	// storage, then deletes the live data. The durable write commits
	// before anything is deleted; on failure the live session is intact.
	ArchiveSession(ctx context.Context, input *ArchiveSessionInput) (*ArchiveSessionOutput, error)

	// SweepStale archives every live session older than the given age.
	// One failing session does not stop the sweep.
	SweepStale(ctx context.Context, input *SweepStaleInput) (*SweepStaleOutput, error)

	// GetArchivedSessions lists a user's archived sessions
	GetArchivedSessions(ctx context.Context, input *GetArchivedSessionsInput) (*GetArchivedSessionsOutput, error)

	// GetArchivedSession retrieves one archived session with its graph
	GetArchivedSession(ctx context.Context, input *GetArchivedSessionInput) (*models.SessionArchive, error)
}
