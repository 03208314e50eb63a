package archive

import (
	"time"

	"github.com/pointdeck/pointdeck/internal/models"
)

type ArchiveSessionInput struct {
	SessionID string

	// ActorID is the caller; must be the session admin unless AsSystem
	ActorID string

	// AsSystem bypasses the admin check for the stale-session sweeper
	AsSystem bool
}

type ArchiveSessionOutput struct {
	Archive *models.SessionArchive
}

type SweepStaleInput struct {
	// OlderThan is the age beyond which a live session is considered
	// abandoned and archived
	OlderThan time.Duration
}

// SweepError records one session the sweeper could not archive
type SweepError struct {
	SessionID string
	Err       error
}

type SweepStaleOutput struct {
	ArchivedCount int
	Errors        []SweepError
}

type GetArchivedSessionsInput struct {
	UserID string
}

type GetArchivedSessionsOutput struct {
	Sessions []*models.ArchivedSession
}

type GetArchivedSessionInput struct {
	SessionID string
}
