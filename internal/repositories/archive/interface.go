package archive

//go:generate mockgen -package=mocks -destination=mocks/mock_store.go github.com/pointdeck/pointdeck/internal/repositories/archive Store

import (
	"context"

	"github.com/pointdeck/pointdeck/internal/models"
)

// Store defines the durable-storage interface. Archived rows are write-once:
// writes are upserts keyed by the live-store IDs so a retried archival never
// duplicates rows, and the only supported operation afterwards is read.
type Store interface {
	// PutSessionArchive writes the full session graph in one transaction
	PutSessionArchive(ctx context.Context, input *PutSessionArchiveInput) error

	// GetSessionsByAdmin retrieves archived sessions created by a user
	GetSessionsByAdmin(ctx context.Context, input *GetSessionsByAdminInput) (*GetSessionsByAdminOutput, error)

	// GetSessionArchive retrieves one archived session with its full graph
	GetSessionArchive(ctx context.Context, input *GetSessionArchiveInput) (*models.SessionArchive, error)

	// GetUserSettings retrieves a user's personal default settings
	GetUserSettings(ctx context.Context, input *GetUserSettingsInput) (*models.UserSettings, error)

	// PutUserSettings upserts a user's personal default settings
	PutUserSettings(ctx context.Context, input *PutUserSettingsInput) error

	// Close closes the store
	Close() error
}
