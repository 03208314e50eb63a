package settings

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/pointdeck/pointdeck/internal/repositories/settings Repository

import (
	"context"

	"github.com/pointdeck/pointdeck/internal/models"
)

// Repository defines the interface for session settings persistence
type Repository interface {
	// SaveSettings persists a session's settings
	SaveSettings(ctx context.Context, input *SaveSettingsInput) error

	// GetSettings retrieves a session's settings
	GetSettings(ctx context.Context, input *GetSettingsInput) (*models.SessionSettings, error)

	// ClaimSeed atomically claims the one-shot settings seed for a session.
	// Only the first caller gets true; racing observers get false.
	ClaimSeed(ctx context.Context, input *ClaimSeedInput) (bool, error)

	// DeleteSettings removes a session's settings and seed guard
	DeleteSettings(ctx context.Context, input *DeleteSettingsInput) error
}
