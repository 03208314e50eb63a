package settings

import "github.com/pointdeck/pointdeck/internal/models"

type SaveSettingsInput struct {
	Settings *models.SessionSettings
}

type GetSettingsInput struct {
	SessionID string
}

type ClaimSeedInput struct {
	SessionID string
}

type DeleteSettingsInput struct {
	SessionID string
}
