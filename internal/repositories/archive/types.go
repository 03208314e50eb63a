package archive

import "github.com/pointdeck/pointdeck/internal/models"

type PutSessionArchiveInput struct {
	Archive *models.SessionArchive
}

type GetSessionsByAdminInput struct {
	UserID string
}

type GetSessionsByAdminOutput struct {
	Sessions []*models.ArchivedSession
}

type GetSessionArchiveInput struct {
	SessionID string
}

type GetUserSettingsInput struct {
	UserID string
}

type PutUserSettingsInput struct {
	Settings *models.UserSettings
}
