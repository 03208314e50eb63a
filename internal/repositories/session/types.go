package session

import "github.com/pointdeck/pointdeck/internal/models"

type SaveSessionInput struct {
	Session *models.Session
}

type GetSessionInput struct {
	SessionID string
}

type GetSessionsByAdminInput struct {
	UserID string
}

type GetSessionsByAdminOutput struct {
	Sessions []*models.Session
}

type ListSessionsInput struct {
}

type ListSessionsOutput struct {
	Sessions []*models.Session
}

type DeleteSessionInput struct {
	SessionID string
}
