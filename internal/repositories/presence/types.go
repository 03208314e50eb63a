package presence

import "time"

type UpdatePresenceInput struct {
	SessionID string
	UserID    string
	SeenAt    time.Time
}

type GetActiveUsersInput struct {
	SessionID string
	Cutoff    time.Time
}

type GetActiveUsersOutput struct {
	UserIDs []string
}

type CleanupInput struct {
	SessionID string
	Cutoff    time.Time
}

type CleanupOutput struct {
	Removed int64
}

type DeleteUserInput struct {
	SessionID string
	UserID    string
}

type DeleteSessionPresenceInput struct {
	SessionID string
}
