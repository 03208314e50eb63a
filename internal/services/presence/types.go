package presence

import "time"

type HeartbeatInput struct {
	SessionID string
	UserID    string
}

type GetActiveUsersInput struct {
	SessionID string

	// Threshold overrides the default activity window when positive
	Threshold time.Duration
}

type GetActiveUsersOutput struct {
	UserIDs []string
}

type CleanupInput struct {
	SessionID string

	// Retention overrides the default retention window when positive
	Retention time.Duration
}

type CleanupOutput struct {
	Removed int64
}

type CleanupAllInput struct {
	Retention time.Duration
}

type CleanupAllOutput struct {
	Removed int64
}
