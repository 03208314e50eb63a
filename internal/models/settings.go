package models

import (
	"time"
)

// ScoringType identifies the point scale offered to voters
type ScoringType string

const (
	// ScoringTypeFibonacci is the fibonacci-ish scale used by default
	ScoringTypeFibonacci ScoringType = "fibonacci"

	// ScoringTypePowersOfTwo is a doubling scale
	ScoringTypePowersOfTwo ScoringType = "powersOfTwo"

	// ScoringTypeTShirt maps shirt sizes onto points
	ScoringTypeTShirt ScoringType = "tshirt"
)

// scoringScales lists the point choices per scale. The scale is advisory:
// vote writes are not validated against it.
var scoringScales = map[ScoringType][]int{
	ScoringTypeFibonacci:   {1, 2, 3, 5, 8, 13, 21},
	ScoringTypePowersOfTwo: {1, 2, 4, 8, 16, 32},
	ScoringTypeTShirt:      {1, 2, 3, 5, 8},
}

// PointScale returns the point choices for a scoring type, defaulting to fibonacci.
func (s ScoringType) PointScale() []int {
	if scale, ok := scoringScales[s]; ok {
		return scale
	}
	return scoringScales[ScoringTypeFibonacci]
}

// Valid reports whether the scoring type is a known scale.
func (s ScoringType) Valid() bool {
	_, ok := scoringScales[s]
	return ok
}

// Default session settings values
const (
	DefaultTimedVoting     = false
	DefaultVotingTimeLimit = 300
)

// SessionSettings holds the per-session voting configuration
type SessionSettings struct {
	// SessionID is the session these settings belong to
	SessionID string

	// TimedVoting enables the synchronized countdown for voting rounds
	TimedVoting bool

	// VotingTimeLimit is the voting round length in seconds
	VotingTimeLimit int

	// ScoringType selects the point scale offered to voters
	ScoringType ScoringType

	// ShowKickButtons controls whether the admin sees kick controls
	ShowKickButtons bool

	// UpdatedAt is when the settings were last changed
	UpdatedAt time.Time
}

// DefaultSessionSettings returns the global default settings for a session.
func DefaultSessionSettings(sessionID string) *SessionSettings {
	return &SessionSettings{
		SessionID:       sessionID,
		TimedVoting:     DefaultTimedVoting,
		VotingTimeLimit: DefaultVotingTimeLimit,
		ScoringType:     ScoringTypeFibonacci,
		ShowKickButtons: true,
	}
}

// UserSettings holds a user's personal default settings. They live in durable
// storage and seed a session's initial settings exactly once.
type UserSettings struct {
	// UserID is the owner of these defaults
	UserID string

	// TimedVoting is the default for new sessions
	TimedVoting bool

	// VotingTimeLimit is the default round length in seconds
	VotingTimeLimit int

	// ScoringType is the default point scale
	ScoringType ScoringType

	// ShowKickButtons is the default kick-control visibility
	ShowKickButtons bool

	// UpdatedAt is when the defaults were last changed
	UpdatedAt time.Time
}
