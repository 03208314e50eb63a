package models

import (
	"time"
)

// ArchivedSession is the durable mirror of a session, written once at archival
type ArchivedSession struct {
	// ID is the original live-store session ID
	ID string

	// Name is the session name
	Name string

	// CreatedBy is the session admin
	CreatedBy string

	// CreatedAt is when the live session was created
	CreatedAt time.Time

	// EndedAt is when the session was archived
	EndedAt time.Time
}

// ArchivedMember is the durable mirror of a session membership
type ArchivedMember struct {
	SessionID string
	UserID    string
	Name      string
	IsAdmin   bool
	JoinedAt  time.Time
}

// ArchivedStory is the durable mirror of a story. Points is always concrete;
// an unset live sentinel is coerced at archival.
type ArchivedStory struct {
	ID          string
	SessionID   string
	Title       string
	Description string
	ExternalKey string
	Status      StoryStatus
	Points      int
	CreatedAt   time.Time
}

// ArchivedVote is the durable mirror of a vote. Value is always textual.
type ArchivedVote struct {
	StoryID string
	UserID  string
	Name    string
	Value   string
	VotedAt time.Time
}

// SessionArchive is the full durable graph of one archived session
type SessionArchive struct {
	Session *ArchivedSession
	Members []*ArchivedMember
	Stories []*ArchivedStory
	Votes   []*ArchivedVote
}
