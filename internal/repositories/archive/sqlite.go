package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pointdeck/pointdeck/internal/models"
	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

var (
	// ErrArchiveNotFound is returned when no archived session exists for an ID
	ErrArchiveNotFound = errors.New("archived session not found")

	// ErrUserSettingsNotFound is returned when a user has no stored defaults
	ErrUserSettingsNotFound = errors.New("user settings not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS archived_sessions (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_by TEXT NOT NULL,
    created_at TEXT NOT NULL,
    ended_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_archived_sessions_created_by ON archived_sessions(created_by);

CREATE TABLE IF NOT EXISTS archived_members (
    session_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    is_admin INTEGER NOT NULL,
    joined_at TEXT NOT NULL,
    PRIMARY KEY (session_id, user_id)
);

CREATE TABLE IF NOT EXISTS archived_stories (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    external_key TEXT NOT NULL,
    status TEXT NOT NULL,
    points INTEGER NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_archived_stories_session ON archived_stories(session_id);

CREATE TABLE IF NOT EXISTS archived_votes (
    story_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    value TEXT NOT NULL,
    voted_at TEXT NOT NULL,
    PRIMARY KEY (story_id, user_id)
);

CREATE TABLE IF NOT EXISTS user_settings (
    user_id TEXT PRIMARY KEY,
    timed_voting INTEGER NOT NULL,
    voting_time_limit INTEGER NOT NULL,
    scoring_type TEXT NOT NULL,
    show_kick_buttons INTEGER NOT NULL,
    updated_at TEXT NOT NULL
);
`

// sqliteStore provides a SQLite-backed implementation of the Store interface
type sqliteStore struct {
	db *sql.DB
}

// Open opens the archive store at the provided path.
func Open(path string) (*sqliteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the underlying SQLite database.
func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// PutSessionArchive writes the full session graph in one transaction.
// All writes are upserts keyed by the original live-store IDs, so re-running
// the archival for the same session leaves exactly one copy.
func (s *sqliteStore) PutSessionArchive(ctx context.Context, input *PutSessionArchiveInput) error {
	if input == nil || input.Archive == nil || input.Archive.Session == nil {
		return errors.New("input and archive session cannot be nil")
	}

	archive := input.Archive

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO archived_sessions (id, name, created_by, created_at, ended_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, ended_at = excluded.ended_at`,
		archive.Session.ID,
		archive.Session.Name,
		archive.Session.CreatedBy,
		archive.Session.CreatedAt.UTC().Format(timeFormat),
		archive.Session.EndedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("archive session %s: %w", archive.Session.ID, err)
	}

	for _, m := range archive.Members {
		_, err = tx.ExecContext(ctx, `
INSERT INTO archived_members (session_id, user_id, name, is_admin, joined_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(session_id, user_id) DO UPDATE SET name = excluded.name`,
			m.SessionID, m.UserID, m.Name, boolToInt(m.IsAdmin), m.JoinedAt.UTC().Format(timeFormat))
		if err != nil {
			return fmt.Errorf("archive member %s: %w", m.UserID, err)
		}
	}

	for _, st := range archive.Stories {
		_, err = tx.ExecContext(ctx, `
INSERT INTO archived_stories (id, session_id, title, description, external_key, status, points, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET status = excluded.status, points = excluded.points`,
			st.ID, st.SessionID, st.Title, st.Description, st.ExternalKey,
			string(st.Status), st.Points, st.CreatedAt.UTC().Format(timeFormat))
		if err != nil {
			return fmt.Errorf("archive story %s: %w", st.ID, err)
		}
	}

	for _, v := range archive.Votes {
		_, err = tx.ExecContext(ctx, `
INSERT INTO archived_votes (story_id, user_id, name, value, voted_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(story_id, user_id) DO UPDATE SET value = excluded.value, voted_at = excluded.voted_at`,
			v.StoryID, v.UserID, v.Name, v.Value, v.VotedAt.UTC().Format(timeFormat))
		if err != nil {
			return fmt.Errorf("archive vote %s/%s: %w", v.StoryID, v.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}

	return nil
}

// GetSessionsByAdmin retrieves archived sessions created by a user
func (s *sqliteStore) GetSessionsByAdmin(ctx context.Context, input *GetSessionsByAdminInput) (*GetSessionsByAdminOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, created_by, created_at, ended_at
FROM archived_sessions WHERE created_by = ? ORDER BY ended_at DESC`, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("query archived sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*models.ArchivedSession{}
	for rows.Next() {
		session, err := scanArchivedSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archived sessions: %w", err)
	}

	return &GetSessionsByAdminOutput{Sessions: sessions}, nil
}

// GetSessionArchive retrieves one archived session with its full graph
func (s *sqliteStore) GetSessionArchive(ctx context.Context, input *GetSessionArchiveInput) (*models.SessionArchive, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	row := s.db.QueryRowContext(ctx, `
SELECT id, name, created_by, created_at, ended_at
FROM archived_sessions WHERE id = ?`, input.SessionID)

	session, err := scanArchivedSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArchiveNotFound
		}
		return nil, err
	}

	archive := &models.SessionArchive{
		Session: session,
		Members: []*models.ArchivedMember{},
		Stories: []*models.ArchivedStory{},
		Votes:   []*models.ArchivedVote{},
	}

	memberRows, err := s.db.QueryContext(ctx, `
SELECT session_id, user_id, name, is_admin, joined_at
FROM archived_members WHERE session_id = ? ORDER BY joined_at`, input.SessionID)
	if err != nil {
		return nil, fmt.Errorf("query archived members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var m models.ArchivedMember
		var isAdmin int
		var joinedAt string
		if err := memberRows.Scan(&m.SessionID, &m.UserID, &m.Name, &isAdmin, &joinedAt); err != nil {
			return nil, fmt.Errorf("scan archived member: %w", err)
		}
		m.IsAdmin = isAdmin != 0
		if m.JoinedAt, err = time.Parse(timeFormat, joinedAt); err != nil {
			return nil, fmt.Errorf("parse member joined_at: %w", err)
		}
		archive.Members = append(archive.Members, &m)
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archived members: %w", err)
	}

	storyRows, err := s.db.QueryContext(ctx, `
SELECT id, session_id, title, description, external_key, status, points, created_at
FROM archived_stories WHERE session_id = ? ORDER BY created_at`, input.SessionID)
	if err != nil {
		return nil, fmt.Errorf("query archived stories: %w", err)
	}
	defer storyRows.Close()

	storyIDs := []any{}
	for storyRows.Next() {
		var st models.ArchivedStory
		var status, createdAt string
		if err := storyRows.Scan(&st.ID, &st.SessionID, &st.Title, &st.Description,
			&st.ExternalKey, &status, &st.Points, &createdAt); err != nil {
			return nil, fmt.Errorf("scan archived story: %w", err)
		}
		st.Status = models.StoryStatus(status)
		if st.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
			return nil, fmt.Errorf("parse story created_at: %w", err)
		}
		archive.Stories = append(archive.Stories, &st)
		storyIDs = append(storyIDs, st.ID)
	}
	if err := storyRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archived stories: %w", err)
	}

	if len(storyIDs) == 0 {
		return archive, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(storyIDs)), ",")
	voteRows, err := s.db.QueryContext(ctx, `
SELECT story_id, user_id, name, value, voted_at
FROM archived_votes WHERE story_id IN (`+placeholders+`) ORDER BY voted_at`, storyIDs...)
	if err != nil {
		return nil, fmt.Errorf("query archived votes: %w", err)
	}
	defer voteRows.Close()

	for voteRows.Next() {
		var v models.ArchivedVote
		var votedAt string
		if err := voteRows.Scan(&v.StoryID, &v.UserID, &v.Name, &v.Value, &votedAt); err != nil {
			return nil, fmt.Errorf("scan archived vote: %w", err)
		}
		if v.VotedAt, err = time.Parse(timeFormat, votedAt); err != nil {
			return nil, fmt.Errorf("parse vote voted_at: %w", err)
		}
		archive.Votes = append(archive.Votes, &v)
	}
	if err := voteRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archived votes: %w", err)
	}

	return archive, nil
}

// GetUserSettings retrieves a user's personal default settings
func (s *sqliteStore) GetUserSettings(ctx context.Context, input *GetUserSettingsInput) (*models.UserSettings, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	row := s.db.QueryRowContext(ctx, `
SELECT user_id, timed_voting, voting_time_limit, scoring_type, show_kick_buttons, updated_at
FROM user_settings WHERE user_id = ?`, input.UserID)

	var settings models.UserSettings
	var timedVoting, showKick int
	var scoringType, updatedAt string
	err := row.Scan(&settings.UserID, &timedVoting, &settings.VotingTimeLimit,
		&scoringType, &showKick, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserSettingsNotFound
		}
		return nil, fmt.Errorf("scan user settings: %w", err)
	}

	settings.TimedVoting = timedVoting != 0
	settings.ShowKickButtons = showKick != 0
	settings.ScoringType = models.ScoringType(scoringType)
	if settings.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return nil, fmt.Errorf("parse settings updated_at: %w", err)
	}

	return &settings, nil
}

// PutUserSettings upserts a user's personal default settings
func (s *sqliteStore) PutUserSettings(ctx context.Context, input *PutUserSettingsInput) error {
	if input == nil || input.Settings == nil {
		return errors.New("input and settings cannot be nil")
	}

	if input.Settings.UserID == "" {
		return errors.New("user ID cannot be empty")
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO user_settings (user_id, timed_voting, voting_time_limit, scoring_type, show_kick_buttons, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    timed_voting = excluded.timed_voting,
    voting_time_limit = excluded.voting_time_limit,
    scoring_type = excluded.scoring_type,
    show_kick_buttons = excluded.show_kick_buttons,
    updated_at = excluded.updated_at`,
		input.Settings.UserID,
		boolToInt(input.Settings.TimedVoting),
		input.Settings.VotingTimeLimit,
		string(input.Settings.ScoringType),
		boolToInt(input.Settings.ShowKickButtons),
		input.Settings.UpdatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("put user settings: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArchivedSession(row rowScanner) (*models.ArchivedSession, error) {
	var session models.ArchivedSession
	var createdAt, endedAt string
	if err := row.Scan(&session.ID, &session.Name, &session.CreatedBy, &createdAt, &endedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan archived session: %w", err)
	}

	var err error
	if session.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return nil, fmt.Errorf("parse session created_at: %w", err)
	}
	if session.EndedAt, err = time.Parse(timeFormat, endedAt); err != nil {
		return nil, fmt.Errorf("parse session ended_at: %w", err)
	}

	return &session, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
