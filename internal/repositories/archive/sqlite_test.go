package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pointdeck/pointdeck/internal/models"
)

func openTempStore(t *testing.T) *sqliteStore {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func testArchive(endedAt time.Time) *models.SessionArchive {
	createdAt := endedAt.Add(-time.Hour)
	return &models.SessionArchive{
		Session: &models.ArchivedSession{
			ID:        "session-1",
			Name:      "Sprint 42 Planning",
			CreatedBy: "admin",
			CreatedAt: createdAt,
			EndedAt:   endedAt,
		},
		Members: []*models.ArchivedMember{
			{SessionID: "session-1", UserID: "admin", Name: "Admin", IsAdmin: true, JoinedAt: createdAt},
			{SessionID: "session-1", UserID: "alice", Name: "Alice", JoinedAt: createdAt},
		},
		Stories: []*models.ArchivedStory{
			{ID: "story-1", SessionID: "session-1", Title: "Checkout flow", Status: models.StoryStatusCompleted, Points: 5, CreatedAt: createdAt},
			{ID: "story-2", SessionID: "session-1", Title: "Search index", Status: models.StoryStatusNew, Points: 0, CreatedAt: createdAt.Add(time.Minute)},
		},
		Votes: []*models.ArchivedVote{
			{StoryID: "story-1", UserID: "alice", Name: "Alice", Value: "5", VotedAt: createdAt.Add(time.Minute)},
			{StoryID: "story-1", UserID: "admin", Name: "Admin", Value: "?", VotedAt: createdAt.Add(2 * time.Minute)},
		},
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestPutAndGetSessionArchive(t *testing.T) {
	store := openTempStore(t)
	endedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := store.PutSessionArchive(context.Background(), &PutSessionArchiveInput{
		Archive: testArchive(endedAt),
	}); err != nil {
		t.Fatalf("put session archive: %v", err)
	}

	archive, err := store.GetSessionArchive(context.Background(), &GetSessionArchiveInput{
		SessionID: "session-1",
	})
	if err != nil {
		t.Fatalf("get session archive: %v", err)
	}

	if archive.Session.Name != "Sprint 42 Planning" {
		t.Fatalf("expected session name, got %s", archive.Session.Name)
	}
	if !archive.Session.EndedAt.Equal(endedAt) {
		t.Fatalf("expected ended_at %v, got %v", endedAt, archive.Session.EndedAt)
	}
	if len(archive.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(archive.Members))
	}
	if len(archive.Stories) != 2 {
		t.Fatalf("expected 2 stories, got %d", len(archive.Stories))
	}
	if len(archive.Votes) != 2 {
		t.Fatalf("expected 2 votes, got %d", len(archive.Votes))
	}
	if archive.Votes[1].Value != "?" {
		t.Fatalf("expected unsure vote preserved textually, got %s", archive.Votes[1].Value)
	}
}

func TestPutSessionArchiveIdempotent(t *testing.T) {
	store := openTempStore(t)
	endedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		if err := store.PutSessionArchive(context.Background(), &PutSessionArchiveInput{
			Archive: testArchive(endedAt),
		}); err != nil {
			t.Fatalf("put session archive (run %d): %v", i+1, err)
		}
	}

	archive, err := store.GetSessionArchive(context.Background(), &GetSessionArchiveInput{
		SessionID: "session-1",
	})
	if err != nil {
		t.Fatalf("get session archive: %v", err)
	}

	if len(archive.Members) != 2 || len(archive.Stories) != 2 || len(archive.Votes) != 2 {
		t.Fatalf("expected no duplicate rows, got %d members, %d stories, %d votes",
			len(archive.Members), len(archive.Stories), len(archive.Votes))
	}

	out, err := store.GetSessionsByAdmin(context.Background(), &GetSessionsByAdminInput{
		UserID: "admin",
	})
	if err != nil {
		t.Fatalf("get sessions by admin: %v", err)
	}
	if len(out.Sessions) != 1 {
		t.Fatalf("expected 1 archived session, got %d", len(out.Sessions))
	}
}

func TestGetSessionArchiveNotFound(t *testing.T) {
	store := openTempStore(t)

	if _, err := store.GetSessionArchive(context.Background(), &GetSessionArchiveInput{
		SessionID: "missing",
	}); err != ErrArchiveNotFound {
		t.Fatalf("expected ErrArchiveNotFound, got %v", err)
	}
}

func TestUserSettingsRoundTrip(t *testing.T) {
	store := openTempStore(t)

	if _, err := store.GetUserSettings(context.Background(), &GetUserSettingsInput{
		UserID: "admin",
	}); err != ErrUserSettingsNotFound {
		t.Fatalf("expected ErrUserSettingsNotFound, got %v", err)
	}

	updatedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := store.PutUserSettings(context.Background(), &PutUserSettingsInput{
		Settings: &models.UserSettings{
			UserID:          "admin",
			TimedVoting:     true,
			VotingTimeLimit: 120,
			ScoringType:     models.ScoringTypeTShirt,
			ShowKickButtons: false,
			UpdatedAt:       updatedAt,
		},
	}); err != nil {
		t.Fatalf("put user settings: %v", err)
	}

	settings, err := store.GetUserSettings(context.Background(), &GetUserSettingsInput{
		UserID: "admin",
	})
	if err != nil {
		t.Fatalf("get user settings: %v", err)
	}
	if !settings.TimedVoting || settings.VotingTimeLimit != 120 {
		t.Fatalf("unexpected settings: %+v", settings)
	}
	if settings.ScoringType != models.ScoringTypeTShirt {
		t.Fatalf("expected tshirt scale, got %s", settings.ScoringType)
	}
	if settings.ShowKickButtons {
		t.Fatal("expected show kick buttons false")
	}
}
