package archive

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pointdeck/pointdeck/internal/common/clock"
	"github.com/pointdeck/pointdeck/internal/events"
	"github.com/pointdeck/pointdeck/internal/models"
	archiveRepo "github.com/pointdeck/pointdeck/internal/repositories/archive"
	memberRepo "github.com/pointdeck/pointdeck/internal/repositories/member"
	presenceRepo "github.com/pointdeck/pointdeck/internal/repositories/presence"
	sessionRepo "github.com/pointdeck/pointdeck/internal/repositories/session"
	settingsRepo "github.com/pointdeck/pointdeck/internal/repositories/settings"
	storyRepo "github.com/pointdeck/pointdeck/internal/repositories/story"
	voteRepo "github.com/pointdeck/pointdeck/internal/repositories/vote"
)

type service struct {
	sessionRepo  sessionRepo.Repository
	memberRepo   memberRepo.Repository
	storyRepo    storyRepo.Repository
	voteRepo     voteRepo.Repository
	presenceRepo presenceRepo.Repository
	settingsRepo settingsRepo.Repository
	store        archiveRepo.Store
	hub          *events.Hub
	clock        clock.Clock
	logger       *zap.Logger
}

// Config holds the dependencies for the archive service
type Config struct {
	SessionRepository  sessionRepo.Repository
	MemberRepository   memberRepo.Repository
	StoryRepository    storyRepo.Repository
	VoteRepository     voteRepo.Repository
	PresenceRepository presenceRepo.Repository
	SettingsRepository settingsRepo.Repository
	ArchiveStore       archiveRepo.Store
	Hub                *events.Hub
	Clock              clock.Clock
	Logger             *zap.Logger
}

// New creates a new archive service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepository == nil {
		return nil, errors.New("session repository cannot be nil")
	}

	if cfg.MemberRepository == nil {
		return nil, errors.New("member repository cannot be nil")
	}

	if cfg.StoryRepository == nil {
		return nil, errors.New("story repository cannot be nil")
	}

	if cfg.VoteRepository == nil {
		return nil, errors.New("vote repository cannot be nil")
	}

	if cfg.PresenceRepository == nil {
		return nil, errors.New("presence repository cannot be nil")
	}

	if cfg.SettingsRepository == nil {
		return nil, errors.New("settings repository cannot be nil")
	}

	if cfg.ArchiveStore == nil {
		return nil, errors.New("archive store cannot be nil")
	}

	if cfg.Hub == nil {
		return nil, errors.New("event hub cannot be nil")
	}

	if cfg.Clock == nil {
		cfg.Clock = &clock.DefaultClock{}
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &service{
		sessionRepo:  cfg.SessionRepository,
		memberRepo:   cfg.MemberRepository,
		storyRepo:    cfg.StoryRepository,
		voteRepo:     cfg.VoteRepository,
		presenceRepo: cfg.PresenceRepository,
		settingsRepo: cfg.SettingsRepository,
		store:        cfg.ArchiveStore,
		hub:          cfg.Hub,
		clock:        cfg.Clock,
		logger:       cfg.Logger,
	}, nil
}

func (s *service) ArchiveSession(ctx context.Context, input *ArchiveSessionInput) (*ArchiveSessionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{SessionID: input.SessionID})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if !input.AsSystem && input.ActorID != sess.CreatedBy {
		return nil, ErrNotAdmin
	}

	snapshot, stories, err := s.snapshot(ctx, sess)
	if err != nil {
		return nil, err
	}

	// the durable write commits first; if it fails the live session
	// stays untouched and the archival can be retried
	if err := s.store.PutSessionArchive(ctx, &archiveRepo.PutSessionArchiveInput{Archive: snapshot}); err != nil {
		return nil, fmt.Errorf("failed to write archive: %w", err)
	}

	s.hub.Publish(events.Event{
		Type:      events.EventSessionEnded,
		SessionID: sess.ID,
		UserID:    input.ActorID,
		At:        s.clock.Now(),
	})

	s.deleteLiveGraph(ctx, sess.ID, stories)

	return &ArchiveSessionOutput{Archive: snapshot}, nil
}

// snapshot reads the full live graph of a session into archive form.
func (s *service) snapshot(ctx context.Context, sess *models.Session) (*models.SessionArchive, []*models.Story, error) {
	members, err := s.memberRepo.GetSessionMembers(ctx, &memberRepo.GetSessionMembersInput{SessionID: sess.ID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load members: %w", err)
	}

	stories, err := s.storyRepo.GetSessionStories(ctx, &storyRepo.GetSessionStoriesInput{SessionID: sess.ID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load stories: %w", err)
	}

	archive := &models.SessionArchive{
		Session: &models.ArchivedSession{
			ID:        sess.ID,
			Name:      sess.Name,
			CreatedBy: sess.CreatedBy,
			CreatedAt: sess.CreatedAt,
			EndedAt:   s.clock.Now(),
		},
	}

	for _, m := range members.Members {
		archive.Members = append(archive.Members, &models.ArchivedMember{
			SessionID: m.SessionID,
			UserID:    m.UserID,
			Name:      m.Name,
			IsAdmin:   m.IsAdmin,
			JoinedAt:  m.JoinedAt,
		})
	}

	for _, st := range stories.Stories {
		points := st.Points
		if points == models.PointsUnset {
			points = 0
		}

		archive.Stories = append(archive.Stories, &models.ArchivedStory{
			ID:          st.ID,
			SessionID:   st.SessionID,
			Title:       st.Title,
			Description: st.Description,
			ExternalKey: st.ExternalKey,
			Status:      st.Status,
			Points:      points,
			CreatedAt:   st.CreatedAt,
		})

		votes, err := s.voteRepo.GetStoryVotes(ctx, &voteRepo.GetStoryVotesInput{StoryID: st.ID})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load votes for story %s: %w", st.ID, err)
		}

		for _, v := range votes.Votes {
			archive.Votes = append(archive.Votes, &models.ArchivedVote{
				StoryID: v.StoryID,
				UserID:  v.UserID,
				Name:    v.Name,
				Value:   v.Value,
				VotedAt: v.VotedAt,
			})
		}
	}

	return archive, stories.Stories, nil
}

// deleteLiveGraph removes the session's live data, leaves first. The archive
// is already durable, so a partial delete only leaves garbage for a retry,
// never loses data.
func (s *service) deleteLiveGraph(ctx context.Context, sessionID string, stories []*models.Story) {
	for _, st := range stories {
		if err := s.voteRepo.DeleteStoryVotes(ctx, &voteRepo.DeleteStoryVotesInput{StoryID: st.ID}); err != nil {
			s.logger.Warn("failed to delete live votes",
				zap.String("session_id", sessionID),
				zap.String("story_id", st.ID),
				zap.Error(err))
		}
	}

	if err := s.storyRepo.DeleteSessionStories(ctx, &storyRepo.DeleteSessionStoriesInput{SessionID: sessionID}); err != nil {
		s.logger.Warn("failed to delete live stories",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	if err := s.memberRepo.DeleteSessionMembers(ctx, &memberRepo.DeleteSessionMembersInput{SessionID: sessionID}); err != nil {
		s.logger.Warn("failed to delete live members",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	if err := s.presenceRepo.DeleteSessionPresence(ctx, &presenceRepo.DeleteSessionPresenceInput{SessionID: sessionID}); err != nil {
		s.logger.Warn("failed to delete live presence",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	if err := s.settingsRepo.DeleteSettings(ctx, &settingsRepo.DeleteSettingsInput{SessionID: sessionID}); err != nil {
		s.logger.Warn("failed to delete live settings",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	if err := s.sessionRepo.DeleteSession(ctx, &sessionRepo.DeleteSessionInput{SessionID: sessionID}); err != nil {
		s.logger.Warn("failed to delete live session",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

func (s *service) SweepStale(ctx context.Context, input *SweepStaleInput) (*SweepStaleOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.OlderThan <= 0 {
		return nil, errors.New("sweep age must be positive")
	}

	sessions, err := s.sessionRepo.ListSessions(ctx, &sessionRepo.ListSessionsInput{})
	if err != nil {
		return nil, err
	}

	cutoff := s.clock.Now().Add(-input.OlderThan)
	out := &SweepStaleOutput{}

	for _, sess := range sessions.Sessions {
		if !sess.CreatedAt.Before(cutoff) {
			continue
		}

		if _, err := s.ArchiveSession(ctx, &ArchiveSessionInput{
			SessionID: sess.ID,
			AsSystem:  true,
		}); err != nil {
			s.logger.Warn("sweep failed to archive session",
				zap.String("session_id", sess.ID),
				zap.Error(err))
			out.Errors = append(out.Errors, SweepError{SessionID: sess.ID, Err: err})
			continue
		}

		out.ArchivedCount++
	}

	return out, nil
}

func (s *service) GetArchivedSessions(ctx context.Context, input *GetArchivedSessionsInput) (*GetArchivedSessionsOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	out, err := s.store.GetSessionsByAdmin(ctx, &archiveRepo.GetSessionsByAdminInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}

	return &GetArchivedSessionsOutput{Sessions: out.Sessions}, nil
}

func (s *service) GetArchivedSession(ctx context.Context, input *GetArchivedSessionInput) (*models.SessionArchive, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	archive, err := s.store.GetSessionArchive(ctx, &archiveRepo.GetSessionArchiveInput{SessionID: input.SessionID})
	if err != nil {
		if errors.Is(err, archiveRepo.ErrArchiveNotFound) {
			return nil, ErrArchiveNotFound
		}
		return nil, err
	}

	return archive, nil
}
