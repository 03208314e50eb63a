package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pointdeck/pointdeck/internal/common/clock"
	"github.com/pointdeck/pointdeck/internal/common/uuid"
	"github.com/pointdeck/pointdeck/internal/events"
	"github.com/pointdeck/pointdeck/internal/models"
	archiveRepo "github.com/pointdeck/pointdeck/internal/repositories/archive"
	memberRepo "github.com/pointdeck/pointdeck/internal/repositories/member"
	presenceRepo "github.com/pointdeck/pointdeck/internal/repositories/presence"
	sessionRepo "github.com/pointdeck/pointdeck/internal/repositories/session"
	settingsRepo "github.com/pointdeck/pointdeck/internal/repositories/settings"
	storyRepo "github.com/pointdeck/pointdeck/internal/repositories/story"
)

type service struct {
	sessionRepo  sessionRepo.Repository
	memberRepo   memberRepo.Repository
	presenceRepo presenceRepo.Repository
	settingsRepo settingsRepo.Repository
	storyRepo    storyRepo.Repository
	archiveStore archiveRepo.Store
	hub          *events.Hub
	clock        clock.Clock
	uuid         uuid.UUID
	logger       *zap.Logger
}

// Config holds the dependencies for the session service
type Config struct {
	SessionRepository  sessionRepo.Repository
	MemberRepository   memberRepo.Repository
	PresenceRepository presenceRepo.Repository
	SettingsRepository settingsRepo.Repository
	StoryRepository    storyRepo.Repository
	ArchiveStore       archiveRepo.Store
	Hub                *events.Hub
	Clock              clock.Clock
	UUID               uuid.UUID
	Logger             *zap.Logger
}

// New creates a new session service
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

	if cfg.PresenceRepository == nil {
		return nil, errors.New("presence repository cannot be nil")
	}

	if cfg.SettingsRepository == nil {
		return nil, errors.New("settings repository cannot be nil")
	}

	if cfg.StoryRepository == nil {
		return nil, errors.New("story repository cannot be nil")
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

	if cfg.UUID == nil {
		cfg.UUID = uuid.New()
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &service{
		sessionRepo:  cfg.SessionRepository,
		memberRepo:   cfg.MemberRepository,
		presenceRepo: cfg.PresenceRepository,
		settingsRepo: cfg.SettingsRepository,
		storyRepo:    cfg.StoryRepository,
		archiveStore: cfg.ArchiveStore,
		hub:          cfg.Hub,
		clock:        cfg.Clock,
		uuid:         cfg.UUID,
		logger:       cfg.Logger,
	}, nil
}

func (s *service) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.Name == "" {
		return nil, errors.New("name cannot be empty")
	}

	if input.UserID == "" {
		return nil, errors.New("user ID cannot be empty")
	}

	now := s.clock.Now()

	sess := &models.Session{
		ID:        s.uuid.NewUUID(),
		Name:      input.Name,
		CreatedBy: input.UserID,
		IsActive:  true,
		CreatedAt: now,
	}

	if err := s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{Session: sess}); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	// the admin is a member from the start
	admin := &models.Member{
		SessionID: sess.ID,
		UserID:    input.UserID,
		Name:      input.UserName,
		IsAdmin:   true,
		JoinedAt:  now,
	}

	if err := s.memberRepo.SaveMember(ctx, &memberRepo.SaveMemberInput{Member: admin}); err != nil {
		return nil, fmt.Errorf("failed to save admin membership: %w", err)
	}

	return &CreateSessionOutput{Session: sess}, nil
}

func (s *service) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
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

	return sess, nil
}

func (s *service) GetSessionsByAdmin(ctx context.Context, input *GetSessionsByAdminInput) (*GetSessionsByAdminOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	out, err := s.sessionRepo.GetSessionsByAdmin(ctx, &sessionRepo.GetSessionsByAdminInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}

	return &GetSessionsByAdminOutput{Sessions: out.Sessions}, nil
}

func (s *service) JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	sess, err := s.GetSession(ctx, &GetSessionInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}

	existing, err := s.memberRepo.GetMember(ctx, &memberRepo.GetMemberInput{
		SessionID: input.SessionID,
		UserID:    input.UserID,
	})
	if err == nil {
		return &JoinSessionOutput{Member: existing, Rejoined: true}, nil
	}

	if !errors.Is(err, memberRepo.ErrMemberNotFound) {
		return nil, err
	}

	m := &models.Member{
		SessionID: input.SessionID,
		UserID:    input.UserID,
		Name:      input.Name,
		IsAdmin:   input.UserID == sess.CreatedBy,
		JoinedAt:  s.clock.Now(),
	}

	if err := s.memberRepo.SaveMember(ctx, &memberRepo.SaveMemberInput{Member: m}); err != nil {
		return nil, fmt.Errorf("failed to save membership: %w", err)
	}

	s.hub.Publish(events.Event{
		Type:      events.EventMemberJoined,
		SessionID: input.SessionID,
		UserID:    input.UserID,
		At:        s.clock.Now(),
	})

	return &JoinSessionOutput{Member: m}, nil
}

func (s *service) LeaveSession(ctx context.Context, input *LeaveSessionInput) (*LeaveSessionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	sess, err := s.GetSession(ctx, &GetSessionInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}

	if input.UserID == sess.CreatedBy {
		return nil, ErrAdminCannotLeave
	}

	if err := s.memberRepo.DeleteMember(ctx, &memberRepo.DeleteMemberInput{
		SessionID: input.SessionID,
		UserID:    input.UserID,
	}); err != nil {
		if errors.Is(err, memberRepo.ErrMemberNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if err := s.presenceRepo.DeleteUser(ctx, &presenceRepo.DeleteUserInput{
		SessionID: input.SessionID,
		UserID:    input.UserID,
	}); err != nil {
		s.logger.Warn("failed to clear presence for departed member",
			zap.String("session_id", input.SessionID),
			zap.String("user_id", input.UserID),
			zap.Error(err))
	}

	s.hub.Publish(events.Event{
		Type:      events.EventMemberLeft,
		SessionID: input.SessionID,
		UserID:    input.UserID,
		At:        s.clock.Now(),
	})

	return &LeaveSessionOutput{Success: true}, nil
}

func (s *service) KickMember(ctx context.Context, input *KickMemberInput) (*KickMemberOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	sess, err := s.GetSession(ctx, &GetSessionInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}

	if input.ActorID != sess.CreatedBy {
		return nil, ErrNotAdmin
	}

	if input.TargetID == sess.CreatedBy {
		return nil, ErrCannotKickAdmin
	}

	if err := s.memberRepo.DeleteMember(ctx, &memberRepo.DeleteMemberInput{
		SessionID: input.SessionID,
		UserID:    input.TargetID,
	}); err != nil {
		if errors.Is(err, memberRepo.ErrMemberNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if err := s.presenceRepo.DeleteUser(ctx, &presenceRepo.DeleteUserInput{
		SessionID: input.SessionID,
		UserID:    input.TargetID,
	}); err != nil {
		s.logger.Warn("failed to clear presence for kicked member",
			zap.String("session_id", input.SessionID),
			zap.String("user_id", input.TargetID),
			zap.Error(err))
	}

	s.hub.Publish(events.Event{
		Type:      events.EventMemberKicked,
		SessionID: input.SessionID,
		UserID:    input.TargetID,
		At:        s.clock.Now(),
	})

	return &KickMemberOutput{Success: true}, nil
}

func (s *service) GetSessionMembers(ctx context.Context, input *GetSessionMembersInput) (*GetSessionMembersOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if _, err := s.GetSession(ctx, &GetSessionInput{SessionID: input.SessionID}); err != nil {
		return nil, err
	}

	out, err := s.memberRepo.GetSessionMembers(ctx, &memberRepo.GetSessionMembersInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}

	return &GetSessionMembersOutput{Members: out.Members}, nil
}

func (s *service) GetSessionSettings(ctx context.Context, input *GetSessionSettingsInput) (*models.SessionSettings, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	stored, err := s.settingsRepo.GetSettings(ctx, &settingsRepo.GetSettingsInput{SessionID: input.SessionID})
	if err == nil {
		return stored, nil
	}

	if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		return nil, err
	}

	sess, err := s.GetSession(ctx, &GetSessionInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}

	claimed, err := s.settingsRepo.ClaimSeed(ctx, &settingsRepo.ClaimSeedInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}

	if !claimed {
		// lost the seed race; the winner may not have saved yet, so fall
		// back to defaults without persisting anything
		stored, err := s.settingsRepo.GetSettings(ctx, &settingsRepo.GetSettingsInput{SessionID: input.SessionID})
		if err == nil {
			return stored, nil
		}
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return nil, err
		}
		return models.DefaultSessionSettings(input.SessionID), nil
	}

	seeded := s.seedFromAdminDefaults(ctx, sess)
	if err := s.settingsRepo.SaveSettings(ctx, &settingsRepo.SaveSettingsInput{Settings: seeded}); err != nil {
		return nil, fmt.Errorf("failed to save seeded settings: %w", err)
	}

	return seeded, nil
}

// seedFromAdminDefaults builds the initial session settings from the admin's
// stored personal defaults, or the global defaults when they have none.
func (s *service) seedFromAdminDefaults(ctx context.Context, sess *models.Session) *models.SessionSettings {
	seeded := models.DefaultSessionSettings(sess.ID)
	seeded.UpdatedAt = s.clock.Now()

	userDefaults, err := s.archiveStore.GetUserSettings(ctx, &archiveRepo.GetUserSettingsInput{UserID: sess.CreatedBy})
	if err != nil {
		if !errors.Is(err, archiveRepo.ErrUserSettingsNotFound) {
			s.logger.Warn("failed to load admin defaults, seeding global defaults",
				zap.String("session_id", sess.ID),
				zap.Error(err))
		}
		return seeded
	}

	seeded.TimedVoting = userDefaults.TimedVoting
	seeded.VotingTimeLimit = userDefaults.VotingTimeLimit
	seeded.ShowKickButtons = userDefaults.ShowKickButtons
	if userDefaults.ScoringType.Valid() {
		seeded.ScoringType = userDefaults.ScoringType
	}

	return seeded
}

func (s *service) UpdateSessionSettings(ctx context.Context, input *UpdateSessionSettingsInput) (*models.SessionSettings, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	sess, err := s.GetSession(ctx, &GetSessionInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}

	if input.UserID != sess.CreatedBy {
		return nil, ErrNotAdmin
	}

	if input.ScoringType != nil && !input.ScoringType.Valid() {
		return nil, ErrInvalidScoringType
	}

	current, err := s.GetSessionSettings(ctx, &GetSessionSettingsInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}

	previousLimit := current.VotingTimeLimit

	if input.TimedVoting != nil {
		current.TimedVoting = *input.TimedVoting
	}
	if input.VotingTimeLimit != nil {
		current.VotingTimeLimit = *input.VotingTimeLimit
	}
	if input.ScoringType != nil {
		current.ScoringType = *input.ScoringType
	}
	if input.ShowKickButtons != nil {
		current.ShowKickButtons = *input.ShowKickButtons
	}
	current.UpdatedAt = s.clock.Now()

	if err := s.settingsRepo.SaveSettings(ctx, &settingsRepo.SaveSettingsInput{Settings: current}); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	if current.VotingTimeLimit < previousLimit {
		s.restartRunningRound(ctx, input.SessionID)
	}

	s.hub.Publish(events.Event{
		Type:      events.EventSettingsChanged,
		SessionID: input.SessionID,
		UserID:    input.UserID,
		At:        s.clock.Now(),
	})

	return current, nil
}

// restartRunningRound resets the running round's start time after the time
// limit was shortened, so the change only ever extends the remaining time.
// Best effort: the round keeps its old reference point on failure.
func (s *service) restartRunningRound(ctx context.Context, sessionID string) {
	activeID, err := s.storyRepo.GetActiveStoryID(ctx, &storyRepo.GetActiveStoryIDInput{SessionID: sessionID})
	if err != nil || activeID == "" {
		return
	}

	active, err := s.storyRepo.GetStory(ctx, &storyRepo.GetStoryInput{StoryID: activeID})
	if err != nil || active.Status != models.StoryStatusVoting {
		return
	}

	now := s.clock.Now()
	active.VotingStartedAt = &now

	if err := s.storyRepo.SaveStory(ctx, &storyRepo.SaveStoryInput{Story: active}); err != nil {
		s.logger.Warn("failed to restart voting round after settings change",
			zap.String("session_id", sessionID),
			zap.String("story_id", activeID),
			zap.Error(err))
	}
}

func (s *service) GetUserSettings(ctx context.Context, input *GetUserSettingsInput) (*models.UserSettings, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	stored, err := s.archiveStore.GetUserSettings(ctx, &archiveRepo.GetUserSettingsInput{UserID: input.UserID})
	if err != nil {
		if errors.Is(err, archiveRepo.ErrUserSettingsNotFound) {
			return defaultUserSettings(input.UserID), nil
		}
		return nil, err
	}

	return stored, nil
}

func (s *service) UpdateUserSettings(ctx context.Context, input *UpdateUserSettingsInput) (*models.UserSettings, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.ScoringType != nil && !input.ScoringType.Valid() {
		return nil, ErrInvalidScoringType
	}

	current, err := s.GetUserSettings(ctx, &GetUserSettingsInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}

	if input.TimedVoting != nil {
		current.TimedVoting = *input.TimedVoting
	}
	if input.VotingTimeLimit != nil {
		current.VotingTimeLimit = *input.VotingTimeLimit
	}
	if input.ScoringType != nil {
		current.ScoringType = *input.ScoringType
	}
	if input.ShowKickButtons != nil {
		current.ShowKickButtons = *input.ShowKickButtons
	}
	current.UpdatedAt = s.clock.Now()

	if err := s.archiveStore.PutUserSettings(ctx, &archiveRepo.PutUserSettingsInput{Settings: current}); err != nil {
		return nil, fmt.Errorf("failed to save user settings: %w", err)
	}

	return current, nil
}

func (s *service) GetEffectiveSettings(ctx context.Context, sessionID string) (*models.SessionSettings, error) {
	return s.GetSessionSettings(ctx, &GetSessionSettingsInput{SessionID: sessionID})
}

func defaultUserSettings(userID string) *models.UserSettings {
	return &models.UserSettings{
		UserID:          userID,
		TimedVoting:     models.DefaultTimedVoting,
		VotingTimeLimit: models.DefaultVotingTimeLimit,
		ScoringType:     models.ScoringTypeFibonacci,
		ShowKickButtons: true,
	}
}
