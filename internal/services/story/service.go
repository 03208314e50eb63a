package story

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pointdeck/pointdeck/internal/board"
	"github.com/pointdeck/pointdeck/internal/common/clock"
	"github.com/pointdeck/pointdeck/internal/common/uuid"
	"github.com/pointdeck/pointdeck/internal/consensus"
	"github.com/pointdeck/pointdeck/internal/events"
	"github.com/pointdeck/pointdeck/internal/models"
	memberRepo "github.com/pointdeck/pointdeck/internal/repositories/member"
	sessionRepo "github.com/pointdeck/pointdeck/internal/repositories/session"
	storyRepo "github.com/pointdeck/pointdeck/internal/repositories/story"
	voteRepo "github.com/pointdeck/pointdeck/internal/repositories/vote"
)

type service struct {
	storyRepo   storyRepo.Repository
	voteRepo    voteRepo.Repository
	sessionRepo sessionRepo.Repository
	memberRepo  memberRepo.Repository
	settings    SettingsProvider
	boardClient board.Client
	hub         *events.Hub
	clock       clock.Clock
	uuid        uuid.UUID
	logger      *zap.Logger
}

// Config holds the dependencies for the story service
type Config struct {
	StoryRepository   storyRepo.Repository
	VoteRepository    voteRepo.Repository
	SessionRepository sessionRepo.Repository
	MemberRepository  memberRepo.Repository
	SettingsProvider  SettingsProvider

	// BoardClient is optional; without it completed points stay local
	BoardClient board.Client

	Hub    *events.Hub
	Clock  clock.Clock
	UUID   uuid.UUID
	Logger *zap.Logger
}

// New creates a new story service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.StoryRepository == nil {
		return nil, errors.New("story repository cannot be nil")
	}

	if cfg.VoteRepository == nil {
		return nil, errors.New("vote repository cannot be nil")
	}

	if cfg.SessionRepository == nil {
		return nil, errors.New("session repository cannot be nil")
	}

	if cfg.MemberRepository == nil {
		return nil, errors.New("member repository cannot be nil")
	}

	if cfg.SettingsProvider == nil {
		return nil, errors.New("settings provider cannot be nil")
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
		storyRepo:   cfg.StoryRepository,
		voteRepo:    cfg.VoteRepository,
		sessionRepo: cfg.SessionRepository,
		memberRepo:  cfg.MemberRepository,
		settings:    cfg.SettingsProvider,
		boardClient: cfg.BoardClient,
		hub:         cfg.Hub,
		clock:       cfg.Clock,
		uuid:        cfg.UUID,
		logger:      cfg.Logger,
	}, nil
}

// requireAdmin loads the session and verifies the caller created it.
func (s *service) requireAdmin(ctx context.Context, sessionID, userID string) (*models.Session, error) {
	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{SessionID: sessionID})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if userID != sess.CreatedBy {
		return nil, ErrNotAdmin
	}

	return sess, nil
}

func (s *service) AddStory(ctx context.Context, input *AddStoryInput) (*AddStoryOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	if _, err := s.requireAdmin(ctx, input.SessionID, input.UserID); err != nil {
		return nil, err
	}

	st := &models.Story{
		ID:          s.uuid.NewUUID(),
		SessionID:   input.SessionID,
		Title:       input.Title,
		Description: input.Description,
		ExternalKey: input.ExternalKey,
		Status:      models.StoryStatusNew,
		Points:      models.PointsUnset,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storyRepo.SaveStory(ctx, &storyRepo.SaveStoryInput{Story: st}); err != nil {
		return nil, fmt.Errorf("failed to save story: %w", err)
	}

	s.hub.Publish(events.Event{
		Type:      events.EventStoryAdded,
		SessionID: input.SessionID,
		StoryID:   st.ID,
		UserID:    input.UserID,
		At:        s.clock.Now(),
	})

	return &AddStoryOutput{Story: st}, nil
}

func (s *service) GetStory(ctx context.Context, input *GetStoryInput) (*models.Story, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	st, err := s.storyRepo.GetStory(ctx, &storyRepo.GetStoryInput{StoryID: input.StoryID})
	if err != nil {
		if errors.Is(err, storyRepo.ErrStoryNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}

	return st, nil
}

func (s *service) GetSessionStories(ctx context.Context, input *GetSessionStoriesInput) (*GetSessionStoriesOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	out, err := s.storyRepo.GetSessionStories(ctx, &storyRepo.GetSessionStoriesInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}

	return &GetSessionStoriesOutput{Stories: out.Stories}, nil
}

func (s *service) GetActiveStory(ctx context.Context, input *GetActiveStoryInput) (*GetActiveStoryOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	activeID, err := s.storyRepo.GetActiveStoryID(ctx, &storyRepo.GetActiveStoryIDInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}

	if activeID == "" {
		return &GetActiveStoryOutput{}, nil
	}

	st, err := s.GetStory(ctx, &GetStoryInput{StoryID: activeID})
	if err != nil {
		return nil, err
	}

	return &GetActiveStoryOutput{Story: st}, nil
}

func (s *service) StartVoting(ctx context.Context, input *StartVotingInput) (*StartVotingOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	st, err := s.GetStory(ctx, &GetStoryInput{StoryID: input.StoryID})
	if err != nil {
		return nil, err
	}

	if _, err := s.requireAdmin(ctx, st.SessionID, input.UserID); err != nil {
		return nil, err
	}

	// reject impossible transitions before claiming the slot; a claim for
	// a story that can never enter voting would stick to it forever
	if st.Status != models.StoryStatusVoting &&
		!models.ValidStoryTransition(st.Status, models.StoryStatusVoting) {
		return nil, ErrInvalidTransition
	}

	// the conditional write on the slot is what enforces one active story
	// per session under concurrent admins
	if err := s.storyRepo.ClaimActiveSlot(ctx, &storyRepo.ClaimActiveSlotInput{
		SessionID: st.SessionID,
		StoryID:   st.ID,
	}); err != nil {
		if errors.Is(err, storyRepo.ErrActiveStoryExists) {
			return nil, ErrActiveStoryExists
		}
		return nil, err
	}

	if st.Status == models.StoryStatusVoting {
		return &StartVotingOutput{Story: st}, nil
	}

	now := s.clock.Now()
	st.Status = models.StoryStatusVoting
	st.VotingStartedAt = &now

	if err := s.storyRepo.SaveStory(ctx, &storyRepo.SaveStoryInput{Story: st}); err != nil {
		return nil, fmt.Errorf("failed to save story: %w", err)
	}

	s.hub.Publish(events.Event{
		Type:      events.EventStoryChanged,
		SessionID: st.SessionID,
		StoryID:   st.ID,
		UserID:    input.UserID,
		At:        now,
	})

	return &StartVotingOutput{Story: st}, nil
}

func (s *service) StopVoting(ctx context.Context, input *StopVotingInput) (*StopVotingOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	st, err := s.GetStory(ctx, &GetStoryInput{StoryID: input.StoryID})
	if err != nil {
		return nil, err
	}

	if _, err := s.requireAdmin(ctx, st.SessionID, input.UserID); err != nil {
		return nil, err
	}

	// a manual stop racing the timer lands here after the timer already
	// stopped the round; treat it as done rather than failed
	if st.Status == models.StoryStatusPending {
		return &StopVotingOutput{Story: st}, nil
	}

	st, err = s.stopRound(ctx, st, input.UserID)
	if err != nil {
		return nil, err
	}

	return &StopVotingOutput{Story: st, Stopped: true}, nil
}

// stopRound moves a voting story to pending. Callers hold the authorization.
func (s *service) stopRound(ctx context.Context, st *models.Story, actorID string) (*models.Story, error) {
	if !models.ValidStoryTransition(st.Status, models.StoryStatusPending) {
		return nil, ErrInvalidTransition
	}

	st.Status = models.StoryStatusPending
	st.VotingStartedAt = nil

	if err := s.storyRepo.SaveStory(ctx, &storyRepo.SaveStoryInput{Story: st}); err != nil {
		return nil, fmt.Errorf("failed to save story: %w", err)
	}

	s.hub.Publish(events.Event{
		Type:      events.EventStoryChanged,
		SessionID: st.SessionID,
		StoryID:   st.ID,
		UserID:    actorID,
		At:        s.clock.Now(),
	})

	return st, nil
}

func (s *service) CompleteStory(ctx context.Context, input *CompleteStoryInput) (*CompleteStoryOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	st, err := s.GetStory(ctx, &GetStoryInput{StoryID: input.StoryID})
	if err != nil {
		return nil, err
	}

	if _, err := s.requireAdmin(ctx, st.SessionID, input.UserID); err != nil {
		return nil, err
	}

	if !models.ValidStoryTransition(st.Status, models.StoryStatusCompleted) {
		return nil, ErrInvalidTransition
	}

	points := 0
	switch {
	case input.Points != nil:
		points = *input.Points
	default:
		votes, err := s.voteRepo.GetStoryVotes(ctx, &voteRepo.GetStoryVotesInput{StoryID: st.ID})
		if err != nil {
			return nil, err
		}
		if verdict := consensus.Evaluate(votes.Votes).Verdict; verdict != nil {
			points = *verdict
		}
	}

	st.Status = models.StoryStatusCompleted
	st.Points = points
	st.VotingStartedAt = nil

	if err := s.storyRepo.SaveStory(ctx, &storyRepo.SaveStoryInput{Story: st}); err != nil {
		return nil, fmt.Errorf("failed to save story: %w", err)
	}

	if err := s.storyRepo.ReleaseActiveSlot(ctx, &storyRepo.ReleaseActiveSlotInput{
		SessionID: st.SessionID,
		StoryID:   st.ID,
	}); err != nil {
		s.logger.Warn("failed to release active story slot",
			zap.String("session_id", st.SessionID),
			zap.String("story_id", st.ID),
			zap.Error(err))
	}

	s.pushPointsToBoard(ctx, st)

	s.hub.Publish(events.Event{
		Type:      events.EventStoryChanged,
		SessionID: st.SessionID,
		StoryID:   st.ID,
		UserID:    input.UserID,
		At:        s.clock.Now(),
	})

	return &CompleteStoryOutput{Story: st}, nil
}

// pushPointsToBoard mirrors final points onto the linked issue. Best effort:
// the estimate is committed locally either way.
func (s *service) pushPointsToBoard(ctx context.Context, st *models.Story) {
	if s.boardClient == nil || st.ExternalKey == "" {
		return
	}

	if err := s.boardClient.SetStoryPoints(ctx, st.ExternalKey, st.Points); err != nil {
		s.logger.Warn("failed to push story points to board",
			zap.String("story_id", st.ID),
			zap.String("external_key", st.ExternalKey),
			zap.Int("points", st.Points),
			zap.Error(err))
	}
}

func (s *service) CastVote(ctx context.Context, input *CastVoteInput) (*CastVoteOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.Value == "" {
		return nil, errors.New("vote value cannot be empty")
	}

	st, err := s.GetStory(ctx, &GetStoryInput{StoryID: input.StoryID})
	if err != nil {
		return nil, err
	}

	if st.Status == models.StoryStatusCompleted {
		return nil, ErrStoryCompleted
	}

	if _, err := s.memberRepo.GetMember(ctx, &memberRepo.GetMemberInput{
		SessionID: st.SessionID,
		UserID:    input.UserID,
	}); err != nil {
		if errors.Is(err, memberRepo.ErrMemberNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}

	v := &models.Vote{
		StoryID: st.ID,
		UserID:  input.UserID,
		Name:    input.Name,
		Value:   input.Value,
		VotedAt: s.clock.Now(),
	}

	if err := s.voteRepo.SaveVote(ctx, &voteRepo.SaveVoteInput{Vote: v}); err != nil {
		return nil, fmt.Errorf("failed to save vote: %w", err)
	}

	s.hub.Publish(events.Event{
		Type:      events.EventVoteCast,
		SessionID: st.SessionID,
		StoryID:   st.ID,
		UserID:    input.UserID,
		At:        v.VotedAt,
	})

	return &CastVoteOutput{Vote: v}, nil
}

func (s *service) GetStoryVotes(ctx context.Context, input *GetStoryVotesInput) (*GetStoryVotesOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	st, err := s.GetStory(ctx, &GetStoryInput{StoryID: input.StoryID})
	if err != nil {
		return nil, err
	}

	votes, err := s.voteRepo.GetStoryVotes(ctx, &voteRepo.GetStoryVotesInput{StoryID: st.ID})
	if err != nil {
		return nil, err
	}

	members, err := s.memberRepo.GetSessionMembers(ctx, &memberRepo.GetSessionMembersInput{SessionID: st.SessionID})
	if err != nil {
		return nil, err
	}

	return &GetStoryVotesOutput{
		Votes:     votes.Votes,
		Summary:   consensus.Evaluate(votes.Votes),
		Unanimous: consensus.Unanimous(votes.Votes, members.Members),
	}, nil
}

func (s *service) GetUserVote(ctx context.Context, input *GetUserVoteInput) (*GetUserVoteOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	v, err := s.voteRepo.GetVote(ctx, &voteRepo.GetVoteInput{
		StoryID: input.StoryID,
		UserID:  input.UserID,
	})
	if err != nil {
		if errors.Is(err, voteRepo.ErrVoteNotFound) {
			return &GetUserVoteOutput{}, nil
		}
		return nil, err
	}

	return &GetUserVoteOutput{Vote: v}, nil
}

func (s *service) ResetVotes(ctx context.Context, input *ResetVotesInput) (*ResetVotesOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	st, err := s.GetStory(ctx, &GetStoryInput{StoryID: input.StoryID})
	if err != nil {
		return nil, err
	}

	if _, err := s.requireAdmin(ctx, st.SessionID, input.UserID); err != nil {
		return nil, err
	}

	if err := s.voteRepo.DeleteStoryVotes(ctx, &voteRepo.DeleteStoryVotesInput{StoryID: st.ID}); err != nil {
		return nil, fmt.Errorf("failed to delete votes: %w", err)
	}

	s.hub.Publish(events.Event{
		Type:      events.EventVotesReset,
		SessionID: st.SessionID,
		StoryID:   st.ID,
		UserID:    input.UserID,
		At:        s.clock.Now(),
	})

	return &ResetVotesOutput{Success: true}, nil
}

func (s *service) GetTimer(ctx context.Context, input *GetTimerInput) (*TimerState, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	settings, err := s.settings.GetEffectiveSettings(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	state := &TimerState{TimeLimit: settings.VotingTimeLimit}
	if !settings.TimedVoting {
		return state, nil
	}

	active, err := s.GetActiveStory(ctx, &GetActiveStoryInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}

	st := active.Story
	if st == nil || st.Status != models.StoryStatusVoting || st.VotingStartedAt == nil {
		return state, nil
	}

	elapsed := int(s.clock.Now().Sub(*st.VotingStartedAt).Seconds())
	remaining := settings.VotingTimeLimit - elapsed
	if remaining < 0 {
		remaining = 0
	}

	state.Running = true
	state.StoryID = st.ID
	state.Remaining = remaining

	return state, nil
}

func (s *service) CheckTimer(ctx context.Context, input *CheckTimerInput) (*CheckTimerOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	state, err := s.GetTimer(ctx, &GetTimerInput{SessionID: input.SessionID})
	if err != nil {
		return nil, err
	}

	if !state.Running || state.Remaining > 0 {
		return &CheckTimerOutput{}, nil
	}

	st, err := s.GetStory(ctx, &GetStoryInput{StoryID: state.StoryID})
	if err != nil {
		return nil, err
	}

	// another checker may have stopped the round between the read and now
	if st.Status != models.StoryStatusVoting {
		return &CheckTimerOutput{}, nil
	}

	if _, err := s.stopRound(ctx, st, ""); err != nil {
		return nil, err
	}

	return &CheckTimerOutput{Expired: true}, nil
}
