package presence

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pointdeck/pointdeck/internal/common/clock"
	presenceRepo "github.com/pointdeck/pointdeck/internal/repositories/presence"
	sessionRepo "github.com/pointdeck/pointdeck/internal/repositories/session"
)

// Presence windows. A user is shown as active while their last heartbeat is
// within the threshold; heartbeats older than the retention are garbage.
const (
	DefaultActiveThreshold = 30 * time.Second
	DefaultRetention       = 5 * time.Minute
)

type service struct {
	presenceRepo presenceRepo.Repository
	sessionRepo  sessionRepo.Repository
	clock        clock.Clock
	logger       *zap.Logger
}

// Config holds the dependencies for the presence service
type Config struct {
	PresenceRepository presenceRepo.Repository
	SessionRepository  sessionRepo.Repository
	Clock              clock.Clock
	Logger             *zap.Logger
}

// New creates a new presence service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.PresenceRepository == nil {
		return nil, errors.New("presence repository cannot be nil")
	}

	if cfg.SessionRepository == nil {
		return nil, errors.New("session repository cannot be nil")
	}

	if cfg.Clock == nil {
		cfg.Clock = &clock.DefaultClock{}
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &service{
		presenceRepo: cfg.PresenceRepository,
		sessionRepo:  cfg.SessionRepository,
		clock:        cfg.Clock,
		logger:       cfg.Logger,
	}, nil
}

func (s *service) Heartbeat(ctx context.Context, input *HeartbeatInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	return s.presenceRepo.UpdatePresence(ctx, &presenceRepo.UpdatePresenceInput{
		SessionID: input.SessionID,
		UserID:    input.UserID,
		SeenAt:    s.clock.Now(),
	})
}

func (s *service) GetActiveUsers(ctx context.Context, input *GetActiveUsersInput) (*GetActiveUsersOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	threshold := input.Threshold
	if threshold <= 0 {
		threshold = DefaultActiveThreshold
	}

	out, err := s.presenceRepo.GetActiveUsers(ctx, &presenceRepo.GetActiveUsersInput{
		SessionID: input.SessionID,
		Cutoff:    s.clock.Now().Add(-threshold),
	})
	if err != nil {
		return nil, err
	}

	return &GetActiveUsersOutput{UserIDs: out.UserIDs}, nil
}

func (s *service) Cleanup(ctx context.Context, input *CleanupInput) (*CleanupOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	retention := input.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}

	out, err := s.presenceRepo.Cleanup(ctx, &presenceRepo.CleanupInput{
		SessionID: input.SessionID,
		Cutoff:    s.clock.Now().Add(-retention),
	})
	if err != nil {
		return nil, err
	}

	return &CleanupOutput{Removed: out.Removed}, nil
}

func (s *service) CleanupAll(ctx context.Context, input *CleanupAllInput) (*CleanupAllOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	sessions, err := s.sessionRepo.ListSessions(ctx, &sessionRepo.ListSessionsInput{})
	if err != nil {
		return nil, err
	}

	var removed int64
	for _, sess := range sessions.Sessions {
		out, err := s.Cleanup(ctx, &CleanupInput{
			SessionID: sess.ID,
			Retention: input.Retention,
		})
		if err != nil {
			s.logger.Warn("presence cleanup failed for session",
				zap.String("session_id", sess.ID),
				zap.Error(err))
			continue
		}
		removed += out.Removed
	}

	return &CleanupAllOutput{Removed: removed}, nil
}
