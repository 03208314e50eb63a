package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pointdeck/pointdeck/internal/board"
	"github.com/pointdeck/pointdeck/internal/config"
	"github.com/pointdeck/pointdeck/internal/events"
	archiveRepo "github.com/pointdeck/pointdeck/internal/repositories/archive"
	memberRepo "github.com/pointdeck/pointdeck/internal/repositories/member"
	presenceRepo "github.com/pointdeck/pointdeck/internal/repositories/presence"
	sessionRepo "github.com/pointdeck/pointdeck/internal/repositories/session"
	settingsRepo "github.com/pointdeck/pointdeck/internal/repositories/settings"
	storyRepo "github.com/pointdeck/pointdeck/internal/repositories/story"
	voteRepo "github.com/pointdeck/pointdeck/internal/repositories/vote"
	archiveService "github.com/pointdeck/pointdeck/internal/services/archive"
	presenceService "github.com/pointdeck/pointdeck/internal/services/presence"
	sessionService "github.com/pointdeck/pointdeck/internal/services/session"
	storyService "github.com/pointdeck/pointdeck/internal/services/story"
)

// app bundles the wired services and everything that needs closing
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	redisClient *redis.Client
	store       archiveRepo.Store
	hub         *events.Hub
	boardClient board.Client

	sessions sessionService.Service
	stories  storyService.Service
	presence presenceService.Service
	archives archiveService.Service
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildApp wires repositories and services from configuration
func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: redisClient})
	if err != nil {
		return nil, fmt.Errorf("create session repository: %w", err)
	}

	members, err := memberRepo.NewRedis(&memberRepo.Config{RedisClient: redisClient})
	if err != nil {
		return nil, fmt.Errorf("create member repository: %w", err)
	}

	stories, err := storyRepo.NewRedis(&storyRepo.Config{RedisClient: redisClient})
	if err != nil {
		return nil, fmt.Errorf("create story repository: %w", err)
	}

	votes, err := voteRepo.NewRedis(&voteRepo.Config{RedisClient: redisClient})
	if err != nil {
		return nil, fmt.Errorf("create vote repository: %w", err)
	}

	presence, err := presenceRepo.NewRedis(&presenceRepo.Config{RedisClient: redisClient})
	if err != nil {
		return nil, fmt.Errorf("create presence repository: %w", err)
	}

	settings, err := settingsRepo.NewRedis(&settingsRepo.Config{RedisClient: redisClient})
	if err != nil {
		return nil, fmt.Errorf("create settings repository: %w", err)
	}

	store, err := archiveRepo.Open(cfg.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive store: %w", err)
	}

	hub := events.NewHub(logger)

	var boardClient board.Client
	if cfg.BoardBaseURL != "" {
		boardClient, err = board.NewHTTPClient(&board.Config{
			BaseURL: cfg.BoardBaseURL,
			Token:   cfg.BoardToken,
		})
		if err != nil {
			return nil, fmt.Errorf("create board client: %w", err)
		}
	}

	sessionSvc, err := sessionService.New(&sessionService.Config{
		SessionRepository:  sessions,
		MemberRepository:   members,
		PresenceRepository: presence,
		SettingsRepository: settings,
		StoryRepository:    stories,
		ArchiveStore:       store,
		Hub:                hub,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create session service: %w", err)
	}

	storySvc, err := storyService.New(&storyService.Config{
		StoryRepository:   stories,
		VoteRepository:    votes,
		SessionRepository: sessions,
		MemberRepository:  members,
		SettingsProvider:  sessionSvc,
		BoardClient:       boardClient,
		Hub:               hub,
		Logger:            logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create story service: %w", err)
	}

	presenceSvc, err := presenceService.New(&presenceService.Config{
		PresenceRepository: presence,
		SessionRepository:  sessions,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create presence service: %w", err)
	}

	archiveSvc, err := archiveService.New(&archiveService.Config{
		SessionRepository:  sessions,
		MemberRepository:   members,
		StoryRepository:    stories,
		VoteRepository:     votes,
		PresenceRepository: presence,
		SettingsRepository: settings,
		ArchiveStore:       store,
		Hub:                hub,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create archive service: %w", err)
	}

	return &app{
		cfg:         cfg,
		logger:      logger,
		redisClient: redisClient,
		store:       store,
		hub:         hub,
		boardClient: boardClient,
		sessions:    sessionSvc,
		stories:     storySvc,
		presence:    presenceSvc,
		archives:    archiveSvc,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close archive store", zap.Error(err))
	}
	if err := a.redisClient.Close(); err != nil {
		a.logger.Warn("failed to close redis client", zap.Error(err))
	}
}
