// Package httpapi exposes the planning service over HTTP. State-changing
// routes resolve the caller identity from headers and pass it into the
// services; authorization decisions live in the services, not here.
package httpapi

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pointdeck/pointdeck/internal/board"
	"github.com/pointdeck/pointdeck/internal/events"
	archiveService "github.com/pointdeck/pointdeck/internal/services/archive"
	presenceService "github.com/pointdeck/pointdeck/internal/services/presence"
	sessionService "github.com/pointdeck/pointdeck/internal/services/session"
	storyService "github.com/pointdeck/pointdeck/internal/services/story"
)

// Handler wires the services into gin routes
type Handler struct {
	sessions sessionService.Service
	stories  storyService.Service
	presence presenceService.Service
	archives archiveService.Service

	// boardClient is optional; board routes 404 without it
	boardClient board.Client

	hub    *events.Hub
	logger *zap.Logger
}

// Config holds the dependencies for the HTTP handler
type Config struct {
	SessionService  sessionService.Service
	StoryService    storyService.Service
	PresenceService presenceService.Service
	ArchiveService  archiveService.Service
	BoardClient     board.Client
	Hub             *events.Hub
	Logger          *zap.Logger
}

// New creates a new HTTP handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.SessionService == nil {
		return nil, errors.New("session service cannot be nil")
	}

	if cfg.StoryService == nil {
		return nil, errors.New("story service cannot be nil")
	}

	if cfg.PresenceService == nil {
		return nil, errors.New("presence service cannot be nil")
	}

	if cfg.ArchiveService == nil {
		return nil, errors.New("archive service cannot be nil")
	}

	if cfg.Hub == nil {
		return nil, errors.New("event hub cannot be nil")
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Handler{
		sessions:    cfg.SessionService,
		stories:     cfg.StoryService,
		presence:    cfg.PresenceService,
		archives:    cfg.ArchiveService,
		boardClient: cfg.BoardClient,
		hub:         cfg.Hub,
		logger:      cfg.Logger,
	}, nil
}

// RegisterRoutes mounts every route on the engine
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.Use(identityMiddleware())

	api.POST("/sessions", h.createSession)
	api.GET("/sessions", h.listMySessions)
	api.GET("/sessions/:id", h.getSession)
	api.POST("/sessions/:id/join", h.joinSession)
	api.POST("/sessions/:id/leave", h.leaveSession)
	api.POST("/sessions/:id/kick", h.kickMember)
	api.GET("/sessions/:id/members", h.getMembers)
	api.GET("/sessions/:id/settings", h.getSessionSettings)
	api.PATCH("/sessions/:id/settings", h.updateSessionSettings)
	api.GET("/sessions/:id/stories", h.getSessionStories)
	api.POST("/sessions/:id/stories", h.addStory)
	api.GET("/sessions/:id/active-story", h.getActiveStory)
	api.GET("/sessions/:id/timer", h.getTimer)
	api.POST("/sessions/:id/timer/check", h.checkTimer)
	api.POST("/sessions/:id/heartbeat", h.heartbeat)
	api.GET("/sessions/:id/active-users", h.getActiveUsers)
	api.POST("/sessions/:id/archive", h.archiveSession)
	api.GET("/sessions/:id/events", h.streamEvents)

	api.GET("/stories/:id", h.getStory)
	api.POST("/stories/:id/start-voting", h.startVoting)
	api.POST("/stories/:id/stop-voting", h.stopVoting)
	api.POST("/stories/:id/complete", h.completeStory)
	api.POST("/stories/:id/votes", h.castVote)
	api.GET("/stories/:id/votes", h.getStoryVotes)
	api.GET("/stories/:id/votes/me", h.getMyVote)
	api.DELETE("/stories/:id/votes", h.resetVotes)

	api.GET("/me/settings", h.getUserSettings)
	api.PATCH("/me/settings", h.updateUserSettings)

	api.GET("/archives", h.getArchivedSessions)
	api.GET("/archives/:id", h.getArchivedSession)

	api.GET("/boards/:id/issues", h.listBoardIssues)
}
