package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pointdeck/pointdeck/internal/config"
	"github.com/pointdeck/pointdeck/internal/handlers/httpapi"
	archiveService "github.com/pointdeck/pointdeck/internal/services/archive"
	presenceService "github.com/pointdeck/pointdeck/internal/services/presence"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the planning session API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	handler, err := httpapi.New(&httpapi.Config{
		SessionService:  a.sessions,
		StoryService:    a.stories,
		PresenceService: a.presence,
		ArchiveService:  a.archives,
		BoardClient:     a.boardClient,
		Hub:             a.hub,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go a.runSweeper(ctx)
	go a.runPresenceCleaner(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// runSweeper archives abandoned sessions on a fixed interval
func (a *app) runSweeper(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			out, err := a.archives.SweepStale(ctx, &archiveService.SweepStaleInput{
				OlderThan: a.cfg.SweepAge,
			})
			if err != nil {
				a.logger.Error("stale session sweep failed", zap.Error(err))
				continue
			}
			if out.ArchivedCount > 0 || len(out.Errors) > 0 {
				a.logger.Info("stale session sweep finished",
					zap.Int("archived", out.ArchivedCount),
					zap.Int("failed", len(out.Errors)))
			}
		}
	}
}

// runPresenceCleaner drops stale heartbeats on a fixed interval
func (a *app) runPresenceCleaner(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.PresenceCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			out, err := a.presence.CleanupAll(ctx, &presenceService.CleanupAllInput{})
			if err != nil {
				a.logger.Error("presence cleanup failed", zap.Error(err))
				continue
			}
			if out.Removed > 0 {
				a.logger.Debug("presence cleanup finished", zap.Int64("removed", out.Removed))
			}
		}
	}
}
