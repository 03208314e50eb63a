package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pointdeck/pointdeck/internal/config"
	archiveService "github.com/pointdeck/pointdeck/internal/services/archive"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Archive stale sessions once and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSweep(cmd.Context())
	},
}

func runSweep(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	out, err := a.archives.SweepStale(ctx, &archiveService.SweepStaleInput{
		OlderThan: cfg.SweepAge,
	})
	if err != nil {
		return err
	}

	for _, sweepErr := range out.Errors {
		logger.Warn("session could not be archived",
			zap.String("session_id", sweepErr.SessionID),
			zap.Error(sweepErr.Err))
	}

	logger.Info("sweep finished",
		zap.Int("archived", out.ArchivedCount),
		zap.Int("failed", len(out.Errors)))

	return nil
}
