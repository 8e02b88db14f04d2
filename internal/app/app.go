package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pawtrail/petmatch-backend/internal/adapter/embedding"
	"github.com/pawtrail/petmatch-backend/internal/adapter/postgres"
	notificationrepo "github.com/pawtrail/petmatch-backend/internal/adapter/postgres/notification"
	reportrepo "github.com/pawtrail/petmatch-backend/internal/adapter/postgres/report"
	sessionrepo "github.com/pawtrail/petmatch-backend/internal/adapter/postgres/session"
	userrepo "github.com/pawtrail/petmatch-backend/internal/adapter/postgres/user"
	"github.com/pawtrail/petmatch-backend/internal/adapter/telegram"
	"github.com/pawtrail/petmatch-backend/internal/config"
	"github.com/pawtrail/petmatch-backend/internal/service/intake"
	"github.com/pawtrail/petmatch-backend/internal/service/matching"
	"github.com/pawtrail/petmatch-backend/internal/service/notify"
	"github.com/pawtrail/petmatch-backend/internal/service/sweep"
)

// Run is the matcher entry point. It loads configuration, connects to the
// database and the inference server, wires the services, and runs the sweep
// scheduler alongside the intake bot until the context is cancelled.
//
// The inference server is pinged once at startup; an unreachable model is
// fatal. There is no degraded no-matching mode.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting matcher",
		slog.String("version", BuildVersion()),
		slog.String("model", cfg.Embedding.Model),
		slog.Duration("sweep_interval", cfg.Matching.SweepInterval),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	embedder := embedding.New(cfg.Embedding)
	if err := embedder.Ping(ctx); err != nil {
		return fmt.Errorf("embedding model unavailable: %w", err)
	}

	reports := reportrepo.New(pool)
	users := userrepo.New(pool)
	notifications := notificationrepo.New(pool)
	sessions := sessionrepo.New(pool)
	tx := postgres.NewTxManager(pool)

	bot := telegram.New(cfg.Telegram)

	matchingSvc := matching.NewService(logger, reports, embedder, cfg.Matching)
	notifySvc := notify.NewService(logger, notifications, reports, users, tx, bot, cfg.Matching)
	sweepSvc := sweep.NewService(logger, reports, matchingSvc, notifySvc, cfg.Matching)
	intakeSvc := intake.NewService(logger, sessions, users, reports, tx, bot, bot)

	scheduler := sweep.NewScheduler(logger, sweepSvc, cfg.Matching.SweepInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	poller := telegram.NewPoller(logger, bot, intakeSvc)
	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("update poller stopped: %w", err)
	}

	logger.Info("matcher shut down")
	return nil
}
