// Command sweep runs exactly one matching pass and exits. It is intended to
// be invoked by an external cron job as an alternative to the in-process
// scheduler of the matcher service.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/pawtrail/petmatch-backend/internal/adapter/embedding"
	"github.com/pawtrail/petmatch-backend/internal/adapter/postgres"
	notificationrepo "github.com/pawtrail/petmatch-backend/internal/adapter/postgres/notification"
	reportrepo "github.com/pawtrail/petmatch-backend/internal/adapter/postgres/report"
	userrepo "github.com/pawtrail/petmatch-backend/internal/adapter/postgres/user"
	"github.com/pawtrail/petmatch-backend/internal/adapter/telegram"
	"github.com/pawtrail/petmatch-backend/internal/app"
	"github.com/pawtrail/petmatch-backend/internal/config"
	"github.com/pawtrail/petmatch-backend/internal/service/matching"
	"github.com/pawtrail/petmatch-backend/internal/service/notify"
	"github.com/pawtrail/petmatch-backend/internal/service/sweep"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	embedder := embedding.New(cfg.Embedding)
	if err := embedder.Ping(ctx); err != nil {
		logger.Error("embedding model unavailable", slog.String("error", err.Error()))
		os.Exit(1)
	}

	reports := reportrepo.New(pool)
	users := userrepo.New(pool)
	notifications := notificationrepo.New(pool)
	tx := postgres.NewTxManager(pool)
	bot := telegram.New(cfg.Telegram)

	matchingSvc := matching.NewService(logger, reports, embedder, cfg.Matching)
	notifySvc := notify.NewService(logger, notifications, reports, users, tx, bot, cfg.Matching)
	sweepSvc := sweep.NewService(logger, reports, matchingSvc, notifySvc, cfg.Matching)

	if err := sweepSvc.Run(ctx); err != nil {
		logger.Error("sweep failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
