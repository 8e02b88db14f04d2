// Command matcher is the long-running service: it polls Telegram for intake
// conversations and sweeps active reports for visual matches on a fixed
// interval. SIGINT/SIGTERM trigger a graceful shutdown that waits for an
// in-flight sweep.
//
// Exit codes: 0 = clean shutdown, 1 = startup or runtime error.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/pawtrail/petmatch-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("matcher: %v", err)
	}
}
