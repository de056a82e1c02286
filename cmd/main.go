package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/aporte/internal/adapters/http/api"
	"github.com/okian/aporte/internal/adapters/store"
	"github.com/okian/aporte/internal/adapters/telegram"
	app "github.com/okian/aporte/internal/app"
	"github.com/okian/aporte/internal/config"
	"github.com/okian/aporte/internal/domain/period"
	"github.com/okian/aporte/internal/domain/scoring"
	"github.com/okian/aporte/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second

	// Standings and history request limits share one cap.
	maxQueryLimit = 1000
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Select the period cadence.
	var clock period.Clock
	switch cfg.Cadence {
	case config.CadenceRolling:
		clock = period.NewRollingClock()
	default:
		clock = period.NewHalfMonthClock()
	}

	// Wire stores and the engine.
	ledger := store.NewFileLedger(cfg.LedgerPath())
	archive := store.NewFileArchive(cfg.ArchivePath())

	engine := app.New(ledger, archive,
		app.WithLogger(log),
		app.WithClock(clock),
		app.WithHistoryTopN(cfg.HistoryTopN),
		app.WithScoringPolicy(scoring.NewResolutionPolicy(
			scoring.WithBaseAward(cfg.BaseAward),
			scoring.WithBonusAward(cfg.BonusAward),
			scoring.WithBonusThreshold(cfg.BonusThreshold),
		)),
	)
	if err := engine.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start engine: " + err.Error() + "\n")
		return
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(engine, engine, maxQueryLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Start the telegram transport when a token is configured.
	if cfg.TelegramToken != "" {
		client, err := telegram.NewClient(cfg.TelegramToken)
		if err != nil {
			os.Stderr.WriteString("failed to create telegram client: " + err.Error() + "\n")
			return
		}

		go func() {
			if me, err := client.GetMe(ctx); err != nil {
				log.Warn(ctx, "telegram probe failed", logger.Error(err))
			} else {
				log.Info(ctx, "telegram bot connected", logger.String("username", me.Username))
			}

			router := telegram.NewRouter(engine, client)
			poller := telegram.NewPoller(client, router,
				telegram.WithPollTimeout(cfg.TelegramPollTimeoutSec),
				telegram.WithQueueSize(cfg.UpdateQueueSize),
			)
			if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error(ctx, "telegram poller stopped", logger.Error(err))
			}
		}()
	}

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
