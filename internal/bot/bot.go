// Package bot implements the core bot lifecycle management and component
// orchestration.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/babinc0270-design/mirrormind-bot/internal/config"
	"github.com/babinc0270-design/mirrormind-bot/internal/database"
	"github.com/babinc0270-design/mirrormind-bot/internal/gemini"
	"github.com/babinc0270-design/mirrormind-bot/internal/server"
)

// Bot represents the main application and manages its components' lifecycle.
type Bot struct {
	logger       *slog.Logger
	cfg          *config.Config
	db           *sqlx.DB
	store        database.Store
	geminiClient gemini.Client
	tgBot        *tgbot.Bot
	httpServer   *server.Server
	scheduler    *Scheduler
}

// NewBot creates a new instance of the bot with all required dependencies.
func NewBot(
	logger *slog.Logger,
	cfg *config.Config,
	db *sqlx.DB,
	store database.Store,
	geminiClient gemini.Client,
	tgBot *tgbot.Bot,
	httpServer *server.Server,
	scheduler *Scheduler,
) *Bot {
	return &Bot{
		logger:       logger.With("component", "bot_orchestrator"),
		cfg:          cfg,
		db:           db,
		store:        store,
		geminiClient: geminiClient,
		tgBot:        tgBot,
		httpServer:   httpServer,
		scheduler:    scheduler,
	}
}

// Run starts the webhook listener, the HTTP server, and the scheduler,
// handling graceful shutdown on context cancellation. It returns an error if
// any component fails during startup or execution.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram webhook listener...")

		// StartWebhook consumes updates queued by the webhook HTTP handler
		// and dispatches each on its own goroutine.
		b.tgBot.StartWebhook(gCtx)
		b.logger.Info("Telegram webhook listener stopped.")

		if gCtx.Err() == nil {
			b.logger.Warn("Telegram webhook listener stopped unexpectedly without context cancellation.")
			return fmt.Errorf("telegram webhook listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		if err := b.httpServer.Run(gCtx); err != nil {
			b.logger.Error("HTTP server failed", "error", err)
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		b.logger.Info("Starting scheduler...")
		if err := b.scheduler.Start(); err != nil {
			b.logger.Error("Failed to start scheduler", "error", err)
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}

		return nil
	})

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
