// Package main contains the entrypoint for the MirrorMind Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/babinc0270-design/mirrormind-bot/internal/bot"
	"github.com/babinc0270-design/mirrormind-bot/internal/bot/handlers"
	"github.com/babinc0270-design/mirrormind-bot/internal/bot/tasks"
	"github.com/babinc0270-design/mirrormind-bot/internal/config"
	"github.com/babinc0270-design/mirrormind-bot/internal/database"
	"github.com/babinc0270-design/mirrormind-bot/internal/dispatch"
	"github.com/babinc0270-design/mirrormind-bot/internal/gemini"
	"github.com/babinc0270-design/mirrormind-bot/internal/logger"
	"github.com/babinc0270-design/mirrormind-bot/internal/server"
	"github.com/babinc0270-design/mirrormind-bot/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db,
// ai client, webhook server, scheduler), handles graceful shutdown, and
// returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	gemClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	router := dispatch.NewRouter(log, store, gemClient, cfg.Messages)

	hDeps := handlers.HandlerDeps{
		Logger: log,
		Config: cfg,
		Router: router,
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewMessageHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	if err := telegram.RegisterWebhook(ctx, tg, log, cfg.Server.WebhookURL, cfg.Server.WebhookPath); err != nil {
		log.Error("Failed to register webhook", "error", err)
		return 1
	}

	httpSrv := server.New(cfg.Server.Listen, cfg.Server.WebhookPath, tg.WebhookHandler(), store, log)

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, db, store, gemClient, tg, httpSrv, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
