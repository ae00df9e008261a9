package handlers

import (
	"log/slog"

	"github.com/babinc0270-design/mirrormind-bot/internal/config"
	"github.com/babinc0270-design/mirrormind-bot/internal/dispatch"
)

// HandlerDeps provides dependencies for Telegram command and message handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Router *dispatch.Router
}
