package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewLanguageHandler returns a handler for the /language command, which
// unconditionally presents the language selection keyboard.
func NewLanguageHandler(deps HandlerDeps) bot.HandlerFunc {
	return languageHandler{deps}.Handle
}

type languageHandler struct {
	deps HandlerDeps
}

func (h languageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "language")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Language handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	log.InfoContext(ctx, "Handling /language command", "chat_id", update.Message.Chat.ID, "user_id", update.Message.From.ID)

	h.deps.Router.Language(ctx, newConversation(b, update.Message.Chat.ID))
}
