package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/babinc0270-design/mirrormind-bot/internal/language"
)

const sendMessageTimeout = 10 * time.Second

// conversation adapts a Telegram chat to the dispatch.Conversation interface.
type conversation struct {
	b      *bot.Bot
	chatID int64
}

func newConversation(b *bot.Bot, chatID int64) conversation {
	return conversation{b: b, chatID: chatID}
}

// Reply sends a plain text message back to the originating chat.
func (c conversation) Reply(ctx context.Context, text string) error {
	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	_, err := c.b.SendMessage(sendCtx, &bot.SendMessageParams{
		ChatID: c.chatID,
		Text:   text,
	})
	return err
}

// PromptSelection sends a message with the language selection reply keyboard.
func (c conversation) PromptSelection(ctx context.Context, text string) error {
	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	_, err := c.b.SendMessage(sendCtx, &bot.SendMessageParams{
		ChatID:      c.chatID,
		Text:        text,
		ReplyMarkup: selectionKeyboard(),
	})
	return err
}

// selectionKeyboard builds the one-time reply keyboard with one language per row.
func selectionKeyboard() *models.ReplyKeyboardMarkup {
	opts := language.Options()
	rows := make([][]models.KeyboardButton, 0, len(opts))
	for _, label := range opts {
		rows = append(rows, []models.KeyboardButton{{Text: label}})
	}
	return &models.ReplyKeyboardMarkup{
		Keyboard:        rows,
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}
