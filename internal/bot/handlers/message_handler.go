package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/babinc0270-design/mirrormind-bot/internal/dispatch"
)

// NewMessageHandler returns the default handler that classifies an inbound
// message by content kind (text, photo, voice/audio, video) and invokes the
// matching dispatch routine.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "message")

	msg := update.Message
	if msg == nil || msg.From == nil {
		log.DebugContext(ctx, "Ignoring update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := msg.Chat.ID
	userID := msg.From.ID
	conv := newConversation(b, chatID)

	switch {
	case len(msg.Photo) > 0:
		h.handlePhoto(ctx, b, conv, userID, msg.Photo)

	case msg.Voice != nil:
		h.handleMedia(ctx, b, conv, userID, msg.Voice.FileID, msg.Voice.MimeType, h.deps.Router.Audio, h.deps.Config.Messages.AudioError)

	case msg.Audio != nil:
		h.handleMedia(ctx, b, conv, userID, msg.Audio.FileID, msg.Audio.MimeType, h.deps.Router.Audio, h.deps.Config.Messages.AudioError)

	case msg.Video != nil:
		h.deps.Router.Video(ctx, conv)

	case msg.Text != "":
		// Unknown commands have no handler; they are dropped like in bots
		// that filter commands out of the plain-text route.
		if strings.HasPrefix(msg.Text, "/") {
			log.DebugContext(ctx, "Ignoring unrecognized command", "chat_id", chatID, "text", msg.Text)
			return
		}
		h.deps.Router.Text(ctx, conv, userID, msg.Text)

	default:
		log.DebugContext(ctx, "Ignoring message with unsupported content", "chat_id", chatID, "message_id", msg.ID)
	}
}

// handlePhoto retrieves the highest-resolution photo variant and hands its
// bytes to the dispatch router.
func (h messageHandler) handlePhoto(ctx context.Context, b *bot.Bot, conv conversation, userID int64, photoSizes []models.PhotoSize) {
	log := h.deps.Logger.With("handler", "message")

	var bestPhoto models.PhotoSize
	bestQuality := 0
	for _, photo := range photoSizes {
		quality := photo.Width * photo.Height
		if quality > bestQuality {
			bestQuality = quality
			bestPhoto = photo
		}
	}

	data, _, err := DownloadFile(ctx, b, h.deps.Config.Telegram.Token, bestPhoto.FileID)
	if err != nil {
		log.ErrorContext(ctx, "Photo download failed", "error", err, "user_id", userID, "file_id", bestPhoto.FileID)
		if replyErr := conv.Reply(ctx, h.deps.Config.Messages.ImageError); replyErr != nil {
			log.ErrorContext(ctx, "Failed to send download error message", "error", replyErr)
		}
		return
	}

	// Telegram re-encodes all photo uploads as JPEG.
	h.deps.Router.Photo(ctx, conv, userID, dispatch.Media{Data: data, MIMEType: "image/jpeg"})
}

// handleMedia downloads a voice or audio file and hands it to the given
// dispatch routine. The platform-declared MIME type takes priority over the
// sniffed one; the router applies the audio/ogg default when both are empty.
func (h messageHandler) handleMedia(
	ctx context.Context,
	b *bot.Bot,
	conv conversation,
	userID int64,
	fileID, declaredMIME string,
	route func(context.Context, dispatch.Conversation, int64, dispatch.Media),
	errorMsg string,
) {
	log := h.deps.Logger.With("handler", "message")

	data, detectedMIME, err := DownloadFile(ctx, b, h.deps.Config.Telegram.Token, fileID)
	if err != nil {
		log.ErrorContext(ctx, "Media download failed", "error", err, "user_id", userID, "file_id", fileID)
		if replyErr := conv.Reply(ctx, errorMsg); replyErr != nil {
			log.ErrorContext(ctx, "Failed to send download error message", "error", replyErr)
		}
		return
	}

	mimeType := declaredMIME
	if mimeType == "" {
		mimeType = detectedMIME
	}

	route(ctx, conv, userID, dispatch.Media{Data: data, MIMEType: mimeType})
}
