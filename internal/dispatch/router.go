// Package dispatch routes inbound messages by content kind: language
// selection, conversational text, photo, voice/audio, and video. It decides
// which persona instructions to inject, where derived state is persisted,
// and guarantees exactly one reply per handled message.
//
// The unset-preference policy is intentionally asymmetric, matching the
// bot's established behavior: text messages are blocked behind the language
// selection prompt, while photo and audio silently default to English.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/babinc0270-design/mirrormind-bot/internal/config"
	"github.com/babinc0270-design/mirrormind-bot/internal/database"
	"github.com/babinc0270-design/mirrormind-bot/internal/gemini"
	"github.com/babinc0270-design/mirrormind-bot/internal/language"
	"github.com/babinc0270-design/mirrormind-bot/internal/prompt"
)

const (
	generationTimeout = 2 * time.Minute
	dbSaveTimeout     = 5 * time.Second
)

// Conversation is the outbound side of one inbound message. Exactly one of
// its methods is invoked per handled message.
type Conversation interface {
	// Reply sends a plain text reply to the originating user.
	Reply(ctx context.Context, text string) error

	// PromptSelection sends a reply together with the language selection keyboard.
	PromptSelection(ctx context.Context, text string) error
}

// Media carries retrieved binary content with its MIME type.
type Media struct {
	Data     []byte
	MIMEType string
}

// Router dispatches inbound messages to the matching handling routine.
// All collaborators are injected at construction time.
type Router struct {
	log   *slog.Logger
	store database.Store
	gen   gemini.Client
	msgs  config.MessagesConfig
}

// NewRouter creates a dispatch router with its injected dependencies.
func NewRouter(log *slog.Logger, store database.Store, gen gemini.Client, msgs config.MessagesConfig) *Router {
	return &Router{
		log:   log.With("component", "dispatch"),
		store: store,
		gen:   gen,
		msgs:  msgs,
	}
}

// Start handles the /start command: new users get the language selection
// prompt, returning users get a greeting.
func (r *Router) Start(ctx context.Context, conv Conversation, userID int64) {
	pref, err := r.store.GetPreference(ctx, userID)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to look up preference for /start", "user_id", userID, "error", err)
		r.reply(ctx, conv, r.msgs.TextError)
		return
	}

	if pref == nil {
		r.promptSelection(ctx, conv, r.msgs.SelectLanguage)
		return
	}

	r.reply(ctx, conv, r.msgs.Greeting)
}

// Language handles the /language command: always present the selection keyboard.
func (r *Router) Language(ctx context.Context, conv Conversation) {
	r.promptSelection(ctx, conv, r.msgs.SelectLanguage)
}

// Text handles a plain text message. Selection text updates the stored
// preference and is consumed; conversational text requires an existing
// preference and is relayed to the generation service, with a log row
// written only on generation success.
func (r *Router) Text(ctx context.Context, conv Conversation, userID int64, text string) {
	if tag, ok := language.Normalize(text); ok {
		if err := r.store.SetPreference(ctx, userID, string(tag)); err != nil {
			r.log.ErrorContext(ctx, "Failed to persist language selection", "user_id", userID, "error", err)
			r.reply(ctx, conv, r.msgs.TextError)
			return
		}
		r.log.InfoContext(ctx, "Language preference updated", "user_id", userID, "language", tag)
		r.reply(ctx, conv, fmt.Sprintf(r.msgs.LanguageSet, tag))
		return
	}

	pref, err := r.store.GetPreference(ctx, userID)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to look up preference", "user_id", userID, "error", err)
		r.reply(ctx, conv, r.msgs.TextError)
		return
	}
	if pref == nil {
		r.promptSelection(ctx, conv, r.msgs.SelectFirst)
		return
	}

	segments := prompt.Text(language.Instruction(language.Tag(pref.Language)), text)

	response, err := r.generate(ctx, segments)
	if err != nil {
		r.log.ErrorContext(ctx, "Text generation failed", "user_id", userID, "error", err)
		r.reply(ctx, conv, r.msgs.TextError)
		return
	}

	r.logMessage(ctx, userID, text)
	r.reply(ctx, conv, response)
}

// Photo handles a photo message. Language silently defaults to English when
// no preference is stored; no log row is written for media.
func (r *Router) Photo(ctx context.Context, conv Conversation, userID int64, media Media) {
	mimeType := media.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	instruction := language.Instruction(r.resolveLanguage(ctx, userID))
	segments := prompt.Media(instruction, prompt.ImageHint, media.Data, mimeType)

	response, err := r.generate(ctx, segments)
	if err != nil {
		r.log.ErrorContext(ctx, "Image analysis failed", "user_id", userID, "error", err)
		r.reply(ctx, conv, r.msgs.ImageError)
		return
	}

	r.reply(ctx, conv, response)
}

// Audio handles a voice or audio message, defaulting the language to English
// when unset and the MIME type to audio/ogg when the platform omits it.
func (r *Router) Audio(ctx context.Context, conv Conversation, userID int64, media Media) {
	mimeType := media.MIMEType
	if mimeType == "" {
		mimeType = "audio/ogg"
	}

	instruction := language.Instruction(r.resolveLanguage(ctx, userID))
	segments := prompt.Media(instruction, prompt.AudioHint, media.Data, mimeType)

	response, err := r.generate(ctx, segments)
	if err != nil {
		r.log.ErrorContext(ctx, "Audio analysis failed", "user_id", userID, "error", err)
		r.reply(ctx, conv, r.msgs.AudioError)
		return
	}

	r.reply(ctx, conv, response)
}

// Video always replies with the static unsupported-content message. No
// generation call is made and nothing is persisted.
func (r *Router) Video(ctx context.Context, conv Conversation) {
	r.reply(ctx, conv, r.msgs.VideoUnsupported)
}

// resolveLanguage returns the stored preference or English. Lookup errors
// degrade to English as well: media handling never blocks on the store.
func (r *Router) resolveLanguage(ctx context.Context, userID int64) language.Tag {
	pref, err := r.store.GetPreference(ctx, userID)
	if err != nil {
		r.log.WarnContext(ctx, "Preference lookup failed, defaulting to English", "user_id", userID, "error", err)
		return language.English
	}
	if pref == nil {
		return language.English
	}
	return language.Tag(pref.Language)
}

func (r *Router) generate(ctx context.Context, segments []gemini.Segment) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()
	return r.gen.Generate(genCtx, segments)
}

// logMessage appends a message log row with a short retry, so a transient
// write failure does not silently drop the record.
func (r *Router) logMessage(ctx context.Context, userID int64, text string) {
	msg := &database.Message{
		UserID:    userID,
		Content:   text,
		Timestamp: time.Now().UTC(),
	}

	const maxRetries = 3
	var err error
	for i := range maxRetries {
		if ctx.Err() != nil {
			r.log.WarnContext(ctx, "Context cancelled, aborting message log save",
				"error", ctx.Err(), "user_id", userID, "attempt", i+1)
			return
		}

		dbCtx, cancel := context.WithTimeout(ctx, dbSaveTimeout)
		err = r.store.SaveMessage(dbCtx, msg)
		cancel()

		if err == nil {
			r.log.DebugContext(ctx, "Message logged", "db_message_id", msg.ID, "user_id", userID)
			return
		}

		r.log.ErrorContext(ctx, "Failed to log message, retrying", "error", err, "user_id", userID, "attempt", i+1)
		time.Sleep(time.Duration(500*(i+1)) * time.Millisecond)
	}

	r.log.ErrorContext(ctx, "Failed to log message after retries", "last_error", err, "user_id", userID)
}

func (r *Router) reply(ctx context.Context, conv Conversation, text string) {
	if err := conv.Reply(ctx, text); err != nil {
		r.log.ErrorContext(ctx, "Failed to send reply", "error", err)
	}
}

func (r *Router) promptSelection(ctx context.Context, conv Conversation, text string) {
	if err := conv.PromptSelection(ctx, text); err != nil {
		r.log.ErrorContext(ctx, "Failed to send language selection prompt", "error", err)
	}
}
