package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetPreference retrieves a user's language preference.
	// Returns nil, nil if the user has never selected a language.
	GetPreference(ctx context.Context, userID int64) (*UserPreference, error)

	// SetPreference inserts or updates a user's language preference (last-write-wins).
	SetPreference(ctx context.Context, userID int64, language string) error

	// SaveMessage appends a new message log record.
	SaveMessage(ctx context.Context, message *Message) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetPreference retrieves a user's language preference by user ID.
func (s *sqlxStore) GetPreference(ctx context.Context, userID int64) (*UserPreference, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var pref UserPreference
	query := `SELECT user_id, language, created_at, updated_at FROM users WHERE user_id = ?`

	err := s.db.GetContext(ctx, &pref, query, userID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Not found is expected for users who never selected a language.
		s.logger.DebugContext(ctx, "No language preference found", "user_id", userID)
		return nil, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching preference",
			"user_id", userID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting language preference", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get preference for user ID %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "Retrieved language preference", "user_id", userID, "language", pref.Language)
	return &pref, nil
}

// SetPreference inserts or updates a user's language preference.
// The upsert is a single statement, so no explicit transaction is needed.
func (s *sqlxStore) SetPreference(ctx context.Context, userID int64, language string) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}
	if language == "" {
		return fmt.Errorf("language cannot be empty")
	}

	now := time.Now().UTC()
	query := `
        INSERT INTO users (user_id, language, created_at, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(user_id)
        DO UPDATE SET language = excluded.language, updated_at = excluded.updated_at;
    `

	result, err := s.db.ExecContext(ctx, query, userID, language, now, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving language preference",
			"user_id", userID, "language", language, "error", err)
		return fmt.Errorf("failed to save preference for user ID %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when saving preference",
			"user_id", userID, "affected", affected)
	}

	s.logger.DebugContext(ctx, "Language preference saved", "user_id", userID, "language", language)
	return nil
}

// SaveMessage appends a new message log record.
func (s *sqlxStore) SaveMessage(ctx context.Context, message *Message) error {
	if message == nil {
		return fmt.Errorf("cannot save nil message")
	}
	if message.UserID == 0 {
		return fmt.Errorf("message must have a non-zero user_id")
	}
	if message.Content == "" {
		return fmt.Errorf("message must have non-empty content")
	}
	if message.Timestamp.IsZero() {
		return fmt.Errorf("message must have a non-zero timestamp")
	}

	message.CreatedAt = time.Now().UTC()

	query := `
        INSERT INTO messages (user_id, content, mood_score, timestamp, created_at)
        VALUES (:user_id, :content, :mood_score, :timestamp, :created_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving message", "user_id", message.UserID, "error", err)
		return fmt.Errorf("failed to save message (user %d): %w", message.UserID, err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		message.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving message",
			"user_id", message.UserID, "error", err)
	}

	s.logger.DebugContext(ctx, "Message saved successfully",
		"user_id", message.UserID, "message_id", message.ID)
	return nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}
