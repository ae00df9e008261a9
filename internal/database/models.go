package database

import (
	"database/sql"
	"time"
)

// UserPreference stores a user's chosen response language. There is at most
// one row per user; a later selection overwrites the earlier one.
type UserPreference struct {
	UserID    int64     `db:"user_id"`
	Language  string    `db:"language"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Message is one logged user text submission. Rows are append-only and are
// written only after a successful generation for a text message.
type Message struct {
	ID        uint      `db:"id"`
	UserID    int64     `db:"user_id"`
	Content   string    `db:"content"`
	Timestamp time.Time `db:"timestamp"`
	CreatedAt time.Time `db:"created_at"`

	// MoodScore is reserved for sentiment scoring and has no writer yet.
	MoodScore sql.NullInt64 `db:"mood_score"`
}
