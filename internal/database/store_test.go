package database_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/babinc0270-design/mirrormind-bot/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewDB(dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return database.NewStore(db, log)
}

func TestPreferenceRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	pref, err := store.GetPreference(ctx, 42)
	if err != nil {
		t.Fatalf("GetPreference() error = %v", err)
	}
	if pref != nil {
		t.Fatalf("expected nil preference for unknown user, got %+v", pref)
	}

	if err := store.SetPreference(ctx, 42, "Hindi"); err != nil {
		t.Fatalf("SetPreference() error = %v", err)
	}

	pref, err = store.GetPreference(ctx, 42)
	if err != nil {
		t.Fatalf("GetPreference() after set error = %v", err)
	}
	if pref == nil || pref.Language != "Hindi" {
		t.Fatalf("round-trip preference = %+v, want Hindi", pref)
	}
}

func TestSetPreferenceLastWriteWins(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetPreference(ctx, 42, "English"); err != nil {
		t.Fatalf("first SetPreference() error = %v", err)
	}
	if err := store.SetPreference(ctx, 42, "Bengalish"); err != nil {
		t.Fatalf("second SetPreference() error = %v", err)
	}

	pref, err := store.GetPreference(ctx, 42)
	if err != nil {
		t.Fatalf("GetPreference() error = %v", err)
	}
	if pref == nil || pref.Language != "Bengalish" {
		t.Fatalf("preference = %+v, want Bengalish (last write wins)", pref)
	}
}

func TestSetPreferenceValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetPreference(ctx, 0, "English"); err == nil {
		t.Errorf("expected error for zero user_id")
	}
	if err := store.SetPreference(ctx, 42, ""); err == nil {
		t.Errorf("expected error for empty language")
	}
}

func TestSaveMessage(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	msg := &database.Message{
		UserID:    42,
		Content:   "I feel anxious today",
		Timestamp: time.Now().UTC(),
	}
	if err := store.SaveMessage(ctx, msg); err != nil {
		t.Fatalf("SaveMessage() error = %v", err)
	}
	if msg.ID == 0 {
		t.Errorf("expected message ID to be populated after save")
	}
	if msg.MoodScore.Valid {
		t.Errorf("mood_score must stay null")
	}
}

func TestSaveMessageValidation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	testCases := []struct {
		name string
		msg  *database.Message
	}{
		{name: "nil message", msg: nil},
		{name: "zero user_id", msg: &database.Message{Content: "hi", Timestamp: now}},
		{name: "empty content", msg: &database.Message{UserID: 42, Timestamp: now}},
		{name: "zero timestamp", msg: &database.Message{UserID: 42, Content: "hi"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.SaveMessage(ctx, tc.msg); err == nil {
				t.Errorf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.RunSQLMaintenance(context.Background()); err != nil {
		t.Fatalf("RunSQLMaintenance() error = %v", err)
	}
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain path", input: "storage.db", want: "storage.db"},
		{name: "file prefix", input: "file:storage.db", want: "storage.db"},
		{name: "query params", input: "storage.db?cache=shared", want: "storage.db"},
		{name: "encoded path", input: "my%20db.db", want: "my db.db"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := database.ExtractDBNameFromPath(tc.input); got != tc.want {
				t.Errorf("ExtractDBNameFromPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
