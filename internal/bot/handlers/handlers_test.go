package handlers

import (
	"testing"

	"github.com/babinc0270-design/mirrormind-bot/internal/language"
)

func TestSelectionKeyboard(t *testing.T) {
	t.Parallel()

	kb := selectionKeyboard()

	opts := language.Options()
	if len(kb.Keyboard) != len(opts) {
		t.Fatalf("rows = %d, want %d", len(kb.Keyboard), len(opts))
	}

	for i, row := range kb.Keyboard {
		if len(row) != 1 {
			t.Errorf("row %d has %d buttons, want 1", i, len(row))
			continue
		}
		if row[0].Text != opts[i] {
			t.Errorf("row %d label = %q, want %q", i, row[0].Text, opts[i])
		}
		if _, ok := language.Normalize(row[0].Text); !ok {
			t.Errorf("row %d label %q does not resolve to a language", i, row[0].Text)
		}
	}

	if !kb.ResizeKeyboard {
		t.Error("ResizeKeyboard = false, want true")
	}
	if !kb.OneTimeKeyboard {
		t.Error("OneTimeKeyboard = false, want true")
	}
}
