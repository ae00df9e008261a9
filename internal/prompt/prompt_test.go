package prompt_test

import (
	"strings"
	"testing"

	"github.com/babinc0270-design/mirrormind-bot/internal/language"
	"github.com/babinc0270-design/mirrormind-bot/internal/prompt"
)

func TestText(t *testing.T) {
	t.Parallel()

	segments := prompt.Text(language.Instruction(language.Hindi), "I feel anxious today")

	if len(segments) != 2 {
		t.Fatalf("Text() returned %d segments, want 2", len(segments))
	}

	instruction := segments[0]
	if instruction.Text == "" || instruction.Data != nil {
		t.Fatalf("first segment must be inline text, got %+v", instruction)
	}
	if !strings.HasPrefix(instruction.Text, "You are MirrorMind Pro.") {
		t.Errorf("persona preamble missing from instruction segment: %q", instruction.Text)
	}
	if !strings.Contains(instruction.Text, "Respond in Hindi using Devanagari script.") {
		t.Errorf("language directive missing from instruction segment: %q", instruction.Text)
	}
	if !strings.Contains(instruction.Text, "Respond in 4–6 sentences.") {
		t.Errorf("length directive missing from instruction segment: %q", instruction.Text)
	}

	if segments[1].Text != "I feel anxious today" {
		t.Errorf("second segment = %q, want raw user text", segments[1].Text)
	}
}

func TestMedia(t *testing.T) {
	t.Parallel()

	data := []byte{0xff, 0xd8, 0xff}
	segments := prompt.Media(language.Instruction(language.English), prompt.ImageHint, data, "image/jpeg")

	if len(segments) != 2 {
		t.Fatalf("Media() returned %d segments, want 2", len(segments))
	}

	if got, want := segments[0].Text, "Respond in English. Describe this image emotionally."; got != want {
		t.Errorf("directive segment = %q, want %q", got, want)
	}

	media := segments[1]
	if media.MIMEType != "image/jpeg" {
		t.Errorf("media MIME type = %q, want image/jpeg", media.MIMEType)
	}
	if string(media.Data) != string(data) {
		t.Errorf("media bytes were not passed through unchanged")
	}
}
