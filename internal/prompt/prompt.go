// Package prompt builds the instruction payloads sent to the generation
// service: a fixed persona preamble combined with the resolved language
// directive, paired with the user's content.
package prompt

import (
	"fmt"

	"github.com/babinc0270-design/mirrormind-bot/internal/gemini"
)

// PersonaTemplate is the fixed persona preamble prefixed to every text
// generation request. The single format parameter is the language directive.
const PersonaTemplate = `You are MirrorMind Pro.
%s

Tone:
- Warm
- Emotionally intelligent
- Supportive

Respond in 4–6 sentences.
`

// Purpose hints for media prompts.
const (
	ImageHint = "Describe this image emotionally."
	AudioHint = "Transcribe this audio and respond emotionally."
)

// Text builds the two-segment payload for a text message: the persona
// preamble with the language directive first, the raw user text second.
func Text(languageInstruction, userText string) []gemini.Segment {
	return []gemini.Segment{
		gemini.TextSegment(fmt.Sprintf(PersonaTemplate, languageInstruction)),
		gemini.TextSegment(userText),
	}
}

// Media builds the two-segment payload for binary content: a single-sentence
// directive combining the language directive with a purpose hint, then the
// media bytes tagged with their MIME type.
func Media(languageInstruction, hint string, data []byte, mimeType string) []gemini.Segment {
	return []gemini.Segment{
		gemini.TextSegment(fmt.Sprintf("%s %s", languageInstruction, hint)),
		gemini.MediaSegment(data, mimeType),
	}
}
