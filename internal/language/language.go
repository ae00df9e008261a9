// Package language maps free-form selection text to one of the supported
// response languages and provides the per-language generation directives.
package language

import "strings"

// Tag identifies one of the supported response languages.
type Tag string

// Supported response languages.
const (
	English   Tag = "English"
	Hindi     Tag = "Hindi"
	Bengali   Tag = "Bengali"
	Hinglish  Tag = "Hinglish"
	Bengalish Tag = "Bengalish"
)

// normalizeOrder is the match priority for Normalize. The compound tags must
// be checked first: "Hinglish" contains "Hindi"-adjacent text and "Bengalish"
// contains "Bengali", so checking them last would misclassify selections.
var normalizeOrder = []Tag{Hinglish, Bengalish, English, Hindi, Bengali}

var instructions = map[Tag]string{
	English:   "Respond in English.",
	Hindi:     "Respond in Hindi using Devanagari script.",
	Bengali:   "Respond in Bengali script.",
	Hinglish:  "Respond in Hinglish (Hindi written in English letters).",
	Bengalish: "Respond in Bengalish (Bengali written in English letters).",
}

// options are the selection keyboard labels in presentation order.
var options = []string{
	"🇬🇧 English",
	"🇮🇳 Hindi",
	"🇮🇳 Bengali",
	"🇮🇳 Hinglish",
	"🇮🇳 Bengalish",
}

// Normalize maps free-form selection text to a language tag. The boolean is
// false when no supported language name appears in the text, meaning the
// message is conversational content rather than a selection.
func Normalize(text string) (Tag, bool) {
	for _, tag := range normalizeOrder {
		if strings.Contains(text, string(tag)) {
			return tag, true
		}
	}
	return "", false
}

// Instruction returns the generation directive for a language tag. Any value
// outside the supported set, including the zero Tag, falls back to the
// English directive.
func Instruction(tag Tag) string {
	if instr, ok := instructions[tag]; ok {
		return instr
	}
	return instructions[English]
}

// Options returns the selection keyboard labels in presentation order.
func Options() []string {
	out := make([]string, len(options))
	copy(out, options)
	return out
}
