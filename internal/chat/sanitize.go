package chat

import (
	"strings"
	"unicode/utf8"
)

// Sanitize extracts the reply from raw model output. Endpoints that echo the
// prompt are handled by keeping only what follows the last cue. The second
// return is false when nothing usable is left.
func Sanitize(raw string, t PromptTemplate, minLength int) (string, bool) {
	text := raw
	cue := t.Cue()
	if i := strings.LastIndex(text, cue); i >= 0 {
		text = text[i+len(cue):]
	}

	text = strings.ReplaceAll(text, t.UserLabel+":", "")
	text = strings.ReplaceAll(text, cue, "")
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", false
	}

	if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") &&
		!strings.HasSuffix(text, "?") && !strings.HasSuffix(text, ":") {
		text += "."
	}
	if utf8.RuneCountInString(text) <= minLength {
		return "", false
	}
	return text, true
}
