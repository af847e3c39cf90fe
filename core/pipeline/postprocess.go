package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SanitizeWord turns a raw generative response into a word. Only the first
// non-empty line is used, every non-alphabetic character is dropped and the
// rest is title-cased. Words outside [minLength, maxLength] are rejected.
func SanitizeWord(raw string, minLength int, maxLength int) (string, error) {
	var b strings.Builder
	for _, r := range firstLine(raw) {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	word := b.String()

	if len(word) < minLength || len(word) > maxLength {
		return "", fmt.Errorf("%w: %q has length %d, want %d to %d", ErrInvalidWord, word, len(word), minLength, maxLength)
	}

	// Casers are stateful, one per call
	return cases.Title(language.English).String(word), nil
}

func firstLine(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
