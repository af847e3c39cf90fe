package pipeline

import "errors"

var (
	// ErrInvalidWord is returned when a generated response cannot be used as a word
	ErrInvalidWord = errors.New("invalid generated word")
	// ErrRateLimited is returned when the limiter denied the generative call
	ErrRateLimited = errors.New("generative quota exceeded")
	// ErrNoGenerator is returned when no generative function is configured
	ErrNoGenerator = errors.New("no generator configured")
	// ErrNoMatch is returned by a step that has nothing for the pair
	ErrNoMatch = errors.New("no match")
)

// ErrInvalidGlyph is returned when a generated response is not a glyph
var ErrInvalidGlyph = errors.New("invalid generated glyph")
