package model

import (
	"time"

	"github.com/siherrmann/combiner/helper"
)

// ResolverConfig holds the tunable constants of the combination engine
type ResolverConfig struct {
	// Rate limiting of the generative service
	RateLimit  int           `json:"rate_limit" env:"COMBINER_RATE_LIMIT"`
	RateWindow time.Duration `json:"rate_window" env:"COMBINER_RATE_WINDOW"`

	// Cooldowns
	Cooldown    time.Duration `json:"cooldown" env:"COMBINER_COOLDOWN"`
	LockRelease time.Duration `json:"lock_release" env:"COMBINER_LOCK_RELEASE"` // Delay before the in-progress flag is released

	// Generated word constraints
	MinWordLength int `json:"min_word_length" env:"COMBINER_MIN_WORD_LENGTH"`
	MaxWordLength int `json:"max_word_length" env:"COMBINER_MAX_WORD_LENGTH"`

	// Generative request parameters
	Temperature       float64       `json:"temperature" env:"COMBINER_TEMPERATURE"`
	MaxOutputTokens   int           `json:"max_output_tokens" env:"COMBINER_MAX_OUTPUT_TOKENS"`
	GenerateTimeout   time.Duration `json:"generate_timeout" env:"COMBINER_GENERATE_TIMEOUT"`
	SideLookupTimeout time.Duration `json:"side_lookup_timeout" env:"COMBINER_SIDE_LOOKUP_TIMEOUT"`
	LedgerTimeout     time.Duration `json:"ledger_timeout" env:"COMBINER_LEDGER_TIMEOUT"`

	// Similarity thresholds
	SemanticThreshold        float64 `json:"semantic_threshold" env:"COMBINER_SEMANTIC_THRESHOLD"`
	GlyphSimilarityThreshold float64 `json:"glyph_similarity_threshold" env:"COMBINER_GLYPH_SIMILARITY_THRESHOLD"`
	EmbeddingDim             int     `json:"embedding_dim" env:"COMBINER_EMBEDDING_DIM"`

	Locales []string `json:"locales" env:"COMBINER_LOCALES" envSeparator:","`
}

// DefaultResolverConfig returns the tuned defaults
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		RateLimit:                25,
		RateWindow:               60 * time.Second,
		Cooldown:                 2 * time.Second,
		LockRelease:              2 * time.Second,
		MinWordLength:            3,
		MaxWordLength:            15,
		Temperature:              0.9,
		MaxOutputTokens:          10,
		GenerateTimeout:          8 * time.Second,
		SideLookupTimeout:        4 * time.Second,
		LedgerTimeout:            5 * time.Second,
		SemanticThreshold:        0.35,
		GlyphSimilarityThreshold: 0.85,
		EmbeddingDim:             384,
		Locales:                  []string{"en", "es", "fr", "de", "pt", "ja"},
	}
}

// LoadResolverConfig starts from the defaults and overrides every value set
// in the environment.
func LoadResolverConfig() (ResolverConfig, error) {
	config := DefaultResolverConfig()
	err := helper.ParseEnv(&config)
	if err != nil {
		return config, err
	}
	return config, nil
}
