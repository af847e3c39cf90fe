package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/patrickmn/go-cache"
	"github.com/siherrmann/combiner/core/tables"
	"github.com/siherrmann/combiner/helper"
	"github.com/siherrmann/combiner/model"
	"golang.org/x/sync/singleflight"
)

// GlyphStore is a persistent glyph cache.
// Select methods return nil and no error when nothing matches.
type GlyphStore interface {
	SelectGlyphByWord(ctx context.Context, word string) (*model.Glyph, error)
	SelectSimilarGlyph(ctx context.Context, embedding []float32, threshold float64) (*model.Glyph, error)
	InsertGlyph(ctx context.Context, glyph *model.Glyph) (*model.Glyph, error)
}

// IconResolver finds the glyph for a word. It tries the static table, the
// in-process cache, the store by exact word, the store by embedding
// similarity and finally the generator. Generated glyphs are written back.
type IconResolver struct {
	store     GlyphStore   // Optional
	embed     EmbedFunc    // Optional - enables similarity lookups
	generate  IconFunc     // Optional
	threshold float64
	cache     *cache.Cache
	group     singleflight.Group
	log       *slog.Logger
}

// NewIconResolver creates an icon resolver. Every collaborator may be nil.
func NewIconResolver(store GlyphStore, embed EmbedFunc, generate IconFunc, threshold float64, ttl time.Duration, logger *slog.Logger) *IconResolver {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	return &IconResolver{
		store:     store,
		embed:     embed,
		generate:  generate,
		threshold: threshold,
		cache:     cache.New(ttl, 10*time.Minute),
		log:       logger,
	}
}

// Resolve returns the glyph for word, the placeholder glyph if nothing is found.
// It has the signature of an IconFunc.
func (r *IconResolver) Resolve(ctx context.Context, word string) (string, error) {
	if glyph, ok := tables.LookupGlyph(word); ok {
		return glyph, nil
	}

	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return tables.PlaceholderGlyph, nil
	}
	if cached, ok := r.cache.Get(key); ok {
		return cached.(string), nil
	}

	glyph, err, _ := r.group.Do(key, func() (interface{}, error) {
		return r.lookup(ctx, key)
	})
	if err != nil {
		return tables.PlaceholderGlyph, err
	}
	return glyph.(string), nil
}

func (r *IconResolver) lookup(ctx context.Context, key string) (string, error) {
	if r.store != nil {
		stored, err := r.store.SelectGlyphByWord(ctx, key)
		if err != nil {
			r.log.Debug("Glyph store lookup failed", slog.String("word", key), slog.String("error", err.Error()))
		} else if stored != nil {
			r.cache.SetDefault(key, stored.Glyph)
			return stored.Glyph, nil
		}
	}

	var embedding []float32
	if r.embed != nil {
		var err error
		embedding, err = r.embed(key)
		if err != nil {
			r.log.Debug("Embedding for glyph lookup failed", slog.String("word", key), slog.String("error", err.Error()))
			embedding = nil
		}
	}

	if r.store != nil && embedding != nil {
		similar, err := r.store.SelectSimilarGlyph(ctx, embedding, r.threshold)
		if err != nil {
			r.log.Debug("Glyph similarity lookup failed", slog.String("word", key), slog.String("error", err.Error()))
		} else if similar != nil {
			r.log.Debug("Using glyph of similar word", slog.String("word", key), slog.String("similar", similar.Word))
			r.cache.SetDefault(key, similar.Glyph)
			return similar.Glyph, nil
		}
	}

	if r.generate == nil {
		return tables.PlaceholderGlyph, nil
	}

	generated, err := r.generate(ctx, key)
	if err != nil {
		return tables.PlaceholderGlyph, helper.NewError("generate glyph", err)
	}

	r.cache.SetDefault(key, generated)
	if r.store != nil {
		_, err := r.store.InsertGlyph(ctx, &model.Glyph{Word: key, Glyph: generated, Embedding: embedding})
		if err != nil {
			r.log.Warn("Failed to write generated glyph back", slog.String("word", key), slog.String("error", err.Error()))
		}
	}

	return generated, nil
}

// GenerativeIcon creates an IconFunc asking the generator for a single emoji.
// The request takes a slot from the limiter carried by ctx.
func GenerativeIcon(generate GenerateFunc) IconFunc {
	return func(ctx context.Context, word string) (string, error) {
		if !acquire(ctx) {
			return "", ErrRateLimited
		}
		raw, err := generate(ctx, GenerateRequest{
			System:      "You pick emoji for a crafting game. Answer with exactly one emoji and nothing else.",
			Prompt:      fmt.Sprintf("Which emoji best represents %q?", word),
			Temperature: 0.3,
			MaxTokens:   8,
		})
		if err != nil {
			return "", err
		}

		glyph := strings.TrimSpace(firstLine(raw))
		if fields := strings.Fields(glyph); len(fields) > 0 {
			glyph = fields[0]
		}
		if !IsGlyph(glyph) {
			return "", fmt.Errorf("%w: %q", ErrInvalidGlyph, raw)
		}
		return glyph, nil
	}
}

// IsGlyph reports whether s looks like a single emoji sequence: a few runes,
// none of them ASCII.
func IsGlyph(s string) bool {
	if s == "" || utf8.RuneCountInString(s) > 8 {
		return false
	}
	for _, r := range s {
		if r < utf8.RuneSelf {
			return false
		}
	}
	return true
}
