package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/patrickmn/go-cache"
	"github.com/siherrmann/combiner/model"
	"golang.org/x/sync/singleflight"
)

const maxTranslationLength = 40

// TranslationResolver caches the translations produced by another TranslateFunc
type TranslationResolver struct {
	translate TranslateFunc
	cache     *cache.Cache
	group     singleflight.Group
	log       *slog.Logger
}

// NewTranslationResolver wraps translate with a TTL cache
func NewTranslationResolver(translate TranslateFunc, ttl time.Duration, logger *slog.Logger) *TranslationResolver {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	return &TranslationResolver{
		translate: translate,
		cache:     cache.New(ttl, 10*time.Minute),
		log:       logger,
	}
}

// Resolve returns the translations of word, from the cache if possible.
// It has the signature of a TranslateFunc.
func (r *TranslationResolver) Resolve(ctx context.Context, word string, locales []string) (model.Translations, error) {
	key := translationKey(word, locales)
	if cached, ok := r.cache.Get(key); ok {
		return cached.(model.Translations).Clone(), nil
	}

	translations, err, _ := r.group.Do(key, func() (interface{}, error) {
		translations, err := r.translate(ctx, word, locales)
		if err != nil {
			return nil, err
		}
		r.cache.SetDefault(key, translations.Clone())
		return translations, nil
	})
	if err != nil {
		return nil, err
	}
	return translations.(model.Translations).Clone(), nil
}

func translationKey(word string, locales []string) string {
	sorted := slices.Clone(locales)
	slices.Sort(sorted)
	return strings.ToLower(word) + "|" + strings.Join(sorted, ",")
}

// GenerativeTranslator creates a TranslateFunc asking the generator for one
// "locale: word" line per locale. The request takes a slot from the limiter
// carried by ctx.
func GenerativeTranslator(generate GenerateFunc) TranslateFunc {
	return func(ctx context.Context, word string, locales []string) (model.Translations, error) {
		wanted := make([]string, 0, len(locales))
		for _, locale := range locales {
			if locale = model.NormalizeLocale(locale); locale != model.CanonicalLocale {
				wanted = append(wanted, locale)
			}
		}
		if len(wanted) == 0 {
			return model.Translations{model.CanonicalLocale: word}, nil
		}
		if !acquire(ctx) {
			return nil, ErrRateLimited
		}

		raw, err := generate(ctx, GenerateRequest{
			System:      "You translate single words for a crafting game. Answer with one line per language in the form code: word.",
			Prompt:      fmt.Sprintf("Translate %q into: %s", word, strings.Join(wanted, ", ")),
			Temperature: 0.2,
			MaxTokens:   16 * len(wanted),
		})
		if err != nil {
			return nil, err
		}

		translations := ParseTranslations(raw, wanted)
		if len(translations) == 0 {
			return nil, fmt.Errorf("no translation in response %q", raw)
		}
		translations[model.CanonicalLocale] = word
		return translations, nil
	}
}

// ParseTranslations reads "locale: word" lines, keeping only the given locales
func ParseTranslations(raw string, locales []string) model.Translations {
	allowed := make(map[string]bool, len(locales))
	for _, locale := range locales {
		allowed[model.NormalizeLocale(locale)] = true
	}

	translations := model.Translations{}
	for _, line := range strings.Split(raw, "\n") {
		code, label, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		code = model.NormalizeLocale(strings.Trim(code, " \t-*`\"'"))
		label = strings.Trim(strings.TrimSpace(label), "\"'`.")
		if !allowed[code] || label == "" || utf8.RuneCountInString(label) > maxTranslationLength {
			continue
		}
		if _, seen := translations[code]; !seen {
			translations[code] = label
		}
	}
	return translations
}
