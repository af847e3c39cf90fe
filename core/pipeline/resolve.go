package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/siherrmann/combiner/core/classify"
	"github.com/siherrmann/combiner/core/tables"
	"github.com/siherrmann/combiner/helper"
	"github.com/siherrmann/combiner/model"
	"golang.org/x/sync/errgroup"
)

const systemPrompt = "You invent words for a crafting game. Given two concepts, answer with one " +
	"existing or invented English word naming what combining them creates. " +
	"Answer with the single word only, no punctuation, no explanation."

type stepFunc func(ctx context.Context, limiter Limiter, a string, b string) (*model.Result, error)

type step struct {
	name string
	run  stepFunc
}

// Resolve runs the fallback chain for the labels a and b and never fails.
// limiter gates every call to the generative service, including the icon
// and translation lookups of a generated word; nil means unlimited. The
// produced word is handed to the recorder without waiting for it.
func (p *Pipeline) Resolve(ctx context.Context, limiter Limiter, a string, b string) *model.Result {
	result := p.resolve(ctx, limiter, a, b)
	p.record(result.Word, []string{a, b})
	return result
}

func (p *Pipeline) resolve(ctx context.Context, limiter Limiter, a string, b string) (result *model.Result) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Resolution panicked, using absolute fallback", slog.Any("panic", r))
			result = tables.AbsoluteFallback()
		}
	}()

	domainA, domainB := classify.Domain(a), classify.Domain(b)
	rarity := classify.Rarity(domainA, domainB)
	domain := classify.ResultDomain(domainA, domainB)

	steps := []step{
		{"instant", p.instant},
		{"generative", p.generative},
		{"thematic", p.thematic},
		{"simple", p.simple},
	}
	for _, s := range steps {
		candidate, err := p.runStep(ctx, s, limiter, a, b)
		if err != nil {
			p.log.Debug("Resolution step failed", slog.String("step", s.name), slog.String("a", a), slog.String("b", b), slog.String("error", err.Error()))
			continue
		}

		candidate.Rarity = rarity
		candidate.Domain = domain
		if !candidate.Valid() {
			p.log.Debug("Resolution step returned an invalid result", slog.String("step", s.name), slog.String("word", candidate.Word))
			continue
		}
		return candidate
	}

	return tables.AbsoluteFallback()
}

func (p *Pipeline) runStep(ctx context.Context, s step, limiter Limiter, a string, b string) (result *model.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("panic in %s step: %v", s.name, r)
		}
	}()

	result, err = s.run(ctx, limiter, a, b)
	if err == nil && result == nil {
		err = ErrNoMatch
	}
	return result, err
}

func (p *Pipeline) instant(_ context.Context, _ Limiter, a string, b string) (*model.Result, error) {
	combo, ok := tables.LookupInstant(a, b)
	if !ok {
		return nil, ErrNoMatch
	}
	return &model.Result{
		Word:         combo.Word,
		Icon:         combo.Icon,
		Translations: combo.Translations,
		Source:       model.SourceInstant,
	}, nil
}

func (p *Pipeline) generative(ctx context.Context, limiter Limiter, a string, b string) (*model.Result, error) {
	generate := p.stages().generator
	if generate == nil {
		return nil, ErrNoGenerator
	}
	if limiter != nil && !limiter.TryAcquire() {
		return nil, ErrRateLimited
	}

	genCtx, cancel := withOptionalTimeout(ctx, p.config.GenerateTimeout)
	defer cancel()

	raw, err := generate(genCtx, GenerateRequest{
		System:      systemPrompt,
		Prompt:      fmt.Sprintf("Combine %q and %q.", a, b),
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxOutputTokens,
	})
	if err != nil {
		return nil, helper.NewError("generate", err)
	}

	word, err := SanitizeWord(raw, p.config.MinWordLength, p.config.MaxWordLength)
	if err != nil {
		return nil, helper.NewError("sanitize", err)
	}

	icon, translations := p.sideLookups(WithLimiter(ctx, limiter), word)
	return &model.Result{
		Word:         word,
		Icon:         icon,
		Translations: translations,
		Source:       model.SourceGenerative,
	}, nil
}

// sideLookups resolves icon and translations in parallel. Each falls back
// independently: the placeholder glyph and the identity translations.
func (p *Pipeline) sideLookups(ctx context.Context, word string) (string, model.Translations) {
	icon := tables.PlaceholderGlyph
	translations := model.IdentityTranslations(word, p.config.Locales)

	s := p.stages()
	lookupCtx, cancel := withOptionalTimeout(ctx, p.config.SideLookupTimeout)
	defer cancel()

	var g errgroup.Group
	if s.icon != nil {
		g.Go(func() (err error) {
			defer recoverInto(&err)
			glyph, err := s.icon(lookupCtx, word)
			if err != nil {
				return helper.NewError("icon lookup", err)
			}
			if glyph != "" {
				icon = glyph
			}
			return nil
		})
	}

	var translated model.Translations
	if s.translator != nil {
		g.Go(func() (err error) {
			defer recoverInto(&err)
			translated, err = s.translator(lookupCtx, word, p.config.Locales)
			if err != nil {
				return helper.NewError("translation lookup", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.log.Warn("Side lookup failed, using fallback", slog.String("word", word), slog.String("error", err.Error()))
	}

	for locale, label := range translated {
		if label != "" {
			translations[model.NormalizeLocale(locale)] = label
		}
	}
	translations[model.CanonicalLocale] = word

	return icon, translations
}

func (p *Pipeline) thematic(_ context.Context, _ Limiter, a string, b string) (*model.Result, error) {
	classifier := p.stages().classifier
	domainA, domainB := classifier(a), classifier(b)
	words, ok := tables.LookupThematic(domainA, domainB)
	if !ok || len(words) == 0 {
		return nil, ErrNoMatch
	}

	word := words[p.pick(len(words))]
	return &model.Result{
		Word:         word,
		Icon:         tables.DomainGlyph(classify.ResultDomain(domainA, domainB)),
		Translations: model.IdentityTranslations(word, p.config.Locales),
		Source:       model.SourceThematic,
	}, nil
}

func (p *Pipeline) simple(_ context.Context, _ Limiter, _ string, _ string) (*model.Result, error) {
	pool := tables.SimplePool()
	if len(pool) == 0 {
		return nil, ErrNoMatch
	}

	chosen := pool[p.pick(len(pool))]
	return &model.Result{
		Word:         chosen.Word,
		Icon:         chosen.Icon,
		Translations: model.IdentityTranslations(chosen.Word, p.config.Locales),
		Source:       model.SourceSimple,
	}, nil
}

func (p *Pipeline) record(word string, ancestors []string) {
	recorder := p.stages().recorder
	if recorder == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("Recorder panicked", slog.String("word", word), slog.Any("panic", r))
		}
	}()
	recorder(word, ancestors)
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic: %v", r)
	}
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
