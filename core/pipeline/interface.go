package pipeline

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/siherrmann/combiner/core/classify"
	"github.com/siherrmann/combiner/model"
)

// GenerateRequest is a single request to the generative text service
type GenerateRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// GenerateFunc sends a request to the generative text service and returns
// its raw text response
type GenerateFunc func(ctx context.Context, req GenerateRequest) (string, error)

// IconFunc resolves the glyph for a word
type IconFunc func(ctx context.Context, word string) (string, error)

// TranslateFunc resolves per-locale labels for a word.
// Locales missing from the returned map fall back to the word itself.
type TranslateFunc func(ctx context.Context, word string, locales []string) (model.Translations, error)

// EmbedFunc is a function that generates embeddings for text
type EmbedFunc func(text string) ([]float32, error)

// ClassifyFunc assigns a domain to a label
type ClassifyFunc func(label string) model.Domain

// RecordFunc hands a produced word to the ledger. It must not block.
type RecordFunc func(word string, ancestors []string)

// Limiter grants or denies a call to the generative service
type Limiter interface {
	TryAcquire() bool
}

// WithLimiter returns a context whose generative side lookups are gated by limiter
func WithLimiter(ctx context.Context, limiter Limiter) context.Context {
	if limiter == nil {
		return ctx
	}
	return context.WithValue(ctx, limiterKey{}, limiter)
}

type limiterKey struct{}

// acquire takes a slot from the limiter carried by ctx. No limiter means unlimited.
func acquire(ctx context.Context) bool {
	limiter, ok := ctx.Value(limiterKey{}).(Limiter)
	return !ok || limiter.TryAcquire()
}

// Pipeline turns two labels into a combination result.
// Stages may be replaced while resolutions are running.
type Pipeline struct {
	mu         sync.RWMutex
	generator  GenerateFunc  // Optional
	icon       IconFunc      // Optional - placeholder glyph if unset
	translator TranslateFunc // Optional - identity translations if unset
	classifier ClassifyFunc  // Used for thematic selection only
	recorder   RecordFunc    // Optional

	config model.ResolverConfig
	pick   func(n int) int
	log    *slog.Logger
}

// NewPipeline creates a pipeline running only the offline steps.
// The generative step is enabled with SetGenerator.
func NewPipeline(config model.ResolverConfig, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		classifier: classify.Domain,
		config:     config,
		pick:       rand.IntN,
		log:        logger,
	}
}

// SetGenerator sets the generative text function
func (p *Pipeline) SetGenerator(generator GenerateFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generator = generator
}

// SetIcon sets the icon lookup used for generated words
func (p *Pipeline) SetIcon(icon IconFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.icon = icon
}

// SetTranslator sets the translation lookup used for generated words
func (p *Pipeline) SetTranslator(translator TranslateFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.translator = translator
}

// SetClassifier sets the domain classification used for thematic selection.
// Rarity always uses the static classification.
func (p *Pipeline) SetClassifier(classifier ClassifyFunc) {
	if classifier == nil {
		classifier = classify.Domain
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.classifier = classifier
}

// SetRecorder sets the function receiving every produced word
func (p *Pipeline) SetRecorder(recorder RecordFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recorder = recorder
}

// HasGenerator reports whether the generative step is enabled
func (p *Pipeline) HasGenerator() bool {
	return p.stages().generator != nil
}

// Config returns the configuration the pipeline was created with
func (p *Pipeline) Config() model.ResolverConfig {
	return p.config
}

type stages struct {
	generator  GenerateFunc
	icon       IconFunc
	translator TranslateFunc
	classifier ClassifyFunc
	recorder   RecordFunc
}

func (p *Pipeline) stages() stages {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return stages{
		generator:  p.generator,
		icon:       p.icon,
		translator: p.translator,
		classifier: p.classifier,
		recorder:   p.recorder,
	}
}
