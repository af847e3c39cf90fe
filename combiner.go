package combiner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/siherrmann/combiner/core/classify"
	"github.com/siherrmann/combiner/core/ledger"
	"github.com/siherrmann/combiner/core/pipeline"
	"github.com/siherrmann/combiner/core/session"
	"github.com/siherrmann/combiner/core/throttle"
	"github.com/siherrmann/combiner/database"
	"github.com/siherrmann/combiner/helper"
	"github.com/siherrmann/combiner/model"
	loadSql "github.com/siherrmann/combiner/sql"
)

// Combiner provides a unified interface to the combination engine and its stores
type Combiner struct {
	DB           *helper.Database          // Nil when running on a non-postgres store
	Combinations ledger.Store              // Ledger store
	Glyphs       *database.GlyphsDBHandler // Optional glyph cache
	Activity     ledger.ActivitySink       // Optional activity sink
	Ledger       *ledger.Ledger
	Recorder     *ledger.Recorder
	Pipeline     *pipeline.Pipeline

	config  model.ResolverConfig
	limiter *throttle.RateLimiter // Used by Resolve, sessions own their limiter

	mu       sync.Mutex // Serializes Use* calls
	embed    pipeline.EmbedFunc
	generate pipeline.GenerateFunc
	// Logging
	log *slog.Logger
}

func newLogger() *slog.Logger {
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	return slog.New(helper.NewPrettyHandler(os.Stdout, opts))
}

// NewCombiner creates a new Combiner backed by postgres with all handlers initialized
func NewCombiner(dbConfig *helper.DatabaseConfiguration, config model.ResolverConfig) (*Combiner, error) {
	logger := newLogger()

	// Initialize database
	db := helper.NewDatabase("combiner", dbConfig, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	combinations, err := database.NewCombinationsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create combinations handler", err)
	}

	glyphs, err := database.NewGlyphsDBHandler(db, config.EmbeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create glyphs handler", err)
	}

	activity, err := database.NewActivityDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create activity handler", err)
	}

	c, err := newCombiner(combinations, activity, config, logger)
	if err != nil {
		return nil, err
	}
	c.DB = db
	c.Glyphs = glyphs
	c.rebuildIconResolver()

	return c, nil
}

// NewCombinerWithStore creates a Combiner on any ledger store, for example
// the embedded sqlite store or ledger.NewMemoryStore(). sink may be nil.
func NewCombinerWithStore(store ledger.Store, sink ledger.ActivitySink, config model.ResolverConfig) (*Combiner, error) {
	return newCombiner(store, sink, config, newLogger())
}

func newCombiner(store ledger.Store, sink ledger.ActivitySink, config model.ResolverConfig, logger *slog.Logger) (*Combiner, error) {
	l, err := ledger.NewLedger(store, sink, logger)
	if err != nil {
		return nil, helper.NewError("create ledger", err)
	}

	recorder := ledger.NewRecorder(l, config.LedgerTimeout, logger)

	p := pipeline.NewPipeline(config, logger)
	p.SetRecorder(recorder.Record)

	c := &Combiner{
		Combinations: store,
		Activity:     sink,
		Ledger:       l,
		Recorder:     recorder,
		Pipeline:     p,
		config:       config,
		limiter:      throttle.NewRateLimiter(config.RateLimit, config.RateWindow, nil),
		log:          logger,
	}
	c.rebuildIconResolver()

	return c, nil
}

// Close stops ledger recording, waits for pending writes and closes the
// database connection. Combinations resolved afterwards are not recorded.
func (c *Combiner) Close() error {
	if c.Recorder != nil {
		c.Recorder.Close()
	}
	if c.DB != nil && c.DB.Instance != nil {
		return c.DB.Instance.Close()
	}
	return nil
}

// Config returns the resolver configuration
func (c *Combiner) Config() model.ResolverConfig {
	return c.config
}

// UseGenerator enables the generative step. Icons and translations of
// generated words are requested from the same service and take their slots
// from the same rate limiter as the word. It is safe to call while sessions
// are resolving; resolutions already running may still use the old stages.
func (c *Combiner) UseGenerator(generate pipeline.GenerateFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generate = generate
	c.Pipeline.SetGenerator(generate)
	if generate == nil {
		c.Pipeline.SetTranslator(nil)
	} else {
		translations := pipeline.NewTranslationResolver(pipeline.GenerativeTranslator(generate), 0, c.log)
		c.Pipeline.SetTranslator(translations.Resolve)
	}
	c.rebuildIconResolver()
}

// UseDefaultGenerator sets up the OpenAI compatible generator configured by
// the COMBINER_LLM_* environment variables
func (c *Combiner) UseDefaultGenerator() error {
	generatorConfig, err := pipeline.LoadGeneratorConfig()
	if err != nil {
		return helper.NewError("load generator config", err)
	}

	generate, err := pipeline.DefaultGenerator(generatorConfig)
	if err != nil {
		return helper.NewError("create default generator", err)
	}

	c.UseGenerator(generate)
	return nil
}

// UseEmbedder enables semantic domain classification and similarity
// lookups in the glyph cache. Like UseGenerator it may be called while
// sessions are resolving.
func (c *Combiner) UseEmbedder(embed pipeline.EmbedFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if embed == nil {
		c.embed = nil
		c.Pipeline.SetClassifier(nil)
		c.rebuildIconResolver()
		return nil
	}

	classifier, err := classify.NewSemanticClassifier(classify.Embedder(embed), c.config.SemanticThreshold, c.log)
	if err != nil {
		return helper.NewError("create semantic classifier", err)
	}

	c.embed = embed
	c.Pipeline.SetClassifier(classifier.Classify)
	c.rebuildIconResolver()
	return nil
}

// UseDefaultEmbedder sets up the all-MiniLM-L6-v2 embedder (384 dimensions)
func (c *Combiner) UseDefaultEmbedder() error {
	embed, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}
	return c.UseEmbedder(embed)
}

func (c *Combiner) rebuildIconResolver() {
	var store pipeline.GlyphStore
	if c.Glyphs != nil {
		store = c.Glyphs
	}

	var generate pipeline.IconFunc
	if c.generate != nil {
		generate = pipeline.GenerativeIcon(c.generate)
	}

	icons := pipeline.NewIconResolver(store, c.embed, generate, c.config.GlyphSimilarityThreshold, 0, c.log)
	c.Pipeline.SetIcon(icons.Resolve)
}

// NewSession starts a player session seeded with the base entities
func (c *Combiner) NewSession(opts ...session.Option) *session.Session {
	opts = append([]session.Option{session.WithLogger(c.log)}, opts...)
	return session.New(c.Pipeline, c.config, opts...)
}

// Resolve combines two labels outside of a session.
// Generative calls share the combiner's own rate limiter.
func (c *Combiner) Resolve(ctx context.Context, a string, b string) *model.Result {
	return c.Pipeline.Resolve(ctx, c.limiter, a, b)
}

// RemainingGenerations returns how many generative calls Resolve may still make in the current window
func (c *Combiner) RemainingGenerations() int {
	return c.limiter.Remaining()
}

// Count returns how often label has been produced
func (c *Combiner) Count(ctx context.Context, label string) (int64, error) {
	return c.Ledger.Count(ctx, label)
}

// Top returns the most produced labels
func (c *Combiner) Top(ctx context.Context, limit int) ([]*model.CombinationRecord, error) {
	return c.Ledger.Top(ctx, limit)
}

// Wait blocks until every pending ledger write has finished
func (c *Combiner) Wait() {
	c.Recorder.Wait()
}

// ChangeGlyphIndexType switches the glyph cache index between HNSW and IVFFlat
func (c *Combiner) ChangeGlyphIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	if c.Glyphs == nil {
		return helper.NewError("change glyph index type", fmt.Errorf("no glyph cache configured"))
	}
	return c.Glyphs.ChangeIndexType(ctx, indexType, params)
}
