package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/siherrmann/combiner/core/graph"
	"github.com/siherrmann/combiner/core/pipeline"
	"github.com/siherrmann/combiner/core/tables"
	"github.com/siherrmann/combiner/core/throttle"
	"github.com/siherrmann/combiner/helper"
	"github.com/siherrmann/combiner/model"
)

var (
	// ErrCooldown is returned when an attempt comes too soon after the last one
	ErrCooldown = errors.New("combination attempt ignored: cooling down")
	// ErrInProgress is returned when another combination is still resolving
	ErrInProgress = errors.New("combination attempt ignored: resolution in progress")
)

// Resolver turns two labels into a result and never fails
type Resolver interface {
	Resolve(ctx context.Context, limiter pipeline.Limiter, a string, b string) *model.Result
}

// Outcome is the result of a combination attempt
type Outcome struct {
	Entity     *model.Entity `json:"entity"`
	Result     *model.Result `json:"result"`
	Discovered bool          `json:"discovered"` // false if the session already had the label
}

// Session holds the state of one player: the entities discovered so far and
// the limiter, cooldown guard and in-progress lock gating combinations.
type Session struct {
	resolver Resolver
	config   model.ResolverConfig
	limiter  *throttle.RateLimiter
	guard    *throttle.CooldownGuard
	lock     throttle.Lock
	clock    throttle.Clock
	log      *slog.Logger

	mu       sync.Mutex
	entities []*model.Entity
	byID     map[uuid.UUID]*model.Entity
	byLabel  map[string]*model.Entity
}

// Option configures a Session
type Option func(*Session)

// WithClock replaces the wall clock of the limiter and the cooldown guard
func WithClock(clock throttle.Clock) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithLogger sets the session logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithEntities seeds the session with entities instead of the base entities
func WithEntities(entities ...*model.Entity) Option {
	return func(s *Session) {
		s.entities = append([]*model.Entity(nil), entities...)
	}
}

// New creates a session seeded with the base entities
func New(resolver Resolver, config model.ResolverConfig, opts ...Option) *Session {
	s := &Session{
		resolver: resolver,
		config:   config,
		log:      slog.Default(),
		entities: tables.BaseEntities(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.limiter = throttle.NewRateLimiter(config.RateLimit, config.RateWindow, s.clock)
	s.guard = throttle.NewCooldownGuard(config.Cooldown, s.clock)

	seed := s.entities
	s.entities = nil
	s.byID = make(map[uuid.UUID]*model.Entity, len(seed))
	s.byLabel = make(map[string]*model.Entity, len(seed))
	for _, entity := range seed {
		s.add(entity)
	}

	return s
}

// Combine runs a combination attempt of a and b. Attempts during the
// cooldown or while another resolution is pending return ErrCooldown or
// ErrInProgress. Otherwise the attempt always yields an entity.
func (s *Session) Combine(ctx context.Context, a *model.Entity, b *model.Entity) (*Outcome, error) {
	if a == nil || b == nil {
		return nil, helper.NewError("combine validation", fmt.Errorf("entity is nil"))
	}

	if !s.lock.TryAcquire() {
		return nil, ErrInProgress
	}

	s.mu.Lock()
	a, b = s.own(a), s.own(b)
	if !s.guard.CanCombine(a, b) {
		s.mu.Unlock()
		s.lock.Release()
		return nil, ErrCooldown
	}

	// Stamp at the start so slow resolutions still block re-triggering
	now := s.guard.Now()
	s.guard.RecordAttempt(now)
	a.LastCombinedAt = &now
	b.LastCombinedAt = &now
	labelA, labelB := a.Label, b.Label
	s.mu.Unlock()

	defer s.lock.ReleaseAfter(s.config.LockRelease)

	result := s.resolver.Resolve(ctx, s.limiter, labelA, labelB)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byLabel[labelKey(result.Word)]; ok {
		s.log.Debug("Combination produced a known entity", slog.String("label", existing.Label))
		return &Outcome{Entity: existing, Result: result, Discovered: false}, nil
	}

	entity := model.NewDerivedEntity(result, labelA, labelB)
	s.add(entity)
	s.log.Info("Discovered entity", slog.String("label", entity.Label), slog.String("rarity", entity.Rarity.String()), slog.String("source", string(result.Source)))

	return &Outcome{Entity: entity, Result: result, Discovered: true}, nil
}

// CanCombine reports whether a and b could be combined right now
func (s *Session) CanCombine(a *model.Entity, b *model.Entity) bool {
	if a == nil || b == nil || s.lock.Held() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guard.CanCombine(s.own(a), s.own(b))
}

// Entities returns copies of the session's entities in discovery order
func (s *Session) Entities() []*model.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()

	entities := make([]*model.Entity, 0, len(s.entities))
	for _, entity := range s.entities {
		entities = append(entities, copyEntity(entity))
	}
	return entities
}

// Entity returns a copy of the entity with the label, nil if unknown
func (s *Session) Entity(label string) *model.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entity, ok := s.byLabel[labelKey(label)]; ok {
		return copyEntity(entity)
	}
	return nil
}

// Lineage returns the ancestry of label breadth-first up to maxHops
// combinations back, starting with the entity itself
func (s *Session) Lineage(label string, maxHops int) []*graph.TraversalResult {
	return graph.BFS(s, label, maxHops)
}

// Roots returns the base entities label was ultimately made from
func (s *Session) Roots(label string) []*model.Entity {
	return graph.Roots(s, label)
}

// RemainingGenerations returns how many generative calls the session may still make in the current window
func (s *Session) RemainingGenerations() int {
	return s.limiter.Remaining()
}

func (s *Session) add(entity *model.Entity) {
	if _, ok := s.byLabel[labelKey(entity.Label)]; ok {
		return
	}
	s.entities = append(s.entities, entity)
	s.byID[entity.ID] = entity
	s.byLabel[labelKey(entity.Label)] = entity
}

// own maps a caller's copy to the session's entity so stamps stick
func (s *Session) own(entity *model.Entity) *model.Entity {
	if owned, ok := s.byID[entity.ID]; ok {
		return owned
	}
	return entity
}

func labelKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func copyEntity(entity *model.Entity) *model.Entity {
	copied := *entity
	copied.Translations = entity.Translations.Clone()
	copied.Ancestors = append([]string(nil), entity.Ancestors...)
	if entity.LastCombinedAt != nil {
		at := *entity.LastCombinedAt
		copied.LastCombinedAt = &at
	}
	return &copied
}
