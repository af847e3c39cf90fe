package throttle

import (
	"sync"
	"time"

	"github.com/siherrmann/combiner/model"
)

// CooldownGuard rejects combinations involving an entity, or any combination
// at all, that come too soon after the previous attempt. It only reads the
// entities; stamping them is the caller's job.
type CooldownGuard struct {
	cooldown time.Duration
	now      Clock

	mu         sync.Mutex
	lastGlobal time.Time
}

// NewCooldownGuard creates a guard with the given cooldown
func NewCooldownGuard(cooldown time.Duration, now Clock) *CooldownGuard {
	return &CooldownGuard{
		cooldown: cooldown,
		now:      orNow(now),
	}
}

// CanCombine reports whether a and b may be combined now
func (g *CooldownGuard) CanCombine(a *model.Entity, b *model.Entity) bool {
	now := g.now()

	if coolingDown(a.LastCombinedAt, now, g.cooldown) || coolingDown(b.LastCombinedAt, now, g.cooldown) {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.lastGlobal.IsZero() && now.Sub(g.lastGlobal) < g.cooldown {
		return false
	}

	return true
}

// RecordAttempt stores the start time of a combination attempt
func (g *CooldownGuard) RecordAttempt(at time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastGlobal = at
}

// Now returns the guard's clock reading
func (g *CooldownGuard) Now() time.Time {
	return g.now()
}

func coolingDown(last *time.Time, now time.Time, cooldown time.Duration) bool {
	return last != nil && now.Sub(*last) < cooldown
}
