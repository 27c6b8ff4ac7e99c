package engine

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fulmenhq/gofulmen/logging"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/translay/translay/internal/core"
	"github.com/translay/translay/internal/core/store"
	"github.com/translay/translay/internal/metrics"
)

// Rate limiting defaults: a full bucket of 60 tokens refilled at one token
// per second, so steady state is 1 request/sec per identity with bursts up
// to capacity.
const (
	DefaultCapacity  = 60.0
	DefaultCacheTTL  = 5 * time.Second
	DefaultCacheSize = 4096
	DefaultStateTTL  = 2 * time.Minute

	stateKeyPrefix = "ratelimit:"
)

// Admission rejection reasons.
const (
	ReasonClientLimit = "client limit"
	ReasonProxyLimit  = "proxy limit"
)

// Admission is the outcome of a combined admission check.
type Admission struct {
	Allowed bool
	Reason  string
}

// RateLimiter is a token-bucket admission controller keyed by arbitrary
// string identity. State lives in two tiers: a process-local cache with a
// freshness window, and a durable shared store reconciled asynchronously.
// Accounting is deliberately approximate, never linearizable; concurrent
// checks for one identity may slightly over- or under-admit, bounded by the
// cache TTL reconciliation window.
type RateLimiter struct {
	Store    store.StateStore
	Capacity float64
	StateTTL time.Duration
	Clock    clock.Clock
	Logger   *logging.Logger

	cacheOnce sync.Once
	cache     *expirable.LRU[string, core.RateLimitState]
}

// NewRateLimiter builds a limiter with a local cache of cacheSize entries
// that go stale after cacheTTL. st may be nil, in which case accounting is
// purely local.
func NewRateLimiter(st store.StateStore, capacity float64, cacheSize int, cacheTTL time.Duration, stateTTL time.Duration) *RateLimiter {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	if stateTTL <= 0 {
		stateTTL = DefaultStateTTL
	}

	return &RateLimiter{
		Store:    st,
		Capacity: capacity,
		StateTTL: stateTTL,
		cache:    expirable.NewLRU[string, core.RateLimitState](cacheSize, nil, cacheTTL),
	}
}

// Admit reports whether one unit of quota is available for identity and, if
// so, consumes it. Durable-store failures never fail the check; they degrade
// silently to the optimistic local estimate. Unknown identities start with a
// full bucket.
func (l *RateLimiter) Admit(ctx context.Context, identity string) bool {
	if l == nil || identity == "" {
		return true
	}

	now := l.now()

	state, fresh := l.localCache().Get(identity)
	if !fresh {
		// Optimistic default while the durable state is re-derived in the
		// background. The lastRefill anchor chosen here is final for this
		// record; it is never retroactively corrected.
		state = core.RateLimitState{Identity: identity, Tokens: l.capacity(), LastRefill: now}
		l.refreshAsync(identity)
	}

	elapsed := now.Sub(state.LastRefill).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	tokens := math.Min(l.capacity(), state.Tokens+elapsed*l.refillRate())

	if tokens < 1 {
		// Reject without consuming: keep the existing anchor so refill
		// continues to accrue against it.
		l.localCache().Add(identity, state)
		l.persistAsync(state)
		return false
	}

	state.Tokens = tokens - 1
	state.LastRefill = now
	l.localCache().Add(identity, state)
	l.persistAsync(state)
	return true
}

// AdmitCombined checks the client identity first and short-circuits on
// rejection; a supplied egress identity is then checked as an independent
// bucket. Each bucket's consumption is independent: a client token may be
// spent even when the egress bucket then rejects.
func (l *RateLimiter) AdmitCombined(ctx context.Context, clientIdentity string, egressIdentity string) Admission {
	if !l.Admit(ctx, clientIdentity) {
		metrics.RecordRateLimitRejection(ReasonClientLimit)
		return Admission{Reason: ReasonClientLimit}
	}
	if egressIdentity != "" && !l.Admit(ctx, egressIdentity) {
		metrics.RecordRateLimitRejection(ReasonProxyLimit)
		return Admission{Reason: ReasonProxyLimit}
	}
	return Admission{Allowed: true}
}

// refreshAsync re-derives local state from the durable store without
// blocking the admission path. Errors and missing records are ignored.
func (l *RateLimiter) refreshAsync(identity string) {
	if l.Store == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		raw, err := l.Store.Get(ctx, stateKeyPrefix+identity)
		if err != nil || raw == nil {
			return
		}

		var state core.RateLimitState
		if err := json.Unmarshal(raw, &state); err != nil {
			return
		}
		l.localCache().Add(identity, state)
	}()
}

// persistAsync writes state to the durable store as a detached task whose
// result is intentionally discarded; the admission decision never waits on
// it and failures are invisible to the caller.
func (l *RateLimiter) persistAsync(state core.RateLimitState) {
	if l.Store == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		raw, err := json.Marshal(state)
		if err != nil {
			return
		}
		if err := l.Store.Put(ctx, stateKeyPrefix+state.Identity, raw, l.stateTTL()); err != nil && l.Logger != nil {
			l.Logger.Debug("rate limit state persistence failed",
				zap.String("identity", state.Identity),
				zap.Error(err))
		}
	}()
}

// localCache lazily builds the cache with defaults so a field-literal
// RateLimiter works without going through NewRateLimiter.
func (l *RateLimiter) localCache() *expirable.LRU[string, core.RateLimitState] {
	l.cacheOnce.Do(func() {
		if l.cache == nil {
			l.cache = expirable.NewLRU[string, core.RateLimitState](DefaultCacheSize, nil, DefaultCacheTTL)
		}
	})
	return l.cache
}

func (l *RateLimiter) capacity() float64 {
	if l != nil && l.Capacity > 0 {
		return l.Capacity
	}
	return DefaultCapacity
}

// refillRate is capacity/60 tokens per second.
func (l *RateLimiter) refillRate() float64 {
	return l.capacity() / 60.0
}

func (l *RateLimiter) stateTTL() time.Duration {
	if l != nil && l.StateTTL > 0 {
		return l.StateTTL
	}
	return DefaultStateTTL
}

func (l *RateLimiter) now() time.Time {
	if l != nil && l.Clock != nil {
		return l.Clock.Now()
	}
	return time.Now().UTC()
}
