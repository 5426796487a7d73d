package tenant

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/reserva/internal/domain"
)

// Source reports where a resolution cache snapshot came from.
type Source string

const (
	SourceStore    Source = "store"
	SourceFallback Source = "fallback"
)

// snapshot is one immutable view of all resolvable tenants. A snapshot is
// built wholesale and installed with a single pointer swap; it is never
// mutated after installation.
type snapshot struct {
	tenants  map[domain.TenantID]*domain.Tenant
	byDomain map[string]domain.TenantID
	byPhone  map[string]domain.TenantID
	builtAt  time.Time
	source   Source
}

// Stats is the read-side counter view exposed on the cache admin surface.
type Stats struct {
	Hits        uint64    `json:"hits"`
	Misses      uint64    `json:"misses"`
	Refreshes   uint64    `json:"refreshes"`
	Failures    uint64    `json:"failures"`
	Tenants     int       `json:"tenants"`
	Source      Source    `json:"source,omitempty"`
	BuiltAt     time.Time `json:"built_at,omitzero"`
	Initialized bool      `json:"initialized"`
}

// Cache is the lenient resolution cache: a periodically refreshed, in-memory
// view of all active and pending tenants with derived lookup indexes.
// Readers never block on the durable store.
type Cache struct {
	repo     domain.TenantRepository
	interval time.Duration
	timeout  time.Duration

	snap       atomic.Pointer[snapshot]
	refreshing atomic.Bool

	hits      atomic.Uint64
	misses    atomic.Uint64
	refreshes atomic.Uint64
	failures  atomic.Uint64
}

// NewCache creates a resolution cache over repo. interval is the periodic
// refresh cadence for Run; timeout bounds each durable-store fetch.
func NewCache(repo domain.TenantRepository, interval, timeout time.Duration) *Cache {
	return &Cache{
		repo:     repo,
		interval: interval,
		timeout:  timeout,
	}
}

// Load fetches all resolvable tenants and installs a fresh snapshot with a
// single atomic swap. On fetch failure the previous snapshot, if any, stays
// installed; a cold-boot failure installs a snapshot built from the compiled
// static registry instead. The returned Source says which origin backs the
// currently installed snapshot.
func (c *Cache) Load(ctx context.Context) (Source, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tenants, err := c.repo.ListByStatus(fetchCtx, domain.ResolvableStatuses...)
	if err != nil {
		c.failures.Add(1)

		if prev := c.snap.Load(); prev != nil {
			log.Warn().Err(err).Time("snapshot_built_at", prev.builtAt).
				Msg("tenant cache refresh failed, keeping last-good snapshot")
			return prev.source, fmt.Errorf("tenant.Cache.Load: %w", err)
		}

		log.Warn().Err(err).Msg("tenant cache cold-boot load failed, using static registry")
		c.snap.Store(buildSnapshot(StaticTenants(), SourceFallback))
		return SourceFallback, fmt.Errorf("tenant.Cache.Load: %w", err)
	}

	c.snap.Store(buildSnapshot(tenants, SourceStore))
	c.refreshes.Add(1)

	return SourceStore, nil
}

func buildSnapshot(tenants []*domain.Tenant, source Source) *snapshot {
	s := &snapshot{
		tenants:  make(map[domain.TenantID]*domain.Tenant, len(tenants)),
		byDomain: make(map[string]domain.TenantID, len(tenants)),
		byPhone:  make(map[string]domain.TenantID),
		builtAt:  time.Now(),
		source:   source,
	}

	for _, t := range tenants {
		s.tenants[t.ID] = t
		if d := NormalizeHost(t.Domain); d != "" {
			s.byDomain[d] = t.ID
		}
		for _, p := range t.PhoneNumbers {
			if digits := NormalizePhone(p); digits != "" {
				s.byPhone[digits] = t.ID
			}
		}
	}

	return s
}

// Run refreshes the cache every interval until ctx is cancelled. Refresh
// failures are logged and absorbed; a refresh never runs concurrently with
// itself.
func (c *Cache) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.refreshing.CompareAndSwap(false, true) {
				continue
			}
			if _, err := c.Load(ctx); err != nil {
				log.Warn().Err(err).Msg("periodic tenant cache refresh failed")
			}
			c.refreshing.Store(false)
		}
	}
}

// Get returns the tenant for id from the current snapshot.
func (c *Cache) Get(id domain.TenantID) (*domain.Tenant, bool) {
	s := c.snap.Load()
	if s == nil {
		c.misses.Add(1)
		return nil, false
	}

	t, ok := s.tenants[id]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return t, true
}

// ByDomain resolves a request host against the domain index. The host is
// normalized first; an exact match wins, then a parent-domain suffix match.
func (c *Cache) ByDomain(host string) (*domain.Tenant, bool) {
	s := c.snap.Load()
	if s == nil {
		c.misses.Add(1)
		return nil, false
	}

	h := NormalizeHost(host)
	if id, ok := s.byDomain[h]; ok {
		c.hits.Add(1)
		return s.tenants[id], true
	}
	for d, id := range s.byDomain {
		if strings.HasSuffix(h, "."+d) {
			c.hits.Add(1)
			return s.tenants[id], true
		}
	}

	c.misses.Add(1)
	return nil, false
}

// minPhoneSuffixDigits is the shortest digit string the suffix scan accepts;
// anything shorter would collide across unrelated lines.
const minPhoneSuffixDigits = 7

// ByPhone resolves a phone number against the phone index; digits-only, exact
// match first and then a stored-number-ends-with-query suffix match so the
// local spelling of an internationally stored line still resolves. Mirrors
// the durable store's suffix lookup.
func (c *Cache) ByPhone(number string) (*domain.Tenant, bool) {
	s := c.snap.Load()
	if s == nil {
		c.misses.Add(1)
		return nil, false
	}

	digits := NormalizePhone(number)
	if digits == "" {
		c.misses.Add(1)
		return nil, false
	}
	if id, ok := s.byPhone[digits]; ok {
		c.hits.Add(1)
		return s.tenants[id], true
	}
	if len(digits) >= minPhoneSuffixDigits {
		for p, id := range s.byPhone {
			if strings.HasSuffix(p, digits) {
				c.hits.Add(1)
				return s.tenants[id], true
			}
		}
	}

	c.misses.Add(1)
	return nil, false
}

// List returns all tenants in the current snapshot.
func (c *Cache) List() []*domain.Tenant {
	s := c.snap.Load()
	if s == nil {
		return nil
	}

	out := make([]*domain.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		out = append(out, t)
	}
	return out
}

// Initialized reports whether any snapshot has been installed.
func (c *Cache) Initialized() bool {
	return c.snap.Load() != nil
}

// Config returns the lenient merged configuration view for id.
func (c *Cache) Config(id domain.TenantID) (ResolvedConfig, bool) {
	t, ok := c.Get(id)
	if !ok {
		return ResolvedConfig{}, false
	}
	return ResolveConfig(t), true
}

// Stats returns a point-in-time view of the cache counters.
func (c *Cache) Stats() Stats {
	st := Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Refreshes: c.refreshes.Load(),
		Failures:  c.failures.Load(),
	}

	if s := c.snap.Load(); s != nil {
		st.Initialized = true
		st.Tenants = len(s.tenants)
		st.Source = s.source
		st.BuiltAt = s.builtAt
	}

	return st
}
