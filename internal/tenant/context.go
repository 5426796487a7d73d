package tenant

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/reserva/internal/domain"
)

// Context is the authoritative per-tenant object consumed by business rules.
// It is built for exactly one tenant and never merged across tenants.
type Context struct {
	ID       domain.TenantID
	Name     string
	Plan     string
	Active   bool
	Frozen   bool
	Hours    domain.BusinessHours
	features map[string]bool
	loadedAt time.Time
}

func (c *Context) HasFeature(code string) bool {
	return c.features[code]
}

// HoursFor returns the opening window for a weekday; ok is false when the
// business is closed that day.
func (c *Context) HoursFor(wd time.Weekday) (domain.DayHours, bool) {
	h, ok := c.Hours[wd]
	return h, ok
}

// Loader is the strict, fail-closed tenant context builder used by
// authenticated and mutating operations. Given a tenant id it returns a
// context for exactly that tenant or a distinguishable error; it never
// substitutes another tenant or a default. Entries are cached per tenant
// with a fixed TTL; expiry reloads only that tenant's entry.
type Loader struct {
	repo       domain.TenantRepository
	cache      *ristretto.Cache[string, *Context]
	ttl        time.Duration
	headerName string
	queryParam string
}

func NewLoader(repo domain.TenantRepository, ttl time.Duration, headerName, queryParam string) (*Loader, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *Context]{
		NumCounters: 10_000, // ~10x expected tenant count
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("tenant.NewLoader: %w", err)
	}

	return &Loader{
		repo:       repo,
		cache:      cache,
		ttl:        ttl,
		headerName: headerName,
		queryParam: queryParam,
	}, nil
}

func (l *Loader) Close() {
	l.cache.Close()
}

// Load returns the tenant context for id, from cache when fresh.
func (l *Loader) Load(ctx context.Context, id domain.TenantID) (*Context, error) {
	if id == "" {
		return nil, fmt.Errorf("tenant.Loader.Load: %w", domain.ErrTenantIDRequired)
	}

	if tc, ok := l.cache.Get(string(id)); ok {
		return tc, nil
	}

	tc, err := l.build(ctx, id)
	if err != nil {
		return nil, err
	}

	l.cache.SetWithTTL(string(id), tc, 1, l.ttl)
	l.cache.Wait()

	return tc, nil
}

func (l *Loader) build(ctx context.Context, id domain.TenantID) (*Context, error) {
	t, err := l.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("tenant.Loader.Load %q: %w", id, err)
	}
	if t.ID != id {
		// The store answered for a different tenant; fail closed.
		return nil, fmt.Errorf("tenant.Loader.Load %q: store returned %q: %w", id, t.ID, domain.ErrTenantNotFound)
	}

	rows, err := l.repo.ListWeeklyHours(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("tenant.Loader.Load %q: %w", id, err)
	}

	return &Context{
		ID:       t.ID,
		Name:     t.Name,
		Plan:     t.Plan,
		Active:   t.Status == domain.TenantActive,
		Frozen:   t.Frozen,
		Hours:    hoursFromRows(rows),
		features: t.Features,
		loadedAt: time.Now(),
	}, nil
}

// hoursFromRows derives the weekly schedule. Explicit rows completely replace
// the default schedule: a weekday without an active row is closed. Only when
// no rows exist at all does the default Mon-Fri schedule apply.
func hoursFromRows(rows []*domain.WeeklyHoursRow) domain.BusinessHours {
	if len(rows) == 0 {
		return domain.DefaultBusinessHours()
	}

	hours := make(domain.BusinessHours, len(rows))
	for _, r := range rows {
		if !r.Active {
			continue
		}
		hours[r.Weekday] = domain.DayHours{Open: r.Open, Close: r.Close}
	}
	return hours
}

// FromRequest resolves the tenant context for an authenticated or mutating
// request. Signals are tried in priority order: a pre-attached context, the
// authenticated principal's tenant id, the explicit header, the query
// parameter. The first present value wins even if unknown; absence of all
// four is ErrTenantIDRequired, never a platform default.
func (l *Loader) FromRequest(ctx context.Context, r *http.Request) (*Context, error) {
	if tc, ok := FromRequestContext(ctx); ok {
		return tc, nil
	}

	if id, ok := PrincipalFromContext(ctx); ok {
		return l.Load(ctx, id)
	}

	if v := r.Header.Get(l.headerName); v != "" {
		return l.Load(ctx, domain.TenantID(v))
	}

	if v := r.URL.Query().Get(l.queryParam); v != "" {
		return l.Load(ctx, domain.TenantID(v))
	}

	return nil, fmt.Errorf("tenant.Loader.FromRequest: %w", domain.ErrTenantIDRequired)
}

// ByDomain resolves a tenant context from a host name against the durable
// store. No match is a hard failure.
func (l *Loader) ByDomain(ctx context.Context, host string) (*Context, error) {
	h := NormalizeHost(host)
	if h == "" {
		return nil, fmt.Errorf("tenant.Loader.ByDomain: %w", domain.ErrTenantIDRequired)
	}

	t, err := l.repo.GetByDomain(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("tenant.Loader.ByDomain %q: %w", h, err)
	}

	return l.Load(ctx, t.ID)
}

// ByPhone resolves a tenant context from a phone number (digit-suffix
// matched) against the durable store. No match is a hard failure.
func (l *Loader) ByPhone(ctx context.Context, number string) (*Context, error) {
	digits := NormalizePhone(number)
	if digits == "" {
		return nil, fmt.Errorf("tenant.Loader.ByPhone: %w", domain.ErrTenantIDRequired)
	}

	t, err := l.repo.GetByPhone(ctx, digits)
	if err != nil {
		return nil, fmt.Errorf("tenant.Loader.ByPhone: %w", err)
	}

	return l.Load(ctx, t.ID)
}

// Invalidate drops one tenant's cached entry. Safe to call for absent
// entries; calling twice equals calling once.
func (l *Loader) Invalidate(id domain.TenantID) {
	l.cache.Del(string(id))
	l.cache.Wait()
}

// InvalidateAll drops every cached entry.
func (l *Loader) InvalidateAll() {
	l.cache.Clear()
}

// Subscriber is the invalidation feed the loader watches; satisfied by the
// redis pub/sub store.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// Watch consumes cross-replica invalidation notices from channel until ctx is
// cancelled. A payload of "*" clears the whole cache, anything else drops
// that tenant's entry.
func (l *Loader) Watch(ctx context.Context, sub Subscriber, channel string) error {
	msgs, cleanup, err := sub.Subscribe(ctx, channel)
	if err != nil {
		return fmt.Errorf("tenant.Loader.Watch: %w", err)
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			payload := string(msg)
			if payload == "*" {
				l.InvalidateAll()
				log.Debug().Msg("tenant context cache cleared via invalidation feed")
				continue
			}
			l.Invalidate(domain.TenantID(payload))
			log.Debug().Str("tenant_id", payload).Msg("tenant context invalidated via feed")
		}
	}
}
