package tenant_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/reserva/internal/domain"
	"github.com/gosuda/reserva/internal/tenant"
)

func newTestIdentifier(t *testing.T, tenants ...*domain.Tenant) *tenant.Identifier {
	t.Helper()

	c := newLoadedCache(t, fixedTenants(tenants...))
	return tenant.NewIdentifier(c, "X-Tenant-ID", "tenant")
}

func TestIdentify(t *testing.T) {
	t.Parallel()

	alpha := activeTenant("alpha")
	alpha.Domain = "alpha.example.com"
	beta := activeTenant("beta")
	beta.Domain = "beta.example.com"

	t.Run("header wins over query and host", func(t *testing.T) {
		t.Parallel()

		ident := newTestIdentifier(t, alpha, beta)

		r := httptest.NewRequest("GET", "http://beta.example.com/book?tenant=beta", nil)
		r.Header.Set("X-Tenant-ID", "alpha")

		id, ok := ident.Identify(r)
		require.True(t, ok)
		assert.Equal(t, domain.TenantID("alpha"), id)
	})

	t.Run("query wins over host", func(t *testing.T) {
		t.Parallel()

		ident := newTestIdentifier(t, alpha, beta)

		r := httptest.NewRequest("GET", "http://beta.example.com/book?tenant=alpha", nil)

		id, ok := ident.Identify(r)
		require.True(t, ok)
		assert.Equal(t, domain.TenantID("alpha"), id)
	})

	t.Run("host resolves when no explicit signal", func(t *testing.T) {
		t.Parallel()

		ident := newTestIdentifier(t, alpha, beta)

		r := httptest.NewRequest("GET", "http://www.beta.example.com/book", nil)

		id, ok := ident.Identify(r)
		require.True(t, ok)
		assert.Equal(t, domain.TenantID("beta"), id)
	})

	t.Run("unrecognized header falls through to query", func(t *testing.T) {
		t.Parallel()

		ident := newTestIdentifier(t, alpha, beta)

		r := httptest.NewRequest("GET", "http://nowhere.test/book?tenant=beta", nil)
		r.Header.Set("X-Tenant-ID", "ghost")

		id, ok := ident.Identify(r)
		require.True(t, ok, "resolution must continue down the chain")
		assert.Equal(t, domain.TenantID("beta"), id)
	})

	t.Run("unrecognized header and query fall through to host", func(t *testing.T) {
		t.Parallel()

		ident := newTestIdentifier(t, alpha, beta)

		r := httptest.NewRequest("GET", "http://alpha.example.com/book?tenant=ghost", nil)
		r.Header.Set("X-Tenant-ID", "phantom")

		id, ok := ident.Identify(r)
		require.True(t, ok)
		assert.Equal(t, domain.TenantID("alpha"), id)
	})

	t.Run("no signal matches means no tenant", func(t *testing.T) {
		t.Parallel()

		ident := newTestIdentifier(t, alpha)

		r := httptest.NewRequest("GET", "http://platform.test/pricing", nil)

		id, ok := ident.Identify(r)
		assert.False(t, ok)
		assert.Empty(t, id)
	})

	t.Run("static registry answers by id before the cache initializes", func(t *testing.T) {
		t.Parallel()

		cold := tenant.NewCache(&mockTenantRepo{}, time.Minute, time.Second)
		ident := tenant.NewIdentifier(cold, "X-Tenant-ID", "tenant")

		r := httptest.NewRequest("GET", "http://platform.test/book", nil)
		r.Header.Set("X-Tenant-ID", "demo")

		id, ok := ident.Identify(r)
		require.True(t, ok)
		assert.Equal(t, domain.TenantID("demo"), id)
	})

	t.Run("static suffix net matches hosts before the cache initializes", func(t *testing.T) {
		t.Parallel()

		cold := tenant.NewCache(&mockTenantRepo{}, time.Minute, time.Second)
		ident := tenant.NewIdentifier(cold, "X-Tenant-ID", "tenant")

		r := httptest.NewRequest("GET", "http://booking.bellastudio.com/book", nil)

		id, ok := ident.Identify(r)
		require.True(t, ok)
		assert.Equal(t, domain.TenantID("bella-studio"), id)
	})

	t.Run("initialized cache overrides the static registry", func(t *testing.T) {
		t.Parallel()

		// "demo" exists statically but not in the store; once a snapshot is
		// installed, the store view is authoritative.
		ident := newTestIdentifier(t, alpha)

		r := httptest.NewRequest("GET", "http://platform.test/book", nil)
		r.Header.Set("X-Tenant-ID", "demo")

		_, ok := ident.Identify(r)
		assert.False(t, ok)
	})
}
