package tenant

import (
	"context"

	"github.com/gosuda/reserva/internal/domain"
)

type ctxKey int

const (
	ctxKeyIdentified ctxKey = iota
	ctxKeyPrincipal
	ctxKeyContext
)

// ContextWithIdentified records the lenient identifier's result on a request
// context.
func ContextWithIdentified(ctx context.Context, id domain.TenantID) context.Context {
	return context.WithValue(ctx, ctxKeyIdentified, id)
}

func IdentifiedFromContext(ctx context.Context) (domain.TenantID, bool) {
	id, ok := ctx.Value(ctxKeyIdentified).(domain.TenantID)
	return id, ok && id != ""
}

// ContextWithPrincipal records an authenticated principal's tenant id.
func ContextWithPrincipal(ctx context.Context, id domain.TenantID) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, id)
}

func PrincipalFromContext(ctx context.Context) (domain.TenantID, bool) {
	id, ok := ctx.Value(ctxKeyPrincipal).(domain.TenantID)
	return id, ok && id != ""
}

// ContextWithTenant attaches a fully loaded tenant context, so downstream
// handlers skip resolution entirely.
func ContextWithTenant(ctx context.Context, tc *Context) context.Context {
	return context.WithValue(ctx, ctxKeyContext, tc)
}

func FromRequestContext(ctx context.Context) (*Context, bool) {
	tc, ok := ctx.Value(ctxKeyContext).(*Context)
	return tc, ok && tc != nil
}
