package contextkeys

import (
	"context"

	"listing-service/internal/core/domain"
)

type requesterCtxKey struct{}

// ContextWithRequester stores the gateway-derived requester identity.
func ContextWithRequester(ctx context.Context, requester domain.RequesterContext) context.Context {
	return context.WithValue(ctx, requesterCtxKey{}, requester)
}

// RequesterFromContext returns the requester, anonymous when absent.
func RequesterFromContext(ctx context.Context) domain.RequesterContext {
	if r, ok := ctx.Value(requesterCtxKey{}).(domain.RequesterContext); ok {
		return r
	}
	return domain.RequesterContext{}
}
