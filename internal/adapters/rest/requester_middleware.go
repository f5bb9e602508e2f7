package rest

import (
	"net/http"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

// RequesterMiddleware derives the requester identity from the headers the
// gateway sets after authentication. An absent or malformed X-User-Id means
// anonymous; the service itself never verifies tokens.
func RequesterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requester := domain.RequesterContext{
			Role:           r.Header.Get("X-User-Role"),
			TypeAbonnement: r.Header.Get("X-Abonnement"),
		}
		if id, err := uuid.Parse(r.Header.Get("X-User-Id")); err == nil {
			requester.UserID = &id
		}
		if requester.UserID != nil && requester.TypeAbonnement == "" {
			requester.TypeAbonnement = domain.AbonnementGratuit
		}

		ctx := contextkeys.ContextWithRequester(r.Context(), requester)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
