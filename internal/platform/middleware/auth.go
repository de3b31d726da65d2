package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/AegisInttellegenceCore/AIC/internal/identity"
	"github.com/AegisInttellegenceCore/AIC/pkg/requestcontext"
)

// AdminPredicate decides administrator capability for a resolved session.
type AdminPredicate func(identityID, nickname string) bool

// RequestTime pins one "now" per request so every timestamp taken while
// handling it agrees.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSession resolves the bearer token into an identity and injects
// it, the nickname, and the admin flag into the request context. Requests
// without a valid session get 401; anonymous sign-in has its own endpoint.
func RequireSession(provider identity.Provider, isAdmin AdminPredicate, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			id, err := provider.GetSession(r.Context(), token)
			if err != nil {
				if logger != nil {
					logger.Printf("session rejected (request %s): %v", requestcontext.RequestID(r.Context()), err)
				}
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}

			ctx := requestcontext.WithIdentityID(r.Context(), id.ID)
			ctx = requestcontext.WithNickname(ctx, id.Nickname)
			if isAdmin != nil {
				// Resolved once per session resolution; call sites read the
				// flag from context instead of re-deriving it.
				ctx = requestcontext.WithAdmin(ctx, isAdmin(id.ID, id.Nickname))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
