package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/AegisInttellegenceCore/AIC/pkg/requestcontext"
)

// RequestID assigns each request an ID, carries it in the context, and
// echoes it back so callers can correlate their logs with ours. An ID
// supplied by the caller is kept.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
