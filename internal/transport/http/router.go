// Package httptransport is the thin HTTP layer. Handlers delegate to the
// domain services without embedding business logic so transport concerns
// remain isolated.
package httptransport

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AegisInttellegenceCore/AIC/internal/platform/middleware"
	dErrors "github.com/AegisInttellegenceCore/AIC/pkg/domain-errors"
)

// NewRouter wires all public endpoints. Everything under /alliance,
// /intel, and /radar requires a resolved session; /auth/anonymous is how
// a caller obtains one.
func NewRouter(auth *AuthHandler, ally *AllianceHandler, intel *IntelHandler, radar *RadarHandler, logger *log.Logger) http.Handler {
	session := middleware.RequireSession(auth.provider, ally.isAdmin, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/anonymous", method(http.MethodPost, auth.handleAnonymous))

	mux.Handle("/alliance", session(method(http.MethodPost, ally.handleCreate)))
	mux.Handle("/alliance/join", session(method(http.MethodPost, ally.handleJoin)))
	mux.Handle("/alliance/membership", session(method(http.MethodGet, ally.handleMembership)))

	mux.Handle("/intel/reports", session(byVerb(map[string]http.HandlerFunc{
		http.MethodPost: intel.handleSubmit,
		http.MethodGet:  intel.handleFetch,
	})))

	mux.Handle("/radar/scanners", session(byVerb(map[string]http.HandlerFunc{
		http.MethodPut:    radar.handleSave,
		http.MethodDelete: radar.handleDelete,
		http.MethodGet:    radar.handleList,
	})))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(middleware.RequestTime(mux))
}

func method(verb string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != verb {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func byVerb(handlers map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if next, ok := handlers[r.Method]; ok {
			next(w, r)
			return
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// writeError centralizes domain error translation so every handler emits
// the same JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	writeJSON(w, statusFor(code), map[string]string{"error": string(code)})
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeJSONLenient tolerates an empty body for endpoints where every
// field is optional.
func decodeJSONLenient(r *http.Request, out any) error {
	err := json.NewDecoder(r.Body).Decode(out)
	if err == io.EOF {
		return nil
	}
	return err
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return false
	}
	return true
}
