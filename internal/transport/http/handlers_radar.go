package httptransport

import (
	"context"
	"net/http"
	"strconv"

	"github.com/AegisInttellegenceCore/AIC/internal/alliance"
	"github.com/AegisInttellegenceCore/AIC/internal/radar"
	dErrors "github.com/AegisInttellegenceCore/AIC/pkg/domain-errors"
)

// RadarService is the slice of the radar service the transport needs.
type RadarService interface {
	Save(ctx context.Context, m alliance.Membership, galaxy, system int, track radar.Track, level int) (radar.Entry, error)
	Delete(ctx context.Context, m alliance.Membership, galaxy, system int, track radar.Track) error
	List(ctx context.Context, m alliance.Membership, galaxy int) ([]radar.ArcEntry, error)
}

type RadarHandler struct {
	svc        RadarService
	membership AllianceService
}

func NewRadarHandler(svc RadarService, membership AllianceService) *RadarHandler {
	return &RadarHandler{svc: svc, membership: membership}
}

type scannerRequest struct {
	Universe string      `json:"universe"`
	Galaxy   int         `json:"galaxy"`
	System   int         `json:"system"`
	Track    radar.Track `json:"track"`
	Level    int         `json:"level"`
}

func (h *RadarHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	var req scannerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := h.membership.LoadMembership(r.Context(), req.Universe)
	if err != nil {
		writeError(w, err)
		return
	}
	entry, err := h.svc.Save(r.Context(), m, req.Galaxy, req.System, req.Track, req.Level)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *RadarHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req scannerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := h.membership.LoadMembership(r.Context(), req.Universe)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), m, req.Galaxy, req.System, req.Track); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RadarHandler) handleList(w http.ResponseWriter, r *http.Request) {
	universe := r.URL.Query().Get("universe")
	if universe == "" {
		writeError(w, dErrors.New(dErrors.CodeValidation, "universe is required"))
		return
	}
	galaxy, err := strconv.Atoi(r.URL.Query().Get("galaxy"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeValidation, "galaxy must be an integer"))
		return
	}
	m, err := h.membership.LoadMembership(r.Context(), universe)
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := h.svc.List(r.Context(), m, galaxy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scanners": entries})
}
