package httptransport

import (
	"context"
	"net/http"

	"github.com/AegisInttellegenceCore/AIC/internal/alliance"
	"github.com/AegisInttellegenceCore/AIC/internal/intel"
	dErrors "github.com/AegisInttellegenceCore/AIC/pkg/domain-errors"
)

// IntelService is the slice of the intel sync service the transport needs.
type IntelService interface {
	Submit(ctx context.Context, m alliance.Membership, rawText, nameOverride string) (*intel.Report, error)
	FetchAll(ctx context.Context, m alliance.Membership) ([]intel.Report, error)
}

type IntelHandler struct {
	svc        IntelService
	membership AllianceService
}

func NewIntelHandler(svc IntelService, membership AllianceService) *IntelHandler {
	return &IntelHandler{svc: svc, membership: membership}
}

type submitRequest struct {
	Universe    string `json:"universe"`
	RawText     string `json:"raw_text"`
	DisplayName string `json:"display_name,omitempty"`
}

// reportView is the decrypted report as shown to the caller, with the
// parsed snapshot attached so clients don't re-implement the parser.
type reportView struct {
	intel.Report
	Snapshot intel.Snapshot `json:"snapshot"`
}

func (h *IntelHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := h.membership.LoadMembership(r.Context(), req.Universe)
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := h.svc.Submit(r.Context(), m, req.RawText, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}
	if report == nil {
		// Empty raw text: accepted, nothing stored.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, reportView{Report: *report, Snapshot: intel.Parse(report.RawText)})
}

func (h *IntelHandler) handleFetch(w http.ResponseWriter, r *http.Request) {
	universe := r.URL.Query().Get("universe")
	if universe == "" {
		writeError(w, dErrors.New(dErrors.CodeValidation, "universe is required"))
		return
	}
	m, err := h.membership.LoadMembership(r.Context(), universe)
	if err != nil {
		writeError(w, err)
		return
	}
	reports, err := h.svc.FetchAll(r.Context(), m)
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]reportView, 0, len(reports))
	for _, report := range reports {
		views = append(views, reportView{Report: report, Snapshot: intel.Parse(report.RawText)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": views})
}
