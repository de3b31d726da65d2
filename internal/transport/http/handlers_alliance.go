package httptransport

import (
	"context"
	"net/http"

	"github.com/asaskevich/govalidator"

	"github.com/AegisInttellegenceCore/AIC/internal/alliance"
	"github.com/AegisInttellegenceCore/AIC/internal/platform/middleware"
	dErrors "github.com/AegisInttellegenceCore/AIC/pkg/domain-errors"
	"github.com/AegisInttellegenceCore/AIC/pkg/requestcontext"
)

// AllianceService is the slice of the alliance service the transport
// needs.
type AllianceService interface {
	Create(ctx context.Context, name, universe, password string) (alliance.Membership, error)
	Join(ctx context.Context, name, universe, password string) (alliance.Membership, error)
	LoadMembership(ctx context.Context, universe string) (alliance.Membership, error)
	IsAdmin(identityID, nickname string) bool
}

type AllianceHandler struct {
	svc     AllianceService
	isAdmin middleware.AdminPredicate
}

func NewAllianceHandler(svc AllianceService) *AllianceHandler {
	return &AllianceHandler{svc: svc, isAdmin: svc.IsAdmin}
}

type allianceRequest struct {
	Name     string `json:"name"`
	Universe string `json:"universe"`
	Password string `json:"password"`
}

// membershipResponse never carries the key. The key exists only inside
// the service layer; callers interact with it exclusively through the
// submit/fetch/save operations.
type membershipResponse struct {
	AllianceID string `json:"alliance_id"`
	Name       string `json:"name"`
	Universe   string `json:"universe"`
	Admin      bool   `json:"admin"`
}

func (h *AllianceHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req allianceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateAllianceRequest(req); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.svc.Create(r.Context(), req.Name, req.Universe, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toResponse(r.Context(), m))
}

func (h *AllianceHandler) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req allianceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateAllianceRequest(req); err != nil {
		writeError(w, err)
		return
	}
	m, err := h.svc.Join(r.Context(), req.Name, req.Universe, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(r.Context(), m))
}

func (h *AllianceHandler) handleMembership(w http.ResponseWriter, r *http.Request) {
	universe := r.URL.Query().Get("universe")
	m, err := h.svc.LoadMembership(r.Context(), universe)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(r.Context(), m))
}

func (h *AllianceHandler) toResponse(ctx context.Context, m alliance.Membership) membershipResponse {
	return membershipResponse{
		AllianceID: m.AllianceID,
		Name:       m.Name,
		Universe:   m.Universe,
		Admin:      requestcontext.Admin(ctx),
	}
}

func validateAllianceRequest(req allianceRequest) error {
	if !govalidator.StringLength(req.Name, "1", "60") {
		return dErrors.New(dErrors.CodeValidation, "alliance name must be 1-60 characters")
	}
	if !govalidator.StringLength(req.Password, "1", "128") {
		return dErrors.New(dErrors.CodeValidation, "password must be 1-128 characters")
	}
	if req.Universe == "" {
		return dErrors.New(dErrors.CodeValidation, "universe is required")
	}
	return nil
}
