package httptransport

import (
	"net/http"

	"github.com/asaskevich/govalidator"

	"github.com/AegisInttellegenceCore/AIC/internal/identity"
	dErrors "github.com/AegisInttellegenceCore/AIC/pkg/domain-errors"
)

// AuthHandler exposes anonymous sign-in. The returned token is the bearer
// credential for every other endpoint.
type AuthHandler struct {
	provider identity.Provider
}

func NewAuthHandler(provider identity.Provider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

type anonymousRequest struct {
	Nickname string `json:"nickname,omitempty"`
}

type anonymousResponse struct {
	IdentityID string `json:"identity_id"`
	Token      string `json:"token"`
}

func (h *AuthHandler) handleAnonymous(w http.ResponseWriter, r *http.Request) {
	var req anonymousRequest
	// An empty body is fine; the nickname is optional.
	_ = decodeJSONLenient(r, &req)

	if req.Nickname != "" && !govalidator.StringLength(req.Nickname, "1", "40") {
		writeError(w, dErrors.New(dErrors.CodeValidation, "nickname too long"))
		return
	}

	id, token, err := h.provider.SignInAnonymously(r.Context(), req.Nickname)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, anonymousResponse{IdentityID: id.ID, Token: token})
}
