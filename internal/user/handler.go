package user

import (
	"net/http"

	"github.com/albaledger/portal/internal/auth"
	"github.com/albaledger/portal/internal/transport"
)

type ServiceAPI interface {
	GetByID(userID int64) (*User, error)
	ListClients() ([]*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetCurrentUser returns the session user injected by the auth middleware.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.UserFromContext(r.Context())
	if !ok || sessionUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(sessionUser.ID)
	if err != nil {
		h.Logger.Error("GetCurrentUser: failed to load user", "error", err, "user_id", sessionUser.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// ListClients is a staff-only lookup of client accounts.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Service.ListClients()
	if err != nil {
		h.Logger.Error("ListClients: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list clients")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"clients": clients,
	})
}
