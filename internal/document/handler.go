package document

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/albaledger/portal/internal/auth"
	"github.com/albaledger/portal/internal/transport"
	"github.com/albaledger/portal/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Submit(actor *auth.User, dto SubmitDocumentsDTO) (*SubmitResult, error)
	ListByFilter(actor *auth.User, filter Filter) ([]*Document, error)
	GetByID(actor *auth.User, documentID string) (*Document, error)
	MarkProcessed(actor *auth.User, documentID string) (*Document, error)
	SubmitForApproval(actor *auth.User, documentID string) (*Document, error)
	Approve(actor *auth.User, documentID string) (*Document, error)
	Reject(actor *auth.User, documentID string, dto RejectDocumentDTO) (*Document, error)
	AssignEmployee(actor *auth.User, documentID string, dto AssignEmployeeDTO) (*Document, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) SubmitDocuments(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitDocumentsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitDocuments: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// clients always submit into their own folder
	if actor.IsClient() {
		dto.ClientID = actor.ID
	}

	result, err := h.Service.Submit(actor, dto)
	if err != nil {
		h.Logger.Error("SubmitDocuments: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("SubmitDocuments: batch processed",
		"actor_id", actor.ID,
		"accepted", len(result.Accepted),
		"rejected", len(result.Rejected))

	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter := Filter{
		Category: r.URL.Query().Get("category"),
	}

	if clientIDStr := r.URL.Query().Get("client_id"); clientIDStr != "" {
		if id, err := strconv.ParseInt(clientIDStr, 10, 64); err == nil && id > 0 {
			filter.ClientID = id
		}
	}
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		if m, err := strconv.Atoi(monthStr); err == nil && m >= 1 && m <= 12 {
			filter.Month = time.Month(m)
		}
	}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil && y > 0 {
			filter.Year = y
		}
	}

	docs, err := h.Service.ListByFilter(actor, filter)
	if err != nil {
		h.Logger.Error("ListDocuments: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
	})
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	doc, err := h.Service.GetByID(actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) RegisterDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	doc, err := h.Service.MarkProcessed(actor, chi.URLParam(r, "id"))
	if err != nil {
		h.Logger.Error("RegisterDocument: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) SubmitForApproval(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	doc, err := h.Service.SubmitForApproval(actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) ApproveDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	doc, err := h.Service.Approve(actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) RejectDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto RejectDocumentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.Service.Reject(actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) AssignEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto AssignEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.Service.AssignEmployee(actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, doc)
}

// GetCategories lists the fixed category set with display labels. Public route.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	type categoryEntry struct {
		Name           string `json:"name"`
		Label          string `json:"label"`
		PaymentBearing bool   `json:"payment_bearing"`
	}

	ordered := []string{
		CategoryShpenzime, CategoryBlerje, CategoryImport, CategoryExport,
		CategoryNoteDebiti, CategoryKthim, CategoryNoteKrediti,
	}

	categories := make([]categoryEntry, 0, len(ordered))
	for _, name := range ordered {
		categories = append(categories, categoryEntry{
			Name:           name,
			Label:          CategoryLabels[name],
			PaymentBearing: IsPaymentBearing(name),
		})
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}
