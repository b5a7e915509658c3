package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pursuitworks/pursuit/internal/api/middleware"
	"github.com/pursuitworks/pursuit/internal/domain"
	"github.com/pursuitworks/pursuit/internal/service"
)

type BudgetHandler struct {
	svc *service.BudgetService
}

func NewBudgetHandler(svc *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{svc: svc}
}

// Upload accepts a multipart budget PDF plus municipality and
// fiscal_year form fields.
func (h *BudgetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	org := middleware.OrgFromContext(r.Context())
	if org == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	budget, items, err := h.svc.Upload(
		r.Context(), org.ID,
		r.FormValue("municipality"), r.FormValue("fiscal_year"),
		header.Filename, data,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"budget":     budget,
		"line_items": items,
	})
}

// Extract re-runs line-item extraction over a stored budget's text.
func (h *BudgetHandler) Extract(w http.ResponseWriter, r *http.Request) {
	org, id, ok := h.orgAndID(w, r)
	if !ok {
		return
	}

	items, err := h.svc.Extract(r.Context(), id, org.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"line_items": items})
}

func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	org := middleware.OrgFromContext(r.Context())
	if org == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	budgets, err := h.svc.List(r.Context(), org.ID, r.URL.Query().Get("municipality"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"budgets": budgets})
}

func (h *BudgetHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	org, id, ok := h.orgAndID(w, r)
	if !ok {
		return
	}

	budget, err := h.svc.Get(r.Context(), id, org.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

func (h *BudgetHandler) LineItems(w http.ResponseWriter, r *http.Request) {
	org, id, ok := h.orgAndID(w, r)
	if !ok {
		return
	}

	items, err := h.svc.LineItems(r.Context(), id, org.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"line_items": items})
}

// Search runs semantic search over line items: ?q=...&limit=N.
func (h *BudgetHandler) Search(w http.ResponseWriter, r *http.Request) {
	org := middleware.OrgFromContext(r.Context())
	if org == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	hits, err := h.svc.Search(r.Context(), org.ID, r.URL.Query().Get("q"), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": hits})
}

func (h *BudgetHandler) orgAndID(w http.ResponseWriter, r *http.Request) (org *domain.Org, id uuid.UUID, ok bool) {
	o := middleware.OrgFromContext(r.Context())
	if o == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, uuid.Nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid budget id")
		return nil, uuid.Nil, false
	}
	return o, id, true
}
