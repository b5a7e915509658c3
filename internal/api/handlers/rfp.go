package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pursuitworks/pursuit/internal/api/middleware"
	"github.com/pursuitworks/pursuit/internal/domain"
	"github.com/pursuitworks/pursuit/internal/service"
)

// maxUploadBytes bounds uploaded PDFs at 32 MiB.
const maxUploadBytes = 32 << 20

type RFPHandler struct {
	svc *service.RFPService
}

func NewRFPHandler(svc *service.RFPService) *RFPHandler {
	return &RFPHandler{svc: svc}
}

// Upload accepts a multipart PDF under the "file" field.
func (h *RFPHandler) Upload(w http.ResponseWriter, r *http.Request) {
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

	doc, err := h.svc.Upload(r.Context(), org.ID, header.Filename, data)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

type quickScanRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

func (h *RFPHandler) QuickScan(w http.ResponseWriter, r *http.Request) {
	org := middleware.OrgFromContext(r.Context())
	if org == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req quickScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.svc.QuickScan(r.Context(), org.ID, req.Name, req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *RFPHandler) List(w http.ResponseWriter, r *http.Request) {
	org := middleware.OrgFromContext(r.Context())
	if org == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	docs, err := h.svc.List(r.Context(), org.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rfps": docs})
}

func (h *RFPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	org, id, ok := h.orgAndID(w, r)
	if !ok {
		return
	}

	doc, err := h.svc.Get(r.Context(), id, org.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *RFPHandler) Update(w http.ResponseWriter, r *http.Request) {
	org, id, ok := h.orgAndID(w, r)
	if !ok {
		return
	}

	var upd service.RFPUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.svc.Update(r.Context(), id, org.ID, upd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *RFPHandler) Extract(w http.ResponseWriter, r *http.Request) {
	org, id, ok := h.orgAndID(w, r)
	if !ok {
		return
	}

	doc, err := h.svc.RunExtraction(r.Context(), id, org.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *RFPHandler) Evidence(w http.ResponseWriter, r *http.Request) {
	org, id, ok := h.orgAndID(w, r)
	if !ok {
		return
	}

	fields, err := h.svc.Evidence(r.Context(), id, org.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fields": fields})
}

// EvidenceForField returns the provenance rows behind one extracted
// field.
func (h *RFPHandler) EvidenceForField(w http.ResponseWriter, r *http.Request) {
	org, id, ok := h.orgAndID(w, r)
	if !ok {
		return
	}

	fieldName := chi.URLParam(r, "field")
	fields, err := h.svc.EvidenceForField(r.Context(), id, org.ID, fieldName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"field_name": fieldName,
		"fields":     fields,
	})
}

func (h *RFPHandler) DetectContradictions(w http.ResponseWriter, r *http.Request) {
	org, id, ok := h.orgAndID(w, r)
	if !ok {
		return
	}

	found, err := h.svc.DetectContradictions(r.Context(), id, org.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contradictions": found})
}

func (h *RFPHandler) ListContradictions(w http.ResponseWriter, r *http.Request) {
	org, id, ok := h.orgAndID(w, r)
	if !ok {
		return
	}

	found, err := h.svc.ListContradictions(r.Context(), id, org.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contradictions": found})
}

func (h *RFPHandler) Matches(w http.ResponseWriter, r *http.Request) {
	org, id, ok := h.orgAndID(w, r)
	if !ok {
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

	results, err := h.svc.Matches(r.Context(), id, org.ID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": results})
}

type decideRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

func (h *RFPHandler) Decide(w http.ResponseWriter, r *http.Request) {
	org, id, ok := h.orgAndID(w, r)
	if !ok {
		return
	}

	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.svc.Decide(r.Context(), id, org.ID, req.Decision, req.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type feedbackRequest struct {
	IsHelpful *bool `json:"is_helpful"`
}

func (h *RFPHandler) ContradictionFeedback(w http.ResponseWriter, r *http.Request) {
	org := middleware.OrgFromContext(r.Context())
	if org == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contradiction id")
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsHelpful == nil {
		writeError(w, http.StatusBadRequest, "is_helpful is required")
		return
	}

	if err := h.svc.ContradictionFeedback(r.Context(), id, org.ID, *req.IsHelpful); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *RFPHandler) orgAndID(w http.ResponseWriter, r *http.Request) (org *domain.Org, id uuid.UUID, ok bool) {
	o := middleware.OrgFromContext(r.Context())
	if o == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, uuid.Nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rfp id")
		return nil, uuid.Nil, false
	}
	return o, id, true
}
