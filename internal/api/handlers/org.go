package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/pursuitworks/pursuit/internal/api/middleware"
	"github.com/pursuitworks/pursuit/internal/domain"
)

type OrgHandler struct {
	store domain.OrgStore
}

func NewOrgHandler(store domain.OrgStore) *OrgHandler {
	return &OrgHandler{store: store}
}

type createOrgRequest struct {
	Name string `json:"name"`
}

type createOrgResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	APIKey string `json:"api_key"`
}

// Create registers an org and returns its API key. The key is shown
// exactly once; only its hash is stored.
func (h *OrgHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate API key")
		return
	}

	org := &domain.Org{
		Name:       req.Name,
		APIKeyHash: middleware.HashAPIKey(apiKey),
	}

	if err := h.store.Create(r.Context(), org); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create org")
		return
	}

	writeJSON(w, http.StatusCreated, createOrgResponse{
		ID:     org.ID.String(),
		Name:   org.Name,
		APIKey: apiKey,
	})
}

func generateAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "pk_" + hex.EncodeToString(b), nil
}
