package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pursuitworks/pursuit/internal/domain"
	"github.com/pursuitworks/pursuit/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"status": "error", "error": msg})
}

// writeDomainError maps the pipeline's error taxonomy onto HTTP
// statuses: bad inputs are the caller's fault, oracle trouble is a bad
// gateway, everything else is a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		validation *domain.ValidationError
		ingestion  *domain.IngestionError
		malformed  *domain.MalformedResponseError
		svcErr     *domain.ServiceError
	)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Error())
	case errors.As(err, &ingestion):
		writeError(w, http.StatusUnprocessableEntity, ingestion.Error())
	case errors.As(err, &malformed):
		writeError(w, http.StatusBadGateway, "extraction oracle returned an unparseable response")
	case errors.As(err, &svcErr):
		writeError(w, http.StatusBadGateway, "extraction oracle unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
