package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/roshil-6/TONIO-SENORA/internal/kv"
	"github.com/roshil-6/TONIO-SENORA/internal/repository"
	"github.com/roshil-6/TONIO-SENORA/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeServiceError maps service and storage errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": ve.Error(), "kind": string(ve.Kind)})
	case service.NotFound(err), errors.Is(err, service.ErrUnknownDocument):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, kv.ErrQuotaExceeded):
		writeError(w, http.StatusInsufficientStorage, "storage quota exceeded")
	case errors.Is(err, service.ErrInvalidLogin):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAdminRegister):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrEmailTaken), errors.Is(err, repository.ErrReviewDecided):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrShortName),
		errors.Is(err, service.ErrShortPassword),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Warning: handler: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
