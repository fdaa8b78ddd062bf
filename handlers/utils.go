package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/wordclimb/wordclimb-api/config"
	"github.com/wordclimb/wordclimb-api/services"
	"gorm.io/gorm"
)

// DBHandler bundles the database and learning settings every handler
// needs. Built once in main and shared across routes.
type DBHandler struct {
	*gorm.DB
	Settings config.Settings
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondServiceError maps a taxonomy error to its HTTP status and
// writes the structured {error, message} body.
func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrDuplicate),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInsufficientWords):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	default:
		message = "internal error"
	}

	respondError(w, status, services.ErrorKind(err), message)
}

func respondError(w http.ResponseWriter, status int, kind, message string) {
	respondJSON(w, status, map[string]string{
		"error":   kind,
		"message": message,
	})
}

// decodeJSON decodes the request body into dst, writing the invalid
// input response itself when decoding fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return err
	}
	return nil
}

// pathID parses a numeric path value, 0 when missing or malformed.
func pathID(r *http.Request, name string) uint {
	raw := r.PathValue(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
