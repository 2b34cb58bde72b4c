package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

var (
	// ErrCompanyRequired indicates a report request without a tenant scope.
	ErrCompanyRequired = errors.New("company scope required")
	// ErrInvalidPeriod indicates a date range where from is after to.
	ErrInvalidPeriod = errors.New("invalid period: from date after to date")
	// ErrUnknownSource indicates an unrecognised source filter value.
	ErrUnknownSource = errors.New("unknown source type")
)

// ErrorPayload is the JSON body returned for every failed request.
type ErrorPayload struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteError emits a structured error response.
func WriteError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorPayload{Error: message, Fields: fields})
}

// WriteInternalError emits a 500 with an opaque reference id the caller can
// quote back; the id is returned so the handler can log it alongside the
// underlying error.
func WriteInternalError(w http.ResponseWriter) string {
	ref := uuid.NewString()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(ErrorPayload{Error: "internal server error", RequestID: ref})
	return ref
}
