// Package respond writes the uniform API envelope and is the single place
// where domain errors become HTTP responses.
package respond

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/pharmvigil/medreport-be/internal/apperr"
	"github.com/pharmvigil/medreport-be/internal/storage"
)

// ErrorBody is the uniform failure envelope.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// JSON writes payload as the response body with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}

// Error translates err into the failure envelope. Domain errors carry their
// own status and message; storage sentinels map to their HTTP equivalents;
// anything unrecognized becomes a generic 500 so storage internals never
// reach the client.
func Error(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		fail(w, appErr.Status, appErr.Message)
	case errors.Is(err, storage.ErrDuplicateEmail):
		fail(w, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, storage.ErrOwnerNotFound):
		fail(w, http.StatusBadRequest, "Please provide a valid userId")
	case errors.Is(err, storage.ErrNotFound):
		fail(w, http.StatusNotFound, "Resource not found")
	default:
		log.Printf("respond: unhandled error: %v", err)
		fail(w, http.StatusInternalServerError, "Server error")
	}
}

func fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Success: false, Error: message})
}
