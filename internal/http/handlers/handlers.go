// Package handlers implements the HTTP API: auth, user management, and
// report management. All routes speak the {success, ...} envelope and raise
// domain errors through the respond translator.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/pharmvigil/medreport-be/internal/apperr"
	"github.com/pharmvigil/medreport-be/internal/storage"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.BadRequest("Invalid JSON payload")
	}
	return nil
}

// requireFields returns a ValidationError naming every blank field, in the
// "Please provide a & b" phrasing the API has always used.
func requireFields(fields map[string]string, order []string) error {
	missing := []string{}
	for _, name := range order {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return apperr.BadRequest("Please provide " + strings.Join(missing, " & "))
	}
	return nil
}

func validateName(name string) error {
	if n := len(strings.TrimSpace(name)); n < 3 || n > 100 {
		return apperr.BadRequest("Name must be between 3 and 100 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return apperr.BadRequest("Please provide a valid email")
	}
	return nil
}

// notFoundAs renames a storage not-found into a resource-specific 404 and
// passes every other error through untouched.
func notFoundAs(err error, message string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(message)
	}
	return err
}
