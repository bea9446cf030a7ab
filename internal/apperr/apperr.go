// Package apperr defines the domain error kinds handlers raise and the
// boundary translates into HTTP responses.
package apperr

import "net/http"

// Error is a domain failure with an explicit HTTP status and a message safe
// to show to clients.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// BadRequest marks missing or malformed input (400).
func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Unauthorized marks a missing, invalid, or expired credential (401).
func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// Forbidden marks an authenticated caller lacking the required role (403).
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// NotFound marks a target absent or outside the caller's ownership scope (404).
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}
