// Package jsonutil writes JSON responses and decodes JSON request bodies.
// Every error body has the shape {"error": message}.
package jsonutil

import (
	"errors"
	"io"
	"net/http"

	"github.com/ashishmicrocom/adPatterns/internal/app/system/apperr"
	"github.com/goccy/go-json"
)

// MaxBodyBytes caps request bodies read by Decode.
const MaxBodyBytes = 1 << 20

// JSON writes data with the given status. A nil data writes headers only.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func OK(w http.ResponseWriter, data any) { JSON(w, http.StatusOK, data) }
func Created(w http.ResponseWriter, data any) { JSON(w, http.StatusCreated, data) }
func NoContent(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) }

// Error writes {"error": message} with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 response with a Bearer challenge.
func Unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	Error(w, http.StatusUnauthorized, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}

// WriteError maps err to a status through its apperr.Kind and writes
// {"error": message}. Errors that are not *apperr.Error become a generic 500
// so internal details never reach the client.
func WriteError(w http.ResponseWriter, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		InternalError(w, "internal server error")
		return
	}
	if ae.Kind == apperr.KindUnauthorized {
		Unauthorized(w, ae.Message)
		return
	}
	Error(w, ae.Kind.Status(), ae.Message)
}

// Decode reads one JSON value from the request body into v. Unknown keys
// are ignored. An empty, oversized, or malformed body is an apperr
// Validation error.
func Decode(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Validation("request body is required")
		case errors.As(err, &tooBig):
			return apperr.Validation("request body is too large")
		default:
			return apperr.Validation("invalid JSON body")
		}
	}
	return nil
}
