package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mlserve/internal/inference"
	"mlserve/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// requestError is an input problem detected by the HTTP layer.
type requestError struct {
	code int
	msg  string
}

func (e *requestError) Error() string   { return e.msg }
func (e *requestError) StatusCode() int { return e.code }

func badRequest(msg string) error { return &requestError{code: http.StatusBadRequest, msg: msg} }

func unsupportedMedia(msg string) error {
	return &requestError{code: http.StatusUnsupportedMediaType, msg: msg}
}

// statusForError maps pipeline errors to HTTP status codes.
func statusForError(err error) int {
	var he HTTPError
	switch {
	case errors.As(err, &he):
		return he.StatusCode()
	case inference.IsDependencyUnavailable(err), inference.IsModelLoad(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		// Unsupported model and inference failures are server-side.
		return http.StatusInternalServerError
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
