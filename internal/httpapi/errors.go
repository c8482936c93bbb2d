package httpapi

import (
	"encoding/json"
	"net/http"

	"advisord/internal/lifecycle"
	"advisord/pkg/api"
)

// HTTPError lets services pick an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// apiError is the service layer's HTTPError implementation.
type apiError struct {
	code int
	msg  string
}

func (e *apiError) Error() string   { return e.msg }
func (e *apiError) StatusCode() int { return e.code }

func errNoModelLoaded() error {
	return &apiError{code: http.StatusConflict, msg: "no model loaded"}
}

func errBadRequest(msg string) error {
	return &apiError{code: http.StatusBadRequest, msg: msg}
}

func errNotFound(msg string) error {
	return &apiError{code: http.StatusNotFound, msg: msg}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: msg, Code: status})
}

// writeServiceError maps a service error to a response. Well-known
// lifecycle errors get their own status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case lifecycle.IsModelNotFound(err):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case lifecycle.IsDependencyUnavailable(err):
		writeJSONError(w, http.StatusServiceUnavailable, err.Error())
	default:
		if he, ok := err.(HTTPError); ok {
			writeJSONError(w, he.StatusCode(), he.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
