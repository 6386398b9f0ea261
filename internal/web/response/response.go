// Package response writes JSON bodies for the inspector API.
package response

import (
	"net/http"

	"github.com/goccy/go-json"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// JSON writes v with the given status. Encoding failures fall back to a
// plain 500.
func JSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// Error renders a standard error response. The code is derived from the
// status when empty.
func Error(w http.ResponseWriter, status int, message, code string) {
	ErrorWithDetails(w, status, message, code, nil)
}

// ErrorWithDetails renders an error with additional details
func ErrorWithDetails(w http.ResponseWriter, status int, message, code string, details map[string]any) {
	if code == "" {
		code = errorCodeFromStatus(status)
	}
	JSON(w, status, &ErrorResponse{
		Error:   "error",
		Message: message,
		Code:    code,
		Details: details,
	})
}

// NotFound renders a 404 with suggestions for the missing name.
func NotFound(w http.ResponseWriter, message string, suggestions []string) {
	var details map[string]any
	if len(suggestions) > 0 {
		details = map[string]any{"suggestions": suggestions}
	}
	ErrorWithDetails(w, http.StatusNotFound, message, "", details)
}

func errorCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusConflict:
		return "conflict"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	case http.StatusInternalServerError:
		return "internal_server_error"
	default:
		return "error"
	}
}
