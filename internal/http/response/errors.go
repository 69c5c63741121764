package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coderr-app/coderr-backend/internal/domain"
	"github.com/coderr-app/coderr-backend/pkg/logger"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Common error codes
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInternalError = "INTERNAL_ERROR"
)

// JSON writes data as a JSON response with the given status code
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	JSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// ValidationFields writes a 400 with per-field messages, e.g.
// {"status": ["Invalid status."]}.
func ValidationFields(w http.ResponseWriter, fields map[string][]string) {
	JSON(w, http.StatusBadRequest, fields)
}

func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func MethodNotAllowed(w http.ResponseWriter) {
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", CodeMethodNotAllowed)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

// DomainError maps the domain error taxonomy onto HTTP statuses.
func DomainError(w http.ResponseWriter, err error) {
	if verr, ok := domain.AsValidation(err); ok {
		ValidationFields(w, verr.Fields)
		return
	}
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		Unauthorized(w, "Authentication credentials were not provided.")
	case errors.Is(err, domain.ErrForbidden):
		Forbidden(w, "You do not have permission to perform this action.")
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, "Not found.")
	default:
		logger.Error("internal error", "error", err)
		InternalError(w, "Internal server error")
	}
}
