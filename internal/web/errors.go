package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with full technical detail server-side and
// returned to the client as a user-friendly message with an error code,
// mapped through cases.MapError.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/caseflow/caseflow/internal/cases"
	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs the technical error and writes a sanitized JSON
// response.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := cases.MapError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
