// Package httpjson writes JSON responses and maps service errors to the
// error envelope shared by all endpoints.
package httpjson

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pavelanni/quizmaster/internal/apperr"
)

// ErrorResponse is the error envelope: {"success": false, "error": ..., "code": ...}.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, errMsg string, statusCode int, errCode string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Success: false,
		Error:   errMsg,
		Code:    errCode,
	})
}

// HandleError maps an error to an HTTP response. Typed apperr errors keep
// their status and code; anything else becomes an opaque 500.
func HandleError(w http.ResponseWriter, err error) {
	appErr := &apperr.Error{}
	if errors.As(err, &appErr) {
		if appErr.DebugInfo() != nil {
			slog.Warn("request failed", "error", err, "debug", appErr.DebugInfo())
		} else {
			slog.Warn("request failed", "error", err)
		}
		WriteError(w, appErr.Error(), appErr.HTTPStatus(), appErr.Code())
		return
	}
	slog.Error("internal server error", "error", err)
	WriteError(w,
		http.StatusText(http.StatusInternalServerError),
		http.StatusInternalServerError,
		"internal_server_error")
}
