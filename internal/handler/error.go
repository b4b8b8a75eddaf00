// Package handler implements the JSON HTTP API: assessment submission and
// retrieval, plus health probes.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stonefield-io/brickscan/internal/domain"
)

// ErrorResponse is the JSON body returned for every error.
type ErrorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFromCode maps application error codes to HTTP status codes.
func statusFromCode(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ETOOLARGE:
		return http.StatusRequestEntityTooLarge
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders an application error as JSON. Internal errors get a
// generic message; their details stay in the logs.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	code := domain.ErrorCode(err)
	status := statusFromCode(code)

	if status >= 500 {
		logger.Error("request failed",
			"code", code,
			"op", domain.ErrorOp(err),
			"error", err,
		)
	}

	writeJSON(w, status, ErrorResponse{
		Error: errorBody{
			Code:    code,
			Message: domain.ErrorMessage(err),
		},
	})
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NotFoundResponse writes the JSON body used for unmatched routes.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Error: errorBody{
			Code:    domain.ENOTFOUND,
			Message: "The requested resource was not found",
		},
	})
}
