package handler

// WHERE HTTP STATUS CODES COME FROM:
// Services and repositories return apperror values and know nothing about
// HTTP. This file is the one place a domain error becomes a status code, so
// the mapping is consistent across every endpoint.
//
// Ownership failures are 401, not 403: the client only learns that it may
// not touch the record. A missing record is 404 for everyone, owner or not.
//
// Every error response has the same shape:
//
//	{"error": "not_found", "message": "interview not found with id abc123"}
//
// Messages come from apperror values, which are written to be shown to the
// client. Anything else becomes a generic 500 and the detail is logged.

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/interview-tracker/internal/apperror"
	"github.com/sakif/interview-tracker/internal/auth"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable type, e.g. "not_found"
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code. Headers must
// be set before WriteHeader; the body goes last.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError maps a domain error to its HTTP status and sends it.
//
//	ErrValidation   → 400
//	ErrUnauthorized → 401 (no session, or someone else's record)
//	ErrNotFound     → 404
//	ErrConflict     → 409
//	anything else   → 500, generic message
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// fail logs errors that are not domain errors, then writes the response.
// op names the failed action, e.g. "update interview".
func fail(logger *slog.Logger, w http.ResponseWriter, r *http.Request, op string, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		logger.Error("request failed",
			slog.String("op", op),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	writeError(w, err)
}

// decodeJSON reads a size-limited JSON body into dst. Malformed input is a
// validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", fmt.Sprintf("invalid JSON body: %v", err))
	}
	return nil
}

// identity returns the caller set by auth.RequireAuth. Routes mounted
// without it get an empty Identity, which every service rejects.
func identity(r *http.Request) auth.Identity {
	who, _ := auth.IdentityFromContext(r.Context())
	return who
}

type successResponse struct {
	Success bool `json:"success"`
}
