package handler

// Every error response has the same shape:
//
//	{"error": "not_found", "message": "snippet not found with id abc123"}

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/snippets/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`           // machine-readable, e.g. "not_found"
	Message string `json:"message"`         // human-readable
	Field   string `json:"field,omitempty"` // set for validation errors
}

// writeJSON sends a JSON response with the given status code. Headers must be
// set before WriteHeader; anything set afterwards is ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status. errors.Is walks the
// wrap chain, so fmt.Errorf("...: %w", apperror.NotFound(...)) still maps
// to 404.
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
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
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
			Field:   appErr.Field,
		})
		return
	}

	// Never echo internal error text to clients; it can carry SQL or paths.
	slog.Error("internal error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeJSON reads a JSON body into dst. The size limit is applied by the
// router (chi's RequestSize); hitting it is reported as a validation error.
// Unknown fields are ignored so clients can send back a snippet they
// fetched, read-only fields included.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.ValidationFailed("body",
				fmt.Sprintf("request body must be %d bytes or less", tooLarge.Limit))
		}
		return apperror.ValidationFailed("body", "invalid JSON body")
	}
	return nil
}

// pagination reads ?limit= and ?offset=. Missing values are zero and left
// for the service to default.
func pagination(r *http.Request) (limit, offset int, err error) {
	q := r.URL.Query()
	if limit, err = queryInt(q.Get("limit"), "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = queryInt(q.Get("offset"), "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func queryInt(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.ValidationFailed(name, name+" must be a non-negative integer")
	}
	return n, nil
}
