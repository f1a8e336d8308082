// Package handlers provides JSON response and request helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// ErrInvalidBody indicates a request body that could not be decoded.
var ErrInvalidBody = errors.New("invalid request body")

// RespondJSON writes data as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes it as {"error": "..."}.
// Server errors are logged at Error level, client errors at Warn.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("handler error", "error", err, "status", status)
	} else {
		logger.Warn("request rejected", "error", err, "status", status)
	}
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// DecodeJSON decodes the request body into T. Unknown fields are rejected.
// Bodies larger than a http.MaxBytesReader limit report status 413.
func DecodeJSON[T any](r *http.Request) (T, int, error) {
	var v T

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return v, http.StatusRequestEntityTooLarge, fmt.Errorf("%w: exceeds %d bytes", ErrInvalidBody, tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return v, http.StatusBadRequest, fmt.Errorf("%w: empty", ErrInvalidBody)
		}
		return v, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	return v, http.StatusOK, nil
}
