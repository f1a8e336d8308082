package prompts

import (
	"errors"
	"net/http"
)

// Domain errors for prompt operations.
var (
	// ErrInvalidArgument indicates a blank id or a Manager with no adapter configured.
	// It is returned before any adapter call is made.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is the sentinel adapters wrap when an id is absent from storage.
	ErrNotFound = errors.New("prompt not found")
	// ErrDuplicate indicates an insert-only create found an existing record under the id.
	ErrDuplicate = errors.New("prompt already exists")
	// ErrStale indicates a mutating call on a prompt whose record was deleted.
	ErrStale = errors.New("prompt instance is stale")
)

// MapHTTPStatus maps prompt domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrStale) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidArgument) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
