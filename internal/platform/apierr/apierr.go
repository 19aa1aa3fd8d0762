package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lecturepipe/backend/internal/domain"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Map translates a domain sentinel error into its HTTP boundary mapping
// per spec.md §7. Single-resource operations call this directly. Batch
// operations report component failures inside an item in-band instead, and
// call this only for a whole-request failure (question generation's LLM
// failure, mapped to 503).
func Map(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var depErr *domain.DependencyViolationError
	if errors.As(err, &depErr) {
		return &Error{Status: http.StatusConflict, Code: "DEPENDENCY_VIOLATION", Err: err}
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return &Error{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Err: err}
	case errors.Is(err, domain.ErrNotFound):
		return &Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Err: err}
	case errors.Is(err, domain.ErrDuplicate):
		return &Error{Status: http.StatusConflict, Code: "DUPLICATE", Err: err}
	case errors.Is(err, domain.ErrDependencyViolation):
		return &Error{Status: http.StatusConflict, Code: "DEPENDENCY_VIOLATION", Err: err}
	case errors.Is(err, domain.ErrLLMUnavailable):
		return &Error{Status: http.StatusServiceUnavailable, Code: "LLM_UNAVAILABLE", Err: err}
	default:
		return &Error{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Err: err}
	}
}
