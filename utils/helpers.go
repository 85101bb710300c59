package utils

import (
	"context"
	"fmt"
	"net/http"

	"github.com/awantoch/sitefn/constants"
)

// ============================================================================
// STANDARDIZED ERROR HELPERS
// ============================================================================

// ErrorWrapper provides standardized error handling patterns
type ErrorWrapper struct {
	context string
}

// NewErrorWrapper creates a new error wrapper with context
func NewErrorWrapper(context string) *ErrorWrapper {
	return &ErrorWrapper{context: context}
}

// Wrapf wraps an error with context and formatting
func (e *ErrorWrapper) Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return Errorf("%s: %s: %w", e.context, message, err)
}

// Failf creates a new error with context and formatting
func (e *ErrorWrapper) Failf(format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	return Errorf("%s: %s", e.context, message)
}

// ============================================================================
// STANDARDIZED HTTP HELPERS
// ============================================================================

// WriteHTTPError writes a plain-text error response. Headers set by earlier
// handlers for the page are dropped so a half-prepared response does not leak.
func WriteHTTPError(w http.ResponseWriter, message string, code int) {
	h := w.Header()
	reqID := h.Get(constants.HeaderRequestID)
	for k := range h {
		h.Del(k)
	}
	if reqID != "" {
		h.Set(constants.HeaderRequestID, reqID)
	}
	h.Set(constants.HeaderContentType, constants.ContentTypeText)
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	fmt.Fprintln(w, message)
}

// WriteHTML writes an HTML body with the given status.
func WriteHTML(w http.ResponseWriter, status int, body []byte) error {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeHTML)
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

// ============================================================================
// STANDARDIZED CONTEXT HELPERS
// ============================================================================

// ContextValue safely extracts a value from context
func ContextValue[T any](ctx context.Context, key any) (T, bool) {
	var zero T
	value := ctx.Value(key)
	if value == nil {
		return zero, false
	}

	typed, ok := value.(T)
	return typed, ok
}
