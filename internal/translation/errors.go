package translation

import (
	"errors"
	"fmt"
)

// Common translation errors
var (
	// ErrEmptyText is returned when the caller submits empty or whitespace-only text.
	ErrEmptyText = errors.New("empty text provided")

	// ErrBackendUnavailable is returned when a required translation backend is not configured.
	ErrBackendUnavailable = errors.New("translation backend not available")

	// ErrNoTranslation is returned when the backend responds without a usable translation.
	ErrNoTranslation = errors.New("no translation returned by backend")

	// ErrRequestFailed is returned when the backend request fails at the transport level
	// or with a non-success HTTP status.
	ErrRequestFailed = errors.New("translation request failed")
)

// TranslationError wraps errors with additional context about the failed operation.
type TranslationError struct {
	// Op is the operation that failed (e.g., "Translate", "BatchTranslate").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *TranslationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("translation: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("translation: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *TranslationError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *TranslationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapTranslationError wraps an error as a TranslationError if it isn't already one.
func WrapTranslationError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var trErr *TranslationError
	if errors.As(err, &trErr) {
		return err // Already wrapped
	}

	return &TranslationError{Op: op, Err: err, Details: details}
}
