package ocr

import (
	"errors"
	"fmt"
)

// Common OCR processing errors
var (
	// ErrMissingCredentials is returned when the backend credentials are not configured.
	ErrMissingCredentials = errors.New("missing OCR backend credentials")

	// ErrSubmitFailed is returned when the image submission request fails.
	ErrSubmitFailed = errors.New("OCR submission failed")

	// ErrPollTimeout is returned when the operation did not reach a terminal
	// state within the poll attempt ceiling.
	ErrPollTimeout = errors.New("OCR polling timed out")

	// ErrOperationFailed is returned when the backend reports a failed analysis.
	ErrOperationFailed = errors.New("OCR operation failed")

	// ErrUnsupportedFormat is returned when an image cannot be converted to a
	// format the backend accepts.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// OCRError wraps errors with additional context about the OCR processing failure.
type OCRError struct {
	// Op is the operation that failed (e.g., "ExtractText", "poll").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *OCRError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OCRError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *OCRError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapOCRError wraps an error as an OCRError if it isn't already one.
func WrapOCRError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err // Already wrapped
	}

	return &OCRError{Op: op, Err: err, Details: details}
}
