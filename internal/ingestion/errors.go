package ingestion

import (
	"errors"
	"fmt"
)

// ErrDocumentNotFound is returned when no file exists for a stored filename.
var ErrDocumentNotFound = errors.New("document not found")

// ErrExtractionFailed matches any *ExtractionError via errors.Is.
var ErrExtractionFailed = errors.New("text extraction failed")

// ExtractionError wraps a parser failure for a document that exists
type ExtractionError struct {
	Filename string
	Message  string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract text from %s: %s: %v", e.Filename, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to extract text from %s: %s", e.Filename, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrExtractionFailed) match regardless of the cause.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionFailed
}
