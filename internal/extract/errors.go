package extract

import (
	"errors"
	"fmt"
)

// ErrEmptyInput signals a zero-length payload. It is checked by the caller
// before dispatch; the orchestrator itself does not re-check.
var ErrEmptyInput = errors.New("Empty file")

// PayloadTooLargeError signals a file exceeding the per-file ceiling.
type PayloadTooLargeError struct {
	LimitMB int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("File exceeds max size of %d MB", e.LimitMB)
}

// UnsupportedFormatError signals an unrecognized or missing file extension.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("Unsupported file type: .%s", e.Ext)
}

// ExtractionError wraps an underlying decode/OCR/parse failure.
type ExtractionError struct {
	Stage string
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction failed: %v", e.Stage, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// BatchTooLargeError aborts a whole batch before any file is processed.
// It is the only whole-batch-fatal condition.
type BatchTooLargeError struct {
	Received int
	Limit    int
}

func (e *BatchTooLargeError) Error() string {
	return fmt.Sprintf("Too many files. Received %d but max allowed is %d.", e.Received, e.Limit)
}
