package importer

// errors.go defines the engine's error taxonomy.
//
// Fatal errors (*ImportError) make the whole import meaningless and
// abort before any write. Each carries a short support code users can
// quote, plus an actionable hint:
//
//	CSV001  - CSV could not be parsed with any known delimiter
//	CSV002  - CSV contained no data records
//	REF001  - A referenced collection does not exist
//	SLUG001 - No slug field is configured
//	STORE001 - The collection store rejected a write
//	INT001  - Internal consistency check failed (engine bug)
//
// Per-value conversion problems are *ConversionError values. They are
// collected into Warnings, never propagated as errors from the
// pipeline.

import (
	"errors"
	"fmt"
)

// Severity tags a fatal error for presentation purposes.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ImportError is a fatal, user-facing import failure.
type ImportError struct {
	Code     string
	Severity Severity
	Message  string // What happened (user-friendly)
	Action   string // What to do about it
	Err      error  // Underlying technical error, if any
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.Code, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// UserMessage formats the error for end-user display:
// "Message (Code: XXX). Action"
func (e *ImportError) UserMessage() string {
	if e.Action == "" {
		return fmt.Sprintf("%s (Code: %s)", e.Message, e.Code)
	}
	return fmt.Sprintf("%s (Code: %s). %s", e.Message, e.Code, e.Action)
}

// AsImportError unwraps err into an *ImportError if it is one.
func AsImportError(err error) (*ImportError, bool) {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

func errCSVUnparseable(err error) *ImportError {
	return &ImportError{
		Code:     "CSV001",
		Severity: SeverityError,
		Message:  "The file could not be read as CSV",
		Action:   "Ensure the file is comma, tab, or semicolon separated",
		Err:      err,
	}
}

func errCSVEmpty() *ImportError {
	return &ImportError{
		Code:     "CSV002",
		Severity: SeverityWarning,
		Message:  "The file contains no records",
		Action:   "Add at least one data row below the header",
	}
}

func errReferencedCollection(collectionID string, err error) *ImportError {
	return &ImportError{
		Code:     "REF001",
		Severity: SeverityError,
		Message:  fmt.Sprintf("Referenced collection %q was not found", collectionID),
		Action:   "Check the reference field's collection before importing",
		Err:      err,
	}
}

func errNoSlugField() *ImportError {
	return &ImportError{
		Code:     "SLUG001",
		Severity: SeverityError,
		Message:  "No slug field is configured",
		Action:   "Select a column whose values identify each record",
	}
}

func errStoreWrite(err error) *ImportError {
	return &ImportError{
		Code:     "STORE001",
		Severity: SeverityError,
		Message:  "The collection store rejected the write",
		Action:   "Try the import again",
		Err:      err,
	}
}

// errInternal marks an engine invariant violation. It is never shown to
// users as a recoverable condition; callers should treat it as a bug.
func errInternal(detail string) *ImportError {
	return &ImportError{
		Code:     "INT001",
		Severity: SeverityError,
		Message:  "Internal consistency check failed",
		Action:   "Report this to support",
		Err:      errors.New(detail),
	}
}

// ConversionError is a per-value, non-fatal conversion failure. The
// failing field's value is omitted from the record's payload and the
// failure is counted; the record and the import continue.
type ConversionError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("field %q: %s (value %q)", e.Field, e.Reason, e.Value)
}
