package errors

import "fmt"

// Kind classifies a clipvault error.
type Kind string

const (
	KindNotFound        Kind = "NOT_FOUND"
	KindSchemaMissing   Kind = "SCHEMA_MISSING"
	KindValidation      Kind = "VALIDATION"
	KindTransferPartial Kind = "TRANSFER_PARTIAL"
	KindInternal        Kind = "INTERNAL"
)

// Error is a structured error carrying a kind, message and details.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// NewNotFound reports an absent clip, collection, shortcut or database.
func NewNotFound(what, identifier string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewSchemaMissing reports an expected table absent from an older file.
// The repository layer recovers from this locally; callers only see it
// when recovery itself failed.
func NewSchemaMissing(table string, err error) *Error {
	return &Error{
		Kind:    KindSchemaMissing,
		Message: fmt.Sprintf("table %q is missing", table),
		Details: map[string]any{"table": table},
		Wrapped: err,
	}
}

// NewValidation reports invalid input; never retried.
func NewValidation(msg string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: msg,
	}
}

// NewTransferPartial reports a cross-database move that committed the target
// clone but failed to delete the source original. Data exists in both places.
func NewTransferPartial(clipID, source, target string, err error) *Error {
	return &Error{
		Kind:    KindTransferPartial,
		Message: fmt.Sprintf("clip %s copied to %s but not removed from %s", clipID, target, source),
		Details: map[string]any{"clip_id": clipID, "source": source, "target": target},
		Wrapped: err,
	}
}

// NewInternal wraps an unexpected failure.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Kind:    KindInternal,
		Message: msg,
		Wrapped: err,
	}
}

// IsKind reports whether any error in err's chain carries the given kind.
// A non-matching kind does not stop the walk; a cause of a different kind
// may sit beneath it.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if cerr, ok := err.(*Error); ok && cerr.Kind == kind {
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
