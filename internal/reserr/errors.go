// Package reserr defines the typed failure values returned by every
// resolution, extraction, and synthesis operation.
//
// Resolution failure is an expected, common outcome (label typos, schema
// drift between tenants), so it travels as an error value with a stable
// code rather than a panic. Callers branch on the code via the Is*
// helpers and decide whether a failure aborts a larger operation or is
// logged and skipped.
package reserr

import (
	"errors"
	"fmt"
)

// Code categorizes a resolution failure.
type Code string

const (
	// CodeUnknownApp indicates the app identity string matched no known
	// app name, alias, numeric id, or compound form.
	CodeUnknownApp Code = "UNKNOWN_APP"

	// CodeConfigFetchFailed indicates the transport collaborator could
	// not supply a configuration document.
	CodeConfigFetchFailed Code = "CONFIG_FETCH_FAILED"

	// CodeInvalidLabelShape indicates a label path with 0 or more than 2
	// segments.
	CodeInvalidLabelShape Code = "INVALID_LABEL_SHAPE"

	// CodeAttributeNotFound indicates the schema walk exhausted every
	// section without a label match.
	CodeAttributeNotFound Code = "ATTRIBUTE_NOT_FOUND"

	// CodeTableSectionNotFound indicates no table section matched the
	// label, or a record carried no entry for a resolved section id.
	CodeTableSectionNotFound Code = "TABLE_SECTION_NOT_FOUND"

	// CodeAddressTypeNotFound indicates the requested address type is
	// not present among the record's addresses.
	CodeAddressTypeNotFound Code = "ADDRESS_TYPE_NOT_FOUND"

	// CodeUnsupportedAttributeTag indicates the attribute resolved but
	// its fine-grained tag has no extraction or synthesis rule.
	CodeUnsupportedAttributeTag Code = "UNSUPPORTED_ATTRIBUTE_TAG"

	// CodeNoMatchingOption indicates a non-empty input value matched no
	// configured option of a selectable attribute.
	CodeNoMatchingOption Code = "NO_MATCHING_OPTION"

	// CodeEmptyRequiredValue indicates a tag whose synthesis rule
	// requires a non-empty input received none.
	CodeEmptyRequiredValue Code = "EMPTY_REQUIRED_VALUE"
)

// Error is the structured failure payload for resolution operations.
// The zero-value context fields are omitted from the message.
type Error struct {
	// Code identifies the failure category.
	Code Code

	// Message is a human-readable description.
	Message string

	// App identifies the app whose config was being resolved, when known.
	App string

	// Label is the label path text being resolved, when applicable.
	Label string

	// Cause is the underlying error for transport-originated failures.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.App != "" && e.Label != "":
		return fmt.Sprintf("%s: %s (app=%s, label=%s)", e.Code, e.Message, e.App, e.Label)
	case e.App != "":
		return fmt.Sprintf("%s: %s (app=%s)", e.Code, e.Message, e.App)
	case e.Label != "":
		return fmt.Sprintf("%s: %s (label=%s)", e.Code, e.Message, e.Label)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithApp returns e with the app context field set.
func (e *Error) WithApp(app string) *Error {
	e.App = app
	return e
}

// WithLabel returns e with the label context field set.
func (e *Error) WithLabel(label string) *Error {
	e.Label = label
	return e
}

// WithCause returns e with the underlying cause attached.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// CodeOf returns the resolution code carried by err, or "" when err is
// not a resolution error. Uses errors.As to handle wrapped errors.
func CodeOf(err error) Code {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsUnknownApp reports whether err carries CodeUnknownApp.
func IsUnknownApp(err error) bool { return CodeOf(err) == CodeUnknownApp }

// IsNotFound reports whether err is a schema-level absence: an attribute
// or table section the walk could not locate. A value missing from a
// record is never an error at all, so this only ever signals a
// configuration mismatch.
func IsNotFound(err error) bool {
	c := CodeOf(err)
	return c == CodeAttributeNotFound || c == CodeTableSectionNotFound
}

// IsConfigFetchFailed reports whether err carries CodeConfigFetchFailed.
func IsConfigFetchFailed(err error) bool { return CodeOf(err) == CodeConfigFetchFailed }
