package apptivo

import "github.com/toddminertech/apptivo-go/internal/reserr"

// ResolutionError is the typed failure value returned by every
// resolution, extraction, and synthesis operation. Expected outcomes
// like a mistyped label arrive as these, never as panics.
type ResolutionError = reserr.Error

// Code categorizes a resolution failure.
type Code = reserr.Code

// Failure codes. See ResolutionError.
const (
	CodeUnknownApp              = reserr.CodeUnknownApp
	CodeConfigFetchFailed       = reserr.CodeConfigFetchFailed
	CodeInvalidLabelShape       = reserr.CodeInvalidLabelShape
	CodeAttributeNotFound       = reserr.CodeAttributeNotFound
	CodeTableSectionNotFound    = reserr.CodeTableSectionNotFound
	CodeAddressTypeNotFound     = reserr.CodeAddressTypeNotFound
	CodeUnsupportedAttributeTag = reserr.CodeUnsupportedAttributeTag
	CodeNoMatchingOption        = reserr.CodeNoMatchingOption
	CodeEmptyRequiredValue      = reserr.CodeEmptyRequiredValue
)

// CodeOf returns the resolution code carried by err, or "" when err is
// not a resolution error.
func CodeOf(err error) Code { return reserr.CodeOf(err) }

// IsNotFound reports whether err is a schema-level absence (attribute
// or table section not configured). A value merely missing from a
// record is success with an empty value, never an error.
func IsNotFound(err error) bool { return reserr.IsNotFound(err) }

// IsUnknownApp reports whether err carries CodeUnknownApp.
func IsUnknownApp(err error) bool { return reserr.IsUnknownApp(err) }

// IsConfigFetchFailed reports whether err carries CodeConfigFetchFailed.
func IsConfigFetchFailed(err error) bool { return reserr.IsConfigFetchFailed(err) }
