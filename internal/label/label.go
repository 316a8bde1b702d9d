// Package label centralizes label-path types and the loose comparison
// rule used by every resolution component.
//
// Tenants rename fields freely and configuration drifts between firms,
// so matching is intentionally tolerant: surrounding whitespace is
// ignored and comparison is case-insensitive over NFC-normalized text.
// Every component funnels through Equal; nothing else may lowercase or
// trim labels ad hoc.
package label

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/toddminertech/apptivo-go/internal/reserr"
)

// AddressDelimiter separates the segments of an address-group label,
// e.g. "Address||Billing Address||Zip Code". The wire form is kept for
// caller compatibility; parse it into an AddressPath immediately.
const AddressDelimiter = "||"

// Fold returns the canonical comparison form of a label: NFC-normalized,
// trimmed, lowercased.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// Equal reports whether two labels match under the loose comparison
// rule.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Path addresses a field by label: either [fieldLabel] or
// [sectionLabel, fieldLabel] for table columns.
type Path []string

// NewPath validates the segment count and returns the path.
func NewPath(segments ...string) (Path, error) {
	if len(segments) == 0 || len(segments) > 2 {
		return nil, reserr.New(reserr.CodeInvalidLabelShape,
			"label path must have 1 or 2 segments, got %d", len(segments))
	}
	return Path(segments), nil
}

// Validate checks the segment count without constructing a new path.
func (p Path) Validate() error {
	if len(p) == 0 || len(p) > 2 {
		return reserr.New(reserr.CodeInvalidLabelShape,
			"label path must have 1 or 2 segments, got %d", len(p)).
			WithLabel(p.String())
	}
	return nil
}

// Section returns the section segment of a two-part path, or "" for a
// single-part path.
func (p Path) Section() string {
	if len(p) == 2 {
		return p[0]
	}
	return ""
}

// Field returns the field segment: the last element of the path.
func (p Path) Field() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// IsScoped reports whether the path names a section explicitly.
func (p Path) IsScoped() bool { return len(p) == 2 }

// String renders the path for diagnostics.
func (p Path) String() string {
	return strings.Join(p, " / ")
}

// AddressPath is the structured form of an address-group label. The
// first segment of such a label is the literal marker "Address", the
// second selects which address entry on the record (its addressType),
// and the third names the field inside the address group.
type AddressPath struct {
	AddressType string
	Field       string
}

// ParseAddress parses the delimiter-encoded address form out of a label
// segment. ok is false when the segment is not address-encoded.
func ParseAddress(segment string) (AddressPath, bool) {
	if !strings.Contains(segment, AddressDelimiter) {
		return AddressPath{}, false
	}
	parts := strings.Split(segment, AddressDelimiter)
	if len(parts) != 3 {
		return AddressPath{}, false
	}
	return AddressPath{AddressType: parts[1], Field: parts[2]}, true
}

// String renders the path back into its wire encoding.
func (a AddressPath) String() string {
	return strings.Join([]string{"Address", a.AddressType, a.Field}, AddressDelimiter)
}
