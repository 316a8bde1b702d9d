package layout

import (
	"github.com/toddminertech/apptivo-go/internal/label"
	"github.com/toddminertech/apptivo-go/internal/reserr"
)

// FindAttribute walks the document's sections in order and returns the
// first enabled attribute definition whose label matches the path.
//
// Matching rules:
//   - a two-part path restricts the walk to sections whose label matches
//     the first segment
//   - placeholder and spacer attributes never match
//   - address-encoded labels ("Address||<type>||<field>") resolve
//     against an address group's nested field list, matching the final
//     segment only; the group's own label is ignored
//   - ordinary single-part labels match either the attribute's record
//     field name or its display label; two-part labels match the display
//     label against the second segment
//
// The walk is first-match-wins in section-then-attribute document order,
// and is deterministic over an unchanged document.
func FindAttribute(p label.Path, doc *Document) (*Attribute, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	addrPath, isAddr := label.ParseAddress(p[0])

	for si := range doc.Sections {
		section := &doc.Sections[si]
		if p.IsScoped() && !label.Equal(section.Label.Text, p.Section()) {
			continue
		}
		for ai := range section.Attributes {
			attr := &section.Attributes[ai]
			if !attr.Enabled() || attr.structural() {
				continue
			}
			if isAddr {
				if found := matchAddressField(attr, addrPath); found != nil {
					return found, nil
				}
				continue
			}
			if matchAttribute(attr, p) {
				return attr, nil
			}
		}
	}
	return nil, reserr.New(reserr.CodeAttributeNotFound,
		"no enabled attribute matched").WithLabel(p.String())
}

// matchAttribute applies the ordinary (non-address) label rule.
func matchAttribute(attr *Attribute, p label.Path) bool {
	if p.IsScoped() {
		return label.Equal(attr.Label.Text, p.Field())
	}
	if name := attr.FieldName(); name != "" && label.Equal(name, p.Field()) {
		return true
	}
	return label.Equal(attr.Label.Text, p.Field())
}

// matchAddressField searches an address group's nested field list for
// the final path segment. Attributes without a nested list never match.
func matchAddressField(attr *Attribute, ap label.AddressPath) *Attribute {
	for i := range attr.AddressList {
		nested := &attr.AddressList[i]
		if !nested.Enabled() || nested.structural() {
			continue
		}
		if name := nested.FieldName(); name != "" && label.Equal(name, ap.Field) {
			return nested
		}
		if label.Equal(nested.Label.Text, ap.Field) {
			return nested
		}
	}
	return nil
}

// FindSection returns the first section whose label matches. Used for
// table-section resolution, where the section definition itself carries
// the custom attribute id the record is keyed by.
func FindSection(sectionLabel string, doc *Document) (*Section, error) {
	for si := range doc.Sections {
		section := &doc.Sections[si]
		if label.Equal(section.Label.Text, sectionLabel) {
			return section, nil
		}
	}
	return nil, reserr.New(reserr.CodeTableSectionNotFound,
		"no section matched").WithLabel(sectionLabel)
}
