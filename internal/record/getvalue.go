package record

import (
	"github.com/toddminertech/apptivo-go/internal/label"
	"github.com/toddminertech/apptivo-go/internal/layout"
	"github.com/toddminertech/apptivo-go/internal/reserr"
)

// Value is an extracted attribute value. Text carries scalar values;
// Values carries the structured list for multi-valued tags.
type Value struct {
	Text   string
	Values []AttributeValuePair
}

// IsEmpty reports whether the value carries nothing.
func (v Value) IsEmpty() bool { return v.Text == "" && len(v.Values) == 0 }

// Details is the result of resolving a label against a record.
type Details struct {
	// Definition is the layout attribute the label resolved to.
	Definition *layout.Attribute

	// Value is the current value on the record. Empty when the record
	// has no entry for the attribute yet, which is not a failure.
	Value Value

	// Index is the position of the matching customAttributes entry, or
	// -1 when the record carries none (and for Standard attributes).
	Index int

	// Present reports whether the record carries a value location for
	// the attribute at all (the standard field or a custom entry).
	Present bool
}

// GetValue resolves a label path against the document and extracts the
// current value from the record.
//
// A record that simply has no value yet for a resolved attribute
// returns success with an empty Value; only schema-level absence (the
// label matching nothing in the document) is an error.
func GetValue(p label.Path, rec *Record, doc *layout.Document) (*Details, error) {
	def, err := layout.FindAttribute(p, doc)
	if err != nil {
		return nil, err
	}
	if def.IsStandard() {
		return getStandardValue(p, def, rec)
	}
	return getCustomValue(p, def, rec)
}

func getStandardValue(p label.Path, def *layout.Attribute, rec *Record) (*Details, error) {
	details := &Details{Definition: def, Index: -1}
	if ap, ok := label.ParseAddress(p[0]); ok {
		addrs, err := rec.Addresses()
		if err != nil {
			return nil, err
		}
		for _, addr := range addrs {
			if label.Equal(addr.AddressType(), ap.AddressType) {
				details.Present = true
				details.Value = Value{Text: addr.String(def.FieldName())}
				return details, nil
			}
		}
		return nil, reserr.New(reserr.CodeAddressTypeNotFound,
			"record has no address of type %q", ap.AddressType).WithLabel(p.String())
	}
	raw, ok := rec.Raw(def.FieldName())
	if !ok {
		return details, nil
	}
	details.Present = true
	details.Value = Value{Text: rawString(raw)}
	return details, nil
}

func getCustomValue(p label.Path, def *layout.Attribute, rec *Record) (*Details, error) {
	details := &Details{Definition: def, Index: -1}
	attr, idx, err := rec.FindCustomAttribute(string(def.AttributeID))
	if err != nil {
		return nil, err
	}
	if attr == nil {
		// Field not populated on this record yet.
		return details, nil
	}
	details.Present = true
	details.Index = idx

	switch def.Tag() {
	case layout.TagMultiSelect, layout.TagCheck:
		details.Value = Value{Values: attr.AttributeValues}
	case layout.TagCurrency, layout.TagDate, layout.TagInput, layout.TagLink,
		layout.TagNumber, layout.TagReference, layout.TagReferenceField,
		layout.TagSelect, layout.TagTextarea:
		text := attr.CustomAttributeValue
		if text == "" {
			// Some reference-field subtypes store the value here.
			text = attr.CustomAttributeValue1
		}
		details.Value = Value{Text: text}
	default:
		return nil, reserr.New(reserr.CodeUnsupportedAttributeTag,
			"no extraction rule for attribute tag %q", def.Tag()).WithLabel(p.String())
	}
	return details, nil
}
