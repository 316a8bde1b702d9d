// Package layout models the per-tenant, per-app configuration document
// (the "web layout") as a typed tree, and resolves human-readable labels
// to attribute definitions inside it.
//
// The document's JSON shape is owned by the remote platform and is
// irregular in two ways this package normalizes at the parse boundary:
//
//   - attribute tag metadata may sit directly on the node or inside a
//     single-element alternate array conventionally named "right";
//     node-direct values win (see Attribute.Tag and Attribute.FieldName)
//   - the label may be a plain string or an object carrying a
//     modifiedLabel
//
// Fields the resolver does not understand are preserved verbatim so a
// document can be round-tripped losslessly.
package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Attribute tag constants for the closed set of fine-grained types the
// resolver supports.
const (
	TagCheck          = "check"
	TagCounter        = "counter"
	TagCurrency       = "currency"
	TagDate           = "date"
	TagInput          = "input"
	TagLink           = "link"
	TagMultiSelect    = "multiSelect"
	TagNumber         = "number"
	TagPlaceholder    = "placeholder"
	TagReference      = "reference"
	TagReferenceField = "referenceField"
	TagSelect         = "select"
	TagSpacer         = "spacer"
	TagTable          = "table"
	TagTextarea       = "textarea"
)

// Attribute type constants: built-in vs tenant-defined.
const (
	TypeStandard = "Standard"
	TypeCustom   = "Custom"
)

// FlexID is an identifier that tenants' documents serialize as either a
// JSON string or a bare number.
type FlexID string

// UnmarshalJSON accepts both encodings.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

// Label carries the display text of a section or attribute. Serialized
// either as a plain string or as an object with a modifiedLabel.
type Label struct {
	Text string
}

// UnmarshalJSON accepts both encodings, preferring modifiedLabel over
// the base label text when both are present.
func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		l.Text = ""
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &l.Text)
	}
	var obj struct {
		ModifiedLabel string `json:"modifiedLabel"`
		Label         string `json:"label"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.ModifiedLabel != "" {
		l.Text = obj.ModifiedLabel
	} else {
		l.Text = obj.Label
	}
	return nil
}

// Option is one entry of a selectable attribute's option list.
// Serialized either as an object with id and display text, or as a bare
// string for simple toggles.
type Option struct {
	ID     FlexID `json:"optionId"`
	Object string `json:"optionObject"`
}

// UnmarshalJSON accepts both encodings.
func (o *Option) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &o.Object); err != nil {
			return err
		}
		o.ID = ""
		return nil
	}
	type alias Option
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*o = Option(a)
	return nil
}

// rightNode is the single-element alternate metadata representation.
type rightNode struct {
	Tag     string `json:"tag"`
	TagName string `json:"tagName"`
}

// Attribute is one field or table-section definition inside a section.
type Attribute struct {
	Label                Label       `json:"label"`
	Type                 string      `json:"type"`
	AttributeID          FlexID      `json:"attributeId"`
	AttributeTag         string      `json:"attributeTag"`
	TagName              string      `json:"tagName"`
	IsEnabled            *bool       `json:"isEnabled"`
	Right                []rightNode `json:"right"`
	OptionValueList      []Option    `json:"optionValueList"`
	AddressList          []Attribute `json:"addressList"`
	AddressAttributeID   FlexID      `json:"addressAttributeId"`
	ReferenceAttributeID FlexID      `json:"referenceAttributeId"`
	ReferenceTagName     string      `json:"referenceTagName"`
}

// Tag returns the fine-grained attribute tag, checking the node first
// and falling back to the alternate representation.
func (a *Attribute) Tag() string {
	if a.AttributeTag != "" {
		return a.AttributeTag
	}
	if len(a.Right) > 0 {
		return a.Right[0].Tag
	}
	return ""
}

// FieldName returns the record property name for Standard attributes,
// checking the node first and falling back to the alternate
// representation.
func (a *Attribute) FieldName() string {
	if a.TagName != "" {
		return a.TagName
	}
	if len(a.Right) > 0 {
		return a.Right[0].TagName
	}
	return ""
}

// Enabled reports whether the attribute participates in resolution.
// Documents that omit the flag entirely mean enabled.
func (a *Attribute) Enabled() bool {
	return a.IsEnabled == nil || *a.IsEnabled
}

// IsStandard reports whether the attribute is a built-in record field.
func (a *Attribute) IsStandard() bool { return a.Type == TypeStandard }

// structural reports whether the attribute is a placeholder or spacer
// that never resolves.
func (a *Attribute) structural() bool {
	switch a.Tag() {
	case TagPlaceholder, TagSpacer:
		return true
	}
	return false
}

// Section is one titled block of attributes in the web layout.
type Section struct {
	ID         FlexID      `json:"id"`
	Label      Label       `json:"label"`
	Attributes []Attribute `json:"attributes"`
}

type webLayout struct {
	Sections []Section `json:"sections"`
}

// Document is a parsed configuration document for one app. The full raw
// body is retained alongside the typed layout so unknown fields survive
// a round trip.
type Document struct {
	raw      map[string]json.RawMessage
	Sections []Section
}

// Parse decodes a configuration document body. The webLayout field is
// observed both as an embedded object and as a string of serialized
// JSON; both are accepted.
func Parse(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config document: %w", err)
	}
	doc := &Document{raw: raw}
	wl, ok := raw["webLayout"]
	if !ok {
		return doc, nil
	}
	wl = bytes.TrimSpace(wl)
	if len(wl) > 0 && wl[0] == '"' {
		var inner string
		if err := json.Unmarshal(wl, &inner); err != nil {
			return nil, fmt.Errorf("config document webLayout: %w", err)
		}
		wl = []byte(inner)
	}
	var parsed webLayout
	if err := json.Unmarshal(wl, &parsed); err != nil {
		return nil, fmt.Errorf("config document webLayout: %w", err)
	}
	doc.Sections = parsed.Sections
	return doc, nil
}

// Field returns the raw JSON of a top-level document field the resolver
// does not model, e.g. platform-owned metadata a caller wants to pass
// through.
func (d *Document) Field(name string) (json.RawMessage, bool) {
	v, ok := d.raw[name]
	return v, ok
}

// MarshalJSON re-serializes the document from its preserved raw fields.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d.raw == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d.raw)
}
