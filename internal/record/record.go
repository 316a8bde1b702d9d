// Package record wraps platform data records and implements attribute
// value extraction and synthesis against a resolved layout definition.
//
// Records are held as raw-keyed JSON so that fields the resolver does
// not understand survive a read-modify-submit round trip untouched.
// Custom attribute entries are decoded individually on demand; mutation
// replaces whole entries, never re-serializes untouched ones.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one data record of an app, e.g. a case or a customer.
type Record struct {
	fields map[string]json.RawMessage
}

// New returns an empty record, the starting point for a create flow.
func New() *Record {
	return &Record{fields: map[string]json.RawMessage{}}
}

// Parse decodes a record body.
func Parse(data []byte) (*Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return &Record{fields: fields}, nil
}

// MarshalJSON serializes the record from its preserved fields.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.fields)
}

// UnmarshalJSON replaces the record's fields from a JSON body.
func (r *Record) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	r.fields = parsed.fields
	return nil
}

// Raw returns the raw JSON of one top-level field.
func (r *Record) Raw(name string) (json.RawMessage, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// StringField returns a top-level field as text. JSON strings decode,
// numbers and booleans render verbatim, anything else (or absence)
// yields "".
func (r *Record) StringField(name string) string {
	return rawString(r.fields[name])
}

// SetField sets a top-level field, replacing any previous value.
func (r *Record) SetField(name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("record field %q: %w", name, err)
	}
	r.fields[name] = data
	return nil
}

// ID returns the record's id field as text.
func (r *Record) ID() string { return r.StringField("id") }

// customAttributesKey is the record array holding all tenant-defined
// field values.
const customAttributesKey = "customAttributes"

// CustomAttributeCount returns the number of custom attribute entries.
func (r *Record) CustomAttributeCount() int {
	entries, err := r.rawCustomAttributes()
	if err != nil {
		return 0
	}
	return len(entries)
}

func (r *Record) rawCustomAttributes() ([]json.RawMessage, error) {
	raw, ok := r.fields[customAttributesKey]
	if !ok {
		return nil, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("record customAttributes: %w", err)
	}
	return entries, nil
}

// CustomAttributeAt decodes the entry at index i.
func (r *Record) CustomAttributeAt(i int) (*CustomAttribute, error) {
	entries, err := r.rawCustomAttributes()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(entries) {
		return nil, fmt.Errorf("record customAttributes index %d out of range", i)
	}
	var attr CustomAttribute
	if err := json.Unmarshal(entries[i], &attr); err != nil {
		return nil, fmt.Errorf("record customAttributes[%d]: %w", i, err)
	}
	return &attr, nil
}

// FindCustomAttribute scans the entries for one whose customAttributeId
// matches. Returns the decoded entry and its index, or (nil, -1) when
// the record carries no such entry.
func (r *Record) FindCustomAttribute(id string) (*CustomAttribute, int, error) {
	entries, err := r.rawCustomAttributes()
	if err != nil {
		return nil, -1, err
	}
	for i, raw := range entries {
		var probe struct {
			CustomAttributeID flexString `json:"customAttributeId"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return nil, -1, fmt.Errorf("record customAttributes[%d]: %w", i, err)
		}
		if string(probe.CustomAttributeID) != id {
			continue
		}
		var attr CustomAttribute
		if err := json.Unmarshal(raw, &attr); err != nil {
			return nil, -1, fmt.Errorf("record customAttributes[%d]: %w", i, err)
		}
		return &attr, i, nil
	}
	return nil, -1, nil
}

// AppendCustomAttribute adds a newly synthesized entry.
func (r *Record) AppendCustomAttribute(attr *CustomAttribute) error {
	entries, err := r.rawCustomAttributes()
	if err != nil {
		return err
	}
	data, err := json.Marshal(attr)
	if err != nil {
		return err
	}
	entries = append(entries, data)
	return r.setRawCustomAttributes(entries)
}

// ReplaceCustomAttributeAt swaps the entry at index i for a newly
// synthesized one. Entries at other indexes keep their raw bytes.
func (r *Record) ReplaceCustomAttributeAt(i int, attr *CustomAttribute) error {
	entries, err := r.rawCustomAttributes()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(entries) {
		return fmt.Errorf("record customAttributes index %d out of range", i)
	}
	data, err := json.Marshal(attr)
	if err != nil {
		return err
	}
	entries[i] = data
	return r.setRawCustomAttributes(entries)
}

func (r *Record) setRawCustomAttributes(entries []json.RawMessage) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	r.fields[customAttributesKey] = data
	return nil
}

// Address is one entry of a record's addresses array, kept raw-keyed so
// tenant-specific address fields pass through.
type Address map[string]json.RawMessage

// AddressType returns the entry's address type label.
func (a Address) AddressType() string { return a.String("addressType") }

// String returns one address field as text.
func (a Address) String(name string) string { return rawString(a[name]) }

// Set sets one address field.
func (a Address) Set(name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("address field %q: %w", name, err)
	}
	a[name] = data
	return nil
}

// Addresses decodes the record's addresses array. Records without one
// yield an empty slice.
func (r *Record) Addresses() ([]Address, error) {
	raw, ok := r.fields["addresses"]
	if !ok {
		return nil, nil
	}
	var addrs []Address
	if err := json.Unmarshal(raw, &addrs); err != nil {
		return nil, fmt.Errorf("record addresses: %w", err)
	}
	return addrs, nil
}

// SetAddresses writes the addresses array back after mutation.
func (r *Record) SetAddresses(addrs []Address) error {
	data, err := json.Marshal(addrs)
	if err != nil {
		return err
	}
	r.fields["addresses"] = data
	return nil
}

// rawString renders a raw JSON scalar as text. Strings decode, numbers
// and booleans render verbatim, null and composites yield "".
func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	if raw[0] == '{' || raw[0] == '[' {
		return ""
	}
	return string(raw)
}
