package record

import (
	"bytes"
	"encoding/json"
)

// flexString decodes a JSON string or number into text, matching how
// tenant documents serialize ids inconsistently.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
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
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// AttributeValuePair is one entry of a multi-valued attribute.
type AttributeValuePair struct {
	AttributeID    string `json:"attributeId,omitempty"`
	AttributeValue string `json:"attributeValue"`
}

// UnmarshalJSON tolerates flexible id encodings and bare-string values.
func (p *AttributeValuePair) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	// Simple toggle values are sometimes stored as bare strings.
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		p.AttributeID = ""
		p.AttributeValue = s
		return nil
	}
	var a struct {
		AttributeID    flexString `json:"attributeId"`
		AttributeValue flexString `json:"attributeValue"`
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	p.AttributeID = string(a.AttributeID)
	p.AttributeValue = string(a.AttributeValue)
	return nil
}

// TableColumn is one cell of a table row. Column order inside a row is
// tenant-dependent; cells are addressed by customAttributeId only.
type TableColumn struct {
	CustomAttributeID    string               `json:"customAttributeId"`
	CustomAttributeValue string               `json:"customAttributeValue,omitempty"`
	AttributeValues      []AttributeValuePair `json:"attributeValues,omitempty"`
}

func (c *TableColumn) UnmarshalJSON(data []byte) error {
	var a struct {
		CustomAttributeID    flexString           `json:"customAttributeId"`
		CustomAttributeValue flexString           `json:"customAttributeValue"`
		AttributeValues      []AttributeValuePair `json:"attributeValues"`
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	c.CustomAttributeID = string(a.CustomAttributeID)
	c.CustomAttributeValue = string(a.CustomAttributeValue)
	c.AttributeValues = a.AttributeValues
	return nil
}

// TableRow is one row of a table-section attribute.
type TableRow struct {
	Columns []TableColumn `json:"columns"`
}

// CustomAttribute is one entry of a record's customAttributes array:
// either a tenant-defined field value or a table section.
//
// Extra carries fields outside the fixed shape, e.g. the dedicated
// id/name properties a built-in reference target adds
// ("customerId"/"customerName"); they are merged into the serialized
// object at the top level.
type CustomAttribute struct {
	CustomAttributeID      string
	CustomAttributeName    string
	CustomAttributeType    string
	CustomAttributeTagName string
	CustomAttributeValue   string
	CustomAttributeValue1  string
	AttributeValues        []AttributeValuePair
	Rows                   []TableRow
	CurrencyCode           string
	NumberValue            string
	ObjectID               string
	ObjectRefID            string
	ObjectRefName          string
	Extra                  map[string]any
}

// customAttributeWire is the fixed-field serialization shape.
type customAttributeWire struct {
	CustomAttributeID      string               `json:"customAttributeId"`
	CustomAttributeName    string               `json:"customAttributeName,omitempty"`
	CustomAttributeType    string               `json:"customAttributeType,omitempty"`
	CustomAttributeTagName string               `json:"customAttributeTagName,omitempty"`
	CustomAttributeValue   string               `json:"customAttributeValue"`
	CustomAttributeValue1  string               `json:"customAttributeValue1,omitempty"`
	AttributeValues        []AttributeValuePair `json:"attributeValues,omitempty"`
	Rows                   []TableRow           `json:"rows,omitempty"`
	CurrencyCode           string               `json:"currencyCode,omitempty"`
	NumberValue            string               `json:"numberValue,omitempty"`
	ObjectID               string               `json:"objectId,omitempty"`
	ObjectRefID            string               `json:"objectRefId,omitempty"`
	ObjectRefName          string               `json:"objectRefName,omitempty"`
}

// MarshalJSON serializes the fixed shape and merges Extra fields at the
// top level. A non-nil empty AttributeValues slice is kept explicit,
// since some tags (textarea) require the empty list on the wire.
func (a *CustomAttribute) MarshalJSON() ([]byte, error) {
	wire := customAttributeWire{
		CustomAttributeID:      a.CustomAttributeID,
		CustomAttributeName:    a.CustomAttributeName,
		CustomAttributeType:    a.CustomAttributeType,
		CustomAttributeTagName: a.CustomAttributeTagName,
		CustomAttributeValue:   a.CustomAttributeValue,
		CustomAttributeValue1:  a.CustomAttributeValue1,
		Rows:                   a.Rows,
		CurrencyCode:           a.CurrencyCode,
		NumberValue:            a.NumberValue,
		ObjectID:               a.ObjectID,
		ObjectRefID:            a.ObjectRefID,
		ObjectRefName:          a.ObjectRefName,
	}
	base, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	if a.AttributeValues != nil {
		data, err := json.Marshal(a.AttributeValues)
		if err != nil {
			return nil, err
		}
		merged["attributeValues"] = data
	}
	for k, v := range a.Extra {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = data
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes the fixed fields, tolerating flexible id
// encodings. Unknown fields are not retained here; records preserve the
// raw entry bytes instead (see Record).
func (a *CustomAttribute) UnmarshalJSON(data []byte) error {
	var wire struct {
		CustomAttributeID      flexString           `json:"customAttributeId"`
		CustomAttributeName    string               `json:"customAttributeName"`
		CustomAttributeType    string               `json:"customAttributeType"`
		CustomAttributeTagName string               `json:"customAttributeTagName"`
		CustomAttributeValue   flexString           `json:"customAttributeValue"`
		CustomAttributeValue1  flexString           `json:"customAttributeValue1"`
		AttributeValues        []AttributeValuePair `json:"attributeValues"`
		Rows                   []TableRow           `json:"rows"`
		CurrencyCode           string               `json:"currencyCode"`
		NumberValue            flexString           `json:"numberValue"`
		ObjectID               flexString           `json:"objectId"`
		ObjectRefID            flexString           `json:"objectRefId"`
		ObjectRefName          string               `json:"objectRefName"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*a = CustomAttribute{
		CustomAttributeID:      string(wire.CustomAttributeID),
		CustomAttributeName:    wire.CustomAttributeName,
		CustomAttributeType:    wire.CustomAttributeType,
		CustomAttributeTagName: wire.CustomAttributeTagName,
		CustomAttributeValue:   string(wire.CustomAttributeValue),
		CustomAttributeValue1:  string(wire.CustomAttributeValue1),
		AttributeValues:        wire.AttributeValues,
		Rows:                   wire.Rows,
		CurrencyCode:           wire.CurrencyCode,
		NumberValue:            string(wire.NumberValue),
		ObjectID:               string(wire.ObjectID),
		ObjectRefID:            string(wire.ObjectRefID),
		ObjectRefName:          wire.ObjectRefName,
	}
	return nil
}
