package apptivo

import (
	"context"

	"github.com/toddminertech/apptivo-go/internal/appid"
	"github.com/toddminertech/apptivo-go/internal/label"
	"github.com/toddminertech/apptivo-go/internal/record"
	"github.com/toddminertech/apptivo-go/internal/reserr"
)

// UpdateBuilder applies label-addressed field changes to an existing
// record, tracking which attribute ids and names actually changed so
// the update call touches only those.
type UpdateBuilder struct {
	client      *Client
	appNameOrID string
	rec         *record.Record

	attributeIDs   []string
	attributeNames []string
}

// NewUpdate starts an update flow for a fetched record.
func (c *Client) NewUpdate(appNameOrID string, rec *Record) *UpdateBuilder {
	return &UpdateBuilder{client: c, appNameOrID: appNameOrID, rec: rec}
}

// Record exposes the record being updated.
func (b *UpdateBuilder) Record() *Record { return b.rec }

// ChangedAttributeIDs returns the ids flagged so far.
func (b *UpdateBuilder) ChangedAttributeIDs() []string { return b.attributeIDs }

// ChangedAttributeNames returns the names flagged so far.
func (b *UpdateBuilder) ChangedAttributeNames() []string { return b.attributeNames }

// CheckAndUpdateField resolves a label, compares the record's current
// value to the given value(s) under the loose comparison rule, and
// rewrites the attribute only when they differ. No-op changes flag
// nothing, so Update can skip the API call entirely.
func (b *UpdateBuilder) CheckAndUpdateField(ctx context.Context, values []string, labels ...string) error {
	doc, err := b.client.GetConfig(ctx, b.appNameOrID)
	if err != nil {
		return err
	}
	p, err := label.NewPath(labels...)
	if err != nil {
		return err
	}
	details, err := record.GetValue(p, b.rec, doc)
	if err != nil {
		return err
	}
	def := details.Definition

	if !details.Present {
		// Nothing on the record yet; insert a fresh value.
		if def.IsStandard() {
			v := ""
			if len(values) > 0 {
				v = values[0]
			}
			if err := b.rec.SetField(def.FieldName(), v); err != nil {
				return err
			}
			b.flag(string(def.AttributeID), def.FieldName())
			return nil
		}
		attr, err := record.BuildAttributeFromDefinition(def, values, p)
		if err != nil {
			return err
		}
		if err := b.rec.AppendCustomAttribute(attr); err != nil {
			return err
		}
		b.flag(attr.CustomAttributeID, "customAttributes")
		return nil
	}

	if def.IsStandard() {
		return b.updateStandard(p, details, values)
	}
	return b.updateCustom(p, details, values)
}

func (b *UpdateBuilder) updateStandard(p label.Path, details *record.Details, values []string) error {
	newValue := ""
	if len(values) > 0 {
		newValue = values[0]
	}
	if label.Equal(details.Value.Text, newValue) {
		return nil
	}
	def := details.Definition

	if ap, ok := label.ParseAddress(p[0]); ok {
		addrs, err := b.rec.Addresses()
		if err != nil {
			return err
		}
		for _, addr := range addrs {
			if !label.Equal(addr.AddressType(), ap.AddressType) {
				continue
			}
			if err := addr.Set(def.FieldName(), newValue); err != nil {
				return err
			}
			if err := b.rec.SetAddresses(addrs); err != nil {
				return err
			}
			if def.AddressAttributeID != "" {
				b.flag(string(def.AddressAttributeID), "address")
			} else {
				b.flag(string(def.AttributeID), "address")
			}
			return nil
		}
		// GetValue already verified the address type exists; reaching
		// here means the record mutated underneath us.
		return reserr.New(reserr.CodeAddressTypeNotFound,
			"record has no address of type %q", ap.AddressType).WithLabel(p.String())
	}

	if err := b.rec.SetField(def.FieldName(), newValue); err != nil {
		return err
	}
	b.flag(string(def.AttributeID), def.FieldName())
	return nil
}

func (b *UpdateBuilder) updateCustom(p label.Path, details *record.Details, values []string) error {
	def := details.Definition
	if !b.customValueChanged(details, values) {
		return nil
	}
	attr, err := record.BuildAttributeFromDefinition(def, values, p)
	if err != nil {
		return err
	}
	if err := b.rec.ReplaceCustomAttributeAt(details.Index, attr); err != nil {
		return err
	}
	b.flag(attr.CustomAttributeID, "customAttributes")
	return nil
}

// customValueChanged compares current and new values loosely, pairwise
// for multi-valued attributes.
func (b *UpdateBuilder) customValueChanged(details *record.Details, values []string) bool {
	if len(details.Value.Values) > 0 || len(values) > 1 {
		current := details.Value.Values
		if len(current) != len(values) {
			return true
		}
		for i, pair := range current {
			if !label.Equal(pair.AttributeValue, values[i]) {
				return true
			}
		}
		return false
	}
	newValue := ""
	if len(values) > 0 {
		newValue = values[0]
	}
	return !label.Equal(details.Value.Text, newValue)
}

// flag records a changed attribute id and name, deduplicating.
func (b *UpdateBuilder) flag(id, name string) {
	b.attributeIDs = appendIfNew(b.attributeIDs, id)
	b.attributeNames = appendIfNew(b.attributeNames, name)
}

func appendIfNew(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// Update submits the record when any change was flagged; with no
// flagged changes it returns the record untouched without an API call.
func (b *UpdateBuilder) Update(ctx context.Context) (*Record, error) {
	if len(b.attributeIDs) == 0 && len(b.attributeNames) == 0 {
		return b.rec, nil
	}
	desc, err := appid.Resolve(b.appNameOrID)
	if err != nil {
		return nil, err
	}
	isCustom := false
	for _, name := range b.attributeNames {
		if name == "customAttributes" {
			isCustom = true
		}
	}
	return b.client.transport.Update(ctx, desc, b.rec, b.attributeNames, b.attributeIDs, isCustom)
}
