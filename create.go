package apptivo

import (
	"context"

	"github.com/toddminertech/apptivo-go/internal/appid"
	"github.com/toddminertech/apptivo-go/internal/label"
	"github.com/toddminertech/apptivo-go/internal/layout"
	"github.com/toddminertech/apptivo-go/internal/record"
)

// CreateBuilder assembles a new record field by field, addressed by
// label, then submits it.
type CreateBuilder struct {
	client      *Client
	appNameOrID string
	rec         *record.Record
}

// NewCreate starts a create flow for an app.
func (c *Client) NewCreate(appNameOrID string) *CreateBuilder {
	return &CreateBuilder{client: c, appNameOrID: appNameOrID, rec: record.New()}
}

// Record exposes the record under construction for direct field access.
func (b *CreateBuilder) Record() *Record { return b.rec }

// SetAttribute resolves a label and writes the given value(s) onto the
// record: Standard attributes set the record field directly, Custom
// attributes append a synthesized entry.
func (b *CreateBuilder) SetAttribute(ctx context.Context, values []string, labels ...string) error {
	doc, err := b.client.GetConfig(ctx, b.appNameOrID)
	if err != nil {
		return err
	}
	p, err := label.NewPath(labels...)
	if err != nil {
		return err
	}
	def, err := layout.FindAttribute(p, doc)
	if err != nil {
		return err
	}
	if def.IsStandard() {
		v := ""
		if len(values) > 0 {
			v = values[0]
		}
		return b.rec.SetField(def.FieldName(), v)
	}
	attr, err := record.BuildAttributeFromDefinition(def, values, p)
	if err != nil {
		return err
	}
	return b.rec.AppendCustomAttribute(attr)
}

// Create submits the assembled record and returns the created record as
// the platform stored it.
func (b *CreateBuilder) Create(ctx context.Context) (*Record, error) {
	desc, err := appid.Resolve(b.appNameOrID)
	if err != nil {
		return nil, err
	}
	return b.client.transport.Save(ctx, desc, b.rec)
}
