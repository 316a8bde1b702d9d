// Package apptivo is a client for the Apptivo CRM platform API.
//
// The platform addresses record fields through a per-tenant, per-app
// configuration document (the "web layout"); this package resolves
// human-readable field labels against that document and reads or
// synthesizes attribute values, then performs CRUD and search calls
// over HTTP.
//
// A Client owns a session's credentials and its config cache. It is
// safe for single-threaded use per instance; share-nothing across
// goroutines or guard a shared instance externally.
package apptivo

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/toddminertech/apptivo-go/internal/appid"
	"github.com/toddminertech/apptivo-go/internal/configcache"
	"github.com/toddminertech/apptivo-go/internal/label"
	"github.com/toddminertech/apptivo-go/internal/layout"
	"github.com/toddminertech/apptivo-go/internal/record"
	"github.com/toddminertech/apptivo-go/internal/table"
	"github.com/toddminertech/apptivo-go/internal/transport"
)

// Re-exported core types. The resolution engine lives in internal
// packages; these aliases are the public surface.
type (
	// Descriptor holds the static request parameters of one app.
	Descriptor = appid.Descriptor

	// Document is a parsed per-app configuration document.
	Document = layout.Document

	// Attribute is one resolved field or table-section definition.
	Attribute = layout.Attribute

	// Record is one data record of an app.
	Record = record.Record

	// CustomAttribute is one entry of a record's customAttributes.
	CustomAttribute = record.CustomAttribute

	// AttributeValuePair is one entry of a multi-valued attribute.
	AttributeValuePair = record.AttributeValuePair

	// Details is the result of resolving a label against a record.
	Details = record.Details

	// TableRow is one row of a table-section attribute.
	TableRow = record.TableRow

	// SearchResult is a page of search results.
	SearchResult = transport.SearchResult

	// AddressPath is the structured form of an address-group label.
	AddressPath = label.AddressPath
)

// Client is an authenticated session against one firm.
type Client struct {
	transport *transport.Client
	cache     *configcache.Cache
	log       *slog.Logger

	transportOpts []transport.Option
	configStore   configcache.Store
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.transportOpts = append(c.transportOpts, transport.WithBaseURL(u)) }
}

// WithHTTPClient substitutes the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.transportOpts = append(c.transportOpts, transport.WithHTTPClient(h)) }
}

// WithRetries sets the number of additional attempts per API call.
func WithRetries(n int) Option {
	return func(c *Client) { c.transportOpts = append(c.transportOpts, transport.WithRetries(n)) }
}

// WithSleep sets the pause between API attempts.
func WithSleep(d time.Duration) Option {
	return func(c *Client) { c.transportOpts = append(c.transportOpts, transport.WithSleep(d)) }
}

// WithLogger attaches a logger; default is slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
		c.transportOpts = append(c.transportOpts, transport.WithLogger(l))
	}
}

// WithConfigStore backs the session's config cache with a persistent
// store, e.g. the sqlite store opened by OpenConfigStore.
func WithConfigStore(s configcache.Store) Option {
	return func(c *Client) { c.configStore = s }
}

// NewClient creates a session client for the firm identified by the
// API and access keys. userEmail optionally names the employee actions
// are performed on behalf of.
func NewClient(apiKey, accessKey, userEmail string, opts ...Option) (*Client, error) {
	creds := transport.Credentials{APIKey: apiKey, AccessKey: accessKey, UserName: userEmail}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	c := &Client{log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	c.transport = transport.New(creds, c.transportOpts...)
	if c.configStore != nil {
		c.cache = configcache.NewWithStore(c.configStore)
	} else {
		c.cache = configcache.New()
	}
	return c, nil
}

// OpenConfigStore opens (creating if needed) a sqlite-backed persistent
// config cache at path, for use with WithConfigStore.
func OpenConfigStore(path string) (*configcache.SQLiteStore, error) {
	return configcache.OpenSQLite(path)
}

// Login authenticates with user credentials and stores the session key
// required by the bulk data-management endpoints.
func (c *Client) Login(ctx context.Context, emailID, password, firmID string) error {
	return c.transport.Login(ctx, emailID, password, firmID)
}

// ResolveApp maps an app name, alias, numeric id, or compound identity
// to its descriptor. Pure; no I/O.
func ResolveApp(appNameOrID string) (Descriptor, error) {
	return appid.Resolve(appNameOrID)
}

// GetConfig returns the app's configuration document, fetching it at
// most once per numeric app id for the life of the client.
func (c *Client) GetConfig(ctx context.Context, appNameOrID string) (*Document, error) {
	return c.cache.Get(appNameOrID, func(desc appid.Descriptor) ([]byte, error) {
		return c.transport.GetConfigData(ctx, desc)
	})
}

// FindAttribute resolves a label path (field label, or table-section
// label plus column label) to its attribute definition.
func (c *Client) FindAttribute(ctx context.Context, appNameOrID string, labels ...string) (*Attribute, error) {
	doc, err := c.GetConfig(ctx, appNameOrID)
	if err != nil {
		return nil, err
	}
	p, err := label.NewPath(labels...)
	if err != nil {
		return nil, err
	}
	return layout.FindAttribute(p, doc)
}

// GetValue resolves a label path and extracts the current value from a
// record. A record that simply has no value yet returns success with an
// empty value.
func (c *Client) GetValue(ctx context.Context, appNameOrID string, rec *Record, labels ...string) (*Details, error) {
	doc, err := c.GetConfig(ctx, appNameOrID)
	if err != nil {
		return nil, err
	}
	p, err := label.NewPath(labels...)
	if err != nil {
		return nil, err
	}
	return record.GetValue(p, rec, doc)
}

// BuildAttribute resolves a label path and synthesizes a complete
// custom attribute object carrying the given values.
func (c *Client) BuildAttribute(ctx context.Context, appNameOrID string, values []string, labels ...string) (*CustomAttribute, error) {
	doc, err := c.GetConfig(ctx, appNameOrID)
	if err != nil {
		return nil, err
	}
	p, err := label.NewPath(labels...)
	if err != nil {
		return nil, err
	}
	return record.BuildAttribute(p, values, doc)
}

// TableSectionID resolves a table-section label to the attribute id its
// rows are keyed by on records.
func (c *Client) TableSectionID(ctx context.Context, appNameOrID, sectionLabel string) (string, error) {
	doc, err := c.GetConfig(ctx, appNameOrID)
	if err != nil {
		return "", err
	}
	return table.SectionID(sectionLabel, doc)
}

// TableRows returns the rows of a record's table section by section
// label.
func (c *Client) TableRows(ctx context.Context, appNameOrID, sectionLabel string, rec *Record) ([]TableRow, error) {
	doc, err := c.GetConfig(ctx, appNameOrID)
	if err != nil {
		return nil, err
	}
	return table.RowsBySectionLabel(sectionLabel, rec, doc)
}

// TableColumnIndex reports the informational position of a column
// within a row, or -1. Lookups never use positions.
func TableColumnIndex(attributeID string, row TableRow) int {
	return table.ColumnIndex(attributeID, row)
}

// TableCellValue resolves a column label within a table section and
// extracts that cell's value from a row.
func (c *Client) TableCellValue(ctx context.Context, appNameOrID string, row TableRow, labels ...string) (string, error) {
	doc, err := c.GetConfig(ctx, appNameOrID)
	if err != nil {
		return "", err
	}
	p, err := label.NewPath(labels...)
	if err != nil {
		return "", err
	}
	return table.CellValue(p, row, doc)
}

// GetRecord reads one record by its internal object id.
func (c *Client) GetRecord(ctx context.Context, appNameOrID, objectID string) (*Record, error) {
	desc, err := appid.Resolve(appNameOrID)
	if err != nil {
		return nil, err
	}
	return c.transport.GetByID(ctx, desc, objectID)
}

// SearchByText runs the general keyword search for an app. extra
// carries optional paging parameters ("numRecords", "startIndex").
func (c *Client) SearchByText(ctx context.Context, appNameOrID, searchText string, extra url.Values) (*SearchResult, error) {
	desc, err := appid.Resolve(appNameOrID)
	if err != nil {
		return nil, err
	}
	return c.transport.SearchByText(ctx, desc, searchText, extra)
}

// SendEmail delivers an email through the platform. emailData is
// marshaled as-is.
func (c *Client) SendEmail(ctx context.Context, emailData any) (*Record, error) {
	return c.transport.SendEmail(ctx, emailData)
}
