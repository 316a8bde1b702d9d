// Package configcache memoizes per-app configuration documents for the
// lifetime of a client session.
//
// The cache is an explicit value owned by the session, never process
// state. Fetching is injected, so the cache is testable with a fake
// fetcher and the transport layer stays out of the resolution core.
// Failures are never cached; a later call retries the fetch.
//
// Access is single-threaded per session instance. Concurrent use of one
// cache requires external synchronization or a cache per task.
package configcache

import (
	"github.com/toddminertech/apptivo-go/internal/appid"
	"github.com/toddminertech/apptivo-go/internal/layout"
	"github.com/toddminertech/apptivo-go/internal/reserr"
)

// Fetcher retrieves the raw configuration document body for an app.
// Implemented by the HTTP transport in production and by fixtures in
// tests.
type Fetcher func(desc appid.Descriptor) ([]byte, error)

// Store is an optional persistent backend consulted before the fetcher.
type Store interface {
	// Load returns the stored body for an app id, with ok=false when
	// nothing is stored.
	Load(appID int) (body []byte, ok bool, err error)

	// Save stores a freshly fetched body.
	Save(appID int, appName string, body []byte) error
}

type entry struct {
	appID   int
	appName string
	doc     *layout.Document
}

// Cache holds the documents retrieved so far, keyed by numeric app id.
// Cardinality is a few dozen apps per session, so a linear scan is
// fine.
type Cache struct {
	entries []entry
	store   Store
}

// New returns an empty in-memory cache.
func New() *Cache { return &Cache{} }

// NewWithStore returns a cache backed by a persistent store. Store
// errors degrade to a plain fetch; they never fail a Get on their own.
func NewWithStore(s Store) *Cache { return &Cache{store: s} }

// Get resolves the app identity and returns its configuration document,
// fetching at most once per numeric app id.
func (c *Cache) Get(appNameOrID string, fetch Fetcher) (*layout.Document, error) {
	desc, err := appid.Resolve(appNameOrID)
	if err != nil {
		return nil, err
	}
	return c.GetByDescriptor(desc, fetch)
}

// GetByDescriptor is Get for an already-resolved descriptor.
func (c *Cache) GetByDescriptor(desc appid.Descriptor, fetch Fetcher) (*layout.Document, error) {
	for _, e := range c.entries {
		if e.appID == desc.NumericAppID {
			return e.doc, nil
		}
	}

	if c.store != nil {
		if body, ok, err := c.store.Load(desc.NumericAppID); err == nil && ok {
			if doc, err := layout.Parse(body); err == nil {
				c.entries = append(c.entries, entry{desc.NumericAppID, desc.AliasName, doc})
				return doc, nil
			}
		}
	}

	body, err := fetch(desc)
	if err != nil {
		return nil, reserr.New(reserr.CodeConfigFetchFailed,
			"fetching config for app id %d", desc.NumericAppID).
			WithApp(desc.URLSegment).WithCause(err)
	}
	if len(body) == 0 {
		return nil, reserr.New(reserr.CodeConfigFetchFailed,
			"empty config document for app id %d", desc.NumericAppID).
			WithApp(desc.URLSegment)
	}
	doc, err := layout.Parse(body)
	if err != nil {
		return nil, reserr.New(reserr.CodeConfigFetchFailed,
			"unparseable config document for app id %d", desc.NumericAppID).
			WithApp(desc.URLSegment).WithCause(err)
	}

	c.entries = append(c.entries, entry{desc.NumericAppID, desc.AliasName, doc})
	if c.store != nil {
		// Best effort; a write failure must not fail the resolution.
		_ = c.store.Save(desc.NumericAppID, desc.AliasName, body)
	}
	return doc, nil
}

// Len reports how many documents are cached.
func (c *Cache) Len() int { return len(c.entries) }
