// Package appid maps app name/alias/compound-id strings to the static
// per-app parameters every API request needs.
//
// There is no remote source for these values; the table is maintained by
// hand against observed platform behavior.
package appid

import (
	"strconv"
	"strings"

	"github.com/toddminertech/apptivo-go/internal/label"
	"github.com/toddminertech/apptivo-go/internal/reserr"
)

// Every tenant-defined custom app shares the same url segment, envelope
// key, and id parameter; only the numeric app id differs.
const (
	customAppURLSegment  = "customapp"
	customAppEnvelopeKey = "customAppData"
	customAppIDParamName = "customAppId"
)

// Descriptor holds the static request parameters for one app. Immutable
// once resolved.
type Descriptor struct {
	// SingularName is the singular object name used in some requests.
	SingularName string

	// URLSegment is the path segment inside the API endpoint URL.
	URLSegment string

	// DataEnvelopeKey is the form-field name wrapping the record JSON in
	// save/update bodies, e.g. "caseData".
	DataEnvelopeKey string

	// IDParamName is the query-parameter name carrying the record id,
	// e.g. "caseId".
	IDParamName string

	// NumericAppID is the platform-internal app id. Static for standard
	// apps, tenant-unique for custom and extension apps.
	NumericAppID int

	// AliasName is the base app name a compound identity was resolved
	// through ("cases" for "cases-993829"). Empty for plain identities.
	AliasName string
}

// IsCustomApp reports whether the descriptor addresses a tenant-defined
// custom app.
func (d Descriptor) IsCustomApp() bool { return d.URLSegment == customAppURLSegment }

type template struct {
	singular string
	url      string
	envelope string
	idParam  string
	id       int
}

// One entry per accepted spelling. Numeric-id strings resolve through
// the same table.
var templates = map[string]template{}

func register(t template, keys ...string) {
	for _, k := range keys {
		templates[k] = t
	}
	if t.id != 0 {
		templates[strconv.Itoa(t.id)] = t
	}
}

func init() {
	register(template{"case", "cases", "caseData", "caseId", 59}, "cases", "case")
	register(template{"contact", "contacts", "contactData", "contactId", 2}, "contacts", "contact")
	register(template{"customer", "customers", "customerData", "customerId", 3}, "customers", "customer")
	register(template{"employee", "employees", "employeeData", "employeeId", 8}, "employees", "employee")
	register(template{"estimate", "estimates", "estimateData", "estimateId", 155}, "estimates", "estimate")
	register(template{"invoice", "invoice", "invoiceData", "invoiceId", 33}, "invoices", "invoice")
	register(template{"item", "items", "itemData", "itemId", 13}, "items", "item")
	register(template{"lead", "leads", "leadData", "leadId", 4}, "leads", "lead")
	register(template{"opportunity", "opportunities", "opportunityData", "opportunityId", 11}, "opportunities", "opportunity")
	register(template{"order", "orders", "orderData", "orderId", 12}, "orders", "order")
	register(template{"project", "projects", "projectInformation", "projectId", 88}, "projects", "project")
	register(template{"property", "properties", "propertyData", "propertyId", 160}, "properties", "property")
	register(template{"supplier", "suppliers", "supplierData", "supplierId", 37}, "suppliers", "supplier")
	register(template{"target", "targets", "targetIdx", "id", 19}, "targets", "target")
	register(template{customAppURLSegment, customAppURLSegment, customAppEnvelopeKey, customAppIDParamName, 0}, customAppURLSegment)
}

// ByNumericID returns the descriptor of a built-in app by its static
// numeric id. ok is false for custom-app ids, which have no static
// entry.
func ByNumericID(id int) (Descriptor, bool) {
	t, ok := templates[strconv.Itoa(id)]
	if !ok {
		return Descriptor{}, false
	}
	return Descriptor{
		SingularName:    t.singular,
		URLSegment:      t.url,
		DataEnvelopeKey: t.envelope,
		IDParamName:     t.idParam,
		NumericAppID:    t.id,
	}, true
}

// Resolve maps an app identity string to its Descriptor.
//
// Accepted forms:
//   - a bare app name or singular alias, case-insensitive ("Cases")
//   - a bare numeric app id as a string ("59")
//   - a compound "<name>-<numericId>" addressing a custom or extension
//     app ("cases-993829", "customapp-445566"); the name selects the
//     descriptor template and the suffix overrides the numeric id
//
// Resolution is pure and total: every input either matches exactly one
// descriptor or fails with UNKNOWN_APP.
func Resolve(appNameOrID string) (Descriptor, error) {
	matchVal := appNameOrID
	overrideID := 0
	alias := ""
	if name, suffix, found := strings.Cut(appNameOrID, "-"); found {
		id, err := strconv.Atoi(strings.TrimSpace(suffix))
		if err != nil || id <= 0 {
			return Descriptor{}, reserr.New(reserr.CodeUnknownApp,
				"compound app identity %q has a non-numeric id suffix", appNameOrID).
				WithApp(appNameOrID)
		}
		matchVal = name
		overrideID = id
		alias = name
	}

	t, ok := templates[label.Fold(matchVal)]
	if !ok {
		return Descriptor{}, reserr.New(reserr.CodeUnknownApp,
			"unrecognized app identity %q", appNameOrID).
			WithApp(appNameOrID)
	}

	d := Descriptor{
		SingularName:    t.singular,
		URLSegment:      t.url,
		DataEnvelopeKey: t.envelope,
		IDParamName:     t.idParam,
		NumericAppID:    t.id,
		AliasName:       alias,
	}
	if overrideID != 0 {
		d.NumericAppID = overrideID
	}
	// Custom apps have no static id at all, so a bare "customapp" with
	// no suffix is unresolvable.
	if d.NumericAppID == 0 {
		return Descriptor{}, reserr.New(reserr.CodeUnknownApp,
			"custom app identity %q needs a numeric id suffix", appNameOrID).
			WithApp(appNameOrID)
	}
	return d, nil
}
