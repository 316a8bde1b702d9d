package record

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/toddminertech/apptivo-go/internal/appid"
	"github.com/toddminertech/apptivo-go/internal/label"
	"github.com/toddminertech/apptivo-go/internal/layout"
	"github.com/toddminertech/apptivo-go/internal/reserr"
)

// DefaultCurrencyCode is stamped onto every currency attribute.
const DefaultCurrencyCode = "USD"

// dateWireFormat is the layout the platform stores dates in.
const dateWireFormat = "01/02/2006"

// dateInputFormats are the accepted input shapes, tried in order.
var dateInputFormats = []string{
	"1/2/2006",
	"2006-1-2",
	"2006/1/2",
	"Jan 2, 2006",
	"2 Jan 2006",
	time.RFC3339,
}

// customAppIDThreshold separates built-in app ids from tenant-generated
// custom app ids in reference values. Built-in ids are at most 3 digits.
const customAppIDThreshold = 1000

// BuildAttribute resolves a label path and synthesizes a complete,
// schema-correct custom attribute object carrying the given values,
// ready for submission.
//
// The per-tag output shape is fixed:
//
//	check/multiSelect  attributeValues of matched options, or one
//	                   synthesized free entry when nothing matched
//	counter            raw passthrough
//	currency           raw value plus the fixed currency code
//	date               value reformatted to MM/DD/YYYY
//	input              raw passthrough
//	number             raw value duplicated into numberValue
//	reference          (objectId, objectRefId, objectRefName) triple
//	referenceField     triple plus the definition's reference metadata
//	select             exactly one matched option
//	textarea           raw value with an explicit empty attributeValues
//
// Empty input is an error only for reference and referenceField; other
// tags emit a cleared-value shape.
func BuildAttribute(p label.Path, newValues []string, doc *layout.Document) (*CustomAttribute, error) {
	def, err := layout.FindAttribute(p, doc)
	if err != nil {
		return nil, err
	}
	return BuildAttributeFromDefinition(def, newValues, p)
}

// BuildAttributeFromDefinition synthesizes from an already-resolved
// definition. The path is used only for diagnostics.
func BuildAttributeFromDefinition(def *layout.Attribute, newValues []string, p label.Path) (*CustomAttribute, error) {
	attr := &CustomAttribute{
		CustomAttributeID:      string(def.AttributeID),
		CustomAttributeName:    def.Label.Text,
		CustomAttributeType:    def.Tag(),
		CustomAttributeTagName: def.FieldName(),
	}
	first := firstNonEmpty(newValues)

	switch def.Tag() {
	case layout.TagSelect:
		if first == "" {
			attr.AttributeValues = []AttributeValuePair{}
			return attr, nil
		}
		opt, ok := matchOption(def.OptionValueList, first)
		if !ok {
			return nil, reserr.New(reserr.CodeNoMatchingOption,
				"value %q matched no configured option", first).WithLabel(p.String())
		}
		attr.CustomAttributeValue = opt.Object
		attr.AttributeValues = []AttributeValuePair{{
			AttributeID:    optionValueID(opt),
			AttributeValue: opt.Object,
		}}

	case layout.TagMultiSelect, layout.TagCheck:
		attr.AttributeValues = []AttributeValuePair{}
		for _, v := range newValues {
			if v == "" {
				continue
			}
			if opt, ok := matchOption(def.OptionValueList, v); ok {
				attr.AttributeValues = append(attr.AttributeValues, AttributeValuePair{
					AttributeID:    optionValueID(opt),
					AttributeValue: opt.Object,
				})
			}
		}
		// Toggle attributes tolerate free-entry values: when nothing
		// matched but input was supplied, carry the raw text forward.
		if len(attr.AttributeValues) == 0 && first != "" {
			attr.AttributeValues = append(attr.AttributeValues, AttributeValuePair{
				AttributeID:    uuid.NewString(),
				AttributeValue: first,
			})
		}

	case layout.TagCounter, layout.TagInput:
		attr.CustomAttributeValue = first

	case layout.TagTextarea:
		attr.CustomAttributeValue = first
		attr.AttributeValues = []AttributeValuePair{}

	case layout.TagNumber:
		attr.CustomAttributeValue = first
		attr.NumberValue = first

	case layout.TagCurrency:
		attr.CustomAttributeValue = first
		attr.CurrencyCode = DefaultCurrencyCode

	case layout.TagDate:
		attr.CustomAttributeValue = reformatDate(first)

	case layout.TagReference:
		if err := buildReference(attr, newValues, p); err != nil {
			return nil, err
		}

	case layout.TagReferenceField:
		if err := buildReference(attr, newValues, p); err != nil {
			return nil, err
		}
		// The associated field's reference metadata comes from the
		// resolved definition, never from surrounding state.
		if def.ReferenceAttributeID != "" {
			attr.extra("referenceAttributeId", string(def.ReferenceAttributeID))
		}
		if def.ReferenceTagName != "" {
			attr.CustomAttributeTagName = def.ReferenceTagName
			if isEmailOrPhoneTag(def.ReferenceTagName) {
				// These subtypes store the display value in the
				// alternate location.
				attr.CustomAttributeValue1 = attr.ObjectRefName
			}
		}

	default:
		return nil, reserr.New(reserr.CodeUnsupportedAttributeTag,
			"no synthesis rule for attribute tag %q", def.Tag()).WithLabel(p.String())
	}
	return attr, nil
}

// buildReference fills the (objectId, objectRefId, objectRefName)
// triple. Small object ids address built-in apps and additionally get
// that app's dedicated id/name properties; larger ids address custom
// apps and keep the generic triple only.
func buildReference(attr *CustomAttribute, newValues []string, p label.Path) error {
	vals := nonEmpty(newValues)
	if len(vals) < 3 {
		return reserr.New(reserr.CodeEmptyRequiredValue,
			"reference values require objectId, objectRefId, and objectRefName, got %d", len(vals)).
			WithLabel(p.String())
	}
	objectID, refID, refName := vals[0], vals[1], vals[2]
	attr.ObjectID = objectID
	attr.ObjectRefID = refID
	attr.ObjectRefName = refName
	attr.CustomAttributeValue = refName

	id, err := strconv.Atoi(objectID)
	if err != nil {
		return reserr.New(reserr.CodeEmptyRequiredValue,
			"reference objectId %q is not numeric", objectID).WithLabel(p.String())
	}
	if id < customAppIDThreshold {
		if d, ok := appid.ByNumericID(id); ok {
			attr.extra(d.IDParamName, refID)
			attr.extra(d.SingularName+"Name", refName)
		}
	}
	return nil
}

func (a *CustomAttribute) extra(key string, value any) {
	if a.Extra == nil {
		a.Extra = map[string]any{}
	}
	a.Extra[key] = value
}

// matchOption finds the first option whose text loosely equals the
// input, falling back to case-insensitive containment.
func matchOption(options []layout.Option, input string) (layout.Option, bool) {
	for _, opt := range options {
		if label.Equal(opt.Object, input) {
			return opt, true
		}
	}
	folded := label.Fold(input)
	for _, opt := range options {
		if folded != "" && strings.Contains(label.Fold(opt.Object), folded) {
			return opt, true
		}
	}
	return layout.Option{}, false
}

// optionValueID picks the stored value id for a matched option. Options
// without a distinct id (auto-generated tags) use their own text.
func optionValueID(opt layout.Option) string {
	if opt.ID != "" {
		return string(opt.ID)
	}
	return opt.Object
}

// reformatDate normalizes any accepted input shape to the wire format.
// Unparseable input passes through untouched.
func reformatDate(input string) string {
	if input == "" {
		return ""
	}
	for _, f := range dateInputFormats {
		if t, err := time.Parse(f, input); err == nil {
			return t.Format(dateWireFormat)
		}
	}
	return input
}

func isEmailOrPhoneTag(tagName string) bool {
	switch tagName {
	case "emailAddress", "email", "phoneNumber", "phone":
		return true
	}
	return false
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

