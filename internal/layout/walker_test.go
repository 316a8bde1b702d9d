package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toddminertech/apptivo-go/internal/label"
	"github.com/toddminertech/apptivo-go/internal/reserr"
)

const walkerDocJSON = `{
  "webLayout": {
    "sections": [
      {
        "id": "sec_a",
        "label": "Overview",
        "attributes": [
          {
            "label": "Name",
            "type": "Standard",
            "attributeId": "attr_name",
            "attributeTag": "input",
            "tagName": "caseName"
          },
          {
            "label": "Status",
            "type": "Custom",
            "attributeId": "attr_status_a",
            "attributeTag": "select"
          },
          {"label": "", "type": "Standard", "attributeTag": "spacer"},
          {
            "label": "Retired",
            "type": "Custom",
            "attributeId": "attr_retired",
            "attributeTag": "input",
            "isEnabled": false
          },
          {
            "label": "Address",
            "type": "Standard",
            "attributeId": "attr_addr",
            "attributeTag": "address",
            "addressList": [
              {
                "label": "Zip Code",
                "type": "Standard",
                "attributeId": "addr_zip",
                "attributeTag": "input",
                "tagName": "zipCode"
              },
              {
                "label": "City",
                "type": "Standard",
                "attributeId": "addr_city",
                "attributeTag": "input",
                "tagName": "city"
              }
            ]
          }
        ]
      },
      {
        "id": "sec_b",
        "label": "Extras",
        "attributes": [
          {
            "label": "Status",
            "type": "Custom",
            "attributeId": "attr_status_b",
            "attributeTag": "select"
          },
          {
            "label": "Placeholder Twin",
            "type": "Custom",
            "attributeTag": "placeholder"
          },
          {
            "label": "Placeholder Twin",
            "type": "Custom",
            "attributeId": "attr_twin",
            "attributeTag": "input"
          }
        ]
      }
    ]
  }
}`

func TestFindAttribute_ByLabel(t *testing.T) {
	doc := makeTestDocument(t, walkerDocJSON)

	attr, err := FindAttribute(label.Path{"Name"}, doc)
	require.NoError(t, err)
	assert.Equal(t, FlexID("attr_name"), attr.AttributeID)
}

func TestFindAttribute_ByFieldName(t *testing.T) {
	doc := makeTestDocument(t, walkerDocJSON)

	attr, err := FindAttribute(label.Path{"caseName"}, doc)
	require.NoError(t, err)
	assert.Equal(t, FlexID("attr_name"), attr.AttributeID)
}

func TestFindAttribute_CaseInsensitive(t *testing.T) {
	doc := makeTestDocument(t, walkerDocJSON)

	attr, err := FindAttribute(label.Path{"  STATUS "}, doc)
	require.NoError(t, err)
	assert.Equal(t, FlexID("attr_status_a"), attr.AttributeID)
}

func TestFindAttribute_FirstMatchWins(t *testing.T) {
	doc := makeTestDocument(t, walkerDocJSON)

	// "Status" appears in both sections; document order decides.
	attr, err := FindAttribute(label.Path{"Status"}, doc)
	require.NoError(t, err)
	assert.Equal(t, FlexID("attr_status_a"), attr.AttributeID)
}

func TestFindAttribute_ScopedPath(t *testing.T) {
	doc := makeTestDocument(t, walkerDocJSON)

	attr, err := FindAttribute(label.Path{"Extras", "Status"}, doc)
	require.NoError(t, err)
	assert.Equal(t, FlexID("attr_status_b"), attr.AttributeID)

	_, err = FindAttribute(label.Path{"Nowhere", "Status"}, doc)
	assert.Equal(t, reserr.CodeAttributeNotFound, reserr.CodeOf(err))
}

func TestFindAttribute_SkipsDisabledAndStructural(t *testing.T) {
	doc := makeTestDocument(t, walkerDocJSON)

	_, err := FindAttribute(label.Path{"Retired"}, doc)
	assert.Equal(t, reserr.CodeAttributeNotFound, reserr.CodeOf(err))

	// The placeholder carries the same label as a real attribute after
	// it; the walk must skip the placeholder and land on the real one.
	attr, err := FindAttribute(label.Path{"Placeholder Twin"}, doc)
	require.NoError(t, err)
	assert.Equal(t, FlexID("attr_twin"), attr.AttributeID)
}

func TestFindAttribute_AddressField(t *testing.T) {
	doc := makeTestDocument(t, walkerDocJSON)

	attr, err := FindAttribute(label.Path{"Address||Billing Address||Zip Code"}, doc)
	require.NoError(t, err)
	assert.Equal(t, FlexID("addr_zip"), attr.AttributeID)
	assert.Equal(t, "zipCode", attr.FieldName())

	// The field name form works too.
	attr, err = FindAttribute(label.Path{"Address||Shipping Address||city"}, doc)
	require.NoError(t, err)
	assert.Equal(t, FlexID("addr_city"), attr.AttributeID)

	_, err = FindAttribute(label.Path{"Address||Billing Address||Country"}, doc)
	assert.Equal(t, reserr.CodeAttributeNotFound, reserr.CodeOf(err))
}

func TestFindAttribute_NotFound(t *testing.T) {
	doc := makeTestDocument(t, walkerDocJSON)

	_, err := FindAttribute(label.Path{"No Such Field"}, doc)
	require.Error(t, err)
	assert.Equal(t, reserr.CodeAttributeNotFound, reserr.CodeOf(err))
}

func TestFindAttribute_InvalidPath(t *testing.T) {
	doc := makeTestDocument(t, walkerDocJSON)

	_, err := FindAttribute(label.Path{}, doc)
	assert.Equal(t, reserr.CodeInvalidLabelShape, reserr.CodeOf(err))

	_, err = FindAttribute(label.Path{"a", "b", "c"}, doc)
	assert.Equal(t, reserr.CodeInvalidLabelShape, reserr.CodeOf(err))
}

func TestFindAttribute_Idempotent(t *testing.T) {
	doc := makeTestDocument(t, walkerDocJSON)

	first, err := FindAttribute(label.Path{"Status"}, doc)
	require.NoError(t, err)
	second, err := FindAttribute(label.Path{"Status"}, doc)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestFindSection(t *testing.T) {
	doc := makeTestDocument(t, walkerDocJSON)

	sec, err := FindSection("extras", doc)
	require.NoError(t, err)
	assert.Equal(t, FlexID("sec_b"), sec.ID)

	_, err = FindSection("Missing", doc)
	assert.Equal(t, reserr.CodeTableSectionNotFound, reserr.CodeOf(err))
}
