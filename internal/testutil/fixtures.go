// Package testutil provides shared fixtures for tests: a realistic app
// configuration document and a matching record, parsed fresh per test
// so mutations never leak between cases.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toddminertech/apptivo-go/internal/layout"
	"github.com/toddminertech/apptivo-go/internal/record"
)

// ConfigJSON is a trimmed-down but structurally faithful configuration
// document. It mixes the shapes real apps produce: string and object
// labels, node-level and right[0] tag placement, string and numeric
// ids, an address block, option lists, a disabled attribute, spacers,
// and a line items table section.
const ConfigJSON = `{
  "appName": "Customers",
  "webLayout": {
    "sections": [
      {
        "id": "section_contact",
        "label": "Contact Information",
        "attributes": [
          {
            "label": {"modifiedLabel": "Customer Name", "label": "Name"},
            "type": "Standard",
            "attributeId": "attr_name",
            "attributeTag": "input",
            "tagName": "customerName"
          },
          {
            "label": "Assigned To",
            "type": "Standard",
            "attributeId": 1002,
            "right": [{"tag": "select", "tagName": "assigneeObjectRefName"}]
          },
          {
            "label": "Address",
            "type": "Standard",
            "attributeId": "attr_address",
            "attributeTag": "address",
            "addressAttributeId": "addr_block",
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
          },
          {"label": "", "type": "Standard", "attributeTag": "spacer"}
        ]
      },
      {
        "id": "section_details",
        "label": "Details",
        "attributes": [
          {
            "label": "Status",
            "type": "Custom",
            "attributeId": "cust_status",
            "attributeTag": "select",
            "optionValueList": [
              {"optionId": "opt_active", "optionObject": "Active"},
              {"optionId": "opt_inactive", "optionObject": "Inactive"}
            ]
          },
          {
            "label": "Regions",
            "type": "Custom",
            "attributeId": "cust_regions",
            "attributeTag": "multiSelect",
            "optionValueList": ["North", "South", "East", "West"]
          },
          {
            "label": "Flags",
            "type": "Custom",
            "attributeId": "cust_flags",
            "attributeTag": "check",
            "optionValueList": [
              {"optionId": "flag_vip", "optionObject": "VIP"},
              {"optionId": "flag_hold", "optionObject": "On Hold"}
            ]
          },
          {
            "label": "Signed Date",
            "type": "Custom",
            "attributeId": "cust_signed",
            "attributeTag": "date"
          },
          {
            "label": "Seats",
            "type": "Custom",
            "attributeId": "cust_seats",
            "attributeTag": "number"
          },
          {
            "label": "Contract Value",
            "type": "Custom",
            "attributeId": "cust_value",
            "attributeTag": "currency"
          },
          {
            "label": "Account Owner",
            "type": "Custom",
            "attributeId": "cust_owner",
            "attributeTag": "reference"
          },
          {
            "label": "Notes",
            "type": "Custom",
            "attributeId": "cust_notes",
            "attributeTag": "textarea"
          },
          {
            "label": "Legacy Code",
            "type": "Custom",
            "attributeId": "cust_legacy",
            "attributeTag": "input",
            "isEnabled": false
          },
          {"label": "", "type": "Custom", "attributeTag": "placeholder"}
        ]
      },
      {
        "id": "section_items",
        "label": "Line Items",
        "attributes": [
          {
            "label": "Line Items",
            "type": "Custom",
            "attributeId": "tbl_items",
            "attributeTag": "table"
          },
          {
            "label": "Item",
            "type": "Custom",
            "attributeId": "col_item",
            "attributeTag": "input"
          },
          {
            "label": "Quantity",
            "type": "Custom",
            "attributeId": "col_qty",
            "attributeTag": "number"
          }
        ]
      }
    ]
  }
}`

// RecordJSON is a record shaped the way the Customers app returns
// them, matching ConfigJSON's layout.
const RecordJSON = `{
  "id": "9000123",
  "customerName": "Acme Rockets",
  "assigneeObjectRefName": "Jo Field",
  "addresses": [
    {"addressType": "Billing Address", "zipCode": "30301", "city": "Atlanta"},
    {"addressType": "Shipping Address", "zipCode": "98101", "city": "Seattle"}
  ],
  "customAttributes": [
    {
      "customAttributeId": "cust_status",
      "customAttributeType": "select",
      "customAttributeName": "Status",
      "customAttributeValue": "Active",
      "customAttributeValueId": "opt_active"
    },
    {
      "customAttributeId": "cust_regions",
      "customAttributeType": "multiSelect",
      "customAttributeName": "Regions",
      "customAttributeValue": "",
      "attributeValues": [
        {"attributeId": "opt_north", "attributeValue": "North"},
        {"attributeId": "opt_west", "attributeValue": "West"}
      ]
    },
    {
      "customAttributeId": "cust_notes",
      "customAttributeType": "textarea",
      "customAttributeName": "Notes",
      "customAttributeValue": "",
      "customAttributeValue1": "net 30 terms",
      "attributeValues": []
    },
    {
      "customAttributeId": "section_items",
      "customAttributeType": "table",
      "rows": [
        {
          "columns": [
            {"customAttributeId": "col_item", "customAttributeValue": "Widget"},
            {"customAttributeId": "col_qty", "customAttributeValue": "4"}
          ]
        },
        {
          "columns": [
            {"customAttributeId": "col_qty", "customAttributeValue": "1"},
            {"customAttributeId": "col_item", "customAttributeValue": "Gadget"}
          ]
        }
      ]
    }
  ]
}`

// Config parses ConfigJSON into a fresh document.
func Config(t *testing.T) *layout.Document {
	t.Helper()
	doc, err := layout.Parse([]byte(ConfigJSON))
	require.NoError(t, err)
	return doc
}

// Record parses RecordJSON into a fresh record.
func Record(t *testing.T) *record.Record {
	t.Helper()
	rec, err := record.Parse([]byte(RecordJSON))
	require.NoError(t, err)
	return rec
}

// MustDocument parses an inline document body.
func MustDocument(t *testing.T, body string) *layout.Document {
	t.Helper()
	doc, err := layout.Parse([]byte(body))
	require.NoError(t, err)
	return doc
}

// MustRecord parses an inline record body.
func MustRecord(t *testing.T, body string) *record.Record {
	t.Helper()
	rec, err := record.Parse([]byte(body))
	require.NoError(t, err)
	return rec
}
