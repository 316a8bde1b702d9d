package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toddminertech/apptivo-go/internal/layout"
)

// testDocJSON is the layout the record fixtures below conform to.
const testDocJSON = `{
  "webLayout": {
    "sections": [
      {
        "id": "sec_main",
        "label": "Overview",
        "attributes": [
          {
            "label": "Customer Name",
            "type": "Standard",
            "attributeId": "attr_name",
            "attributeTag": "input",
            "tagName": "customerName"
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
              }
            ]
          },
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
            "label": "Primary Email",
            "type": "Custom",
            "attributeId": "cust_email",
            "attributeTag": "referenceField",
            "referenceAttributeId": "ref_email_attr",
            "referenceTagName": "emailAddress"
          },
          {
            "label": "Notes",
            "type": "Custom",
            "attributeId": "cust_notes",
            "attributeTag": "textarea"
          },
          {
            "label": "Mystery",
            "type": "Custom",
            "attributeId": "cust_mystery",
            "attributeTag": "hologram"
          }
        ]
      }
    ]
  }
}`

const testRecordJSON = `{
  "id": 9000123,
  "customerName": "Acme Rockets",
  "unmodeledBlob": {"keep": ["me", 1]},
  "addresses": [
    {"addressType": "Billing Address", "zipCode": "30301"},
    {"addressType": "Shipping Address", "zipCode": "98101"}
  ],
  "customAttributes": [
    {
      "customAttributeId": "cust_status",
      "customAttributeType": "select",
      "customAttributeValue": "Active",
      "vendorExtensionField": true
    },
    {
      "customAttributeId": "cust_regions",
      "customAttributeType": "multiSelect",
      "customAttributeValue": "",
      "attributeValues": [
        {"attributeId": "opt_n", "attributeValue": "North"},
        {"attributeId": 42, "attributeValue": "West"}
      ]
    },
    {
      "customAttributeId": "cust_notes",
      "customAttributeType": "textarea",
      "customAttributeValue": "",
      "customAttributeValue1": "net 30 terms",
      "attributeValues": []
    }
  ]
}`

func makeTestDoc(t *testing.T) *layout.Document {
	t.Helper()
	doc, err := layout.Parse([]byte(testDocJSON))
	require.NoError(t, err)
	return doc
}

func makeTestRecord(t *testing.T) *Record {
	t.Helper()
	rec, err := Parse([]byte(testRecordJSON))
	require.NoError(t, err)
	return rec
}

func TestRecord_Fields(t *testing.T) {
	rec := makeTestRecord(t)

	assert.Equal(t, "9000123", rec.ID())
	assert.Equal(t, "Acme Rockets", rec.StringField("customerName"))
	assert.Equal(t, "", rec.StringField("noSuchField"))
	assert.Equal(t, "", rec.StringField("unmodeledBlob"), "composites render empty")

	require.NoError(t, rec.SetField("customerName", "Acme Rockets LLC"))
	assert.Equal(t, "Acme Rockets LLC", rec.StringField("customerName"))
}

func TestRecord_RoundTrip(t *testing.T) {
	rec := makeTestRecord(t)
	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, testRecordJSON, string(out))
}

func TestRecord_FindCustomAttribute(t *testing.T) {
	rec := makeTestRecord(t)

	attr, idx, err := rec.FindCustomAttribute("cust_regions")
	require.NoError(t, err)
	require.NotNil(t, attr)
	assert.Equal(t, 1, idx)
	require.Len(t, attr.AttributeValues, 2)
	assert.Equal(t, "opt_n", attr.AttributeValues[0].AttributeID)
	assert.Equal(t, "42", attr.AttributeValues[1].AttributeID, "numeric ids decode as text")

	attr, idx, err = rec.FindCustomAttribute("cust_absent")
	require.NoError(t, err)
	assert.Nil(t, attr)
	assert.Equal(t, -1, idx)
}

func TestRecord_ReplaceCustomAttributeKeepsOtherEntries(t *testing.T) {
	rec := makeTestRecord(t)

	attr, idx, err := rec.FindCustomAttribute("cust_regions")
	require.NoError(t, err)
	attr.AttributeValues = []AttributeValuePair{{AttributeID: "opt_s", AttributeValue: "South"}}
	require.NoError(t, rec.ReplaceCustomAttributeAt(idx, attr))

	// The untouched first entry must keep fields outside the modeled
	// shape, byte for byte.
	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"vendorExtensionField":true`)

	replaced, _, err := rec.FindCustomAttribute("cust_regions")
	require.NoError(t, err)
	require.Len(t, replaced.AttributeValues, 1)
	assert.Equal(t, "South", replaced.AttributeValues[0].AttributeValue)
}

func TestRecord_AppendCustomAttribute(t *testing.T) {
	rec := makeTestRecord(t)
	before := rec.CustomAttributeCount()

	require.NoError(t, rec.AppendCustomAttribute(&CustomAttribute{
		CustomAttributeID:    "cust_seats",
		CustomAttributeValue: "12",
		NumberValue:          "12",
	}))

	assert.Equal(t, before+1, rec.CustomAttributeCount())
	attr, idx, err := rec.FindCustomAttribute("cust_seats")
	require.NoError(t, err)
	assert.Equal(t, before, idx)
	assert.Equal(t, "12", attr.NumberValue)
}

func TestRecord_Addresses(t *testing.T) {
	rec := makeTestRecord(t)

	addrs, err := rec.Addresses()
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, "Billing Address", addrs[0].AddressType())
	assert.Equal(t, "30301", addrs[0].String("zipCode"))

	require.NoError(t, addrs[0].Set("zipCode", "30339"))
	require.NoError(t, rec.SetAddresses(addrs))

	again, err := rec.Addresses()
	require.NoError(t, err)
	assert.Equal(t, "30339", again[0].String("zipCode"))

	empty := New()
	addrs, err = empty.Addresses()
	require.NoError(t, err)
	assert.Empty(t, addrs)
}

func TestCustomAttribute_MarshalShapes(t *testing.T) {
	t.Run("textarea keeps explicit empty attributeValues", func(t *testing.T) {
		attr := &CustomAttribute{
			CustomAttributeID:    "cust_notes",
			CustomAttributeValue: "hello",
			AttributeValues:      []AttributeValuePair{},
		}
		out, err := json.Marshal(attr)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"attributeValues":[]`)
	})

	t.Run("nil attributeValues stays absent", func(t *testing.T) {
		attr := &CustomAttribute{
			CustomAttributeID:    "cust_seats",
			CustomAttributeValue: "4",
		}
		out, err := json.Marshal(attr)
		require.NoError(t, err)
		assert.NotContains(t, string(out), "attributeValues")
	})

	t.Run("extra fields merge at the top level", func(t *testing.T) {
		attr := &CustomAttribute{
			CustomAttributeID: "cust_owner",
			ObjectID:          "3",
			Extra:             map[string]any{"customerId": "777", "customerName": "Acme"},
		}
		out, err := json.Marshal(attr)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(out, &m))
		assert.Equal(t, "777", m["customerId"])
		assert.Equal(t, "Acme", m["customerName"])
		assert.Equal(t, "3", m["objectId"])
	})
}

func TestAttributeValuePair_Unmarshal(t *testing.T) {
	var p AttributeValuePair
	require.NoError(t, json.Unmarshal([]byte(`"bare toggle"`), &p))
	assert.Equal(t, "", p.AttributeID)
	assert.Equal(t, "bare toggle", p.AttributeValue)

	require.NoError(t, json.Unmarshal([]byte(`{"attributeId": 9, "attributeValue": "North"}`), &p))
	assert.Equal(t, "9", p.AttributeID)
	assert.Equal(t, "North", p.AttributeValue)
}
