package apptivo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/toddminertech/apptivo-go/internal/appid"
	"github.com/toddminertech/apptivo-go/internal/label"
	"github.com/toddminertech/apptivo-go/internal/record"
)

// bulkPageSize is the page size used for the data-management getAll
// loop. The endpoint caps pages around this size.
const bulkPageSize = 5000

// DefaultMaxBulkRecords caps GetAllRecordsInApp when the caller passes
// no explicit limit.
const DefaultMaxBulkRecords = 20000

// GetEmployeeIDFromName searches the employees app by full name and
// returns the matching employee's reference id.
func (c *Client) GetEmployeeIDFromName(ctx context.Context, employeeName string) (string, error) {
	result, err := c.SearchByText(ctx, "employees", employeeName, nil)
	if err != nil {
		return "", err
	}
	for _, rec := range result.Records {
		if label.Equal(rec.StringField("fullName"), employeeName) {
			return rec.StringField("employeeId"), nil
		}
	}
	return "", fmt.Errorf("no employee matched name %q", employeeName)
}

// GetCustomerFromName searches the customers app by name and returns
// the first exactly-matching customer record.
func (c *Client) GetCustomerFromName(ctx context.Context, customerName string) (*Record, error) {
	result, err := c.SearchByText(ctx, "customers", customerName, nil)
	if err != nil {
		return nil, err
	}
	for _, rec := range result.Records {
		if label.Equal(rec.StringField("customerName"), customerName) {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("no customer matched name %q", customerName)
}

// GetCustomerIDFromName wraps GetCustomerFromName and returns only the
// customer id.
func (c *Client) GetCustomerIDFromName(ctx context.Context, customerName string) (string, error) {
	rec, err := c.GetCustomerFromName(ctx, customerName)
	if err != nil {
		return "", err
	}
	return rec.StringField("customerId"), nil
}

// GetAllRecordsInApp pages through the bulk data-management endpoint
// until a short page signals the end or maxRecords is reached. Pass
// maxRecords <= 0 for the default cap. Requires a session key from
// Login.
func (c *Client) GetAllRecordsInApp(ctx context.Context, appNameOrID string, maxRecords int) ([]*Record, error) {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxBulkRecords
	}
	desc, err := appid.Resolve(appNameOrID)
	if err != nil {
		return nil, err
	}
	var all []*Record
	for page := 0; ; page++ {
		batch, err := c.transport.DataManagementGetAll(ctx, desc, page*bulkPageSize, bulkPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, batch.Records...)
		if len(batch.Records) < bulkPageSize || len(all) >= maxRecords {
			break
		}
	}
	if len(all) > maxRecords {
		all = all[:maxRecords]
	}
	return all, nil
}

// FindBySearchAndField runs a keyword search for valueToMatch and
// returns the first result whose label-resolved field loosely equals
// it. The label path follows the usual 1- or 2-part convention.
func (c *Client) FindBySearchAndField(ctx context.Context, appNameOrID, valueToMatch string, labels ...string) (*Record, error) {
	p, err := label.NewPath(labels...)
	if err != nil {
		return nil, err
	}
	result, err := c.SearchByText(ctx, appNameOrID, valueToMatch, url.Values{})
	if err != nil {
		return nil, err
	}
	doc, err := c.GetConfig(ctx, appNameOrID)
	if err != nil {
		return nil, err
	}
	for _, rec := range result.Records {
		details, err := record.GetValue(p, rec, doc)
		if err != nil {
			return nil, err
		}
		if label.Equal(details.Value.Text, valueToMatch) {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("no %s record matched %q on %s", appNameOrID, valueToMatch, p.String())
}
