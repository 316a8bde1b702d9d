package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/toddminertech/apptivo-go/internal/appid"
	"github.com/toddminertech/apptivo-go/internal/record"
)

// envelopeKeys is the unwrap order for API response bodies: a record
// may arrive at the top level or nested under one of these fields.
var envelopeKeys = []string{"data", "responseObject", "customer"}

// unwrapRecord decodes a response body into a record, honoring the
// envelope order: a top-level id means the body is the record itself.
func unwrapRecord(body []byte) (*record.Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("response body: %w", err)
	}
	if _, ok := fields["id"]; ok {
		return record.Parse(body)
	}
	for _, key := range envelopeKeys {
		raw, ok := fields[key]
		if !ok || isJSONNull(raw) {
			continue
		}
		return record.Parse(raw)
	}
	return nil, fmt.Errorf("response body carried no record envelope")
}

func isJSONNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// acceptRecord is the retry acceptance check for record responses.
func acceptRecord(body []byte) error {
	_, err := unwrapRecord(body)
	return err
}

// Login authenticates with user credentials and stores the session key
// used by the data-management endpoints.
func (c *Client) Login(ctx context.Context, emailID, password, firmID string) error {
	query := url.Values{}
	query.Set("a", "login")
	query.Set("generateSessionkey", "true")
	query.Set("getSessionToken", "true")

	form := url.Values{}
	form.Set("emailId", emailID)
	form.Set("password", password)
	form.Set("firmId", firmID)

	type loginResponse struct {
		ResponseObject struct {
			AuthenticationKey string `json:"authenticationKey"`
		} `json:"responseObject"`
	}
	body, err := c.doWithRetry(ctx, http.MethodPost, c.endpoint("login", query), form, func(body []byte) error {
		var lr loginResponse
		if err := json.Unmarshal(body, &lr); err != nil {
			return err
		}
		if lr.ResponseObject.AuthenticationKey == "" {
			return fmt.Errorf("login response carried no authentication key")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.sessionKey = lr.ResponseObject.AuthenticationKey
	return nil
}

// GetConfigData fetches the raw configuration document for an app.
func (c *Client) GetConfigData(ctx context.Context, desc appid.Descriptor) ([]byte, error) {
	query := c.keyParams()
	query.Set("a", "getConfigData")
	query.Set("objectId", strconv.Itoa(desc.NumericAppID))

	body, err := c.doWithRetry(ctx, http.MethodGet, c.endpoint("dao/v6/"+desc.URLSegment, query), nil, func(body []byte) error {
		if !json.Valid(body) || len(bytes.TrimSpace(body)) == 0 {
			return fmt.Errorf("config response is not valid JSON")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get config data for %s: %w", desc.URLSegment, err)
	}
	return body, nil
}

// GetByID reads one record by its internal object id.
func (c *Client) GetByID(ctx context.Context, desc appid.Descriptor, objectID string) (*record.Record, error) {
	query := c.keyParams()
	query.Set("a", "getById")
	query.Set(desc.IDParamName, objectID)

	body, err := c.doWithRetry(ctx, http.MethodGet, c.endpoint("dao/v6/"+desc.URLSegment, query), nil, acceptRecord)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", desc.SingularName, objectID, err)
	}
	return unwrapRecord(body)
}

// Save creates a new record. The record JSON travels in a form field
// named by the app's data envelope key; custom apps additionally carry
// their app id as customAppObjectId.
func (c *Client) Save(ctx context.Context, desc appid.Descriptor, rec *record.Record) (*record.Record, error) {
	query := c.keyParams()
	query.Set("a", "save")
	query.Set("objectId", strconv.Itoa(desc.NumericAppID))
	if desc.IsCustomApp() {
		query.Set("customAppObjectId", strconv.Itoa(desc.NumericAppID))
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", desc.SingularName, err)
	}
	form := url.Values{}
	form.Set(desc.DataEnvelopeKey, string(data))

	body, err := c.doWithRetry(ctx, http.MethodPost, c.endpoint("dao/v6/"+desc.URLSegment, query), form, acceptRecord)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", desc.SingularName, err)
	}
	return unwrapRecord(body)
}

// Update submits changed attributes of an existing record.
//
// Platform quirks reproduced here: the customers app expects the
// singular attributeName parameter, and the estimates app rejects an
// objectId parameter on updates.
func (c *Client) Update(ctx context.Context, desc appid.Descriptor, rec *record.Record,
	attributeNames, attributeIDs []string, isCustomAttributeUpdate bool) (*record.Record, error) {
	if len(attributeNames) == 0 {
		return nil, fmt.Errorf("update %s: no attribute names provided", desc.SingularName)
	}
	if len(attributeIDs) == 0 {
		return nil, fmt.Errorf("update %s: no attribute ids provided", desc.SingularName)
	}

	query := c.keyParams()
	query.Set("a", "update")
	if desc.URLSegment != "estimates" {
		query.Set("objectId", strconv.Itoa(desc.NumericAppID))
	}
	query.Set(desc.IDParamName, rec.ID())

	namesJSON, err := json.Marshal(attributeNames)
	if err != nil {
		return nil, err
	}
	idsJSON, err := json.Marshal(attributeIDs)
	if err != nil {
		return nil, err
	}
	nameParam := "attributeNames"
	if desc.URLSegment == "customers" {
		nameParam = "attributeName"
	}
	query.Set(nameParam, string(namesJSON))
	query.Set("attributeIds", string(idsJSON))
	if isCustomAttributeUpdate {
		query.Set("isCustomAttributesUpdate", "true")
	} else {
		query.Set("isCustomAttributesUpdate", "")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", desc.SingularName, err)
	}
	form := url.Values{}
	form.Set(desc.DataEnvelopeKey, string(data))

	body, err := c.doWithRetry(ctx, http.MethodPost, c.endpoint("dao/v6/"+desc.URLSegment, query), form, acceptRecord)
	if err != nil {
		return nil, fmt.Errorf("update %s %s: %w", desc.SingularName, rec.ID(), err)
	}
	return unwrapRecord(body)
}

// SearchResult is a page of keyword search results.
type SearchResult struct {
	Records    []*record.Record
	TotalCount int
}

// SearchByText runs the general keyword search for an app, equivalent
// to the UI search box. extra carries optional paging parameters.
func (c *Client) SearchByText(ctx context.Context, desc appid.Descriptor, searchText string, extra url.Values) (*SearchResult, error) {
	query := c.keyParams()
	query.Set("a", "getAllBySearchText")
	query.Set("searchText", searchText)
	for k, vs := range extra {
		for _, v := range vs {
			query.Add(k, v)
		}
	}

	type searchResponse struct {
		Data           []json.RawMessage `json:"data"`
		CountOfRecords int               `json:"countOfRecords"`
	}
	body, err := c.doWithRetry(ctx, http.MethodGet, c.endpoint("dao/v6/"+desc.URLSegment, query), nil, func(body []byte) error {
		var sr searchResponse
		if err := json.Unmarshal(body, &sr); err != nil {
			return err
		}
		if sr.Data == nil {
			return fmt.Errorf("search response carried no data field")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search %s for %q: %w", desc.URLSegment, searchText, err)
	}
	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("search %s: %w", desc.URLSegment, err)
	}
	result := &SearchResult{TotalCount: sr.CountOfRecords}
	for i, raw := range sr.Data {
		rec, err := record.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("search %s result %d: %w", desc.URLSegment, i, err)
		}
		result.Records = append(result.Records, rec)
	}
	if result.TotalCount == 0 {
		result.TotalCount = len(result.Records)
	}
	return result, nil
}

// DataManagementGetAll pulls one page from the bulk data-management
// endpoint. Requires a session key from Login.
func (c *Client) DataManagementGetAll(ctx context.Context, desc appid.Descriptor, startIndex, numRecords int) (*SearchResult, error) {
	if c.sessionKey == "" {
		return nil, fmt.Errorf("data management getAll: no session key, call Login first")
	}
	query := url.Values{}
	query.Set("a", "getAll")
	query.Set("objectId", strconv.Itoa(desc.NumericAppID))
	query.Set("objectStatus", "0")
	query.Set("startIndex", strconv.Itoa(startIndex))
	query.Set("numRecords", strconv.Itoa(numRecords))

	form := url.Values{}
	form.Set("sessionKey", c.sessionKey)
	form.Set("apiKey", c.creds.APIKey)
	form.Set("accessKey", c.creds.AccessKey)

	type pageResponse struct {
		Data           []json.RawMessage `json:"data"`
		CountOfRecords int               `json:"countOfRecords"`
	}
	body, err := c.doWithRetry(ctx, http.MethodPost, c.endpoint("dao/v6/datamanagement", query), form, func(body []byte) error {
		var pr pageResponse
		if err := json.Unmarshal(body, &pr); err != nil {
			return err
		}
		if pr.Data == nil {
			return fmt.Errorf("getAll response carried no data field")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("data management getAll %s: %w", desc.URLSegment, err)
	}
	var pr pageResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("data management getAll %s: %w", desc.URLSegment, err)
	}
	result := &SearchResult{TotalCount: pr.CountOfRecords}
	for i, raw := range pr.Data {
		rec, err := record.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("getAll %s result %d: %w", desc.URLSegment, i, err)
		}
		result.Records = append(result.Records, rec)
	}
	return result, nil
}

// SendEmail delivers an email through the platform's email endpoint.
// emailData is marshaled as-is into the emailData form field.
func (c *Client) SendEmail(ctx context.Context, emailData any) (*record.Record, error) {
	query := url.Values{}
	query.Set("a", "send")
	if c.creds.UserName != "" {
		query.Set("userName", c.creds.UserName)
	}

	data, err := json.Marshal(emailData)
	if err != nil {
		return nil, fmt.Errorf("send email: %w", err)
	}
	form := url.Values{}
	form.Set("emailData", string(data))
	form.Set("apiKey", c.creds.APIKey)
	form.Set("accessKey", c.creds.AccessKey)

	body, err := c.doWithRetry(ctx, http.MethodPost, c.endpoint("dao/emails", query), form, acceptRecord)
	if err != nil {
		return nil, fmt.Errorf("send email: %w", err)
	}
	return unwrapRecord(body)
}
