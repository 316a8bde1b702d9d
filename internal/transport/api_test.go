package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toddminertech/apptivo-go/internal/appid"
	"github.com/toddminertech/apptivo-go/internal/record"
)

func mustResolve(t *testing.T, app string) appid.Descriptor {
	t.Helper()
	desc, err := appid.Resolve(app)
	require.NoError(t, err)
	return desc
}

func TestUnwrapRecord(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantID string
	}{
		{"top level record", `{"id": "1", "x": 2}`, "1"},
		{"data envelope", `{"data": {"id": "2"}}`, "2"},
		{"responseObject envelope", `{"responseObject": {"id": "3"}}`, "3"},
		{"customer envelope", `{"customer": {"id": "4"}}`, "4"},
		{"data wins over responseObject", `{"data": {"id": "5"}, "responseObject": {"id": "6"}}`, "5"},
		{"null data falls through", `{"data": null, "responseObject": {"id": "7"}}`, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := unwrapRecord([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, rec.ID())
		})
	}
}

func TestUnwrapRecord_NoEnvelope(t *testing.T) {
	_, err := unwrapRecord([]byte(`{"status": "ok"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no record envelope")
}

func TestLogin(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "login", r.URL.Query().Get("a"))
		assert.Equal(t, "true", r.URL.Query().Get("generateSessionkey"))
		assert.Equal(t, "jo@firm.test", r.PostFormValue("emailId"))
		assert.Equal(t, "hunter2", r.PostFormValue("password"))
		assert.Equal(t, "12345", r.PostFormValue("firmId"))
		w.Write([]byte(`{"responseObject": {"authenticationKey": "sess-abc"}}`))
	})
	c := makeTestClient(t, handler)

	require.NoError(t, c.Login(context.Background(), "jo@firm.test", "hunter2", "12345"))
	assert.Equal(t, "sess-abc", c.SessionKey())
}

func TestLogin_MissingKey(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseObject": {}}`))
	})
	c := makeTestClient(t, handler)

	err := c.Login(context.Background(), "jo@firm.test", "hunter2", "12345")
	require.Error(t, err)
	assert.Empty(t, c.SessionKey())
}

func TestGetByID(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dao/v6/cases", r.URL.Path)
		assert.Equal(t, "getById", r.URL.Query().Get("a"))
		assert.Equal(t, "900", r.URL.Query().Get("caseId"))
		assert.Equal(t, "key", r.URL.Query().Get("apiKey"))
		w.Write([]byte(`{"data": {"id": "900", "subject": "Leaky pipe"}}`))
	})
	c := makeTestClient(t, handler)

	rec, err := c.GetByID(context.Background(), mustResolve(t, "cases"), "900")
	require.NoError(t, err)
	assert.Equal(t, "900", rec.ID())
	assert.Equal(t, "Leaky pipe", rec.StringField("subject"))
}

func TestSave(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "save", r.URL.Query().Get("a"))
		assert.Equal(t, "59", r.URL.Query().Get("objectId"))
		assert.Empty(t, r.URL.Query().Get("customAppObjectId"))

		var sent map[string]any
		require.NoError(t, json.Unmarshal([]byte(r.PostFormValue("caseData")), &sent))
		assert.Equal(t, "New case", sent["subject"])

		w.Write([]byte(`{"data": {"id": "901", "subject": "New case"}}`))
	})
	c := makeTestClient(t, handler)

	rec := record.New()
	require.NoError(t, rec.SetField("subject", "New case"))
	saved, err := c.Save(context.Background(), mustResolve(t, "cases"), rec)
	require.NoError(t, err)
	assert.Equal(t, "901", saved.ID())
}

func TestSave_CustomApp(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/dao/v6/customapp", r.URL.Path)
		assert.Equal(t, "445566", r.URL.Query().Get("objectId"))
		assert.Equal(t, "445566", r.URL.Query().Get("customAppObjectId"))
		assert.NotEmpty(t, r.PostFormValue("customAppData"))
		w.Write([]byte(`{"data": {"id": "1"}}`))
	})
	c := makeTestClient(t, handler)

	_, err := c.Save(context.Background(), mustResolve(t, "customapp-445566"), record.New())
	require.NoError(t, err)
}

func TestUpdate(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "update", q.Get("a"))
		assert.Equal(t, "59", q.Get("objectId"))
		assert.Equal(t, "900", q.Get("caseId"))
		assert.JSONEq(t, `["subject"]`, q.Get("attributeNames"))
		assert.JSONEq(t, `["attr_subject"]`, q.Get("attributeIds"))
		assert.Equal(t, "true", q.Get("isCustomAttributesUpdate"))
		w.Write([]byte(`{"data": {"id": "900"}}`))
	})
	c := makeTestClient(t, handler)

	rec, err := record.Parse([]byte(`{"id": "900"}`))
	require.NoError(t, err)
	_, err = c.Update(context.Background(), mustResolve(t, "cases"), rec,
		[]string{"subject"}, []string{"attr_subject"}, true)
	require.NoError(t, err)
}

func TestUpdate_AppQuirks(t *testing.T) {
	t.Run("customers use singular attributeName", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.JSONEq(t, `["name"]`, q.Get("attributeName"))
			assert.Empty(t, q.Get("attributeNames"))
			w.Write([]byte(`{"customer": {"id": "5"}}`))
		})
		c := makeTestClient(t, handler)

		rec, err := record.Parse([]byte(`{"id": "5"}`))
		require.NoError(t, err)
		_, err = c.Update(context.Background(), mustResolve(t, "customers"), rec,
			[]string{"name"}, []string{"a1"}, false)
		require.NoError(t, err)
	})

	t.Run("estimates omit objectId", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.False(t, q.Has("objectId"))
			assert.Equal(t, "7", q.Get("estimateId"))
			w.Write([]byte(`{"data": {"id": "7"}}`))
		})
		c := makeTestClient(t, handler)

		rec, err := record.Parse([]byte(`{"id": "7"}`))
		require.NoError(t, err)
		_, err = c.Update(context.Background(), mustResolve(t, "estimates"), rec,
			[]string{"x"}, []string{"a1"}, false)
		require.NoError(t, err)
	})
}

func TestUpdate_RequiresChangedAttributes(t *testing.T) {
	c := New(Credentials{APIKey: "k", AccessKey: "a"})
	rec, err := record.Parse([]byte(`{"id": "1"}`))
	require.NoError(t, err)

	_, err = c.Update(context.Background(), mustResolve(t, "cases"), rec, nil, []string{"a"}, false)
	assert.Error(t, err)
	_, err = c.Update(context.Background(), mustResolve(t, "cases"), rec, []string{"n"}, nil, false)
	assert.Error(t, err)
}

func TestSearchByText(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "getAllBySearchText", r.URL.Query().Get("a"))
		assert.Equal(t, "acme", r.URL.Query().Get("searchText"))
		w.Write([]byte(`{"data": [{"id": "1"}, {"id": "2"}], "countOfRecords": 2}`))
	})
	c := makeTestClient(t, handler)

	result, err := c.SearchByText(context.Background(), mustResolve(t, "customers"), "acme", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "1", result.Records[0].ID())
}

func TestSearchByText_EmptyResult(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	})
	c := makeTestClient(t, handler)

	result, err := c.SearchByText(context.Background(), mustResolve(t, "customers"), "nobody", nil)
	require.NoError(t, err)
	assert.Zero(t, result.TotalCount)
	assert.Empty(t, result.Records)
}

func TestDataManagementGetAll(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/dao/v6/datamanagement", r.URL.Path)
		assert.Equal(t, "getAll", r.URL.Query().Get("a"))
		assert.Equal(t, "0", r.URL.Query().Get("startIndex"))
		assert.Equal(t, "500", r.URL.Query().Get("numRecords"))
		assert.Equal(t, "sess-abc", r.PostFormValue("sessionKey"))
		w.Write([]byte(`{"data": [{"id": "1"}], "countOfRecords": 1}`))
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(Credentials{APIKey: "k", AccessKey: "a"},
		WithBaseURL(srv.URL), WithRetries(0), WithSleep(0))
	c.sessionKey = "sess-abc"

	result, err := c.DataManagementGetAll(context.Background(), mustResolve(t, "customers"), 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
}

func TestDataManagementGetAll_RequiresSession(t *testing.T) {
	c := New(Credentials{APIKey: "k", AccessKey: "a"})
	_, err := c.DataManagementGetAll(context.Background(), mustResolve(t, "customers"), 0, 500)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no session key")
}

func TestSendEmail(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/dao/emails", r.URL.Path)
		assert.Equal(t, "send", r.URL.Query().Get("a"))
		var sent map[string]any
		require.NoError(t, json.Unmarshal([]byte(r.PostFormValue("emailData")), &sent))
		assert.Equal(t, "Hello", sent["subject"])
		w.Write([]byte(`{"data": {"id": "em-1"}}`))
	})
	c := makeTestClient(t, handler)

	rec, err := c.SendEmail(context.Background(), map[string]any{"subject": "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "em-1", rec.ID())
}

func TestGetConfigData(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "getConfigData", r.URL.Query().Get("a"))
		assert.Equal(t, "59", r.URL.Query().Get("objectId"))
		w.Write([]byte(`{"webLayout": {"sections": []}}`))
	})
	c := makeTestClient(t, handler)

	body, err := c.GetConfigData(context.Background(), mustResolve(t, "cases"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"webLayout": {"sections": []}}`, string(body))
}
