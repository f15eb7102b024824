package copper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFields = FieldIDs{AccountOrderID: 101, AccountType: 102, Active: 103}

func TestListCompanies_Paged(t *testing.T) {
	var pages []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/companies/search", r.URL.Path)
		assert.Equal(t, "tok-1", r.Header.Get("X-PW-AccessToken"))
		assert.Equal(t, "ops@example.com", r.Header.Get("X-PW-UserEmail"))
		assert.Equal(t, "developer_api", r.Header.Get("X-PW-Application"))

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		pages = append(pages, req.PageNumber)

		// Page 1 is full (2 records at page size 2), page 2 is short.
		companies := []map[string]any{}
		if req.PageNumber == 1 {
			companies = append(companies,
				company(1, "Acme", "ACC-1", "Wholesale", true),
				company(2, "Beta", "ACC-2", "Retail", true),
			)
		} else {
			companies = append(companies, company(3, "Gamma", "", "Chain", false))
		}
		require.NoError(t, json.NewEncoder(w).Encode(companies))
	}))
	defer srv.Close()

	c := NewClient("tok-1", "ops@example.com", testFields,
		WithBaseURL(srv.URL), WithPageSize(2))

	got, err := c.ListCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2}, pages)

	assert.Equal(t, "1", got[0].CopperID)
	assert.Equal(t, "Acme", got[0].Name)
	assert.Equal(t, "ACC-1", got[0].AccountOrderID)
	assert.Equal(t, "Wholesale", got[0].AccountTypeRaw)
	assert.Equal(t, "true", got[0].ActiveRaw)
	assert.Equal(t, "5 Oak Ave", got[0].Street)

	assert.Equal(t, "", got[2].AccountOrderID)
	assert.Equal(t, "false", got[2].ActiveRaw)
}

func TestListCompanies_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad", "ops@example.com", testFields, WithBaseURL(srv.URL))
	_, err := c.ListCompanies(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestCustomFieldString_Types(t *testing.T) {
	fields := []apiCustomField{
		{FieldDefinitionID: 1, Value: "text"},
		{FieldDefinitionID: 2, Value: true},
		{FieldDefinitionID: 3, Value: float64(42)},
		{FieldDefinitionID: 4, Value: nil},
	}

	assert.Equal(t, "text", customFieldString(fields, 1))
	assert.Equal(t, "true", customFieldString(fields, 2))
	assert.Equal(t, "42", customFieldString(fields, 3))
	assert.Equal(t, "", customFieldString(fields, 4))
	assert.Equal(t, "", customFieldString(fields, 99))
	assert.Equal(t, "", customFieldString(fields, 0), "unconfigured field id reads as blank")
}

func company(id int64, name, accountOrderID, accountType string, active bool) map[string]any {
	return map[string]any{
		"id":   id,
		"name": name,
		"address": map[string]any{
			"street": "5 Oak Ave", "city": "Denver", "state": "CO", "postal_code": "80014",
		},
		"custom_fields": []map[string]any{
			{"custom_field_definition_id": 101, "value": accountOrderID},
			{"custom_field_definition_id": 102, "value": accountType},
			{"custom_field_definition_id": 103, "value": active},
		},
	}
}
