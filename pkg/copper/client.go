// Package copper provides token-authenticated REST access to the Copper
// CRM developer API.
package copper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/ridgepoint/commission-cli/internal/model"
)

// Default base URL for the Copper developer API.
const defaultBaseURL = "https://api.copper.com/developer_api/v1"

// defaultPageSize is the Copper search API maximum.
const defaultPageSize = 200

// Client defines the Copper operations the sync path uses.
type Client interface {
	ListCompanies(ctx context.Context) ([]model.CopperCompany, error)
}

// FieldIDs maps the custom-field definition ids a Copper workspace uses
// for the fields this system reads. Copper exposes them only by numeric
// id, so they are workspace configuration, not constants.
type FieldIDs struct {
	AccountOrderID int64
	AccountType    int64
	Active         int64
}

// APIError is returned when Copper responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("copper: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets a per-second request ceiling. Copper enforces 600
// requests per 10 minutes per token.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// WithPageSize overrides the search page size.
func WithPageSize(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	token    string
	email    string
	baseURL  string
	fields   FieldIDs
	pageSize int
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a Copper client. token and email form the API
// credential pair; fields maps the workspace's custom-field ids.
func NewClient(token, email string, fields FieldIDs, opts ...Option) Client {
	c := &httpClient{
		token:    token,
		email:    email,
		baseURL:  defaultBaseURL,
		fields:   fields,
		pageSize: defaultPageSize,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRequest struct {
	PageNumber int    `json:"page_number"`
	PageSize   int    `json:"page_size"`
	SortBy     string `json:"sort_by"`
}

type apiAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

type apiCustomField struct {
	FieldDefinitionID int64 `json:"custom_field_definition_id"`
	Value             any   `json:"value"`
}

type apiCompany struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Address      *apiAddress      `json:"address"`
	CustomFields []apiCustomField `json:"custom_fields"`
}

// ListCompanies pages through the company search endpoint until a short
// page signals the end.
func (c *httpClient) ListCompanies(ctx context.Context) ([]model.CopperCompany, error) {
	var out []model.CopperCompany
	for page := 1; ; page++ {
		batch, err := c.searchPage(ctx, page)
		if err != nil {
			return nil, eris.Wrap(err, fmt.Sprintf("copper: list companies page %d", page))
		}
		for i := range batch {
			out = append(out, c.toModel(&batch[i]))
		}
		if len(batch) < c.pageSize {
			return out, nil
		}
	}
}

func (c *httpClient) searchPage(ctx context.Context, page int) ([]apiCompany, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limit")
		}
	}

	body, err := json.Marshal(searchRequest{PageNumber: page, PageSize: c.pageSize, SortBy: "name"})
	if err != nil {
		return nil, eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/companies/search", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-PW-AccessToken", c.token)
	req.Header.Set("X-PW-UserEmail", c.email)
	req.Header.Set("X-PW-Application", "developer_api")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var companies []apiCompany
	if err := json.Unmarshal(data, &companies); err != nil {
		return nil, eris.Wrap(err, "decode response")
	}
	return companies, nil
}

func (c *httpClient) toModel(a *apiCompany) model.CopperCompany {
	out := model.CopperCompany{
		CopperID:       strconv.FormatInt(a.ID, 10),
		Name:           a.Name,
		AccountOrderID: customFieldString(a.CustomFields, c.fields.AccountOrderID),
		AccountTypeRaw: customFieldString(a.CustomFields, c.fields.AccountType),
		ActiveRaw:      customFieldString(a.CustomFields, c.fields.Active),
	}
	if a.Address != nil {
		out.Street = a.Address.Street
		out.City = a.Address.City
		out.State = a.Address.State
		out.Zip = a.Address.PostalCode
	}
	return out
}

// customFieldString renders a custom-field value as text. Copper returns
// strings, numbers, or booleans depending on the field type.
func customFieldString(fields []apiCustomField, id int64) string {
	if id == 0 {
		return ""
	}
	for _, f := range fields {
		if f.FieldDefinitionID != id || f.Value == nil {
			continue
		}
		switch v := f.Value.(type) {
		case string:
			return v
		case bool:
			return strconv.FormatBool(v)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}
