package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultBaseURL is the Airtable REST API endpoint.
const DefaultBaseURL = "https://api.airtable.com/v0"

// Client is the HTTP wrapper for the Airtable REST API, scoped to one table.
type Client struct {
	baseURL    string
	apiKey     string
	baseID     string
	tableName  string
	httpClient *http.Client
}

// NewClient creates a new Airtable client for the given base and table.
func NewClient(apiKey, baseID, tableName string) *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		baseID:     baseID,
		tableName:  tableName,
		httpClient: &http.Client{},
	}
}

// SetAPIURL overrides the default API URL for testing purposes.
func (c *Client) SetAPIURL(url string) {
	c.baseURL = url
}

// Record is the Airtable record object.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type listResponse struct {
	Records []Record `json:"records"`
}

func (c *Client) tableURL() string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(c.tableName))
}

// CreateRecord creates a record via POST /{base}/{table}.
func (c *Client) CreateRecord(ctx context.Context, fields map[string]any) (*Record, error) {
	body, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal create record request: %w", err)
	}

	var rec Record
	if err := c.do(ctx, http.MethodPost, c.tableURL(), body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRecords lists records with an optional filter formula and field subset.
func (c *Client) ListRecords(ctx context.Context, formula string, fields []string, maxRecords int) ([]Record, error) {
	q := url.Values{}
	if formula != "" {
		q.Set("filterByFormula", formula)
	}
	for _, f := range fields {
		q.Add("fields[]", f)
	}
	if maxRecords > 0 {
		q.Set("maxRecords", strconv.Itoa(maxRecords))
	}

	reqURL := c.tableURL()
	if encoded := q.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	var resp listResponse
	if err := c.do(ctx, http.MethodGet, reqURL, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// UpdateRecord patches fields on a record via PATCH /{base}/{table}/{id}.
func (c *Client) UpdateRecord(ctx context.Context, id string, fields map[string]any) (*Record, error) {
	body, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal update record request: %w", err)
	}

	var rec Record
	if err := c.do(ctx, http.MethodPatch, c.tableURL()+"/"+id, body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteRecord removes a record via DELETE /{base}/{table}/{id}.
func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.tableURL()+"/"+id, nil, nil)
}

// do executes one API call and decodes the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, reqURL string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build airtable request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call airtable API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("airtable API error %d: %s", resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode airtable response: %w", err)
	}
	return nil
}
