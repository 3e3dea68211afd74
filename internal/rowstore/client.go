// Package rowstore is a thin client for the hosted datastore's
// PostgREST-style query API. Rows go over the wire as JSON arrays;
// filters and ordering are query parameters.
package rowstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/taskstack/taskstack-be/internal/apperr"
)

// Client issues filtered/ordered REST queries against the datastore.
// It is immutable after construction and safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New creates a client for the given REST root and access key.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// From starts a query against a table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table, params: url.Values{}}
}

// Ping checks that the datastore answers at all. Any HTTP response
// counts as reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return apperr.Upstream("Database error", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Upstream("Database error", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
}

// Query accumulates filters for a single table before execution.
type Query struct {
	client *Client
	table  string
	params url.Values
}

// Select sets which columns come back.
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

// Eq filters rows to column = value.
func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

// Order sorts the result by a column.
func (q *Query) Order(column string, descending bool) *Query {
	direction := "asc"
	if descending {
		direction = "desc"
	}
	q.params.Set("order", column+"."+direction)
	return q
}

// Execute runs the query as a read and decodes the row array into dest.
func (q *Query) Execute(ctx context.Context, dest any) error {
	return q.do(ctx, http.MethodGet, nil, dest)
}

// Insert adds a row and decodes the returned representation into dest.
func (q *Query) Insert(ctx context.Context, row, dest any) error {
	return q.do(ctx, http.MethodPost, row, dest)
}

// Update applies values to every row matching the filters and decodes
// the returned representation into dest.
func (q *Query) Update(ctx context.Context, values, dest any) error {
	return q.do(ctx, http.MethodPatch, values, dest)
}

// Delete removes every row matching the filters and decodes the deleted
// rows into dest so callers can detect a no-op.
func (q *Query) Delete(ctx context.Context, dest any) error {
	return q.do(ctx, http.MethodDelete, nil, dest)
}

func (q *Query) do(ctx context.Context, method string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperr.Upstream("Database error", err)
		}
		reader = bytes.NewReader(encoded)
	}

	endpoint := q.client.baseURL + "/" + q.table
	if encoded := q.params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return apperr.Upstream("Database error", err)
	}
	q.client.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := q.client.http.Do(req)
	if err != nil {
		return apperr.Upstream("Database error", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Upstream("Error parsing json response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperr.Upstream("Database error",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(raw, 256)))
	}

	if dest != nil {
		if err := json.Unmarshal(raw, dest); err != nil {
			return apperr.Upstream("Error deserializing response", err)
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
