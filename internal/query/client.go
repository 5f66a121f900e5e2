// Package query provides the HTTP client scenarios use to talk to a
// single node of the cluster under test.
package query

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chronodb/chronotest/internal/series"
)

// Client is bound to one node's HTTP endpoint for its lifetime.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client bound to the node at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Query sends a query statement and returns the parsed result.
func (c *Client) Query(ctx context.Context, text string) (*Result, error) {
	payload, err := json.Marshal(map[string]string{"q": text})
	if err != nil {
		return nil, fmt.Errorf("encoding query %q: %w", text, err)
	}

	body, err := c.post(ctx, "/query", payload)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", text, err)
	}

	return NewResult(body), nil
}

// Insert writes the points of each series to the node in one batch.
func (c *Client) Insert(ctx context.Context, batch ...*series.Series) error {
	data := make(map[string][]series.Point, len(batch))
	for _, s := range batch {
		data[s.Name()] = s.Points()
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding insert batch: %w", err)
	}

	if _, err := c.post(ctx, "/insert", payload); err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	return nil
}

// InitCluster asks the node to create the cluster topology. Issued once
// per run, against the first node.
func (c *Client) InitCluster(ctx context.Context) error {
	if _, err := c.post(ctx, "/cluster/init", []byte(`{}`)); err != nil {
		return fmt.Errorf("cluster init: %w", err)
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", resp.Status, body)
	}

	return body, nil
}
