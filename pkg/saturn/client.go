// Package saturn provides a Go SDK for the saturn-server API.
package saturn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to a running saturn-server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new saturn API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("saturn api: status %d: %s", e.StatusCode, e.Message)
}

// Health checks that the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	var out map[string]string
	return c.get(ctx, "/api/health", &out)
}

// Strategies lists the available strategies and their parameters.
func (c *Client) Strategies(ctx context.Context) ([]StrategyInfo, error) {
	var out []StrategyInfo
	if err := c.get(ctx, "/api/strategies", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RunBacktest executes a backtest and returns the full result.
func (c *Client) RunBacktest(ctx context.Context, req BacktestRequest) (*BacktestResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/backtest", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var out BacktestResult
	if err := c.do(httpReq, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRun retrieves a stored backtest run by id.
func (c *Client) GetRun(ctx context.Context, id string) (*BacktestResult, error) {
	var out BacktestResult
	if err := c.get(ctx, "/api/backtests/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRuns retrieves up to limit stored runs, newest first. A non-positive
// limit uses the server default.
func (c *Client) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	path := "/api/backtests"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var out []RunSummary
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBars retrieves daily bars for a symbol over an inclusive date range.
func (c *Client) GetBars(ctx context.Context, symbol string, start, end time.Time) ([]Bar, error) {
	path := fmt.Sprintf("/api/bars/%s?start=%s&end=%s",
		url.PathEscape(symbol), start.Format("2006-01-02"), end.Format("2006-01-02"))
	var out []Bar
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(resp.Body)
		msg := string(data)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
