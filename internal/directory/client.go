// Package directory is the HTTP client for the branch listing API.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// ListQuery selects one page of branches. Empty Search and Company mean no filter.
type ListQuery struct {
	Search   string
	Company  string
	Page     int
	PageSize int
}

// Page is one page of a branch listing
type Page struct {
	Items []Branch
	Total int
	// Fetched is the number of records the server returned, including any
	// dropped during normalization
	Fetched int
}

// Client talks to the listing API. It keeps no state between calls and never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. A client passed to
// WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l.Named("directory") }
}

// NewClient creates a Client for the API rooted at baseURL, e.g. "http://localhost:8080"
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListCompanies returns every company known to the backend
func (c *Client) ListCompanies(ctx context.Context) ([]string, error) {
	const op = "list companies"

	body, status, err := c.get(ctx, op, "/api/companies", nil)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, &Error{Op: op, StatusCode: status, Kind: ErrServer}
	}

	var resp struct {
		Companies []string `json:"companies"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Op: op, StatusCode: status, Kind: ErrServer, Err: err}
	}
	if resp.Companies == nil {
		resp.Companies = []string{}
	}
	return resp.Companies, nil
}

// ListBranches returns one page of branches matching q
func (c *Client) ListBranches(ctx context.Context, q ListQuery) (*Page, error) {
	const op = "list branches"

	params := url.Values{}
	if s := strings.TrimSpace(q.Search); s != "" {
		params.Set("search", s)
	}
	if s := strings.TrimSpace(q.Company); s != "" {
		params.Set("company", s)
	}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.PageSize))

	body, status, err := c.get(ctx, op, "/api/branches", params)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, &Error{Op: op, StatusCode: status, Kind: ErrServer}
	}

	var resp struct {
		Branches []json.RawMessage `json:"branches"`
		Total    int               `json:"total"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Op: op, StatusCode: status, Kind: ErrServer, Err: err}
	}

	page := &Page{
		Items:   make([]Branch, 0, len(resp.Branches)),
		Total:   resp.Total,
		Fetched: len(resp.Branches),
	}
	for i, raw := range resp.Branches {
		b, err := Normalize(raw)
		if err != nil {
			c.logger.Warn("dropping branch record",
				zap.Int("page", q.Page),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		page.Items = append(page.Items, b)
	}
	return page, nil
}

// GetBranch returns a single branch, or an error wrapping ErrNotFound
func (c *Client) GetBranch(ctx context.Context, id string) (*Branch, error) {
	const op = "get branch"

	body, status, err := c.get(ctx, op, "/api/branches/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, &Error{Op: op, StatusCode: status, Kind: ErrNotFound}
	}
	if !ok(status) {
		return nil, &Error{Op: op, StatusCode: status, Kind: ErrServer}
	}
	if isNull(body) {
		return nil, &Error{Op: op, StatusCode: status, Kind: ErrNotFound}
	}

	b, err := Normalize(body)
	if err != nil {
		return nil, &Error{Op: op, StatusCode: status, Kind: ErrServer, Err: err}
	}
	return &b, nil
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values) ([]byte, int, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, &Error{Op: op, Kind: ErrNetwork, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("url", reqURL), zap.Error(err))
		return nil, 0, &Error{Op: op, Kind: ErrNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &Error{Op: op, StatusCode: resp.StatusCode, Kind: ErrNetwork, Err: err}
	}

	c.logger.Debug("request done",
		zap.String("url", reqURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	return bytes.TrimSpace(body), resp.StatusCode, nil
}

func ok(status int) bool {
	return status >= 200 && status < 300
}
