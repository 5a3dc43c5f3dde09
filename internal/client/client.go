// Package client talks to the furniture recommendation backend: POST
// /recommend for ranked products and GET /analytics for catalog statistics.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"furnish/internal/catalog"
	"furnish/internal/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is used when Options.BaseURL is empty.
const DefaultBaseURL = "http://localhost:8000"

// maxErrorBody bounds how much of a failed response is kept in StatusError.
const maxErrorBody = 512

// slowRequestThreshold is when a request is logged as slow.
const slowRequestThreshold = 2 * time.Second

var (
	// ErrEmptyQuery is returned for a query that is blank after trimming.
	ErrEmptyQuery = errors.New("query must not be empty")
	// ErrInvalidTopN is returned when fewer than one result is requested.
	ErrInvalidTopN = errors.New("top_n must be at least 1")
	// ErrMalformedResponse wraps bodies that cannot be decoded or are incomplete.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.Status, e.Body)
}

// Options configures a Client.
type Options struct {
	// BaseURL is the backend root, e.g. http://localhost:8000.
	BaseURL string
	// Timeout bounds each request; zero means no timeout.
	Timeout time.Duration
	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client
	// NewRequestID overrides X-Request-ID generation (tests).
	NewRequestID func() string
}

// Client is safe for concurrent use.
type Client struct {
	baseURL      string
	timeout      time.Duration
	http         *http.Client
	newRequestID func() string
}

// New creates a client for the backend at opts.BaseURL.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", opts.BaseURL)
	}
	if opts.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative")
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}
	newID := opts.NewRequestID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}

	return &Client{
		baseURL:      base,
		timeout:      opts.Timeout,
		http:         hc,
		newRequestID: newID,
	}, nil
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// =============================================================================
// ENDPOINTS
// =============================================================================

type recommendRequest struct {
	Query string `json:"query"`
	TopN  int    `json:"top_n"`
}

type recommendResponse struct {
	Query           string             `json:"query"`
	Recommendations *[]catalog.Product `json:"recommendations"`
}

// Recommend asks for the topN products matching query. The returned slice is
// in backend rank order.
func (c *Client) Recommend(ctx context.Context, query string, topN int) ([]catalog.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if topN < 1 {
		return nil, ErrInvalidTopN
	}

	var resp recommendResponse
	if err := c.do(ctx, http.MethodPost, "/recommend", recommendRequest{Query: query, TopN: topN}, &resp); err != nil {
		return nil, err
	}
	if resp.Recommendations == nil {
		return nil, fmt.Errorf("recommend: %w: missing recommendations", ErrMalformedResponse)
	}
	return *resp.Recommendations, nil
}

type analyticsResponse struct {
	TotalProducts *int            `json:"total_products"`
	AvgPrice      *float64        `json:"avg_price"`
	TopBrands     *catalog.Counts `json:"top_brands"`
	TopCategories *catalog.Counts `json:"top_categories"`
}

// Analytics fetches the catalog snapshot. A snapshot is returned only when
// every member is present, so callers never see a partial one.
func (c *Client) Analytics(ctx context.Context) (catalog.AnalyticsSnapshot, error) {
	var resp analyticsResponse
	if err := c.do(ctx, http.MethodGet, "/analytics", nil, &resp); err != nil {
		return catalog.AnalyticsSnapshot{}, err
	}

	var missing []string
	if resp.TotalProducts == nil {
		missing = append(missing, "total_products")
	}
	if resp.AvgPrice == nil {
		missing = append(missing, "avg_price")
	}
	if resp.TopBrands == nil {
		missing = append(missing, "top_brands")
	}
	if resp.TopCategories == nil {
		missing = append(missing, "top_categories")
	}
	if len(missing) > 0 {
		return catalog.AnalyticsSnapshot{}, fmt.Errorf("analytics: %w: missing %s", ErrMalformedResponse, strings.Join(missing, ", "))
	}
	if *resp.TotalProducts < 0 {
		return catalog.AnalyticsSnapshot{}, fmt.Errorf("analytics: %w: negative total_products", ErrMalformedResponse)
	}

	return catalog.AnalyticsSnapshot{
		TotalProducts: *resp.TotalProducts,
		AvgPrice:      *resp.AvgPrice,
		TopBrands:     *resp.TopBrands,
		TopCategories: *resp.TopCategories,
	}, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	endpoint := strings.TrimPrefix(path, "/")
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", endpoint, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := c.newRequestID()
	req.Header.Set("X-Request-ID", requestID)

	log := logging.WithRequestID(logging.CategoryAPI, requestID)
	log.Debug("request", zap.String("method", method), zap.String("url", req.URL.String()))
	timer := logging.StartTimer(logging.CategoryAPI, endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err), zap.Duration("elapsed", timer.Stop()))
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	log.Debug("response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", timer.StopWithThreshold(slowRequestThreshold)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(data)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Warn("undecodable response", zap.Error(err))
		return fmt.Errorf("%s: %w: %v", endpoint, ErrMalformedResponse, err)
	}
	return nil
}
