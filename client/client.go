package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/qyinm/ktrend/config"
	"github.com/qyinm/ktrend/types"
	"golang.org/x/time/rate"
)

const userAgent = "ktrend/1.0 (+https://github.com/qyinm/ktrend)"

var (
	// ErrNetwork wraps transport failures and non-200 responses
	ErrNetwork = errors.New("network failure")
	// ErrMalformed wraps payloads that do not decode or violate list invariants
	ErrMalformed = errors.New("malformed payload")
	// ErrEmpty marks a well-formed payload that carries nothing usable
	ErrEmpty = errors.New("empty payload")
)

// Client implements types.TrendSource against the trend backend's HTTP API.
type Client struct {
	baseURL  string
	client   *http.Client
	limiter  *rate.Limiter
	cacheTTL time.Duration
	now      func() time.Time
	cache    map[string]cachedResult
	mu       sync.Mutex
}

type cachedResult struct {
	value     any
	timestamp time.Time
}

// Compile-time interface check
var _ types.TrendSource = (*Client)(nil)

// New creates a Client for cfg with an empty cache.
func New(cfg config.Client) *Client {
	cfg = cfg.Normalize()
	return &Client{
		baseURL: cfg.APIURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:  rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		cacheTTL: cfg.CacheTTL,
		now:      time.Now,
		cache:    make(map[string]cachedResult),
	}
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// GetTrends fetches the ranked trend list for category.
func (c *Client) GetTrends(ctx context.Context, category types.Category) (types.TrendList, error) {
	if !category.Valid() {
		return types.TrendList{}, fmt.Errorf("get trends: unknown category %q", category)
	}
	u := c.baseURL + "/api/trends?category=" + url.QueryEscape(category.String())

	if v, ok := c.cached(u); ok {
		if list, ok := v.(types.TrendList); ok {
			return list, nil
		}
	}

	body, err := c.get(ctx, u)
	if err != nil {
		return types.TrendList{}, fmt.Errorf("fetch trends: %w", err)
	}
	defer body.Close()

	list, err := ParseTrends(body, category, c.now())
	if err != nil {
		return types.TrendList{}, fmt.Errorf("parse trends: %w", err)
	}

	c.store(u, list)
	return list, nil
}

// Analyze fetches the reason text and short-range chart for keyword.
func (c *Client) Analyze(ctx context.Context, keyword string) (types.Analysis, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return types.Analysis{}, errors.New("analyze: keyword is required")
	}
	u := c.baseURL + "/api/analyze/" + url.PathEscape(keyword)

	if v, ok := c.cached(u); ok {
		if a, ok := v.(types.Analysis); ok {
			return a, nil
		}
	}

	body, err := c.get(ctx, u)
	if err != nil {
		return types.Analysis{}, fmt.Errorf("fetch analysis: %w", err)
	}
	defer body.Close()

	analysis, err := ParseAnalysis(body, keyword)
	if err != nil {
		return types.Analysis{}, fmt.Errorf("parse analysis: %w", err)
	}

	c.store(u, analysis)
	return analysis, nil
}

// GetChartData fetches the chart series for keyword at period.
func (c *Client) GetChartData(ctx context.Context, keyword string, period types.ChartPeriod) ([]types.ChartPoint, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, errors.New("chart data: keyword is required")
	}
	u := c.baseURL + "/api/trend-data/" + url.PathEscape(keyword) + "?period=" + period.String()

	if v, ok := c.cached(u); ok {
		if points, ok := v.([]types.ChartPoint); ok {
			return points, nil
		}
	}

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch chart data: %w", err)
	}
	defer body.Close()

	points, err := ParseChart(body)
	if err != nil {
		return nil, fmt.Errorf("parse chart data: %w", err)
	}

	c.store(u, points)
	return points, nil
}

// ClearCache clears the in-memory cache.
func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cachedResult)
}

func (c *Client) get(ctx context.Context, u string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		// Read body for error context
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: unexpected status code: %d, body: %s", ErrNetwork, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return resp.Body, nil
}

func (c *Client) cached(key string) (any, bool) {
	if c.cacheTTL <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.timestamp) > c.cacheTTL {
		delete(c.cache, key)
		return nil, false
	}
	return entry.value, true
}

func (c *Client) store(key string, value any) {
	if c.cacheTTL <= 0 {
		return
	}
	c.mu.Lock()
	c.cache[key] = cachedResult{value: value, timestamp: c.now()}
	c.mu.Unlock()
}
