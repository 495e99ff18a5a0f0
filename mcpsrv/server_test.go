package mcpsrv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/qyinm/ktrend/client"
	"github.com/qyinm/ktrend/types"
)

type fakeSource struct {
	mu          sync.Mutex
	trends      []types.TrendItem
	cleared     bool
	failList    error
	failAnalyze error
	failChart   error
	lastPeriod  types.ChartPeriod
}

func newFakeSource() *fakeSource {
	reason := "SNS 화제"
	return &fakeSource{
		trends: []types.TrendItem{
			types.NewTrendItem(1, "두바이 초콜릿", types.SourceNaverShopping, "", &reason, "Food"),
			types.NewTrendItem(2, "아이폰 16", types.SourceNaverShopping, "", nil, "Digital"),
			types.NewTrendItem(3, "롱부츠", types.SourceYouTube, "", nil, "Fashion"),
		},
	}
}

func points(n int) []types.ChartPoint {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	out := make([]types.ChartPoint, n)
	for i := range out {
		out[i] = types.ChartPoint{Date: start.AddDate(0, 0, i), Ratio: float64(i + 1)}
	}
	return out
}

func (f *fakeSource) GetTrends(_ context.Context, c types.Category) (types.TrendList, error) {
	if f.failList != nil {
		return types.TrendList{}, f.failList
	}
	return types.TrendList{Category: c, Trends: f.trends, LastUpdated: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)}, nil
}

func (f *fakeSource) Analyze(_ context.Context, keyword string) (types.Analysis, error) {
	if f.failAnalyze != nil {
		return types.Analysis{}, f.failAnalyze
	}
	return types.Analysis{Keyword: keyword, Reason: "reason for " + keyword, Chart: points(30)}, nil
}

func (f *fakeSource) GetChartData(_ context.Context, _ string, p types.ChartPeriod) ([]types.ChartPoint, error) {
	f.mu.Lock()
	f.lastPeriod = p
	f.mu.Unlock()
	if f.failChart != nil {
		return nil, f.failChart
	}
	return points(p.Days()), nil
}

func (f *fakeSource) ClearCache() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = true
}

func (f *fakeSource) wasCleared() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleared
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	if tc, ok := r.Content[0].(*mcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

func TestToolTrendsListInvalidCategory(t *testing.T) {
	result, _, err := trendsListHandler(context.Background(), nil, trendsListArgs{Category: "sports"}, newFakeSource())
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatalf("expected IsError result for invalid category")
	}
}

func TestToolTrendsListLimit(t *testing.T) {
	result, out, err := trendsListHandler(context.Background(), nil, trendsListArgs{Category: "food", Limit: 2}, newFakeSource())
	if err != nil || result != nil {
		t.Fatalf("unexpected failure: %v %v", err, resultText(result))
	}
	if out.Total != 2 || len(out.List.Trends) != 2 {
		t.Fatalf("expected 2 items, got %d", out.Total)
	}
	if out.List.Category != "Food" {
		t.Fatalf("unexpected category: %q", out.List.Category)
	}
	if out.List.Trends[0].Keyword != "두바이 초콜릿" {
		t.Fatalf("unexpected first keyword: %q", out.List.Trends[0].Keyword)
	}
}

func TestToolKeywordRequired(t *testing.T) {
	r1, _, _ := trendAnalyzeHandler(context.Background(), nil, trendAnalyzeArgs{Keyword: "  "}, newFakeSource())
	if r1 == nil || !r1.IsError {
		t.Fatalf("expected IsError for empty analyze keyword")
	}
	r2, _, _ := trendChartHandler(context.Background(), nil, trendChartArgs{Keyword: ""}, newFakeSource())
	if r2 == nil || !r2.IsError {
		t.Fatalf("expected IsError for empty chart keyword")
	}
}

func TestToolChartPeriod(t *testing.T) {
	src := newFakeSource()
	result, _, _ := trendChartHandler(context.Background(), nil, trendChartArgs{Keyword: "k", Period: "1wk"}, src)
	if result == nil || !result.IsError {
		t.Fatalf("expected IsError for invalid period")
	}

	result, out, err := trendChartHandler(context.Background(), nil, trendChartArgs{Keyword: "k", Period: "1yr", IncludePoints: true}, src)
	if err != nil || result != nil {
		t.Fatalf("unexpected failure: %v %v", err, resultText(result))
	}
	if src.lastPeriod != types.LongRange {
		t.Fatalf("expected 1yr request, got %s", src.lastPeriod)
	}
	if out.Item.Period != "1yr" || len(out.Item.Points) != 365 || out.Item.Summary.PeakRatio != 365 {
		t.Fatalf("unexpected chart: period=%s points=%d summary=%+v", out.Item.Period, len(out.Item.Points), out.Item.Summary)
	}
}

func TestToolAnalyzeOmitsPointsByDefault(t *testing.T) {
	_, out, err := trendAnalyzeHandler(context.Background(), nil, trendAnalyzeArgs{Keyword: "롱부츠"}, newFakeSource())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Item.Reason != "reason for 롱부츠" {
		t.Fatalf("unexpected reason: %q", out.Item.Reason)
	}
	if out.Item.Chart.Points != nil || out.Item.Chart.Summary.Points != 30 {
		t.Fatalf("unexpected chart: %+v", out.Item.Chart)
	}
}

func TestToolUpstreamFailuresIsError(t *testing.T) {
	f1 := newFakeSource()
	f1.failList = fmt.Errorf("%w: dial tcp: connection refused", client.ErrNetwork)
	r1, _, _ := trendsListHandler(context.Background(), nil, trendsListArgs{}, f1)
	if r1 == nil || !r1.IsError {
		t.Fatalf("list failure must return IsError")
	}
	if strings.Contains(resultText(r1), "connection refused") {
		t.Fatalf("upstream detail leaked: %q", resultText(r1))
	}

	f2 := newFakeSource()
	f2.failAnalyze = fmt.Errorf("%w: blank reason", client.ErrEmpty)
	r2, _, _ := trendAnalyzeHandler(context.Background(), nil, trendAnalyzeArgs{Keyword: "k"}, f2)
	if r2 == nil || !r2.IsError {
		t.Fatalf("analyze failure must return IsError")
	}
	if !strings.Contains(resultText(r2), "no data") {
		t.Fatalf("expected empty-result message, got %q", resultText(r2))
	}

	f3 := newFakeSource()
	f3.failChart = errors.New("boom")
	r3, _, _ := trendChartHandler(context.Background(), nil, trendChartArgs{Keyword: "k"}, f3)
	if r3 == nil || !r3.IsError {
		t.Fatalf("chart failure must return IsError")
	}
}

func TestToolCategoryListFilter(t *testing.T) {
	_, out, err := categoryListHandler(context.Background(), nil, categoryListArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Total != len(types.AllCategories) {
		t.Fatalf("unexpected total: got %d want %d", out.Total, len(types.AllCategories))
	}

	_, out, _ = categoryListHandler(context.Background(), nil, categoryListArgs{Query: "DIGI"})
	if out.Total != 1 || out.Items[0].ID != "Digital" {
		t.Fatalf("unexpected filter result: %+v", out.Items)
	}
}

func TestAdminCacheClearGating(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()

	srvWithout := startTestServer(src, Config{}, &ServerOptions{EnableAdmin: false})
	defer srvWithout.Close()
	sessionWithout := connectTestClient(t, ctx, srvWithout.URL+"/mcp")
	toolsWithout, err := sessionWithout.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools without admin: %v", err)
	}
	sessionWithout.Close()
	if containsTool(toolsWithout.Tools, "cache_clear") {
		t.Fatalf("cache_clear should be absent when admin disabled")
	}

	srvWith := startTestServer(src, Config{}, &ServerOptions{EnableAdmin: true})
	defer srvWith.Close()
	sessionWith := connectTestClient(t, ctx, srvWith.URL+"/mcp")
	toolsWith, err := sessionWith.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools with admin: %v", err)
	}
	sessionWith.Close()
	if !containsTool(toolsWith.Tools, "cache_clear") {
		t.Fatalf("cache_clear should be present when admin enabled")
	}
}

func TestAdminEnabledRequiresAPIKey(t *testing.T) {
	if (Config{EnableAdmin: true}).AdminEnabled() {
		t.Fatalf("admin must stay disabled without an API key")
	}
	if !(Config{EnableAdmin: true, APIKey: "secret"}).AdminEnabled() {
		t.Fatalf("admin should be enabled with an API key")
	}
}

func TestAdminCacheClearCallsSource(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	srv := startTestServer(src, Config{}, &ServerOptions{EnableAdmin: true})
	defer srv.Close()

	session := connectTestClient(t, ctx, srv.URL+"/mcp")
	defer session.Close()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "cache_clear", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("call cache_clear: %v", err)
	}
	if result.IsError {
		t.Fatalf("cache_clear returned tool error")
	}
	if !src.wasCleared() {
		t.Fatalf("expected source.ClearCache to be called")
	}
}

func TestCacheJanitor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := newFakeSource()

	StartCacheJanitor(ctx, src, 10*time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for !src.wasCleared() {
		if time.Now().After(deadline) {
			t.Fatalf("janitor never cleared the cache")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// no cache, no panic
	StartCacheJanitor(ctx, struct{}{}, 10*time.Millisecond)
}

func TestHealthz(t *testing.T) {
	srv := startTestServer(newFakeSource(), Config{APIKey: "secret"}, &ServerOptions{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected healthz response: %d %q", resp.StatusCode, body)
	}
}

func TestAuthMiddleware(t *testing.T) {
	srv := startTestServer(newFakeSource(), Config{APIKey: "secret", RPS: 100, Burst: 100}, &ServerOptions{})
	defer srv.Close()

	resp, err := postInitialize(srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("initialize request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAuthMiddlewareSuccess(t *testing.T) {
	srv := startTestServer(newFakeSource(), Config{APIKey: "secret", RPS: 100, Burst: 100}, &ServerOptions{})
	defer srv.Close()

	headers := map[string]string{"Authorization": "Bearer secret"}
	resp, err := postInitialize(srv.URL+"/mcp", headers)
	if err != nil {
		t.Fatalf("initialize request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAuthMiddlewareXAPIKeySuccess(t *testing.T) {
	srv := startTestServer(newFakeSource(), Config{APIKey: "secret", RPS: 100, Burst: 100}, &ServerOptions{})
	defer srv.Close()

	headers := map[string]string{"X-API-Key": "secret"}
	resp, err := postInitialize(srv.URL+"/mcp", headers)
	if err != nil {
		t.Fatalf("initialize request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAuthMiddlewareMalformedBearer(t *testing.T) {
	srv := startTestServer(newFakeSource(), Config{APIKey: "secret", RPS: 100, Burst: 100}, &ServerOptions{})
	defer srv.Close()

	headers := map[string]string{"Authorization": "Bearer"}
	resp, err := postInitialize(srv.URL+"/mcp", headers)
	if err != nil {
		t.Fatalf("initialize request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestOriginAllowlistMiddleware(t *testing.T) {
	srv := startTestServer(newFakeSource(), Config{RPS: 100, Burst: 100}, &ServerOptions{})
	defer srv.Close()

	headers := map[string]string{"Origin": "https://evil.example"}
	resp, err := postInitialize(srv.URL+"/mcp", headers)
	if err != nil {
		t.Fatalf("initialize request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestOriginAllowlistMiddlewareAllowed(t *testing.T) {
	srv := startTestServer(newFakeSource(), Config{AllowedOrigins: []string{"https://app.example"}, RPS: 100, Burst: 100}, &ServerOptions{})
	defer srv.Close()

	headers := map[string]string{"Origin": "https://app.example"}
	resp, err := postInitialize(srv.URL+"/mcp", headers)
	if err != nil {
		t.Fatalf("initialize request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestOriginAllowlistPreflight(t *testing.T) {
	srv := startTestServer(newFakeSource(), Config{AllowedOrigins: []string{"https://app.example"}, RPS: 100, Burst: 100}, &ServerOptions{})
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	srv := startTestServer(newFakeSource(), Config{RPS: 1, Burst: 1}, &ServerOptions{})
	defer srv.Close()

	resp1, err := postInitialize(srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	defer resp1.Body.Close()
	if resp1.StatusCode != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp1.StatusCode)
	}

	resp2, err := postInitialize(srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected second request 429, got %d", resp2.StatusCode)
	}
}

func TestRateLimitRefill(t *testing.T) {
	srv := startTestServer(newFakeSource(), Config{RPS: 20, Burst: 1}, &ServerOptions{})
	defer srv.Close()

	resp1, err := postInitialize(srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	resp1.Body.Close()

	resp2, err := postInitialize(srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected second request 429, got %d", resp2.StatusCode)
	}

	time.Sleep(60 * time.Millisecond)
	resp3, err := postInitialize(srv.URL+"/mcp", nil)
	if err != nil {
		t.Fatalf("third request failed: %v", err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusOK {
		t.Fatalf("expected third request 200 after refill, got %d", resp3.StatusCode)
	}
}

func TestStatelessGetMethod(t *testing.T) {
	handler := NewHandler(NewServer(newFakeSource(), "dev", &ServerOptions{}), StreamableOptions(Config{Stateless: true}))
	srv := httptest.NewServer(handler)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestMCPListTools(t *testing.T) {
	ctx := context.Background()
	srv := startTestServer(newFakeSource(), Config{}, &ServerOptions{})
	defer srv.Close()

	session := connectTestClient(t, ctx, srv.URL+"/mcp")
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	for _, name := range []string{"trends_list", "trend_analyze", "trend_chart", "category_list"} {
		if !containsTool(tools.Tools, name) {
			t.Fatalf("missing tool %q", name)
		}
	}
}

func TestMCPCoreTools(t *testing.T) {
	ctx := context.Background()
	srv := startTestServer(newFakeSource(), Config{}, &ServerOptions{})
	defer srv.Close()

	session := connectTestClient(t, ctx, srv.URL+"/mcp")
	defer session.Close()

	cases := []mcp.CallToolParams{
		{Name: "trends_list", Arguments: map[string]any{"category": "Fashion"}},
		{Name: "trend_analyze", Arguments: map[string]any{"keyword": "두바이 초콜릿"}},
		{Name: "trend_chart", Arguments: map[string]any{"keyword": "두바이 초콜릿", "period": "1yr"}},
		{Name: "category_list", Arguments: map[string]any{}},
	}

	for _, tc := range cases {
		result, err := session.CallTool(ctx, &tc)
		if err != nil {
			t.Fatalf("call tool %s failed: %v", tc.Name, err)
		}
		if result.IsError {
			t.Fatalf("tool %s returned IsError=true", tc.Name)
		}
	}
}

func startTestServer(source types.TrendSource, cfg Config, opts *ServerOptions) *httptest.Server {
	if cfg.RPS <= 0 {
		cfg.RPS = 100
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 100
	}
	return httptest.NewServer(NewMux(NewServer(source, "test", opts), cfg))
}

func connectTestClient(t *testing.T, ctx context.Context, endpoint string) *mcp.ClientSession {
	t.Helper()
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: endpoint}, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	return session
}

func containsTool(tools []*mcp.Tool, name string) bool {
	for _, tool := range tools {
		if tool != nil && tool.Name == name {
			return true
		}
	}
	return false
}

func postInitialize(url string, headers map[string]string) (*http.Response, error) {
	payload := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params": map[string]any{
			"protocolVersion": "2025-06-18",
			"capabilities":    map[string]any{},
			"clientInfo": map[string]any{
				"name":    "test",
				"version": "1",
			},
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(string(b)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return http.DefaultClient.Do(req)
}
