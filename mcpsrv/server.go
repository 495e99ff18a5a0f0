package mcpsrv

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/qyinm/ktrend/client"
	"github.com/qyinm/ktrend/logging"
	"github.com/qyinm/ktrend/mcpsrv/dto"
	"github.com/qyinm/ktrend/types"
)

type trendsListArgs struct {
	Category string `json:"category,omitempty" jsonschema:"Category id: all, Fashion, Digital, Food, Living (default all)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Optional maximum number of items"`
}

type trendAnalyzeArgs struct {
	Keyword       string `json:"keyword" jsonschema:"Trend keyword"`
	IncludePoints bool   `json:"include_points,omitempty" jsonschema:"Include the daily 1mo series"`
}

type trendChartArgs struct {
	Keyword       string `json:"keyword" jsonschema:"Trend keyword"`
	Period        string `json:"period,omitempty" jsonschema:"Chart period: 1mo or 1yr (default 1mo)"`
	IncludePoints bool   `json:"include_points,omitempty" jsonschema:"Include the raw series"`
}

type categoryListArgs struct {
	Query string `json:"query,omitempty" jsonschema:"Optional filter on category id or label"`
}

type trendsListOutput struct {
	Total int           `json:"total"`
	List  dto.TrendList `json:"list"`
}

type trendAnalyzeOutput struct {
	Item dto.Analysis `json:"item"`
}

type trendChartOutput struct {
	Item dto.Chart `json:"item"`
}

type categoryListOutput struct {
	Query string         `json:"query"`
	Total int            `json:"total"`
	Items []dto.Category `json:"items"`
}

type cacheClearOutput struct {
	Status string `json:"status"`
}

type ServerOptions struct {
	EnableAdmin bool
}

type cacheClearSource interface {
	ClearCache()
}

func NewServer(source types.TrendSource, version string, opts *ServerOptions) *mcp.Server {
	if strings.TrimSpace(version) == "" {
		version = "dev"
	}
	if opts == nil {
		opts = &ServerOptions{}
	}

	server := mcp.NewServer(&mcp.Implementation{Name: "ktrend", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "trends_list",
		Description: "Get the ranked real-time trend keywords for a category.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args trendsListArgs) (*mcp.CallToolResult, trendsListOutput, error) {
		return trendsListHandler(ctx, req, args, source)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "trend_analyze",
		Description: "Explain why a keyword is trending, with a 1 month search volume summary.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args trendAnalyzeArgs) (*mcp.CallToolResult, trendAnalyzeOutput, error) {
		return trendAnalyzeHandler(ctx, req, args, source)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "trend_chart",
		Description: "Get relative search volume for a keyword over 1mo or 1yr.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args trendChartArgs) (*mcp.CallToolResult, trendChartOutput, error) {
		return trendChartHandler(ctx, req, args, source)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "category_list",
		Description: "List trend categories.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args categoryListArgs) (*mcp.CallToolResult, categoryListOutput, error) {
		return categoryListHandler(ctx, req, args)
	})

	if opts.EnableAdmin {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "cache_clear",
			Description: "Clear the backend response cache (admin).",
		}, func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, cacheClearOutput, error) {
			return cacheClearHandler(ctx, req, source)
		})
	}

	return server
}

func trendsListHandler(ctx context.Context, _ *mcp.CallToolRequest, args trendsListArgs, source types.TrendSource) (*mcp.CallToolResult, trendsListOutput, error) {
	category, err := types.ParseCategory(args.Category)
	if err != nil {
		return errorToolResult(err.Error()), trendsListOutput{}, nil
	}

	list, err := source.GetTrends(ctx, category)
	if err != nil {
		return errorToolResult(fetchFailedMessage("fetch trends", err)), trendsListOutput{}, nil
	}
	list.Trends = applyLimit(list.Trends, args.Limit)

	return nil, trendsListOutput{
		Total: len(list.Trends),
		List:  dto.FromTrendList(list),
	}, nil
}

func trendAnalyzeHandler(ctx context.Context, _ *mcp.CallToolRequest, args trendAnalyzeArgs, source types.TrendSource) (*mcp.CallToolResult, trendAnalyzeOutput, error) {
	keyword := strings.TrimSpace(args.Keyword)
	if keyword == "" {
		return errorToolResult("keyword is required"), trendAnalyzeOutput{}, nil
	}

	analysis, err := source.Analyze(ctx, keyword)
	if err != nil {
		return errorToolResult(fetchFailedMessage("analyze trend", err)), trendAnalyzeOutput{}, nil
	}

	return nil, trendAnalyzeOutput{Item: dto.FromAnalysis(analysis, args.IncludePoints)}, nil
}

func trendChartHandler(ctx context.Context, _ *mcp.CallToolRequest, args trendChartArgs, source types.TrendSource) (*mcp.CallToolResult, trendChartOutput, error) {
	keyword := strings.TrimSpace(args.Keyword)
	if keyword == "" {
		return errorToolResult("keyword is required"), trendChartOutput{}, nil
	}
	period, err := types.ParsePeriod(args.Period)
	if err != nil {
		return errorToolResult(err.Error()), trendChartOutput{}, nil
	}

	points, err := source.GetChartData(ctx, keyword, period)
	if err != nil {
		return errorToolResult(fetchFailedMessage("fetch chart", err)), trendChartOutput{}, nil
	}

	return nil, trendChartOutput{Item: dto.FromChart(keyword, period, points, args.IncludePoints)}, nil
}

func categoryListHandler(_ context.Context, _ *mcp.CallToolRequest, args categoryListArgs) (*mcp.CallToolResult, categoryListOutput, error) {
	query := strings.TrimSpace(strings.ToLower(args.Query))
	filtered := make([]types.Category, 0, len(types.AllCategories))
	for _, c := range types.AllCategories {
		if query == "" ||
			strings.Contains(strings.ToLower(c.String()), query) ||
			strings.Contains(strings.ToLower(c.Label()), query) {
			filtered = append(filtered, c)
		}
	}

	return nil, categoryListOutput{
		Query: args.Query,
		Total: len(filtered),
		Items: dto.FromCategories(filtered),
	}, nil
}

func cacheClearHandler(_ context.Context, _ *mcp.CallToolRequest, source types.TrendSource) (*mcp.CallToolResult, cacheClearOutput, error) {
	clearable, ok := source.(cacheClearSource)
	if !ok {
		return errorToolResult("cache clear is not supported by this source"), cacheClearOutput{}, nil
	}
	clearable.ClearCache()
	logging.Info("cache cleared", "via", "mcp")
	return nil, cacheClearOutput{Status: "ok"}, nil
}

// fetchFailedMessage keeps upstream details out of tool results; only the
// failure class is reported.
func fetchFailedMessage(action string, err error) string {
	logging.Warn(action+" failed", "err", err)
	switch {
	case errors.Is(err, client.ErrEmpty):
		return action + " failed: no data for this keyword"
	case errors.Is(err, client.ErrMalformed):
		return action + " failed: backend returned an unexpected payload"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return action + " failed: request cancelled or timed out; retryable=true"
	default:
		return action + " failed; retryable=true"
	}
}

func errorToolResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

func applyLimit(items []types.TrendItem, limit int) []types.TrendItem {
	if limit <= 0 || limit >= len(items) {
		return items
	}
	return items[:limit]
}
