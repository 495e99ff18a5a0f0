package dashboard

import (
	"context"

	"github.com/qyinm/ktrend/types"
)

// Kind is the pipeline slot a task feeds.
type Kind int

const (
	KindList Kind = iota
	KindDetail
	KindChart
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindDetail:
		return "detail"
	case KindChart:
		return "chart"
	default:
		return "unknown"
	}
}

// Task is one network call the controller wants made. Run blocks and may
// be called from any goroutine; its Result must be handed back to
// Controller.Settle on the controller's goroutine.
type Task struct {
	Token Token
	Kind  Kind
	ctx   context.Context
	run   func(ctx context.Context) Result
}

// Run performs the call.
func (t Task) Run() Result {
	ctx := t.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	r := t.run(ctx)
	r.Token = t.Token
	r.Kind = t.Kind
	return r
}

// Result is the typed outcome of a Task.
type Result struct {
	Token    Token
	Kind     Kind
	List     types.TrendList
	Analysis types.Analysis
	Chart    []types.ChartPoint
	Err      error
}

// Outcome tells the caller what Settle did with a Result.
type Outcome int

const (
	Applied Outcome = iota
	Stale
)

func (o Outcome) String() string {
	if o == Stale {
		return "stale"
	}
	return "applied"
}

func listTask(ctx context.Context, src types.TrendSource, tok Token, c types.Category) Task {
	return Task{Token: tok, Kind: KindList, ctx: ctx, run: func(ctx context.Context) Result {
		list, err := src.GetTrends(ctx, c)
		return Result{List: list, Err: err}
	}}
}

func detailTask(ctx context.Context, src types.TrendSource, tok Token, keyword string) Task {
	return Task{Token: tok, Kind: KindDetail, ctx: ctx, run: func(ctx context.Context) Result {
		a, err := src.Analyze(ctx, keyword)
		return Result{Analysis: a, Err: err}
	}}
}

func chartTask(ctx context.Context, src types.TrendSource, tok Token, keyword string, p types.ChartPeriod) Task {
	return Task{Token: tok, Kind: KindChart, ctx: ctx, run: func(ctx context.Context) Result {
		points, err := src.GetChartData(ctx, keyword, p)
		return Result{Chart: points, Err: err}
	}}
}
