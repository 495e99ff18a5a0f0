package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/qyinm/ktrend/logging"
	"github.com/qyinm/ktrend/types"
)

// ListStatus is the visible state of the trend list.
type ListStatus int

const (
	ListIdle ListStatus = iota
	ListLoading
	ListReady
	ListEmpty
	ListFailed
)

func (s ListStatus) String() string {
	switch s {
	case ListIdle:
		return "idle"
	case ListLoading:
		return "loading"
	case ListReady:
		return "ready"
	case ListEmpty:
		return "empty"
	case ListFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithStrict makes SelectTrend panic on an item outside the current list
// instead of returning ErrInvalidSelection.
func WithStrict(strict bool) Option {
	return func(c *Controller) { c.strict = strict }
}

// WithContext sets the parent context of every task.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) { c.parent = ctx }
}

// Controller owns the dashboard state: category, list, selection, detail
// pipeline and view mode. It is not safe for concurrent use; all methods
// must run on one goroutine (the bubbletea update loop).
type Controller struct {
	source types.TrendSource
	seq    *Sequencer
	strict bool
	log    *log.Logger

	parent  context.Context
	base    context.Context
	stop    context.CancelFunc
	cancels map[Kind]context.CancelFunc

	category    types.Category
	trends      []types.TrendItem
	lastUpdated time.Time
	listStatus  ListStatus
	listErr     error
	selected    *types.TrendItem
	pipeline    Pipeline
	view        ViewMode

	// Slots currently expected to settle. A latest token whose key is no
	// longer active belongs to a previous selection or category.
	activeList   TargetKey
	activeDetail TargetKey
	activeChart  TargetKey
}

// New creates a Controller over source with the given initial category.
// Nothing is fetched until SetCategory is called.
func New(source types.TrendSource, category types.Category, opts ...Option) *Controller {
	if !category.Valid() {
		category = types.CategoryAll
	}
	c := &Controller{
		source:   source,
		seq:      NewSequencer(),
		log:      logging.WithPrefix("dashboard"),
		parent:   context.Background(),
		cancels:  make(map[Kind]context.CancelFunc),
		category: category,
		pipeline: Pipeline{period: types.ShortRange},
		view:     ListView,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.base, c.stop = context.WithCancel(c.parent)
	return c
}

// Close cancels every in-flight task.
func (c *Controller) Close() {
	c.stop()
}

// Category returns the active category.
func (c *Controller) Category() types.Category { return c.category }

// Trends returns the current list in rank order.
func (c *Controller) Trends() []types.TrendItem { return c.trends }

// LastUpdated returns when the current list was produced.
func (c *Controller) LastUpdated() time.Time { return c.lastUpdated }

// ListStatus returns the visible list state.
func (c *Controller) ListStatus() ListStatus { return c.listStatus }

// ListErr returns the failure behind ListFailed.
func (c *Controller) ListErr() error { return c.listErr }

// Selected returns the selected trend, if any.
func (c *Controller) Selected() (types.TrendItem, bool) {
	if c.selected == nil {
		return types.TrendItem{}, false
	}
	return *c.selected, true
}

// Pipeline returns a copy of the detail pipeline.
func (c *Controller) Pipeline() Pipeline { return c.pipeline }

// ViewMode returns the narrow-terminal pane.
func (c *Controller) ViewMode() ViewMode { return c.view }

// SetCategory switches the category and fetches its list. The list and
// selection are cleared until the fetch settles; calling it with the
// active category fetches again.
func (c *Controller) SetCategory(cat types.Category) ([]Task, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, cat)
	}

	c.category = cat
	c.trends = nil
	c.selected = nil
	c.listErr = nil
	c.listStatus = ListLoading
	c.view = c.view.next(evCategory)
	c.resetPipeline()

	key := ListKey(cat)
	tok := c.seq.Issue(key)
	c.activeList = key
	c.log.Debug("issue", "key", key, "seq", tok.Seq)
	return []Task{listTask(c.taskContext(KindList), c.source, tok, cat)}, nil
}

// SelectTrend selects item and starts its detail pipeline. Selecting the
// current selection again only switches to the detail view.
func (c *Controller) SelectTrend(item types.TrendItem) ([]Task, error) {
	idx := c.indexOf(item.Keyword())
	if idx < 0 {
		err := fmt.Errorf("%w: %q is not in the %s list", ErrInvalidSelection, item.Keyword(), c.category)
		if c.strict {
			panic(err)
		}
		c.log.Warn("select rejected", "err", err)
		return nil, err
	}

	c.view = c.view.next(evSelect)
	if c.selected != nil && c.selected.Keyword() == item.Keyword() {
		return nil, nil
	}

	selected := c.trends[idx]
	c.selected = &selected
	return c.startPipeline(), nil
}

// SetChartPeriod switches the chart granularity of the current selection.
func (c *Controller) SetChartPeriod(p types.ChartPeriod) []Task {
	if c.selected == nil || p == c.pipeline.period {
		return nil
	}
	return c.issueChart(p)
}

func (c *Controller) issueChart(p types.ChartPeriod) []Task {
	c.pipeline.beginChart(p)
	keyword := c.selected.Keyword()
	key := ChartKey(keyword, p)
	tok := c.seq.Issue(key)
	c.activeChart = key
	c.log.Debug("issue", "key", key, "seq", tok.Seq)
	return []Task{chartTask(c.taskContext(KindChart), c.source, tok, keyword, p)}
}

// Back returns a narrow terminal to the list pane.
func (c *Controller) Back() {
	c.view = c.view.next(evBack)
}

// Refresh forces the current stage to be fetched again: the list when
// nothing is selected, the period chart when the analysis is loaded on the
// long range, otherwise the whole detail pipeline.
func (c *Controller) Refresh() []Task {
	if c.selected == nil {
		tasks, _ := c.SetCategory(c.category)
		return tasks
	}
	if _, ok := c.pipeline.Reason(); ok && c.pipeline.analysisErr == nil && c.pipeline.period != types.ShortRange {
		return c.issueChart(c.pipeline.period)
	}
	return c.startPipeline()
}

// Settle applies a task result if it is still current and reports whether
// it was applied or dropped as stale. Follow-up tasks (the detail fetch for
// the first item of a fresh list) are returned for the caller to run.
func (c *Controller) Settle(r Result) (Outcome, []Task) {
	if !c.seq.IsLatest(r.Token) || r.Token.Key != c.activeKey(r.Kind) {
		c.log.Debug("stale response dropped", "key", r.Token.Key, "seq", r.Token.Seq, "latest", c.seq.Latest(r.Token.Key).Seq)
		return Stale, nil
	}
	c.release(r.Kind)

	var fetchErr error
	if r.Err != nil {
		fetchErr = &FetchFailedError{Key: r.Token.Key, Err: r.Err}
		c.log.Warn("fetch failed", "key", r.Token.Key, "err", r.Err)
	}

	switch r.Kind {
	case KindList:
		c.activeList = ""
		return Applied, c.applyList(r.List, fetchErr)
	case KindDetail:
		c.activeDetail = ""
		if fetchErr != nil {
			c.pipeline.analysisFailed(fetchErr)
		} else {
			c.pipeline.analysisLoaded(r.Analysis)
		}
	case KindChart:
		c.activeChart = ""
		if fetchErr != nil {
			c.pipeline.chartFailed(fetchErr)
		} else {
			c.pipeline.chartLoaded(r.Chart)
		}
	}
	c.log.Debug("settled", "key", r.Token.Key, "pipeline", c.pipeline.State())
	return Applied, nil
}

func (c *Controller) applyList(list types.TrendList, err error) []Task {
	if err != nil {
		c.trends = nil
		c.selected = nil
		c.listStatus = ListFailed
		c.listErr = err
		c.resetPipeline()
		return nil
	}

	c.trends = list.Trends
	c.lastUpdated = list.LastUpdated
	if len(c.trends) == 0 {
		c.listStatus = ListEmpty
		c.selected = nil
		c.resetPipeline()
		return nil
	}

	c.listStatus = ListReady
	first := c.trends[0]
	c.selected = &first
	return c.startPipeline()
}

func (c *Controller) startPipeline() []Task {
	c.invalidate(KindChart)
	c.pipeline.beginAnalysis()

	keyword := c.selected.Keyword()
	key := DetailKey(keyword)
	tok := c.seq.Issue(key)
	c.activeDetail = key
	c.log.Debug("issue", "key", key, "seq", tok.Seq)
	return []Task{detailTask(c.taskContext(KindDetail), c.source, tok, keyword)}
}

func (c *Controller) resetPipeline() {
	c.invalidate(KindDetail)
	c.invalidate(KindChart)
	c.pipeline.reset()
}

// invalidate abandons the in-flight request of a slot.
func (c *Controller) invalidate(k Kind) {
	key := c.activeKey(k)
	if key != "" {
		c.seq.Invalidate(key)
	}
	c.release(k)
	switch k {
	case KindDetail:
		c.activeDetail = ""
	case KindChart:
		c.activeChart = ""
	case KindList:
		c.activeList = ""
	}
}

func (c *Controller) activeKey(k Kind) TargetKey {
	switch k {
	case KindList:
		return c.activeList
	case KindDetail:
		return c.activeDetail
	case KindChart:
		return c.activeChart
	default:
		return ""
	}
}

// taskContext cancels the previous request of the slot and derives a new
// context for the next one.
func (c *Controller) taskContext(k Kind) context.Context {
	c.release(k)
	ctx, cancel := context.WithCancel(c.base)
	c.cancels[k] = cancel
	return ctx
}

func (c *Controller) release(k Kind) {
	if cancel, ok := c.cancels[k]; ok {
		cancel()
		delete(c.cancels, k)
	}
}

func (c *Controller) indexOf(keyword string) int {
	for i, t := range c.trends {
		if t.Keyword() == keyword {
			return i
		}
	}
	return -1
}
