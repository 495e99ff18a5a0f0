package dashboard

import "github.com/qyinm/ktrend/types"

// PipelineState is the detail pane's loading state for the current selection.
type PipelineState int

const (
	Idle PipelineState = iota
	LoadingAnalysis
	AnalysisReady
	LoadingChart
	Error
)

func (s PipelineState) String() string {
	switch s {
	case Idle:
		return "idle"
	case LoadingAnalysis:
		return "loading-analysis"
	case AnalysisReady:
		return "analysis-ready"
	case LoadingChart:
		return "loading-chart"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Pipeline holds the two-stage fetch state of one selection: the analysis
// (reason plus short-range chart) and the period-specific chart. The public
// state is derived from the pending flags and errors so that a chart request
// issued while the analysis is still in flight cannot be lost.
type Pipeline struct {
	active          bool
	period          types.ChartPeriod
	reason          *string
	chart           []types.ChartPoint
	analysisPending bool
	chartPending    bool
	analysisErr     error
	chartErr        error
}

// State returns the pipeline state.
func (p Pipeline) State() PipelineState {
	switch {
	case !p.active:
		return Idle
	case p.analysisPending:
		return LoadingAnalysis
	case p.analysisErr != nil || p.chartErr != nil:
		return Error
	case p.chartPending:
		return LoadingChart
	case p.reason != nil:
		return AnalysisReady
	default:
		return Idle
	}
}

// Period returns the active chart period.
func (p Pipeline) Period() types.ChartPeriod { return p.period }

// Reason returns the analysed reason, if it has loaded.
func (p Pipeline) Reason() (string, bool) {
	if p.reason == nil {
		return "", false
	}
	return *p.reason, true
}

// Chart returns the chart series currently shown.
func (p Pipeline) Chart() []types.ChartPoint { return p.chart }

// Err returns the failure behind the Error state, analysis first.
func (p Pipeline) Err() error {
	if p.analysisErr != nil {
		return p.analysisErr
	}
	return p.chartErr
}

// AnalysisLoading reports whether the reason area should show a spinner.
func (p Pipeline) AnalysisLoading() bool { return p.analysisPending }

// ChartLoading reports whether the chart area should show a loading overlay.
func (p Pipeline) ChartLoading() bool {
	return p.chartPending || (p.analysisPending && len(p.chart) == 0)
}

func (p *Pipeline) reset() {
	*p = Pipeline{period: types.ShortRange}
}

func (p *Pipeline) beginAnalysis() {
	p.reset()
	p.active = true
	p.analysisPending = true
}

func (p *Pipeline) analysisLoaded(a types.Analysis) {
	reason := a.Reason
	p.reason = &reason
	p.analysisPending = false
	p.analysisErr = nil
	// The analysis carries the short-range series. A chart request issued
	// meanwhile owns the chart area.
	if !p.chartPending && p.chartErr == nil && p.period == types.ShortRange {
		p.chart = a.Chart
	}
}

func (p *Pipeline) analysisFailed(err error) {
	p.analysisPending = false
	p.analysisErr = err
}

func (p *Pipeline) beginChart(period types.ChartPeriod) {
	p.period = period
	p.chartPending = true
	p.chartErr = nil
}

func (p *Pipeline) chartLoaded(points []types.ChartPoint) {
	p.chartPending = false
	p.chartErr = nil
	p.chart = points
}

func (p *Pipeline) chartFailed(err error) {
	p.chartPending = false
	p.chartErr = err
}
