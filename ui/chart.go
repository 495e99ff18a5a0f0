package ui

import (
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart"
	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/qyinm/ktrend/types"
)

const (
	minChartWidth  = 20
	minChartHeight = 6
)

// axisLayout is the X-axis date format: day granularity for the month view,
// month granularity for the year view.
func axisLayout(p types.ChartPeriod) string {
	if p == types.LongRange {
		return "06.01"
	}
	return "01.02"
}

func dateLabelFormatter(p types.ChartPeriod) linechart.LabelFormatter {
	layout := axisLayout(p)
	return func(_ int, v float64) string {
		return time.Unix(int64(v), 0).UTC().Format(layout)
	}
}

func ratioLabelFormatter() linechart.LabelFormatter {
	return func(_ int, v float64) string {
		return fmt.Sprintf("%.0f", v)
	}
}

// renderChart draws the relative search volume series as a braille line chart.
func renderChart(points []types.ChartPoint, period types.ChartPeriod, width, height int) string {
	if len(points) == 0 {
		return PlaceholderStyle.Render("차트 데이터가 없습니다")
	}
	width = max(width, minChartWidth)
	height = max(height, minChartHeight)

	start := points[0].Date
	end := points[len(points)-1].Date
	if !end.After(start) {
		end = start.Add(24 * time.Hour)
	}
	peak, _, _ := types.SeriesSummary(points)
	yMax := peak.Ratio
	if yMax <= 0 {
		yMax = 1
	}

	chart := tslc.New(width, height)
	chart.SetStyle(ChartLineStyle)
	chart.AxisStyle = ChartAxisStyle
	chart.LabelStyle = ChartLabelStyle
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	chart.SetYRange(0, yMax)
	chart.SetViewYRange(0, yMax)
	chart.Model.XLabelFormatter = dateLabelFormatter(period)
	chart.Model.YLabelFormatter = ratioLabelFormatter()

	for _, p := range points {
		chart.Push(tslc.TimePoint{Time: p.Date, Value: p.Ratio})
	}
	chart.DrawBraille()
	return chart.View()
}

// chartSummary is the one-line peak / latest caption under the chart.
func chartSummary(points []types.ChartPoint, period types.ChartPeriod) string {
	peak, latest, ok := types.SeriesSummary(points)
	if !ok {
		return ""
	}
	layout := axisLayout(period)
	return fmt.Sprintf("최고 %.0f (%s) · 최근 %.0f (%s)",
		peak.Ratio, peak.Date.Format(layout),
		latest.Ratio, latest.Date.Format(layout))
}
