package dto

import (
	"time"

	"github.com/qyinm/ktrend/types"
)

// Direction thresholds compare the latest ratio against the series mean.
const (
	risingFactor  = 1.2
	fallingFactor = 0.8
)

func FromTrend(t types.TrendItem) Trend {
	reason, _ := t.Reason()
	return Trend{
		Rank:     t.Rank(),
		Keyword:  t.Keyword(),
		Source:   t.SourceLabel(),
		Category: t.Category(),
		Reason:   reason,
	}
}

func FromTrendList(list types.TrendList) TrendList {
	out := TrendList{
		Category: list.Category.String(),
		Trends:   make([]Trend, 0, len(list.Trends)),
	}
	if !list.LastUpdated.IsZero() {
		out.LastUpdated = list.LastUpdated.Format(time.RFC3339)
	}
	for _, t := range list.Trends {
		out.Trends = append(out.Trends, FromTrend(t))
	}
	return out
}

func FromCategories(categories []types.Category) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, Category{ID: c.String(), Label: c.Label()})
	}
	return out
}

// FromChart converts a series. Points are omitted unless withPoints is set;
// the summary is always filled.
func FromChart(keyword string, period types.ChartPeriod, points []types.ChartPoint, withPoints bool) Chart {
	c := Chart{
		Keyword: keyword,
		Period:  period.String(),
		Summary: summarize(points),
	}
	if withPoints {
		c.Points = make([]ChartPoint, 0, len(points))
		for _, p := range points {
			c.Points = append(c.Points, ChartPoint{Date: p.Date.Format(time.DateOnly), Ratio: p.Ratio})
		}
	}
	return c
}

func FromAnalysis(a types.Analysis, withPoints bool) Analysis {
	return Analysis{
		Keyword: a.Keyword,
		Reason:  a.Reason,
		Chart:   FromChart(a.Keyword, types.ShortRange, a.Chart, withPoints),
	}
}

func summarize(points []types.ChartPoint) ChartSummary {
	peak, latest, ok := types.SeriesSummary(points)
	if !ok {
		return ChartSummary{Direction: "unknown"}
	}

	var sum float64
	for _, p := range points {
		sum += p.Ratio
	}
	mean := sum / float64(len(points))

	direction := "steady"
	switch {
	case mean == 0:
	case latest.Ratio >= mean*risingFactor:
		direction = "rising"
	case latest.Ratio <= mean*fallingFactor:
		direction = "falling"
	}

	return ChartSummary{
		Points:      len(points),
		PeakDate:    peak.Date.Format(time.DateOnly),
		PeakRatio:   peak.Ratio,
		LatestDate:  latest.Date.Format(time.DateOnly),
		LatestRatio: latest.Ratio,
		Direction:   direction,
	}
}
