package types

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
)

// Category is the trend list filter
type Category string

const (
	CategoryAll     Category = "all"
	CategoryFashion Category = "Fashion"
	CategoryDigital Category = "Digital"
	CategoryFood    Category = "Food"
	CategoryLiving  Category = "Living"
)

// AllCategories lists every category in tab order
var AllCategories = []Category{
	CategoryAll,
	CategoryFashion,
	CategoryDigital,
	CategoryFood,
	CategoryLiving,
}

// String returns the category id sent to the backend
func (c Category) String() string { return string(c) }

// Label returns the display label of the category
func (c Category) Label() string {
	switch c {
	case CategoryAll:
		return "전체"
	case CategoryFashion:
		return "패션"
	case CategoryDigital:
		return "디지털"
	case CategoryFood:
		return "식품"
	case CategoryLiving:
		return "리빙"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of AllCategories
func (c Category) Valid() bool {
	for _, v := range AllCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ParseCategory matches raw against the category ids, case-insensitively
func ParseCategory(raw string) (Category, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return CategoryAll, nil
	}
	for _, c := range AllCategories {
		if strings.EqualFold(v, string(c)) {
			return c, nil
		}
	}
	return CategoryAll, fmt.Errorf("invalid category %q; expected all|Fashion|Digital|Food|Living", raw)
}

// ChartPeriod is the granularity of the search-volume chart
type ChartPeriod int

const (
	ShortRange ChartPeriod = iota
	LongRange
)

// String returns the period id used by the backend
func (p ChartPeriod) String() string {
	switch p {
	case ShortRange:
		return "1mo"
	case LongRange:
		return "1yr"
	default:
		return "unknown"
	}
}

// Label returns the display label of the period
func (p ChartPeriod) Label() string {
	switch p {
	case ShortRange:
		return "1개월"
	case LongRange:
		return "1년"
	default:
		return "?"
	}
}

// Days returns the number of days covered by the period
func (p ChartPeriod) Days() int {
	if p == LongRange {
		return 365
	}
	return 30
}

// ParsePeriod accepts "1mo" or "1yr"
func ParsePeriod(raw string) (ChartPeriod, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "", "1mo":
		return ShortRange, nil
	case "1yr":
		return LongRange, nil
	default:
		return ShortRange, fmt.Errorf("invalid period %q; expected 1mo|1yr", raw)
	}
}

// Source is where a trend keyword was collected from
type Source int

const (
	SourceOther Source = iota
	SourceNaverShopping
	SourceYouTube
)

// ParseSource maps the backend's source label to a Source
func ParseSource(label string) Source {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "naver shopping", "navershopping", "naver":
		return SourceNaverShopping
	case "youtube":
		return SourceYouTube
	default:
		return SourceOther
	}
}

// String returns the canonical label of the source
func (s Source) String() string {
	switch s {
	case SourceNaverShopping:
		return "Naver Shopping"
	case SourceYouTube:
		return "YouTube"
	default:
		return "Other"
	}
}

// TrendItem is one ranked entry of a trend list
type TrendItem struct {
	rank        int
	keyword     string
	source      Source
	sourceLabel string
	reason      *string
	category    string
}

// NewTrendItem creates a TrendItem. A nil reason means none was provided.
func NewTrendItem(rank int, keyword string, source Source, sourceLabel string, reason *string, category string) TrendItem {
	if sourceLabel == "" {
		sourceLabel = source.String()
	}
	var r *string
	if reason != nil {
		v := *reason
		r = &v
	}
	return TrendItem{
		rank:        rank,
		keyword:     keyword,
		source:      source,
		sourceLabel: sourceLabel,
		reason:      r,
		category:    category,
	}
}

// Getters for TrendItem fields
func (t TrendItem) Rank() int           { return t.rank }
func (t TrendItem) Keyword() string     { return t.keyword }
func (t TrendItem) Source() Source      { return t.source }
func (t TrendItem) SourceLabel() string { return t.sourceLabel }
func (t TrendItem) Category() string    { return t.category }

// Reason returns the list-level reason and whether one was provided
func (t TrendItem) Reason() (string, bool) {
	if t.reason == nil {
		return "", false
	}
	return *t.reason, true
}

// list.Item interface implementation
func (t TrendItem) Title() string { return t.keyword }
func (t TrendItem) Description() string {
	r, _ := t.Reason()
	return r
}
func (t TrendItem) FilterValue() string { return t.keyword }

// Compile-time check that TrendItem implements list.Item
var _ list.Item = TrendItem{}

// TrendList is the result of a list fetch
type TrendList struct {
	Category    Category
	Trends      []TrendItem
	LastUpdated time.Time
}

// ChartPoint is one day of relative search volume
type ChartPoint struct {
	Date  time.Time
	Ratio float64
}

// Analysis is the reason text and short-range chart for a keyword
type Analysis struct {
	Keyword string
	Reason  string
	Chart   []ChartPoint
}

// TrendSource is the remote data source consumed by the dashboard.
// Implementations must be safe for concurrent use.
type TrendSource interface {
	GetTrends(ctx context.Context, category Category) (TrendList, error)
	Analyze(ctx context.Context, keyword string) (Analysis, error)
	GetChartData(ctx context.Context, keyword string, period ChartPeriod) ([]ChartPoint, error)
}

// SeriesSummary returns the highest point and the most recent point of a
// chart series. ok is false for an empty series.
func SeriesSummary(points []ChartPoint) (peak, latest ChartPoint, ok bool) {
	if len(points) == 0 {
		return ChartPoint{}, ChartPoint{}, false
	}
	peak, latest = points[0], points[0]
	for _, p := range points[1:] {
		if p.Ratio > peak.Ratio {
			peak = p
		}
		if !p.Date.Before(latest.Date) {
			latest = p
		}
	}
	return peak, latest, true
}
