package client

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/qyinm/ktrend/types"
)

type trendsPayload struct {
	Category    string         `json:"category"`
	Trends      []trendPayload `json:"trends"`
	LastUpdated string         `json:"last_updated"`
}

type trendPayload struct {
	Rank     int     `json:"rank"`
	Keyword  string  `json:"keyword"`
	Reason   *string `json:"reason"`
	Source   string  `json:"source"`
	Category string  `json:"category"`
}

type chartPayload struct {
	Keyword   string         `json:"keyword"`
	Period    string         `json:"period"`
	Reason    *string        `json:"reason"`
	ChartData []pointPayload `json:"chart_data"`
}

type pointPayload struct {
	Date  string  `json:"date"`
	Ratio float64 `json:"ratio"`
}

// ParseTrends decodes a /api/trends response. Items are returned in rank
// order. fetchedAt stamps LastUpdated when the payload has no timestamp.
func ParseTrends(reader io.Reader, category types.Category, fetchedAt time.Time) (types.TrendList, error) {
	var p trendsPayload
	if err := json.NewDecoder(reader).Decode(&p); err != nil {
		return types.TrendList{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	lastUpdated := fetchedAt
	if v := strings.TrimSpace(p.LastUpdated); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return types.TrendList{}, fmt.Errorf("%w: last_updated %q", ErrMalformed, v)
		}
		lastUpdated = ts
	}

	items := make([]types.TrendItem, 0, len(p.Trends))
	seenKeyword := make(map[string]struct{}, len(p.Trends))
	seenRank := make(map[int]struct{}, len(p.Trends))
	for _, t := range p.Trends {
		keyword := strings.TrimSpace(t.Keyword)
		if keyword == "" {
			return types.TrendList{}, fmt.Errorf("%w: trend with empty keyword", ErrMalformed)
		}
		if t.Rank < 1 {
			return types.TrendList{}, fmt.Errorf("%w: trend %q has rank %d", ErrMalformed, keyword, t.Rank)
		}
		if _, ok := seenKeyword[keyword]; ok {
			return types.TrendList{}, fmt.Errorf("%w: duplicate keyword %q", ErrMalformed, keyword)
		}
		if _, ok := seenRank[t.Rank]; ok {
			return types.TrendList{}, fmt.Errorf("%w: duplicate rank %d", ErrMalformed, t.Rank)
		}
		seenKeyword[keyword] = struct{}{}
		seenRank[t.Rank] = struct{}{}

		label := strings.TrimSpace(t.Source)
		items = append(items, types.NewTrendItem(t.Rank, keyword, types.ParseSource(label), label, t.Reason, t.Category))
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Rank() < items[j].Rank() })

	return types.TrendList{
		Category:    category,
		Trends:      items,
		LastUpdated: lastUpdated,
	}, nil
}

// ParseAnalysis decodes a /api/analyze response. A blank reason is ErrEmpty.
func ParseAnalysis(reader io.Reader, keyword string) (types.Analysis, error) {
	var p chartPayload
	if err := json.NewDecoder(reader).Decode(&p); err != nil {
		return types.Analysis{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	reason := ""
	if p.Reason != nil {
		reason = CleanReason(*p.Reason)
	}
	if reason == "" {
		return types.Analysis{}, fmt.Errorf("%w: no reason for %q", ErrEmpty, keyword)
	}

	points, err := toPoints(p.ChartData)
	if err != nil {
		return types.Analysis{}, err
	}

	return types.Analysis{
		Keyword: keyword,
		Reason:  reason,
		Chart:   points,
	}, nil
}

// ParseChart decodes a /api/trend-data response. An empty series is ErrEmpty.
func ParseChart(reader io.Reader) ([]types.ChartPoint, error) {
	var p chartPayload
	if err := json.NewDecoder(reader).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(p.ChartData) == 0 {
		return nil, fmt.Errorf("%w: no chart data", ErrEmpty)
	}
	return toPoints(p.ChartData)
}

func toPoints(in []pointPayload) ([]types.ChartPoint, error) {
	points := make([]types.ChartPoint, 0, len(in))
	for _, pt := range in {
		d, err := time.Parse(time.DateOnly, strings.TrimSpace(pt.Date))
		if err != nil {
			return nil, fmt.Errorf("%w: chart date %q", ErrMalformed, pt.Date)
		}
		points = append(points, types.ChartPoint{Date: d, Ratio: pt.Ratio})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}
