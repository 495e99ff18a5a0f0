package dto

type ChartPoint struct {
	Date  string  `json:"date"`
	Ratio float64 `json:"ratio"`
}

type ChartSummary struct {
	Points      int     `json:"points"`
	PeakDate    string  `json:"peak_date"`
	PeakRatio   float64 `json:"peak_ratio"`
	LatestDate  string  `json:"latest_date"`
	LatestRatio float64 `json:"latest_ratio"`
	Direction   string  `json:"direction"`
}

type Chart struct {
	Keyword string       `json:"keyword"`
	Period  string       `json:"period"`
	Summary ChartSummary `json:"summary"`
	Points  []ChartPoint `json:"points,omitempty"`
}

type Analysis struct {
	Keyword string `json:"keyword"`
	Reason  string `json:"reason"`
	Chart   Chart  `json:"chart"`
}
