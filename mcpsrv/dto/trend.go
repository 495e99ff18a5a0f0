package dto

type Trend struct {
	Rank     int    `json:"rank"`
	Keyword  string `json:"keyword"`
	Source   string `json:"source"`
	Category string `json:"category,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type TrendList struct {
	Category    string  `json:"category"`
	LastUpdated string  `json:"last_updated,omitempty"`
	Trends      []Trend `json:"trends"`
}

type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
