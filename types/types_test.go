package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw     string
		want    Category
		wantErr bool
	}{
		{"", CategoryAll, false},
		{"all", CategoryAll, false},
		{"fashion", CategoryFashion, false},
		{" Digital ", CategoryDigital, false},
		{"FOOD", CategoryFood, false},
		{"Living", CategoryLiving, false},
		{"sports", CategoryAll, true},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestCategoryLabels(t *testing.T) {
	assert.Equal(t, "전체", CategoryAll.Label())
	assert.Equal(t, "리빙", CategoryLiving.Label())
	assert.False(t, Category("fashion").Valid())
	assert.True(t, CategoryFashion.Valid())
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, ShortRange, p)

	p, err = ParsePeriod("1YR")
	require.NoError(t, err)
	assert.Equal(t, LongRange, p)
	assert.Equal(t, "1yr", p.String())
	assert.Equal(t, 365, p.Days())

	_, err = ParsePeriod("1wk")
	assert.Error(t, err)
}

func TestParseSource(t *testing.T) {
	assert.Equal(t, SourceNaverShopping, ParseSource("Naver Shopping"))
	assert.Equal(t, SourceYouTube, ParseSource("youtube"))
	assert.Equal(t, SourceOther, ParseSource("Instagram"))
}

func TestTrendItemReason(t *testing.T) {
	reason := "sold out"
	item := NewTrendItem(1, "A", SourceOther, "Instagram", &reason, "all")
	reason = "changed"

	got, ok := item.Reason()
	assert.True(t, ok)
	assert.Equal(t, "sold out", got)
	assert.Equal(t, "Instagram", item.SourceLabel())

	bare := NewTrendItem(2, "B", SourceYouTube, "", nil, "")
	_, ok = bare.Reason()
	assert.False(t, ok)
	assert.Equal(t, "YouTube", bare.SourceLabel())
	assert.Equal(t, "", bare.Description())
}

func TestSeriesSummary(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC) }

	_, _, ok := SeriesSummary(nil)
	assert.False(t, ok)

	peak, latest, ok := SeriesSummary([]ChartPoint{
		{Date: day(1), Ratio: 40},
		{Date: day(3), Ratio: 90},
		{Date: day(2), Ratio: 55},
		{Date: day(5), Ratio: 70},
	})
	require.True(t, ok)
	assert.Equal(t, day(3), peak.Date)
	assert.Equal(t, 90.0, peak.Ratio)
	assert.Equal(t, day(5), latest.Date)
	assert.Equal(t, 70.0, latest.Ratio)
}
