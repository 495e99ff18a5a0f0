package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/qyinm/ktrend/types"
)

const (
	reasonPreviewRunes = 30
	reasonPlaceholder  = "클릭하여 이유 확인하기"
)

// TrendDelegate renders a trend card: rank, keyword and source badge on the
// first line, a short reason preview below.
type TrendDelegate struct {
	// selected returns the keyword of the controller's selection, which can
	// differ from the list cursor.
	selected func() string
}

func (d TrendDelegate) Height() int                             { return 2 }
func (d TrendDelegate) Spacing() int                            { return 1 }
func (d TrendDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

// Render renders a single trend card
func (d TrendDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	trend, ok := item.(types.TrendItem)
	if !ok {
		return
	}

	atCursor := index == m.Index()
	active := d.selected != nil && d.selected() == trend.Keyword()

	marker := "  "
	if active {
		marker = "● "
	}
	rankStr := fmt.Sprintf("%s#%-2d ", marker, trend.Rank())
	badge := sourceBadge(trend)

	available := m.Width() - ansi.StringWidth(rankStr) - lipgloss.Width(badge) - 1
	if available < 1 {
		available = 1
	}
	name := ansi.Truncate(trend.Keyword(), available, "…")
	name += strings.Repeat(" ", max(0, available-ansi.StringWidth(name)))

	rankStyle := lipgloss.NewStyle().Foreground(DraculaComment)
	nameStyle := lipgloss.NewStyle().Foreground(DraculaCyan)
	if atCursor {
		rankStyle = lipgloss.NewStyle().Foreground(DraculaCyan).Bold(true)
		nameStyle = lipgloss.NewStyle().Foreground(DraculaPink).Bold(true)
	}
	line1 := rankStyle.Render(rankStr) + nameStyle.Render(name) + " " + badge

	indent := "     "
	preview := ansi.Truncate(reasonPreview(trend), max(0, m.Width()-len(indent)), "…")
	line2 := indent + PlaceholderStyle.Render(preview)
	if _, ok := trend.Reason(); ok {
		line2 = indent + lipgloss.NewStyle().Foreground(DraculaForeground).Render(preview)
	}

	fmt.Fprint(w, line1+"\n"+line2)
}

// reasonPreview returns the first 30 runes of the list-level reason, or a
// hint to open the analysis when none was provided.
func reasonPreview(t types.TrendItem) string {
	reason, ok := t.Reason()
	reason = strings.Join(strings.Fields(reason), " ")
	if !ok || reason == "" {
		return reasonPlaceholder
	}
	runes := []rune(reason)
	if len(runes) <= reasonPreviewRunes {
		return reason
	}
	return string(runes[:reasonPreviewRunes]) + "..."
}

func sourceBadge(t types.TrendItem) string {
	label := "[" + t.SourceLabel() + "]"
	switch t.Source() {
	case types.SourceNaverShopping:
		return NaverBadgeStyle.Render(label)
	case types.SourceYouTube:
		return YouTubeBadgeStyle.Render(label)
	default:
		return OtherBadgeStyle.Render(label)
	}
}
