package ui

import "github.com/charmbracelet/lipgloss"

// 16-color ANSI Dracula palette
var (
	DraculaForeground = lipgloss.AdaptiveColor{Light: "0", Dark: "255"}
	DraculaPurple     = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	DraculaPink       = lipgloss.AdaptiveColor{Light: "13", Dark: "13"}
	DraculaCyan       = lipgloss.AdaptiveColor{Light: "14", Dark: "14"}
	DraculaGreen      = lipgloss.AdaptiveColor{Light: "10", Dark: "10"}
	DraculaComment    = lipgloss.AdaptiveColor{Light: "8", Dark: "7"}
	DraculaOrange     = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}
	DraculaRed        = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}

	// Category tab bar
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(DraculaPink).
			Bold(true).
			Padding(0, 1)
	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(DraculaComment).
				Padding(0, 1)
	UpdatedStyle = lipgloss.NewStyle().
			Foreground(DraculaComment).
			Italic(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(DraculaPink).
			Bold(true).
			Padding(0, 1)

	// Panes
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DraculaComment)
	FocusedPaneStyle = PaneStyle.
				BorderForeground(DraculaPurple)

	// Detail pane
	DetailTitleStyle = lipgloss.NewStyle().
				Foreground(DraculaPink).
				Bold(true)
	SectionStyle = lipgloss.NewStyle().
			Foreground(DraculaCyan).
			Bold(true).
			MarginTop(1)
	PeriodActiveStyle = lipgloss.NewStyle().
				Foreground(DraculaGreen).
				Bold(true).
				Underline(true)
	PeriodInactiveStyle = lipgloss.NewStyle().
				Foreground(DraculaComment)
	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(DraculaComment).
				Italic(true)
	LinkStyle = lipgloss.NewStyle().
			Foreground(DraculaCyan).
			Underline(true)

	// Source badges
	NaverBadgeStyle = lipgloss.NewStyle().
			Foreground(DraculaGreen).
			Bold(true)
	YouTubeBadgeStyle = lipgloss.NewStyle().
				Foreground(DraculaRed).
				Bold(true)
	OtherBadgeStyle = lipgloss.NewStyle().
			Foreground(DraculaOrange)

	// Chart
	ChartLineStyle = lipgloss.NewStyle().
			Foreground(DraculaPink)
	ChartAxisStyle = lipgloss.NewStyle().
			Foreground(DraculaComment)
	ChartLabelStyle = lipgloss.NewStyle().
			Foreground(DraculaComment)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(DraculaComment)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(DraculaRed)
)
