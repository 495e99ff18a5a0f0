package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/qyinm/ktrend/dashboard"
	"github.com/qyinm/ktrend/logging"
	"github.com/qyinm/ktrend/types"
)

// SplitMinWidth is the terminal width from which the list and the detail
// pane are shown side by side. Below it the controller's view mode decides.
const SplitMinWidth = 100

// Model is the main TUI model. All dashboard state lives in the controller;
// the model only adapts it to bubbletea.
type Model struct {
	ctrl      *dashboard.Controller
	source    types.TrendSource
	list      list.Model
	viewport  viewport.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	log       *log.Logger
	width     int
	height    int
	err       error
	statusMsg string
}

// NewModel creates a new Model driving ctrl. source is the controller's
// data source; it is used for cache invalidation on refresh.
func NewModel(ctrl *dashboard.Controller, source types.TrendSource) Model {
	delegate := TrendDelegate{selected: func() string {
		s, _ := ctrl.Selected()
		return s.Keyword()
	}}
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = listTitle(ctrl.Category())
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = TitleStyle

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(DraculaPink)

	return Model{
		ctrl:      ctrl,
		source:    source,
		list:      l,
		viewport:  viewport.New(0, 0),
		spinner:   s,
		help:      help.New(),
		keys:      keys,
		log:       logging.WithPrefix("ui"),
		statusMsg: "Ready",
	}
}

// Init starts the spinner and the first list fetch
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	tasks, err := m.ctrl.SetCategory(m.ctrl.Category())
	if err != nil {
		m.log.Error("initial load", "err", err)
		return nil
	}
	return runTasks(tasks)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanes()
		m.refreshDetail()
		return m, nil

	case resultMsg:
		outcome, next := m.ctrl.Settle(msg.result)
		if outcome == dashboard.Applied {
			if msg.result.Kind == dashboard.KindList {
				m.syncList()
			}
			m.refreshDetail()
		}
		return m, runTasks(next)

	case openDoneMsg:
		if msg.err != nil {
			m.log.Warn("open url", "url", msg.url, "err", msg.err)
			m.err = fmt.Errorf("open %s: %w", msg.url, msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.detailLoading() {
			m.refreshDetail()
		}
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizePanes()
		return m, nil

	case key.Matches(msg, m.keys.Category):
		idx := int(msg.String()[0] - '1')
		return m.switchCategory(types.AllCategories[idx])

	case key.Matches(msg, m.keys.NextCategory):
		return m.switchCategory(m.shiftCategory(1))

	case key.Matches(msg, m.keys.PrevCategory):
		return m.switchCategory(m.shiftCategory(-1))

	case key.Matches(msg, m.keys.Period):
		next := types.LongRange
		if m.ctrl.Pipeline().Period() == types.LongRange {
			next = types.ShortRange
		}
		cmd := runTasks(m.ctrl.SetChartPeriod(next))
		m.refreshDetail()
		return m, cmd

	case key.Matches(msg, m.keys.Refresh):
		if c, ok := m.source.(cacheClearer); ok {
			c.ClearCache()
		}
		m.err = nil
		cmd := runTasks(m.ctrl.Refresh())
		m.syncList()
		m.refreshDetail()
		return m, cmd

	case key.Matches(msg, m.keys.OpenNews), key.Matches(msg, m.keys.OpenYouTube):
		sel, ok := m.ctrl.Selected()
		if !ok {
			return m, nil
		}
		u := youtubeURL(sel.Keyword())
		if key.Matches(msg, m.keys.OpenNews) {
			u = newsURL(sel.Keyword())
		}
		m.statusMsg = "Opening " + u
		return m, openURL(u)

	case key.Matches(msg, m.keys.Enter):
		if !m.listFocused() {
			return m, nil
		}
		item, ok := m.list.SelectedItem().(types.TrendItem)
		if !ok {
			return m, nil
		}
		tasks, err := m.ctrl.SelectTrend(item)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		if len(tasks) > 0 {
			m.viewport.GotoTop()
		}
		m.refreshDetail()
		return m, runTasks(tasks)

	case key.Matches(msg, m.keys.Back):
		m.ctrl.Back()
		return m, nil
	}

	var cmd tea.Cmd
	if m.listFocused() && !key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown) {
		m.list, cmd = m.list.Update(msg)
	} else {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) switchCategory(cat types.Category) (tea.Model, tea.Cmd) {
	tasks, err := m.ctrl.SetCategory(cat)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.syncList()
	m.viewport.GotoTop()
	m.refreshDetail()
	return m, runTasks(tasks)
}

func (m Model) shiftCategory(delta int) types.Category {
	cats := types.AllCategories
	idx := 0
	for i, c := range cats {
		if c == m.ctrl.Category() {
			idx = i
		}
	}
	return cats[(idx+delta+len(cats))%len(cats)]
}

func (m Model) wide() bool {
	return m.width >= SplitMinWidth
}

// listFocused reports whether navigation keys move the list cursor.
func (m Model) listFocused() bool {
	return m.wide() || m.ctrl.ViewMode() == dashboard.ListView
}

func (m Model) detailLoading() bool {
	p := m.ctrl.Pipeline()
	return p.AnalysisLoading() || p.ChartLoading() || m.ctrl.ListStatus() == dashboard.ListLoading
}

// syncList copies the controller's list into the list widget and puts the
// cursor on the selection.
func (m *Model) syncList() {
	trends := m.ctrl.Trends()
	items := make([]list.Item, len(trends))
	for i, t := range trends {
		items[i] = t
	}
	m.list.SetItems(items)
	m.list.Title = listTitle(m.ctrl.Category())

	cursor := 0
	if sel, ok := m.ctrl.Selected(); ok {
		for i, t := range trends {
			if t.Keyword() == sel.Keyword() {
				cursor = i
				break
			}
		}
	}
	m.list.Select(cursor)
}

func (m *Model) refreshDetail() {
	m.viewport.SetContent(m.detailContent(m.viewport.Width))
}

func listTitle(c types.Category) string {
	return "실시간 트렌드 · " + c.Label()
}

// View renders the current view
func (m Model) View() string {
	if m.width == 0 {
		return "Loading...\n"
	}

	bodyHeight := m.bodyHeight()
	var body string
	switch {
	case m.wide():
		lw := m.listPaneWidth()
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderPane(m.listView(), lw, bodyHeight, true),
			m.renderPane(m.viewport.View(), m.width-lw, bodyHeight, false),
		)
	case m.ctrl.ViewMode() == dashboard.DetailView:
		body = m.renderPane(m.viewport.View(), m.width, bodyHeight, true)
	default:
		body = m.renderPane(m.listView(), m.width, bodyHeight, true)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatus(),
		m.help.View(m.keys),
	)
}

func (m Model) renderPane(content string, width, height int, focused bool) string {
	style := PaneStyle
	if focused {
		style = FocusedPaneStyle
	}
	return style.
		Width(max(0, width-2)).
		Height(max(0, height-2)).
		MaxHeight(height).
		Render(content)
}

func (m Model) renderHeader() string {
	tabs := make([]string, 0, len(types.AllCategories))
	for i, c := range types.AllCategories {
		label := fmt.Sprintf("%d %s", i+1, c.Label())
		if c == m.ctrl.Category() {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(label))
		}
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	right := ""
	if ts := m.ctrl.LastUpdated(); !ts.IsZero() && m.ctrl.ListStatus() == dashboard.ListReady {
		right = UpdatedStyle.Render("updated " + humanize.Time(ts))
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderStatus() string {
	if m.err != nil {
		return ErrorStyle.Render("Error: " + m.err.Error())
	}
	status := fmt.Sprintf("%s · %d trends", m.ctrl.Category().Label(), len(m.ctrl.Trends()))
	if sel, ok := m.ctrl.Selected(); ok {
		status += fmt.Sprintf(" · %s [%s]", sel.Keyword(), m.ctrl.Pipeline().State())
	}
	if m.statusMsg != "" {
		status += " · " + m.statusMsg
	}
	return StatusBarStyle.Render(ansi.Truncate(status, m.width, "…"))
}

func (m Model) listView() string {
	switch m.ctrl.ListStatus() {
	case dashboard.ListLoading:
		return m.spinner.View() + " 트렌드를 불러오는 중..."
	case dashboard.ListEmpty:
		return PlaceholderStyle.Render("이 카테고리에는 아직 트렌드가 없습니다.")
	case dashboard.ListFailed:
		return ErrorStyle.Render("트렌드를 불러오지 못했습니다.") + "\n" +
			PlaceholderStyle.Render(fmt.Sprintf("%v", m.ctrl.ListErr())) + "\n\n" +
			PlaceholderStyle.Render("r 키로 다시 시도")
	default:
		return m.list.View()
	}
}

// detailContent is the scrollable body of the detail pane: title, reason,
// chart and links for the selected trend.
func (m Model) detailContent(width int) string {
	sel, ok := m.ctrl.Selected()
	if !ok {
		if m.ctrl.ListStatus() == dashboard.ListLoading {
			return m.spinner.View() + " 불러오는 중..."
		}
		return PlaceholderStyle.Render("트렌드를 선택하세요.")
	}

	p := m.ctrl.Pipeline()
	var b strings.Builder

	b.WriteString(DetailTitleStyle.Render(fmt.Sprintf("#%d %s", sel.Rank(), sel.Keyword())))
	b.WriteString("  " + sourceBadge(sel) + "\n")

	b.WriteString(SectionStyle.Render("왜 뜨고 있을까?") + "\n")
	reason, hasReason := p.Reason()
	switch {
	case p.AnalysisLoading():
		b.WriteString(m.spinner.View() + " AI가 이유를 분석하는 중...\n")
	case hasReason:
		b.WriteString(renderMarkdown(reason, width) + "\n")
	case p.Err() != nil:
		b.WriteString(ErrorStyle.Render("분석을 불러오지 못했습니다: "+p.Err().Error()) + "\n")
		b.WriteString(PlaceholderStyle.Render("r 키로 다시 시도") + "\n")
	}

	b.WriteString(SectionStyle.Render("검색량 추이  ") + periodTabs(p.Period()) + "\n")
	chart := p.Chart()
	switch {
	case p.ChartLoading() && len(chart) == 0:
		b.WriteString(m.spinner.View() + " 차트를 불러오는 중...\n")
	case len(chart) > 0:
		b.WriteString(renderChart(chart, p.Period(), width, m.chartHeight()) + "\n")
		summary := chartSummary(chart, p.Period())
		if p.ChartLoading() {
			summary = m.spinner.View() + " " + summary
		}
		b.WriteString(PlaceholderStyle.Render(summary) + "\n")
	}
	if hasReason && p.State() == dashboard.Error {
		b.WriteString(ErrorStyle.Render("차트를 불러오지 못했습니다: "+p.Err().Error()) + "\n")
	}

	b.WriteString(SectionStyle.Render("더 알아보기") + "\n")
	b.WriteString(LinkStyle.Render("o 네이버 뉴스") + "   " + LinkStyle.Render("y YouTube"))

	return b.String()
}

func periodTabs(active types.ChartPeriod) string {
	var parts []string
	for _, p := range []types.ChartPeriod{types.ShortRange, types.LongRange} {
		if p == active {
			parts = append(parts, PeriodActiveStyle.Render(p.Label()))
		} else {
			parts = append(parts, PeriodInactiveStyle.Render(p.Label()))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) bodyHeight() int {
	headerHeight := 1
	statusHeight := 1
	helpHeight := lipgloss.Height(m.help.View(m.keys))
	return max(0, m.height-headerHeight-statusHeight-helpHeight)
}

func (m Model) listPaneWidth() int {
	return max(36, m.width*2/5)
}

func (m Model) chartHeight() int {
	return min(12, max(minChartHeight, m.viewport.Height/3))
}

// resizePanes adjusts the dimensions of list and viewport based on window size
func (m *Model) resizePanes() {
	h := max(0, m.bodyHeight()-2)
	listWidth, detailWidth := m.width, m.width
	if m.wide() {
		listWidth = m.listPaneWidth()
		detailWidth = m.width - listWidth
	}
	m.list.SetSize(max(0, listWidth-2), h)
	m.viewport.Width = max(0, detailWidth-2)
	m.viewport.Height = h
	m.help.Width = m.width
}
