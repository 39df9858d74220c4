package tui

import (
	"context"
	"fmt"
	"strings"

	"stratiles/internal/insights"
	"stratiles/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HeatmapModel is the calendar heatmap screen model
type HeatmapModel struct {
	refresh  *service.RefreshService
	selected []insights.ActivityType
	result   service.Result
	loading  bool
}

// NewHeatmapModel creates a new heatmap model
func NewHeatmapModel(rs *service.RefreshService, selected []insights.ActivityType) HeatmapModel {
	return HeatmapModel{
		refresh:  rs,
		selected: selected,
		loading:  true,
	}
}

// Init initializes the heatmap screen
func (m HeatmapModel) Init() tea.Cmd {
	return m.loadCached
}

type cacheEvaluatedMsg struct {
	result    service.Result
	needFetch bool
}

type refreshDoneMsg struct {
	result service.Result
}

func (m HeatmapModel) loadCached() tea.Msg {
	result, needFetch := m.refresh.Cached(m.selected, false)
	return cacheEvaluatedMsg{result: result, needFetch: needFetch}
}

func (m HeatmapModel) runRefresh(force bool) tea.Cmd {
	return func() tea.Msg {
		result := m.refresh.Refresh(context.Background(), m.selected, force)
		return refreshDoneMsg{result: result}
	}
}

// Update handles messages
func (m HeatmapModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case cacheEvaluatedMsg:
		m.loading = false
		m.result = msg.result
		if msg.needFetch {
			// Keep showing the cached grid while the fetch runs
			return m, m.runRefresh(false)
		}

	case refreshDoneMsg:
		m.loading = false
		m.result = msg.result

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			if m.result.Displayable() {
				m.result.Notice = service.NoticeUpdating
			} else {
				m.loading = true
			}
			return m, m.runRefresh(true)
		}
	}
	return m, nil
}

// View renders the heatmap screen
func (m HeatmapModel) View() string {
	if m.loading {
		return "\n  Loading heatmap..."
	}

	switch m.result.State {
	case service.StateFailed:
		msg := m.result.Message
		if msg == "" {
			msg = "Unable to load stats right now. Please try again."
		}
		return errorStyle.Render("\n  "+msg) + "\n" + statusStyle.Render("  Press 'r' to retry")
	case service.StateIdle, service.StateLoading:
		return "\n  Loading heatmap..."
	}

	ins := m.result.Insights
	if ins == nil {
		return "\n  No data available."
	}

	var sections []string
	sections = append(sections, cardTitleStyle.Render(selectionTitle(m.selected)))
	sections = append(sections, renderHeatmapGrid(ins.HeatmapView))
	sections = append(sections, m.renderSummary(ins))

	if notice := renderNotice(m.result.Notice); notice != "" {
		sections = append(sections, notice)
	}

	help := statusStyle.Render("  r: refresh  2: stats  3: choose activities")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m HeatmapModel) renderSummary(ins *insights.Insights) string {
	if m.result.State == service.StateEmpty {
		return statusStyle.Render("  No activities in the last year for this selection.")
	}

	summary := fmt.Sprintf("  %.2f mi in the last year   streak: %d days (longest %d)",
		ins.HeatmapView.TotalMiles, ins.CurrentStreakDays, ins.LongestStreakDays)
	return metricValueStyle.Render(summary)
}

// heatmapGlyph is the block drawn for every day cell
const heatmapGlyph = "■"

// renderHeatmapGrid draws the grid with weeks as columns and weekdays as
// rows, GitHub contribution-graph style.
func renderHeatmapGrid(view insights.HeatmapView) string {
	if len(view.Weeks) == 0 {
		return "  (no weeks to show)"
	}

	weekdayLabels := [7]string{"   ", "Mon", "   ", "Wed", "   ", "Fri", "   "}

	lines := make([]string, 0, 9)
	lines = append(lines, "    "+renderMonthRow(view.Weeks))

	for row := 0; row < 7; row++ {
		var b strings.Builder
		b.WriteString(weekdayLabels[row] + " ")
		for _, week := range view.Weeks {
			cell := week.Cells[row]
			if cell.Date.After(view.Today) {
				b.WriteString("  ")
				continue
			}
			level := insights.Level(cell.Miles, view.MaxMiles)
			b.WriteString(heatmapLevelStyles[level].Render(heatmapGlyph) + " ")
		}
		lines = append(lines, b.String())
	}

	lines = append(lines, "")
	lines = append(lines, "    "+renderLegend())

	return strings.Join(lines, "\n")
}

// renderMonthRow places month labels over their week columns
func renderMonthRow(weeks []insights.HeatmapWeek) string {
	labels := insights.BuildMonthLabels(weeks)

	row := make([]rune, len(weeks)*2)
	for i := range row {
		row[i] = ' '
	}
	for _, label := range labels {
		pos := label.WeekIndex * 2
		for i, r := range label.Label {
			if pos+i < len(row) {
				row[pos+i] = r
			}
		}
	}
	return navInactiveStyle.Render(string(row))
}

func renderLegend() string {
	var b strings.Builder
	b.WriteString(navInactiveStyle.Render("less "))
	for level := 0; level <= 4; level++ {
		b.WriteString(heatmapLevelStyles[level].Render(heatmapGlyph) + " ")
	}
	b.WriteString(navInactiveStyle.Render("more"))
	return b.String()
}

func renderNotice(n service.Notice) string {
	switch n {
	case service.NoticeUpdating:
		return warningStyle.Render("  Updating...")
	case service.NoticeOffline:
		return warningStyle.Render("  Offline - showing saved data")
	}
	return ""
}

// selectionTitle names the current selection for screen headers
func selectionTitle(selected []insights.ActivityType) string {
	selected = insights.NormalizeSelection(selected)
	if len(selected) == 1 {
		return selected[0].DisplayName() + " Heatmap"
	}
	return fmt.Sprintf("Activity Heatmap (%d types)", len(selected))
}
