package tui

import (
	"context"
	"fmt"
	"strings"

	"stratiles/internal/insights"
	"stratiles/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// StatsModel is the yearly statistics screen model
type StatsModel struct {
	refresh  *service.RefreshService
	selected []insights.ActivityType
	result   service.Result
	viewport viewport.Model
	loading  bool
	width    int
	height   int
	ready    bool
}

// NewStatsModel creates a new stats model
func NewStatsModel(rs *service.RefreshService, selected []insights.ActivityType, width, height int) StatsModel {
	m := StatsModel{
		refresh:  rs,
		selected: selected,
		loading:  true,
		width:    width,
		height:   height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.ready = true
	}

	return m
}

// Init initializes the stats screen
func (m StatsModel) Init() tea.Cmd {
	return m.loadStats(false)
}

type statsLoadedMsg struct {
	result service.Result
}

func (m StatsModel) loadStats(force bool) tea.Cmd {
	return func() tea.Msg {
		result := m.refresh.Refresh(context.Background(), m.selected, force)
		return statsLoadedMsg{result: result}
	}
}

// Update handles messages
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.loading = false
		m.result = msg.result
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.result.Insights != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadStats(true)
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the stats screen
func (m StatsModel) View() string {
	if m.loading {
		return "\n  Loading stats..."
	}

	if m.result.State == service.StateFailed {
		msg := m.result.Message
		if msg == "" {
			msg = "Unable to load stats right now. Please try again."
		}
		return errorStyle.Render("\n  "+msg) + "\n" + statusStyle.Render("  Press 'r' to retry")
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  j/k or arrows: scroll  r: refresh")
	if notice := renderNotice(m.result.Notice); notice != "" {
		footer = notice + "\n" + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m StatsModel) renderContent() string {
	ins := m.result.Insights
	if ins == nil || m.result.State == service.StateEmpty {
		return "\n  No activities in the last year for this selection."
	}

	var sections []string
	sections = append(sections, m.renderTotalsCard(ins))

	if chart := renderWeeklyMilesChart(ins.WeeklyVolumes); chart != "" {
		sections = append(sections, chart)
	}

	if ins.IsPartial {
		note := statusStyle.Render("  Detailed stats need a network refresh. Press 'r' when back online.")
		sections = append(sections, note)
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if chart := renderPaceChart(ins.PacePoints); chart != "" {
		sections = append(sections, chart)
	}
	if rhythm := renderRhythmCard(ins.TrainingRhythm, ins.MaxRhythmCount); rhythm != "" {
		sections = append(sections, rhythm)
	}
	if breakdown := renderTypeBreakdown(ins.TypeBreakdown); breakdown != "" {
		sections = append(sections, breakdown)
	}
	if peaks := renderPeakDays(ins.PeakDays); peaks != "" {
		sections = append(sections, peaks)
	}
	if peaks := renderPeakActivities(ins.PeakActivities); peaks != "" {
		sections = append(sections, peaks)
	}
	if effort := renderWeeklyEffortChart(ins.WeeklyEffort); effort != "" {
		sections = append(sections, effort)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m StatsModel) renderTotalsCard(ins *insights.Insights) string {
	title := cardTitleStyle.Render("Last 12 Months")

	lines := []string{
		RenderMetric("Activities", fmt.Sprintf("%d", ins.TotalActivities)),
		RenderMetric("Distance", fmt.Sprintf("%.2f mi", ins.TotalMiles)),
		RenderMetric("Moving time", fmt.Sprintf("%.1f h", ins.TotalMovingHours)),
		RenderMetric("Elevation gain", fmt.Sprintf("%.0f ft", ins.TotalElevationGainFeet)),
		RenderMetric("Kudos", fmt.Sprintf("%d", ins.TotalKudos)),
		RenderMetric("Current streak", fmt.Sprintf("%d days", ins.CurrentStreakDays)),
		RenderMetric("Longest streak", fmt.Sprintf("%d days", ins.LongestStreakDays)),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(42).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func renderWeeklyMilesChart(volumes []insights.WeeklyVolume) string {
	if len(volumes) < 3 {
		return ""
	}

	series := make([]float64, len(volumes))
	for i, v := range volumes {
		series[i] = v.Miles
	}

	title := cardTitleStyle.Render("Weekly Miles")
	graph := asciigraph.Plot(series,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(1),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func renderPaceChart(points []insights.PacePoint) string {
	smoothed := insights.RollingPace(points)
	if len(smoothed) < 3 {
		return ""
	}

	// Plot minutes per mile; lower is faster
	series := make([]float64, len(smoothed))
	for i, secs := range smoothed {
		series[i] = secs / 60
	}

	title := cardTitleStyle.Render("Pace Trend (min/mi, 28-day rolling)")
	graph := asciigraph.Plot(series,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(1),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

// rhythmBucketHours groups the 24 hours into 3-hour display columns
const rhythmBucketHours = 3

var rhythmWeekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// renderRhythmCard draws when-you-train as a weekday by time-of-day grid
func renderRhythmCard(cells []insights.RhythmCell, maxCount int) string {
	if len(cells) == 0 || maxCount == 0 {
		return ""
	}

	// counts[weekday][bucket], weekday 0=Sunday
	var counts [7][8]int
	for _, c := range cells {
		counts[c.Weekday-1][c.Hour/rhythmBucketHours] += c.ActivityCount
	}
	bucketMax := 0
	for w := 0; w < 7; w++ {
		for b := 0; b < 8; b++ {
			if counts[w][b] > bucketMax {
				bucketMax = counts[w][b]
			}
		}
	}

	title := cardTitleStyle.Render("Training Rhythm")
	header := navInactiveStyle.Render("     0  3  6  9  12 15 18 21")

	lines := []string{header}
	for w := 0; w < 7; w++ {
		var b strings.Builder
		b.WriteString(rhythmWeekdayLabels[w] + "  ")
		for bucket := 0; bucket < 8; bucket++ {
			level := insights.Level(float64(counts[w][bucket]), float64(bucketMax))
			b.WriteString(heatmapLevelStyles[level].Render(heatmapGlyph) + "  ")
		}
		lines = append(lines, b.String())
	}

	grid := strings.Join(lines, "\n")
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, grid))
}

func renderTypeBreakdown(breakdown []insights.TypeBreakdown) string {
	if len(breakdown) == 0 {
		return ""
	}

	title := cardTitleStyle.Render("Activity Mix")
	header := tableHeaderStyle.Render(fmt.Sprintf("%-18s  %6s  %6s", "Type", "Count", "Share"))

	rows := []string{header}
	for _, tb := range breakdown {
		row := tableRowStyle.Render(fmt.Sprintf("%-18s  %6d  %5.1f%%",
			tb.Type.DisplayName(), tb.ActivityCount, tb.Share*100))
		rows = append(rows, row)
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func renderPeakDays(peaks []insights.PeakDay) string {
	if len(peaks) == 0 {
		return ""
	}

	title := cardTitleStyle.Render("Biggest Days")
	header := tableHeaderStyle.Render(fmt.Sprintf("%-12s  %8s  %5s  %8s", "Date", "Miles", "Acts", "Elev(m)"))

	rows := []string{header}
	for _, p := range peaks {
		row := tableRowStyle.Render(fmt.Sprintf("%-12s  %8.2f  %5d  %8.0f",
			p.Date.Format("Jan 02 2006"), p.Miles, p.ActivityCount, p.ElevationGainMeters))
		rows = append(rows, row)
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func renderPeakActivities(peaks []insights.PeakActivity) string {
	if len(peaks) == 0 {
		return ""
	}

	title := cardTitleStyle.Render("Longest Activities")
	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-24s  %8s  %8s  %5s",
		"Date", "Name", "Miles", "Elev(ft)", "Kudos"))

	rows := []string{header}
	for _, p := range peaks {
		row := tableRowStyle.Render(fmt.Sprintf("%-10s  %-24s  %8.2f  %8.0f  %5d",
			p.Date.Format("Jan 02"), truncateName(p.Name, 24), p.Miles, p.ElevationGainFeet, p.KudosCount))
		rows = append(rows, row)
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func renderWeeklyEffortChart(effort []insights.WeeklyEffort) string {
	if len(effort) < 3 {
		return ""
	}

	series := make([]float64, len(effort))
	for i, e := range effort {
		series[i] = float64(e.TotalSufferScore)
	}

	title := cardTitleStyle.Render("Weekly Relative Effort")
	graph := asciigraph.Plot(series,
		asciigraph.Height(6),
		asciigraph.Width(60),
		asciigraph.Precision(0),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

// truncateName shortens s to at most max runes. Activity names are
// user text, so counting bytes would split multi-byte characters.
func truncateName(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
