package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	navSection := m.renderSection("Navigation", []keyHelp{
		{"1", "Heatmap"},
		{"2", "Stats"},
		{"3", "Choose activities"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Close help"},
	})
	sections = append(sections, navSection)

	heatmapSection := m.renderSection("Heatmap", []keyHelp{
		{"r", "Refresh from Strava"},
	})
	sections = append(sections, heatmapSection)

	statsSection := m.renderSection("Stats", []keyHelp{
		{"j / k", "Scroll"},
		{"r", "Refresh from Strava"},
	})
	sections = append(sections, statsSection)

	settingsSection := m.renderSection("Choose Activities", []keyHelp{
		{"j / k", "Move cursor"},
		{"space", "Toggle activity type"},
		{"d", "Reset to defaults"},
		{"enter", "Save selection"},
	})
	sections = append(sections, settingsSection)

	sections = append(sections, m.renderReadingHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, categoryStyle.Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderReadingHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, categoryStyle.Render("Reading the Heatmap"))
	lines = append(lines, "")

	items := []struct {
		name string
		desc string
	}{
		{"Cell shade", "Daily miles relative to your biggest day in the window."},
		{"Streak", "Consecutive days ending today with at least one activity."},
		{"Updating...", "Saved data is on screen while fresher data downloads."},
		{"Offline", "The last download failed; saved data is shown instead."},
	}

	for _, item := range items {
		lines = append(lines, "  "+helpKeyStyle.Render(item.name))
		lines = append(lines, "  "+helpDescStyle.Render(item.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
