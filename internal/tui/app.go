package tui

import (
	"stratiles/internal/insights"
	"stratiles/internal/service"
	"stratiles/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenHeatmap Screen = iota
	ScreenStats
	ScreenSettings
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	heatmap  HeatmapModel
	stats    StatsModel
	settings SettingsModel
	help     HelpModel

	// Services
	db      *store.DB
	refresh *service.RefreshService

	// Current activity-type selection
	selected []insights.ActivityType

	// Window dimensions
	width  int
	height int
}

// NewApp creates a new App with all dependencies
func NewApp(db *store.DB, refresh *service.RefreshService, selected []insights.ActivityType) *App {
	selected = insights.NormalizeSelection(selected)
	return &App{
		screen:   ScreenHeatmap,
		db:       db,
		refresh:  refresh,
		selected: selected,
		heatmap:  NewHeatmapModel(refresh, selected),
		stats:    NewStatsModel(refresh, selected, 0, 0),
		settings: NewSettingsModel(db, selected),
		help:     NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.heatmap.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "1":
			a.screen = ScreenHeatmap
			return a, a.heatmap.Init()
		case "2":
			a.screen = ScreenStats
			return a, a.stats.Init()
		case "3":
			if a.screen != ScreenSettings {
				a.screen = ScreenSettings
				a.settings = NewSettingsModel(a.db, a.selected)
				return a, a.settings.Init()
			}
		case "?":
			if a.screen != ScreenHelp {
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			}
		case "esc":
			if a.screen == ScreenHelp {
				a.screen = a.prevScreen
				return a, nil
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case SettingsSavedMsg:
		// Rebuild data screens against the new selection
		a.selected = msg.Selected
		a.heatmap = NewHeatmapModel(a.refresh, a.selected)
		a.stats = NewStatsModel(a.refresh, a.selected, a.width, a.height)
		a.screen = ScreenHeatmap
		return a, a.heatmap.Init()
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenHeatmap:
		var m tea.Model
		m, cmd = a.heatmap.Update(msg)
		a.heatmap = m.(HeatmapModel)
	case ScreenStats:
		var m tea.Model
		m, cmd = a.stats.Update(msg)
		a.stats = m.(StatsModel)
	case ScreenSettings:
		var m tea.Model
		m, cmd = a.settings.Update(msg)
		a.settings = m.(SettingsModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenHeatmap:
		content = a.heatmap.View()
	case ScreenStats:
		content = a.stats.View()
	case ScreenSettings:
		content = a.settings.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("Stratiles - Activity Heatmap & Insights")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Heatmap", ScreenHeatmap},
		{"2", "Stats", ScreenStats},
		{"3", "Activities", ScreenSettings},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

// SettingsSavedMsg is sent when the activity-type selection changes
type SettingsSavedMsg struct {
	Selected []insights.ActivityType
}
