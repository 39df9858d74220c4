package tui

import (
	"fmt"

	"stratiles/internal/insights"
	"stratiles/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// settingsEntry is one row of the selection list: either a category
// header or a toggleable activity type.
type settingsEntry struct {
	header   bool
	category insights.Category
	typ      insights.ActivityType
}

// SettingsModel is the activity-type selection screen model
type SettingsModel struct {
	db       *store.DB
	entries  []settingsEntry
	selected map[insights.ActivityType]bool
	cursor   int
	saveErr  error
}

// NewSettingsModel creates a settings model seeded with the current selection
func NewSettingsModel(db *store.DB, current []insights.ActivityType) SettingsModel {
	var entries []settingsEntry
	for _, group := range insights.Grouped() {
		entries = append(entries, settingsEntry{header: true, category: group.Category})
		for _, t := range group.Types {
			entries = append(entries, settingsEntry{typ: t})
		}
	}

	selected := make(map[insights.ActivityType]bool, len(current))
	for _, t := range insights.NormalizeSelection(current) {
		selected[t] = true
	}

	m := SettingsModel{
		db:       db,
		entries:  entries,
		selected: selected,
	}
	m.cursor = m.nextType(-1)
	return m
}

// Init initializes the settings screen
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// nextType returns the index of the first type row after from, or from
// when there is none.
func (m SettingsModel) nextType(from int) int {
	for i := from + 1; i < len(m.entries); i++ {
		if !m.entries[i].header {
			return i
		}
	}
	return from
}

// prevType returns the index of the last type row before from, or from
// when there is none.
func (m SettingsModel) prevType(from int) int {
	for i := from - 1; i >= 0; i-- {
		if !m.entries[i].header {
			return i
		}
	}
	return from
}

// Update handles messages
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "down", "j":
			m.cursor = m.nextType(m.cursor)
		case "up", "k":
			m.cursor = m.prevType(m.cursor)
		case " ", "x":
			entry := m.entries[m.cursor]
			if !entry.header {
				m.selected[entry.typ] = !m.selected[entry.typ]
			}
		case "d":
			m.selected = make(map[insights.ActivityType]bool)
			for _, t := range insights.DefaultSelected {
				m.selected[t] = true
			}
		case "enter":
			return m.save()
		}
	}
	return m, nil
}

// save persists the selection and notifies the app
func (m SettingsModel) save() (tea.Model, tea.Cmd) {
	// Keep declaration order so the saved selection round-trips stably
	var chosen []insights.ActivityType
	for _, t := range insights.AllTypes {
		if m.selected[t] {
			chosen = append(chosen, t)
		}
	}
	chosen = insights.NormalizeSelection(chosen)

	raw := make([]string, len(chosen))
	for i, t := range chosen {
		raw[i] = string(t)
	}
	if err := m.db.SetSelectedTypes(raw); err != nil {
		m.saveErr = err
		return m, nil
	}

	return m, func() tea.Msg { return SettingsSavedMsg{Selected: chosen} }
}

// View renders the settings screen
func (m SettingsModel) View() string {
	var sections []string

	count := 0
	for _, on := range m.selected {
		if on {
			count++
		}
	}

	title := cardTitleStyle.Render(fmt.Sprintf("Choose Activities (%d selected)", count))
	sections = append(sections, title)

	for i, entry := range m.entries {
		if entry.header {
			sections = append(sections, "")
			sections = append(sections, "  "+categoryStyle.Render(string(entry.category)))
			continue
		}

		mark := "[ ]"
		style := unselectedTypeStyle
		if m.selected[entry.typ] {
			mark = "[x]"
			style = selectedTypeStyle
		}

		row := fmt.Sprintf("  %s %s", mark, entry.typ.DisplayName())
		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			sections = append(sections, style.Render(row))
		}
	}

	if m.saveErr != nil {
		sections = append(sections, "")
		sections = append(sections, errorStyle.Render(fmt.Sprintf("  Save failed: %v", m.saveErr)))
	}

	help := statusStyle.Render("\n  space: toggle  d: defaults  enter: save  j/k: move")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
