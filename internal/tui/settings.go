package tui

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/skyglass/internal/config"
	"nathanbeddoewebdev/skyglass/internal/tui/components"
	"nathanbeddoewebdev/skyglass/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingSavedMsg struct {
	key   string
	reset bool
}

type settingFailedMsg struct{ err error }

// settingsModel lists every config key in a table and edits one value
// at a time. Each accepted edit is saved immediately.
type settingsModel struct {
	cfg  *config.Config
	keys []config.KeySpec
	save func(*config.Config) error

	cursor int
	editor textinput.Model
	edit   bool

	width, height int

	status  string
	isError bool
}

func newSettingsModel(cfg *config.Config, save func(*config.Config) error) settingsModel {
	return settingsModel{cfg: cfg, keys: config.Keys, save: save}
}

// RunSettings opens the interactive settings editor on the stored config.
func RunSettings() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	m := newSettingsModel(cfg, (*config.Config).Save)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m settingsModel) Init() tea.Cmd { return nil }

func (m settingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.edit {
			return m.updateEditor(msg)
		}
		return m.updateBrowse(msg)

	case settingSavedMsg:
		m.edit = false
		m.isError = false
		if msg.reset {
			m.status = msg.key + " reset to default"
		} else {
			m.status = msg.key + " saved"
		}
		return m, nil

	case settingFailedMsg:
		m.status, m.isError = "Error: "+msg.err.Error(), true
		return m, nil
	}

	if m.edit {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m settingsModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		m.cursor = max(m.cursor-1, 0)
	case "down", "j":
		m.cursor = min(m.cursor+1, len(m.keys)-1)
	case "enter", "e":
		m.editor = textinput.New()
		m.editor.SetValue(m.keys[m.cursor].Get(m.cfg))
		m.editor.Placeholder = "empty resets to default"
		m.editor.Width = 36
		m.editor.Focus()
		m.edit, m.status = true, ""
		return m, textinput.Blink
	case "d":
		return m.apply("")
	}
	return m, nil
}

func (m settingsModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.edit = false
		return m, nil
	case "enter":
		return m.apply(m.editor.Value())
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// apply validates value against the selected key and saves on success.
// The config is only mutated once Set has accepted the value.
func (m settingsModel) apply(value string) (tea.Model, tea.Cmd) {
	spec := m.keys[m.cursor]
	value = strings.TrimSpace(value)
	if err := spec.Set(m.cfg, value); err != nil {
		m.status, m.isError = "Error: "+err.Error(), true
		return m, nil
	}

	cfg, save := m.cfg, m.save
	return m, func() tea.Msg {
		if err := save(cfg); err != nil {
			return settingFailedMsg{err: err}
		}
		return settingSavedMsg{key: spec.Name, reset: value == ""}
	}
}

func (m settingsModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	bindings := []components.KeyBinding{
		{Key: "j/k", Desc: "navigate"},
		{Key: "e", Desc: "edit"},
		{Key: "d", Desc: "default"},
		{Key: "q", Desc: "quit"},
	}
	if m.edit {
		bindings = []components.KeyBinding{{Key: "enter", Desc: "save"}, {Key: "esc", Desc: "cancel"}}
	}

	sections := []string{components.Header(m.width, "settings", "")}
	body := m.renderTable()
	footer := components.Footer(m.width, bindings, "")
	status := components.StatusBar(m.width, m.status, m.isError)

	bodyH := m.height - lipgloss.Height(sections[0]) - lipgloss.Height(footer)
	if status != "" {
		bodyH -= lipgloss.Height(status)
	}
	bodyH = max(bodyH, 1)
	sections = append(sections, lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, body))
	if status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m settingsModel) renderTable() string {
	cols := []components.Column{{Title: "KEY", Width: 24}, {Title: "VALUE", Width: 38}}
	rows := make([][]string, len(m.keys))
	for i, spec := range m.keys {
		value := spec.Get(m.cfg)
		if value == "" {
			value = "(not set)"
		}
		rows[i] = []string{spec.Name, value}
	}
	cursor := m.cursor
	if m.edit {
		rows[m.cursor][1] = ""
		cursor = -1
	}
	table := components.Table(cols, rows, cursor, nil)

	detail := styles.MutedText.Italic(true).Render(m.keys[m.cursor].Description)
	if m.edit {
		detail = styles.Label.Render(m.keys[m.cursor].Name+": ") + m.editor.View()
	}
	return styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left, table, "", detail))
}
