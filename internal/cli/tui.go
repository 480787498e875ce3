package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/evoviz/phylosim/pkg/config"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PresetListModel - Interactive preset selection
// =============================================================================

// PresetListModel is the bubbletea model for interactive preset selection.
type PresetListModel struct {
	Presets  []config.Preset
	Cursor   int
	Selected *config.Preset
}

// NewPresetListModel creates a new preset list model.
func NewPresetListModel(presets []config.Preset) PresetListModel {
	return PresetListModel{Presets: presets}
}

func (m PresetListModel) Init() tea.Cmd {
	return nil
}

func (m PresetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Presets)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = &m.Presets[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PresetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Preset"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ simulate  q quit"))
	b.WriteString("\n\n")

	for i, p := range m.Presets {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-12s  %s", cursor, p.Name,
			listDimStyle.Render(strings.Join(p.Taxa, ", ")))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")

		if i == m.Cursor && p.Description != "" {
			b.WriteString(listDimStyle.Render("    " + p.Description))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Presets))))

	return b.String()
}

// pickPreset runs the interactive preset picker and returns the selection,
// or nil if the user quit without choosing.
func pickPreset(presets []config.Preset) (*config.Preset, error) {
	if len(presets) == 0 {
		return nil, fmt.Errorf("no presets defined in config")
	}

	program := tea.NewProgram(NewPresetListModel(presets))
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("preset picker: %w", err)
	}

	m, ok := final.(PresetListModel)
	if !ok {
		return nil, nil
	}
	return m.Selected, nil
}
