package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuitale/internal/keyboard"
)

var (
	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Background(lipgloss.Color("#304890"))
	keyHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#103010")).
			Background(lipgloss.Color("#30C030")).
			Bold(true)
	keyGapStyle    = lipgloss.NewStyle()
	keyboardBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Padding(0, 1)
	keyboardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// renderKeyboard draws the layout grid with the key (and modifier) for
// the next expected character highlighted.
func renderKeyboard(layout *keyboard.Layout, next rune, hasNext bool) string {
	var loc keyboard.Location
	located := false
	if hasNext {
		loc, located = layout.Locate(next)
	}

	rows := make([]string, 0, len(layout.Base)+2)
	title := keyboardTitleStyle.Render("Layout - " + layout.Name + "  (ctrl+n: next, ctrl+h: hide)")
	rows = append(rows, title)
	for rowIdx, keys := range layout.Base {
		cells := make([]string, 0, len(keys))
		for colIdx, key := range keys {
			if key == 0 {
				cells = append(cells, keyGapStyle.Render("   "))
				continue
			}
			style := keyStyle
			if located && rowIdx == loc.Row && colIdx == loc.Col {
				style = keyHintStyle
			}
			cells = append(cells, style.Render(" "+string(key)+" "))
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	rows = append(rows, renderModifierRow(loc, located))

	return keyboardBorder.Render(strings.Join(rows, "\n"))
}

func renderModifierRow(loc keyboard.Location, located bool) string {
	labels := []keyboard.Modifier{keyboard.ModShift, keyboard.ModSym, keyboard.ModCur}
	cells := make([]string, 0, len(labels))
	for _, mod := range labels {
		style := keyStyle
		if located && loc.Modifier == mod {
			style = keyHintStyle
		}
		cells = append(cells, style.Render(" "+mod.String()+" "))
	}
	return strings.Join(cells, " ")
}
