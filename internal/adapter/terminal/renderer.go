// Package terminal renders display payloads for the command line.
package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"spreedly-bot/internal/domain/model"
)

var (
	goodLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	dangerLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("196"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	groupStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			MarginBottom(1)
)

// Render lays out each group as a bold label followed by "title: value" lines.
func Render(payload model.DisplayPayload) string {
	labelStyle := goodLabelStyle
	if payload.Accent == model.AccentDanger {
		labelStyle = dangerLabelStyle
	}

	blocks := make([]string, 0, len(payload.Groups))
	for _, group := range payload.Groups {
		lines := make([]string, 0, len(group.Fields))
		for _, field := range group.Fields {
			lines = append(lines, titleStyle.Render(field.Title+":")+" "+field.Text())
		}

		block := labelStyle.Render(group.Label)
		if len(lines) > 0 {
			block += "\n" + groupStyle.Render(strings.Join(lines, "\n"))
		}
		blocks = append(blocks, block)
	}

	return strings.Join(blocks, "\n")
}
