package formatter

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderTable renders rows under a header line with no outer border.
// highlight, when >= 0, marks one data row in the accent color.
func RenderTable(headers []string, rows [][]string, highlight int) string {
	if len(headers) == 0 {
		return ""
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			base := lipgloss.NewStyle().PaddingRight(2)
			switch {
			case row == table.HeaderRow:
				return base.Inherit(StyleHeader)
			case row == highlight:
				return base.Inherit(StyleYellow).Bold(true)
			default:
				return base
			}
		})

	return t.Render() + "\n"
}
