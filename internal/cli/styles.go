package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor = lipgloss.Color("#2196F3")
	successColor = lipgloss.Color("#4CAF50")
	errorColor   = lipgloss.Color("#f44336")
	subtleColor  = lipgloss.Color("#757575")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtleColor).
			Padding(0, 1)

	tableHeaderStyle = lipgloss.NewStyle().Bold(true)
)

const columnGap = 2

// renderTable writes rows under headers, each column as wide as its widest cell.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		rendered := make([]string, len(cells))
		for i, cell := range cells {
			rendered[i] = style.Width(widths[i] + columnGap).Render(cell)
		}
		return strings.TrimRight(strings.Join(rendered, ""), " ")
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, line(headers, tableHeaderStyle))
	for _, row := range rows {
		lines = append(lines, line(row, lipgloss.NewStyle()))
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

// orDash shows empty optional values.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return SubtleStyle.Render("-")
	}
	return s
}
