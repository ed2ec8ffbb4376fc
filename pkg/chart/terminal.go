package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TerminalRenderer draws a pie as a horizontal proportion bar followed by a legend.
type TerminalRenderer struct {
	Width int
}

func NewTerminalRenderer() TerminalRenderer {
	return TerminalRenderer{Width: 40}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(neutralColor)).Italic(true)
)

func (r TerminalRenderer) Render(w io.Writer, p Pie) error {
	width := r.Width
	if width <= 0 {
		width = 40
	}

	lines := []string{titleStyle.Render(p.Title)}
	if p.Empty() {
		lines = append(lines,
			lipgloss.NewStyle().Foreground(lipgloss.Color(neutralColor)).Render(strings.Repeat("░", width)),
			mutedStyle.Render("No data"))
		_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
		return err
	}

	fractions := make([]float64, len(p.Slices))
	for i, s := range p.Slices {
		fractions[i] = s.Fraction
	}
	cells := apportion(fractions, width)

	var bar strings.Builder
	for i, s := range p.Slices {
		if cells[i] == 0 {
			continue
		}
		bar.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(strings.Repeat("█", cells[i])))
	}
	lines = append(lines, bar.String())

	percentages := p.Percentages()
	for i, s := range p.Slices {
		marker := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render("■")
		lines = append(lines, fmt.Sprintf("%s %s %s (%d%%)", marker, s.Label, s.Value.StringFixed(2), percentages[i]))
	}

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
