package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Banner returns the startup panel. With color disabled only plain text and the border
// characters are emitted.
func Banner(color bool) string {
	title := termenv.String("Deckhand")
	hint := termenv.String("Type 'exit' or 'quit' to stop.")
	if color {
		p := termenv.ColorProfile()
		title = title.Foreground(p.Color("#38bdf8")).Bold()
		hint = hint.Foreground(p.Color("#94a3b8")).Faint()
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2)
	if color {
		panel = panel.BorderForeground(lipgloss.Color("#0ea5e9"))
	}

	return panel.Render(title.String() + "\n" + hint.String())
}

// PrintBanner writes the startup panel surrounded by blank lines.
func PrintBanner(w io.Writer, color bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, Banner(color))
	fmt.Fprintln(w)
}
