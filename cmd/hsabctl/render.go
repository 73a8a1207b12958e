package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorText   = lipgloss.Color("#FFFCF0")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	dimStyle    = lipgloss.NewStyle().Foreground(colorBorder)
	goodStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	badStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// table is a bordered text table for CLI output.
type table struct {
	title   string
	headers []string
	rows    [][]string
}

func renderTitle(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(50).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(titleStyle.Render(title))
}

func renderError(err error) string {
	return badStyle.Render("error: ") + err.Error()
}

// renderAmount colours negative amounts red.
func renderAmount(v float64) string {
	s := formatAmount(v)
	if v < 0 {
		return badStyle.Render(s)
	}
	return goodStyle.Render(s)
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f DH", v)
}

func renderTable(t table) string {
	if len(t.rows) == 0 {
		return "  " + headerStyle.Render(t.title) + "\n  " + dimStyle.Render("(none)") + "\n"
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	line := func(left, mid, right string) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return dimStyle.Render(left + strings.Join(parts, mid) + right)
	}
	cells := func(values []string, style lipgloss.Style) string {
		var b strings.Builder
		b.WriteString(dimStyle.Render("│"))
		for i, w := range widths {
			cell := ""
			if i < len(values) {
				cell = values[i]
			}
			pad := strings.Repeat(" ", w-lipgloss.Width(cell))
			b.WriteString(style.Render(" " + cell + pad + " "))
			b.WriteString(dimStyle.Render("│"))
		}
		return b.String()
	}

	var b strings.Builder
	if t.title != "" {
		b.WriteString("  " + headerStyle.Render(t.title) + "\n")
	}
	b.WriteString(line("╭", "┬", "╮") + "\n")
	b.WriteString(cells(t.headers, headerStyle) + "\n")
	b.WriteString(line("├", "┼", "┤") + "\n")
	for _, row := range t.rows {
		b.WriteString(cells(row, lipgloss.NewStyle()) + "\n")
	}
	b.WriteString(line("╰", "┴", "╯") + "\n")
	return b.String()
}
