package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
	"github.com/Vikas-Kain/TalentFlow/internal/session"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorGreen, "✓ "+msg))
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+msg))
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorYellow, "⚠ "+msg))
}

func printStatus(label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	l := colorize(colorBold, label+":")
	fmt.Fprintf(os.Stderr, "  %s %s\n", l, val)
}

func printStep(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorCyan, "→ "+msg))
}

// printNotice shows a session notification the way the matching print
// helper would.
func printNotice(n session.Notice) {
	text := n.Title
	if n.Message != "" {
		text += ": " + n.Message
	}
	switch n.Level {
	case session.LevelError:
		printError("%s", text)
	case session.LevelSuccess:
		printSuccess("%s", text)
	default:
		printStep("%s", text)
	}
}

const boardColumnWidth = 24

var stageColors = map[hiring.Stage]lipgloss.Color{
	hiring.StageApplied:  lipgloss.Color("12"),
	hiring.StageScreen:   lipgloss.Color("14"),
	hiring.StageTech:     lipgloss.Color("13"),
	hiring.StageFinal:    lipgloss.Color("11"),
	hiring.StageHired:    lipgloss.Color("10"),
	hiring.StageRejected: lipgloss.Color("9"),
}

// boardColumn is one rendered stage of the pipeline board.
type boardColumn struct {
	Stage hiring.Stage
	Names []string
	More  int
}

// renderBoard lays the columns out side by side in bordered boxes.
func renderBoard(cols []boardColumn) string {
	rendered := make([]string, len(cols))
	for i, col := range cols {
		header := lipgloss.NewStyle().Bold(true)
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(boardColumnWidth)
		if !noColor {
			header = header.Foreground(stageColors[col.Stage])
			box = box.BorderForeground(stageColors[col.Stage])
		}

		lines := []string{header.Render(fmt.Sprintf("%s (%d)", col.Stage, len(col.Names)+col.More))}
		for _, name := range col.Names {
			lines = append(lines, truncate(name, boardColumnWidth-2))
		}
		if col.More > 0 {
			lines = append(lines, fmt.Sprintf("… %d more", col.More))
		}
		rendered[i] = box.Render(strings.Join(lines, "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// renderTable aligns rows under a bold header.
func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	line := func(cells []string, style lipgloss.Style) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = style.Width(widths[i]).Render(cell)
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, "  "), " "))
		b.WriteByte('\n')
	}
	head := lipgloss.NewStyle()
	if !noColor {
		head = head.Bold(true).Underline(true)
	}
	line(header, head)
	for _, row := range rows {
		line(row, lipgloss.NewStyle())
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
