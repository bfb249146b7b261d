package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func getTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	return t
}

// truncateCell bounds a cell's display width, accounting for wide runes.
func truncateCell(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// cellWidthBudget splits the terminal width across n flexible columns after
// reserving fixed space for borders and padding.
func cellWidthBudget(columns int) int {
	budget := (getTerminalWidth() - columns*3) / columns
	if budget < 12 {
		budget = 12
	}
	return budget
}
