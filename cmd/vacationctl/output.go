package main

import (
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/warp/vacation-engine/vacation"
)

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiCyan   = "\033[36m"
	ansiDim    = "\033[2m"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// useColor reports whether w is a terminal and color was not turned off.
func useColor(w io.Writer) bool {
	if settings.GetBool("no-color") {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func colorStatus(s vacation.Status, color bool) string {
	if !color {
		return string(s)
	}
	var c string
	switch s {
	case vacation.StatusSelectedOK:
		c = ansiGreen
	case vacation.StatusSelectedWarning:
		c = ansiYellow
	case vacation.StatusSelectedOverdrawn:
		c = ansiRed
	case vacation.StatusHoliday:
		c = ansiCyan
	case vacation.StatusWeekend, vacation.StatusBeforeStart:
		c = ansiDim
	default:
		return string(s)
	}
	return c + string(s) + ansiReset
}
