package display

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"weathr/models"
)

// Styler decorates already padded table text. Implementations must not
// change the visible width of the text they are given.
type Styler interface {
	Title(s string) string
	DayHeading(s string) string
	ColumnHeading(s string) string
	Cell(col Column, sample models.DisplaySample, s string) string
}

// Plain leaves text untouched.
type Plain struct{}

func (Plain) Title(s string) string         { return s }
func (Plain) DayHeading(s string) string    { return s }
func (Plain) ColumnHeading(s string) string { return s }

func (Plain) Cell(_ Column, _ models.DisplaySample, s string) string { return s }

const (
	ansiReset     = "\x1b[0m"
	ansiBold      = "\x1b[1m"
	ansiDim       = "\x1b[2m"
	ansiUnderline = "\x1b[4m"
	ansiBlue      = "\x1b[34m"
	ansiCyan      = "\x1b[36m"
	ansiYellow    = "\x1b[33m"
)

// ANSI colors the table with terminal escape sequences.
type ANSI struct{}

func (ANSI) Title(s string) string         { return paint(s, ansiBold) }
func (ANSI) DayHeading(s string) string    { return paint(s, ansiBold+ansiCyan) }
func (ANSI) ColumnHeading(s string) string { return paint(s, ansiDim+ansiUnderline) }

func (ANSI) Cell(col Column, sample models.DisplaySample, s string) string {
	switch col {
	case ColDayHour:
		return paint(s, ansiBold)
	case ColRain:
		if sample.Precipitation() > 0 {
			return paint(s, ansiBlue)
		}
		return paint(s, ansiDim)
	case ColDescription:
		return paint(s, ansiYellow)
	default:
		return s
	}
}

func paint(s, code string) string {
	if s == "" {
		return s
	}
	return code + s + ansiReset
}

// Output picks the writer and styler for f. Color is used only when f is a
// terminal, NO_COLOR is unset and noColor is false.
func Output(f *os.File, noColor bool) (io.Writer, Styler) {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return f, Plain{}
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return f, Plain{}
	}
	return colorable.NewColorable(f), ANSI{}
}
