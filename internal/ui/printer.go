package ui

import (
	"fmt"
	"io"
	"os"
)

// Printer centralizes non-frame output for scripted (subcommand) use.
// Uses ColorConfig for styling and provides helpers for common message types.
type Printer struct {
	Out    io.Writer
	Colors *ColorConfig
}

func NewPrinter() Printer {
	return Printer{Out: os.Stdout, Colors: NewColorConfig()}
}

// Textf prints formatted text.
func (p Printer) Textf(format string, a ...any) { fmt.Fprintf(p.Out, format, a...) }

// Success prints a success line with themed prefix.
func (p Printer) Success(msg string) {
	c := p.Colors
	if c.EmojiEnabled {
		fmt.Fprintf(p.Out, "%s %s\n", c.Success("✓"), msg)
	} else {
		fmt.Fprintf(p.Out, "%s %s\n", c.Success("[OK]"), msg)
	}
}

// Info prints an informational line.
func (p Printer) Info(msg string) {
	c := p.Colors
	if c.EmojiEnabled {
		fmt.Fprintln(p.Out, c.Info("ℹ"), msg)
	} else {
		fmt.Fprintln(p.Out, c.Info("[INFO]"), msg)
	}
}

// Warn prints a warning line.
func (p Printer) Warn(msg string) {
	c := p.Colors
	if c.EmojiEnabled {
		fmt.Fprintln(p.Out, c.Warning("!"), msg)
	} else {
		fmt.Fprintln(p.Out, c.Warning("[WARN]"), msg)
	}
}

// Error prints an error line.
func (p Printer) Error(msg string) {
	c := p.Colors
	if c.EmojiEnabled {
		fmt.Fprintln(p.Out, c.Error("✗"), msg)
	} else {
		fmt.Fprintln(p.Out, c.Error("[ERROR]"), msg)
	}
}
