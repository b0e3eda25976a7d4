package ui

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

var terminalInitialized bool

// InitTerminal configures the terminal to prevent escape sequence pollution.
// Must be called before any lipgloss usage so that termenv's OSC 11
// background color query does not leak its response into the frame output.
func InitTerminal() {
	if terminalInitialized {
		return
	}
	terminalInitialized = true

	// Pre-set COLORFGBG so termenv skips the OSC 11 background query.
	if os.Getenv("COLORFGBG") == "" {
		os.Setenv("COLORFGBG", "0;15")
	}

	// For TTY output, disable focus reporting and flush stale responses.
	// Terminals can send focus in/out events (^[[I/^[[O]) that would
	// otherwise be read back as keystrokes by the installer.
	if term.IsTerminal(int(os.Stdout.Fd())) {
		// Disable focus reporting (CSI ? 1004 l)
		fmt.Fprint(os.Stdout, "\033[?1004l")
		time.Sleep(20 * time.Millisecond)
		FlushStdinWithTimeout(150 * time.Millisecond)
	}
}

// ResetTerminal cleans up terminal state when the installer exits.
// Asynchronous terminal responses (cursor position reports, OSC responses)
// must not appear in the shell after the final frame.
func ResetTerminal() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}

	fmt.Fprint(os.Stdout, "\033[?1004l") // Disable focus reporting
	fmt.Fprint(os.Stdout, "\033[?25h")   // Show cursor
	fmt.Fprint(os.Stdout, "\r")

	time.Sleep(30 * time.Millisecond)
	FlushStdinWithTimeout(150 * time.Millisecond)
}
