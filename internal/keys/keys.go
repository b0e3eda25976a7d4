// Package keys reads single keystrokes from the terminal without line
// buffering or echo. Raw mode is acquired for the duration of one read and
// restored on every exit path; golang.org/x/term hides the per-OS
// mechanism (termios, the Windows console API, plan9).
package keys

import (
	"fmt"
	"io"
	"os"
	"unicode"

	"golang.org/x/term"
)

// Key is one keystroke, case preserved.
type Key rune

// Control keys the installer recognizes.
const (
	KeyCtrlC Key = 0x03
	KeyEsc   Key = 0x1b
	KeyEnter Key = '\r'
)

// Lower returns the key folded to lower case for case-insensitive matching.
func (k Key) Lower() Key { return Key(unicode.ToLower(rune(k))) }

// IsCancel reports whether the key is a hard-cancel keystroke.
func (k Key) IsCancel() bool { return k == KeyCtrlC || k == KeyEsc }

func (k Key) String() string {
	switch k {
	case KeyCtrlC:
		return "ctrl+c"
	case KeyEsc:
		return "esc"
	case KeyEnter:
		return "enter"
	default:
		return string(rune(k))
	}
}

// Reader blocks until one keystroke is available.
type Reader interface {
	ReadKey() (Key, error)
}

type termReader struct {
	in *os.File
}

// NewTerminal returns a Reader bound to stdin.
func NewTerminal() Reader {
	return &termReader{in: os.Stdin}
}

// ReadKey reads exactly one keystroke. The terminal is placed into raw
// (non-canonical, non-echoing) mode only while the read is in flight;
// prior settings are restored even when the read fails.
func (r *termReader) ReadKey() (Key, error) {
	fd := int(r.in.Fd())

	if !term.IsTerminal(fd) {
		// Piped input: consume one byte, no mode to change
		return r.readByte()
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return 0, fmt.Errorf("enter raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, state) }()

	return r.readByte()
}

func (r *termReader) readByte() (Key, error) {
	var buf [1]byte
	n, err := r.in.Read(buf[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return Key(buf[0]), nil
}

// Scripted is a Reader fed from a fixed key sequence, for tests. It
// returns io.EOF once the sequence is exhausted.
type Scripted struct {
	keys []Key
	pos  int
}

// Script builds a Scripted reader from the characters of s.
func Script(s string) *Scripted {
	ks := make([]Key, 0, len(s))
	for _, r := range s {
		ks = append(ks, Key(r))
	}
	return &Scripted{keys: ks}
}

func (s *Scripted) ReadKey() (Key, error) {
	if s.pos >= len(s.keys) {
		return 0, io.EOF
	}
	k := s.keys[s.pos]
	s.pos++
	return k, nil
}

// Remaining reports how many scripted keys were not consumed.
func (s *Scripted) Remaining() int { return len(s.keys) - s.pos }
