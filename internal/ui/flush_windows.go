//go:build windows

package ui

import "time"

// FlushStdinWithTimeout is a no-op on Windows. The console API does not
// interleave terminal query responses with keyboard input the way VT
// terminals do, so there is nothing to discard.
func FlushStdinWithTimeout(timeout time.Duration) {}
