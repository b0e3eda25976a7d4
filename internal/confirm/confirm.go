// Package confirm implements the double-confirm gate used before
// destructive actions.
package confirm

import (
	"fmt"

	"github.com/mudrikam/image-tea-installer/internal/frame"
	"github.com/mudrikam/image-tea-installer/internal/keys"
)

// Screen is the subset of the frame renderer the confirmation flow needs.
type Screen interface {
	Render(frame.Frame)
}

// Confirm renders a warning frame and reads one key per round until the
// action is confirmed requiredCount times in a row. 'y' confirms; 'n'
// resets the consecutive count to zero; a cancel key (esc, ctrl+c) or a
// read failure aborts. Returns true only after requiredCount consecutive
// confirmations with no reset in between.
func Confirm(screen Screen, in keys.Reader, action string, requiredCount int) bool {
	if requiredCount <= 0 {
		return true
	}

	count := 0
	for count < requiredCount {
		screen.Render(frame.Frame{
			Title: "CONFIRM",
			Body: []string{
				fmt.Sprintf("About to %s.", action),
				"This cannot be undone.",
				"",
				fmt.Sprintf("Confirmation %d of %d", count+1, requiredCount),
			},
			Footer: "Y = confirm   N = start over   Esc = cancel",
		})

		k, err := in.ReadKey()
		if err != nil {
			return false
		}
		switch k.Lower() {
		case 'y':
			count++
		case 'n':
			count = 0
		default:
			return false
		}
	}
	return true
}
