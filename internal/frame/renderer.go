// Package frame draws the installer's bordered terminal UI. Repeated
// renders overwrite the previous frame in place so progress bars and menus
// animate instead of flooding the scrollback.
package frame

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/mudrikam/image-tea-installer/internal/ui"
)

const (
	// DefaultWidth is the outer frame width. Narrower terminals shrink
	// the frame down to MinWidth; the layout degrades but never crashes.
	DefaultWidth = 60
	MinWidth     = 24

	barWidth = 40
)

// Frame is one snapshot of the bordered UI.
type Frame struct {
	Title  string
	Body   []string
	Footer string
}

// Renderer draws frames onto a terminal (or any writer).
type Renderer struct {
	out        io.Writer
	isTTY      bool
	width      int
	lastLines  int
	lastUpdate time.Time

	box   lipgloss.Style
	title lipgloss.Style
	dim   lipgloss.Style
}

// NewRenderer creates a renderer for out. When out is a terminal, frames
// are redrawn in place; otherwise they are printed sequentially.
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}

	isTTY := false
	width := DefaultWidth
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
		if isTTY {
			if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 && w < width {
				width = w
			}
		}
	}
	if width < MinWidth {
		width = MinWidth
	}

	return &Renderer{
		out:   out,
		isTTY: isTTY,
		width: width,
		box:   lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(0, 1),
		title: lipgloss.NewStyle().Bold(true),
		dim:   lipgloss.NewStyle().Faint(true),
	}
}

// NewRendererSize creates a renderer with an explicit frame width,
// clamped to MinWidth. Used by tests and --no-tty style callers.
func NewRendererSize(out io.Writer, width int) *Renderer {
	r := NewRenderer(out)
	if width < MinWidth {
		width = MinWidth
	}
	r.width = width
	return r
}

// contentWidth is the space inside border and padding.
func (r *Renderer) contentWidth() int {
	return r.width - 4
}

// Render draws one frame, replacing the previous one when on a TTY.
func (r *Renderer) Render(f Frame) {
	r.lastUpdate = time.Now()
	cw := r.contentWidth()

	lines := make([]string, 0, len(f.Body)+4)
	if f.Title != "" {
		lines = append(lines, r.title.Render(center(truncate(f.Title, cw), cw)))
		lines = append(lines, r.dim.Render(strings.Repeat("─", cw)))
	}
	for _, b := range f.Body {
		lines = append(lines, truncate(b, cw))
	}
	if f.Footer != "" {
		lines = append(lines, "")
		lines = append(lines, r.dim.Render(truncate(f.Footer, cw)))
	}

	box := r.box.Width(cw + 2).Render(strings.Join(lines, "\n"))

	if r.isTTY && r.lastLines > 0 {
		// Reposition over the previous frame and erase downward
		fmt.Fprintf(r.out, "\033[%dA\r\033[J", r.lastLines)
	}
	fmt.Fprintln(r.out, box)
	// Fprintln leaves the cursor one row below the frame's last line, so
	// the distance back to the frame top equals the printed line count.
	r.lastLines = strings.Count(box, "\n") + 1
}

// RenderProgress draws the progress variant of a frame: a filled/empty bar
// with a percentage, plus byte counts when the total is known. Redraws are
// coalesced to at most ~10/s on a TTY, except for the final update.
func (r *Renderer) RenderProgress(title, phase string, done, total int64) {
	complete := total > 0 && done >= total
	if r.isTTY && !complete && time.Since(r.lastUpdate) < 100*time.Millisecond {
		return
	}

	frac := 0.0
	if total > 0 {
		frac = float64(done) / float64(total)
		if frac > 1 {
			frac = 1
		}
	}

	body := []string{phase, "", r.bar(frac, total > 0)}
	if total > 0 {
		body = append(body, fmt.Sprintf("%s / %s", ui.FormatBytes(done), ui.FormatBytes(total)))
	} else if done > 0 {
		body = append(body, ui.FormatBytes(done))
	}

	r.Render(Frame{Title: title, Body: body})
}

// RenderSteps is RenderProgress for discrete units (archive entries,
// files): the counter reads "12 / 60" instead of byte sizes.
func (r *Renderer) RenderSteps(title, phase string, done, total int64) {
	complete := total > 0 && done >= total
	if r.isTTY && !complete && time.Since(r.lastUpdate) < 100*time.Millisecond {
		return
	}

	frac := 0.0
	if total > 0 {
		frac = float64(done) / float64(total)
		if frac > 1 {
			frac = 1
		}
	}

	body := []string{phase, "", r.bar(frac, total > 0)}
	if total > 0 {
		body = append(body, fmt.Sprintf("%d / %d", done, total))
	}

	r.Render(Frame{Title: title, Body: body})
}

// bar builds the fixed-width █/░ progress bar line.
func (r *Renderer) bar(frac float64, known bool) string {
	w := barWidth
	if max := r.contentWidth() - 6; w > max {
		w = max
	}
	if w < 4 {
		w = 4
	}

	// The bar stays unstyled: body lines are truncated by rune count and
	// escape sequences would be cut mid-sequence on narrow terminals.
	if !known {
		return strings.Repeat("░", w) + "  …"
	}

	filled := int(frac * float64(w))
	if filled > w {
		filled = w
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", w-filled)
	return bar + fmt.Sprintf(" %3.0f%%", frac*100)
}

// Finish leaves the current frame on screen and resumes normal scrolling
// output below it.
func (r *Renderer) Finish() {
	r.lastLines = 0
}

func truncate(s string, w int) string {
	runes := []rune(s)
	if len(runes) <= w {
		return s
	}
	if w <= 1 {
		return string(runes[:w])
	}
	return string(runes[:w-1]) + "…"
}

func center(s string, w int) string {
	pad := w - len([]rune(s))
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s
}
