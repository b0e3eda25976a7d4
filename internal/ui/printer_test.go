package ui

import (
	"bytes"
	"strings"
	"testing"
)

func testPrinter(buf *bytes.Buffer) Printer {
	return Printer{
		Out:    buf,
		Colors: &ColorConfig{Enabled: false, EmojiEnabled: false, Theme: DefaultTheme()},
	}
}

func TestPrinter(t *testing.T) {
	t.Run("Textf writes formatted text verbatim", func(t *testing.T) {
		var buf bytes.Buffer
		testPrinter(&buf).Textf("v%s (%s)\n", "1.2.3", "abc")
		if buf.String() != "v1.2.3 (abc)\n" {
			t.Errorf("Textf output = %q", buf.String())
		}
	})

	t.Run("message helpers carry their prefixes", func(t *testing.T) {
		tests := []struct {
			name   string
			print  func(Printer)
			prefix string
		}{
			{"success", func(p Printer) { p.Success("done") }, "[OK]"},
			{"info", func(p Printer) { p.Info("note") }, "[INFO]"},
			{"warn", func(p Printer) { p.Warn("careful") }, "[WARN]"},
			{"error", func(p Printer) { p.Error("broken") }, "[ERROR]"},
		}
		for _, tt := range tests {
			var buf bytes.Buffer
			tt.print(testPrinter(&buf))
			if !strings.HasPrefix(buf.String(), tt.prefix) {
				t.Errorf("%s output %q does not start with %s", tt.name, buf.String(), tt.prefix)
			}
		}
	})
}
