package ui

import "fmt"

// FormatBytes formats a byte count into a human-readable size.
// Example: 10485760 -> "10.0 MB"
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for x := n / unit; x >= unit; x /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// FormatSpeed formats a bytes-per-second rate.
func FormatSpeed(bps float64) string {
	return FormatBytes(int64(bps)) + "/s"
}
