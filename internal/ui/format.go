package ui

import (
	"fmt"
	"time"
)

// formatBytes renders a byte count in binary units, one decimal place.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(b)/float64(div), "KMGTPE"[exp])
}

// formatUptime renders a duration as "3d 04:12:33" or "04:12:33".
func formatUptime(d time.Duration) string {
	secs := int64(d.Seconds())
	if secs < 0 {
		secs = 0
	}
	days := secs / 86400
	secs %= 86400
	h := secs / 3600
	m := secs % 3600 / 60
	s := secs % 60
	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// pad returns s left-justified in a field of width n, truncating when
// it does not fit.
func pad(s string, n int) string {
	return fmt.Sprintf("%-*s", n, truncate(s, n))
}
