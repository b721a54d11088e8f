package format

import (
	"fmt"
	"time"
)

// FmtPercent renders a 0..1 fraction as "NN.N%". NaN-safe for missing values
// (negative input renders as "—").
func FmtPercent(frac float64) string {
	if frac < 0 {
		return "—"
	}
	return fmt.Sprintf("%.1f%%", frac*100)
}

// FmtCount formats a sample count with a K suffix for readability.
func FmtCount(n int) string {
	if n >= 10_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000.0)
	}
	return fmt.Sprintf("%d", n)
}

// FmtDuration formats a duration as "Xm Ys" or "Ys".
func FmtDuration(d time.Duration) string {
	s := int(d.Seconds())
	if s >= 60 {
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	}
	return fmt.Sprintf("%ds", s)
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
