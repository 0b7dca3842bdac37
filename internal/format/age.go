package format

import (
	"fmt"
	"time"
)

// Age renders how long ago t was, relative to now, in compact form:
// "now", "5m", "2h", "3d", "2w", "3mo".
func Age(t, now time.Time) string {
	return FormatAge(now.Sub(t))
}

// FormatAge renders a duration in the same compact form as Age.
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}

	days := int(d.Hours() / 24)
	switch {
	case days < 7:
		return fmt.Sprintf("%dd", days)
	case days < 30:
		return fmt.Sprintf("%dw", days/7)
	default:
		return fmt.Sprintf("%dmo", days/30)
	}
}
