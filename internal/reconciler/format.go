package reconciler

import (
	"fmt"
	"strings"
	"time"
)

// FormatRemaining renders a countdown such as "2d 3h 0m 5s", dropping leading
// zero units. Non-positive durations render as "Ended".
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "Ended"
	}
	secs := int64(d / time.Second)
	if secs == 0 {
		secs = 1
	}
	parts := []struct {
		value int64
		unit  string
	}{
		{secs / 86400, "d"},
		{secs % 86400 / 3600, "h"},
		{secs % 3600 / 60, "m"},
		{secs % 60, "s"},
	}

	var b strings.Builder
	for _, p := range parts {
		if b.Len() == 0 && p.value == 0 && p.unit != "s" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d%s", p.value, p.unit)
	}
	return b.String()
}
