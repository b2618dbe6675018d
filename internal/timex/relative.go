package timex

import (
	"fmt"
	"time"
)

// Relative renders t relative to now the way the library list shows it:
// "Today", "Yesterday", "N days ago" within a week, otherwise a short date.
func Relative(t, now time.Time) string {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	start := time.Date(y1, m1, d1, 0, 0, 0, 0, now.Location())
	end := time.Date(y2, m2, d2, 0, 0, 0, 0, now.Location())
	days := int(end.Sub(start).Hours() / 24)

	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case t.Year() == now.Year():
		return t.Format("Jan 2")
	default:
		return t.Format("Jan 2, 2006")
	}
}
