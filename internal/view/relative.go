package view

import (
	"fmt"
	"math"
	"time"
)

// Relative describes t against now in words, e.g. "5 minutes ago" or
// "in about 2 hours".
func Relative(t, now time.Time) string {
	d := now.Sub(t)
	future := d < 0
	if future {
		d = -d
	}
	words := distance(d)
	if future {
		return "in " + words
	}
	return words + " ago"
}

func distance(d time.Duration) string {
	switch {
	case d < 30*time.Second:
		return "less than a minute"
	case d < 90*time.Second:
		return "1 minute"
	case d < 44*time.Minute+30*time.Second:
		return fmt.Sprintf("%d minutes", int(math.Round(d.Minutes())))
	case d < 89*time.Minute+30*time.Second:
		return "about 1 hour"
	case d < 23*time.Hour+59*time.Minute+30*time.Second:
		return fmt.Sprintf("about %d hours", int(math.Round(d.Hours())))
	case d < 41*time.Hour+59*time.Minute+30*time.Second:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", int(math.Round(d.Hours()/24)))
	}
}
