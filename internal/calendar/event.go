// Package calendar talks to a CalDAV server (Radicale or compatible) for
// availability lookups and appointment event creation.
package calendar

import "time"

// Event is one scheduled block on the clinic calendar.
type Event struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// Conflicts reports whether the half-open interval [start, end) overlaps any
// of the given events. Touching boundaries do not conflict.
func Conflicts(events []Event, start, end time.Time) bool {
	for _, ev := range events {
		latestStart := ev.Start
		if start.After(latestStart) {
			latestStart = start
		}
		earliestEnd := ev.End
		if end.Before(earliestEnd) {
			earliestEnd = end
		}
		if earliestEnd.After(latestStart) {
			return true
		}
	}
	return false
}
