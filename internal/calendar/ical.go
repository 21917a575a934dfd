package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// stampLayout is the iCalendar local date-time form (no separators).
const stampLayout = "20060102T150405"

// RenderEvent produces a single-event VCALENDAR payload. The timezone
// identifier is attached verbatim to DTSTART/DTEND.
func RenderEvent(ev Event, tzid string) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//ClinicAssist//AppointmentAgent//EN\r\n")
	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(&b, "UID:%s\r\n", ev.UID)
	fmt.Fprintf(&b, "SUMMARY:%s\r\n", ev.Summary)
	if ev.Description != "" {
		fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", ev.Description)
	}
	fmt.Fprintf(&b, "DTSTART;TZID=%s:%s\r\n", tzid, ev.Start.Format(stampLayout))
	fmt.Fprintf(&b, "DTEND;TZID=%s:%s\r\n", tzid, ev.End.Format(stampLayout))
	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

// ParseEvent extracts UID, SUMMARY, DTSTART, and DTEND from raw iCalendar
// data. Timestamps are read as local wall-clock stamps; a trailing Z is
// tolerated and treated the same way.
func ParseEvent(raw string) (Event, error) {
	var ev Event
	var haveStart, haveEnd bool

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "DTSTART"):
			t, err := parseStamp(line)
			if err != nil {
				return Event{}, fmt.Errorf("calendar: bad DTSTART: %w", err)
			}
			ev.Start = t
			haveStart = true
		case strings.HasPrefix(line, "DTEND"):
			t, err := parseStamp(line)
			if err != nil {
				return Event{}, fmt.Errorf("calendar: bad DTEND: %w", err)
			}
			ev.End = t
			haveEnd = true
		case strings.HasPrefix(line, "UID:"):
			ev.UID = strings.TrimSpace(strings.TrimPrefix(line, "UID:"))
		case strings.HasPrefix(line, "SUMMARY:"):
			ev.Summary = strings.TrimSpace(strings.TrimPrefix(line, "SUMMARY:"))
		}
	}

	if !haveStart || !haveEnd {
		return Event{}, errors.New("calendar: event missing DTSTART or DTEND")
	}
	return ev, nil
}

// parseStamp reads the value after the last colon of a DTSTART/DTEND line,
// which skips any TZID parameter.
func parseStamp(line string) (time.Time, error) {
	val := line[strings.LastIndex(line, ":")+1:]
	val = strings.TrimSuffix(strings.TrimSpace(val), "Z")
	return time.Parse(stampLayout, val)
}
