package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, time.July, 5, hour, minute, 0, 0, time.UTC)
}

func TestConflicts(t *testing.T) {
	events := []Event{
		{Start: at(9, 0), End: at(9, 30)},
		{Start: at(14, 0), End: at(15, 0)},
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"inside an event", at(14, 15), at(14, 45), true},
		{"exact match", at(9, 0), at(9, 30), true},
		{"overlaps event start", at(8, 45), at(9, 15), true},
		{"overlaps event end", at(14, 45), at(15, 15), true},
		{"spans the whole event", at(13, 30), at(15, 30), true},
		{"free gap", at(10, 0), at(10, 30), false},
		{"touching event end", at(9, 30), at(10, 0), false},
		{"touching event start", at(13, 30), at(14, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Conflicts(events, tt.start, tt.end))
		})
	}
}

func TestConflictsNoEvents(t *testing.T) {
	assert.False(t, Conflicts(nil, at(10, 0), at(10, 30)))
}

func TestRenderEvent(t *testing.T) {
	ev := Event{
		UID:         "abc-123",
		Summary:     "Appointment booked via chatbot",
		Description: "Appointment booked by user a@b.com",
		Start:       at(10, 0),
		End:         at(10, 30),
	}

	raw := RenderEvent(ev, "Europe/Paris")

	assert.Contains(t, raw, "BEGIN:VCALENDAR")
	assert.Contains(t, raw, "UID:abc-123")
	assert.Contains(t, raw, "DTSTART;TZID=Europe/Paris:20250705T100000")
	assert.Contains(t, raw, "DTEND;TZID=Europe/Paris:20250705T103000")
	assert.Contains(t, raw, "DESCRIPTION:Appointment booked by user a@b.com")
	assert.True(t, strings.HasSuffix(raw, "END:VCALENDAR\r\n"))
}

func TestParseEventRoundTrip(t *testing.T) {
	ev := Event{
		UID:     "round-trip",
		Summary: "Checkup",
		Start:   at(11, 0),
		End:     at(11, 30),
	}

	parsed, err := ParseEvent(RenderEvent(ev, "Europe/Paris"))

	require.NoError(t, err)
	assert.Equal(t, "round-trip", parsed.UID)
	assert.Equal(t, "Checkup", parsed.Summary)
	assert.True(t, parsed.Start.Equal(ev.Start))
	assert.True(t, parsed.End.Equal(ev.End))
}

func TestParseEventUTCStamps(t *testing.T) {
	raw := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:utc-event",
		"DTSTART:20250705T090000Z",
		"DTEND:20250705T093000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	parsed, err := ParseEvent(raw)

	require.NoError(t, err)
	assert.True(t, parsed.Start.Equal(at(9, 0)))
	assert.True(t, parsed.End.Equal(at(9, 30)))
}

func TestParseEventMissingTimes(t *testing.T) {
	_, err := ParseEvent("BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nUID:x\r\nEND:VEVENT\r\nEND:VCALENDAR")
	require.Error(t, err)

	_, err = ParseEvent("DTSTART:garbage\r\nDTEND:20250705T093000")
	require.Error(t, err)
}
