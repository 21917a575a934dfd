package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multistatusFixture = `<?xml version="1.0"?>
<multistatus xmlns="DAV:" xmlns:C="urn:ietf:params:xml:ns:caldav">
  <response>
    <href>/booking/calendar/one.ics</href>
    <propstat>
      <prop>
        <C:calendar-data>BEGIN:VCALENDAR
BEGIN:VEVENT
UID:one
SUMMARY:Existing appointment
DTSTART;TZID=Europe/Paris:20250705T100000
DTEND;TZID=Europe/Paris:20250705T103000
END:VEVENT
END:VCALENDAR</C:calendar-data>
      </prop>
    </propstat>
  </response>
  <response>
    <href>/booking/calendar/broken.ics</href>
    <propstat>
      <prop>
        <C:calendar-data>BEGIN:VCALENDAR
BEGIN:VEVENT
UID:broken
DTSTART:not-a-stamp
DTEND:20250705T110000
END:VEVENT
END:VCALENDAR</C:calendar-data>
      </prop>
    </propstat>
  </response>
</multistatus>`

func newTestClient(t *testing.T, handler http.Handler) *CalDAVClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewCalDAVClient(CalDAVConfig{
		BaseURL:    srv.URL + "/booking/calendar",
		Username:   "booking",
		Password:   "secret",
		TimeZoneID: "Europe/Paris",
	}, nil)
	require.NoError(t, err)
	return client
}

func TestFindEvents(t *testing.T) {
	var gotMethod, gotDepth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotDepth = r.Header.Get("Depth")
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "booking", user)
		assert.Equal(t, "secret", pass)

		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "calendar-query")
		assert.Contains(t, string(body), `start="20250705T000000Z"`)

		w.WriteHeader(http.StatusMultiStatus)
		fmt.Fprint(w, multistatusFixture)
	}))

	dayStart := time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC)
	events, err := client.FindEvents(context.Background(), dayStart, dayStart.AddDate(0, 0, 1))

	require.NoError(t, err)
	assert.Equal(t, "REPORT", gotMethod)
	assert.Equal(t, "1", gotDepth)

	// The broken entry is skipped, not fatal.
	require.Len(t, events, 1)
	assert.Equal(t, "one", events[0].UID)
	assert.True(t, events[0].Start.Equal(time.Date(2025, time.July, 5, 10, 0, 0, 0, time.UTC)))
}

func TestFindEventsServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.FindEvents(context.Background(), time.Now(), time.Now().Add(time.Hour))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestCreateEvent(t *testing.T) {
	var gotPath, gotContentType, gotBody string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusCreated)
	}))

	ev := Event{
		UID:     "new-booking",
		Summary: "Appointment booked via chatbot",
		Start:   time.Date(2025, time.July, 5, 10, 0, 0, 0, time.UTC),
		End:     time.Date(2025, time.July, 5, 10, 30, 0, 0, time.UTC),
	}
	err := client.CreateEvent(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, "/booking/calendar/new-booking.ics", gotPath)
	assert.Contains(t, gotContentType, "text/calendar")
	assert.Contains(t, gotBody, "UID:new-booking")
	assert.Contains(t, gotBody, "DTSTART;TZID=Europe/Paris:20250705T100000")
}

func TestCreateEventFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))

	err := client.CreateEvent(context.Background(), Event{UID: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestCreateEventRequiresUID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	err := client.CreateEvent(context.Background(), Event{})
	require.Error(t, err)
}

func TestNewCalDAVClientRequiresURL(t *testing.T) {
	_, err := NewCalDAVClient(CalDAVConfig{}, nil)
	require.Error(t, err)
}
