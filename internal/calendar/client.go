package calendar

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/clinicassist/appointment-agent/pkg/logging"
)

// Client is the calendar backend surface the booking flow needs: search a
// window for events and create a new one. Both may fail on connectivity or
// auth problems.
type Client interface {
	FindEvents(ctx context.Context, start, end time.Time) ([]Event, error)
	CreateEvent(ctx context.Context, ev Event) error
}

// CalDAVClient implements Client against a CalDAV calendar collection.
type CalDAVClient struct {
	baseURL  string
	username string
	password string
	tzid     string
	http     *http.Client
	logger   *logging.Logger
}

// CalDAVConfig holds connection settings for a CalDAV collection.
type CalDAVConfig struct {
	// BaseURL is the calendar collection URL, e.g.
	// http://radicale:5232/booking/calendar/
	BaseURL    string
	Username   string
	Password   string
	TimeZoneID string
	Timeout    time.Duration
}

// NewCalDAVClient creates a CalDAV calendar client.
func NewCalDAVClient(cfg CalDAVConfig, logger *logging.Logger) (*CalDAVClient, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errors.New("calendar: caldav base url is required")
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if cfg.TimeZoneID == "" {
		cfg.TimeZoneID = "Europe/Paris"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CalDAVClient{
		baseURL:  base,
		username: cfg.Username,
		password: cfg.Password,
		tzid:     cfg.TimeZoneID,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}, nil
}

const calendarQueryTemplate = `<?xml version="1.0" encoding="utf-8" ?>
<C:calendar-query xmlns:D="DAV:" xmlns:C="urn:ietf:params:xml:ns:caldav">
  <D:prop>
    <C:calendar-data/>
  </D:prop>
  <C:filter>
    <C:comp-filter name="VCALENDAR">
      <C:comp-filter name="VEVENT">
        <C:time-range start="%s" end="%s"/>
      </C:comp-filter>
    </C:comp-filter>
  </C:filter>
</C:calendar-query>`

type multistatusResponse struct {
	XMLName   xml.Name `xml:"multistatus"`
	Responses []struct {
		Href      string `xml:"href"`
		Propstats []struct {
			Prop struct {
				CalendarData string `xml:"calendar-data"`
			} `xml:"prop"`
		} `xml:"propstat"`
	} `xml:"response"`
}

// FindEvents issues a calendar-query REPORT for the given window and parses
// every VEVENT in the reply. Entries whose timestamps cannot be parsed are
// skipped rather than failing the whole lookup.
func (c *CalDAVClient) FindEvents(ctx context.Context, start, end time.Time) ([]Event, error) {
	body := fmt.Sprintf(calendarQueryTemplate,
		start.UTC().Format(stampLayout)+"Z",
		end.UTC().Format(stampLayout)+"Z",
	)

	req, err := http.NewRequestWithContext(ctx, "REPORT", c.baseURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("calendar: build report request: %w", err)
	}
	req.Header.Set("Content-Type", `application/xml; charset="utf-8"`)
	req.Header.Set("Depth", "1")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar: report request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("calendar: server returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("calendar: read report response: %w", err)
	}

	var ms multistatusResponse
	if err := xml.Unmarshal(raw, &ms); err != nil {
		return nil, fmt.Errorf("calendar: decode report response: %w", err)
	}

	var events []Event
	for _, entry := range ms.Responses {
		for _, propstat := range entry.Propstats {
			data := strings.TrimSpace(propstat.Prop.CalendarData)
			if data == "" {
				continue
			}
			ev, err := ParseEvent(data)
			if err != nil {
				c.logger.Warn("skipping unparseable calendar entry", "href", entry.Href, "error", err)
				continue
			}
			events = append(events, ev)
		}
	}

	c.logger.Debug("calendar query complete",
		"start", start.Format(time.RFC3339),
		"end", end.Format(time.RFC3339),
		"events", len(events),
	)
	return events, nil
}

// CreateEvent PUTs a rendered VCALENDAR under the event's UID.
func (c *CalDAVClient) CreateEvent(ctx context.Context, ev Event) error {
	if strings.TrimSpace(ev.UID) == "" {
		return errors.New("calendar: event uid is required")
	}

	payload := RenderEvent(ev, c.tzid)
	url := c.baseURL + ev.UID + ".ics"

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader([]byte(payload)))
	if err != nil {
		return fmt.Errorf("calendar: build put request: %w", err)
	}
	req.Header.Set("Content-Type", "text/calendar; charset=utf-8")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calendar: put request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("calendar: server returned status %d", resp.StatusCode)
	}

	c.logger.Info("calendar event created", "uid", ev.UID, "start", ev.Start.Format(time.RFC3339))
	return nil
}

func (c *CalDAVClient) authorize(req *http.Request) {
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}
}

var _ Client = (*CalDAVClient)(nil)
