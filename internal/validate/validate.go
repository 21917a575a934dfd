// Package validate holds the slot validators for appointment booking: date
// range, time-of-day format, and email well-formedness plus deliverability.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the civil date format used throughout the booking flow.
const DateLayout = "2006-01-02"

// maxAdvanceDays bounds how far ahead an appointment may be booked.
const maxAdvanceDays = 365

// DateStatus classifies a candidate appointment date.
type DateStatus string

const (
	DateValid   DateStatus = "valid"
	DatePast    DateStatus = "past"
	DateTooFar  DateStatus = "too_far"
	DateInvalid DateStatus = "invalid"
)

// Date classifies a YYYY-MM-DD string relative to today. Dates strictly
// before today are past; dates more than a year ahead are too far.
func Date(s string, today time.Time) DateStatus {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return DateInvalid
	}
	year, month, day := today.Date()
	todayCivil := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Before(todayCivil) {
		return DatePast
	}
	if d.After(todayCivil.AddDate(0, 0, maxAdvanceDays)) {
		return DateTooFar
	}
	return DateValid
}

// Time reports whether s is a wall-clock time of the form HH:MM with hour in
// [0,23] and minute in [0,59].
func Time(s string) bool {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// EmailFormat reports whether s has a local@domain.tld shape. This is the
// cheap syntactic gate; deliverability is checked separately.
func EmailFormat(s string) bool {
	return emailPattern.MatchString(s)
}
