package agent

import (
	"context"
	"time"

	"github.com/clinicassist/appointment-agent/internal/calendar"
)

const (
	msgSlotTaken = "Unfortunately, that time slot is not available. Could you please choose a different time?"
	msgSlotFree  = "Great news! The time slot is available. Proceeding to book your appointment."

	msgMissingDateTime   = "I'm missing the date or time. Please provide the complete details."
	msgAvailabilityError = "Sorry, I couldn't check availability right now. Please try again in a moment."
)

// slotTimeLayout combines the collected date and time slots.
const slotTimeLayout = "2006-01-02T15:04"

func (e *Engine) confirmBooking(ctx context.Context, st *State) {
	if st.AwaitingUserResponse {
		return
	}
	if st.Date == "" || st.Time == "" {
		st.AddBotMessage(msgMissingDateTime)
		st.AwaitingUserResponse = true
		return
	}

	// Slot values were validated during collection, so this only fails if
	// state was corrupted between turns.
	start, err := time.Parse(slotTimeLayout, st.Date+"T"+st.Time)
	if err != nil {
		e.logger.Error("stored slots failed to parse", "date", st.Date, "time", st.Time, "error", err)
		st.Date, st.Time = "", ""
		st.AddBotMessage(msgMissingDateTime)
		st.AwaitingUserResponse = true
		return
	}
	end := start.Add(e.slotLength)

	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	cctx, cancel := e.bounded(ctx)
	events, err := e.calendar.FindEvents(cctx, dayStart, dayEnd)
	cancel()
	if err != nil {
		e.metrics.ObserveBackendFailure("calendar")
		e.logger.Error("availability check failed", "error", err)
		st.AddBotMessage(msgAvailabilityError)
		st.AwaitingUserResponse = true
		return
	}

	if calendar.Conflicts(events, start, end) {
		// Keep the date; only the time needs renegotiating.
		st.Time = ""
		st.AddBotMessage(msgSlotTaken)
		st.AwaitingUserResponse = true
		return
	}

	st.Confirmed = true
	st.AwaitingUserResponse = false
	st.AddBotMessage(msgSlotFree)
}
