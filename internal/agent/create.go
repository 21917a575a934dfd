package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicassist/appointment-agent/internal/calendar"
	"github.com/clinicassist/appointment-agent/internal/notify"
)

const (
	msgMissingDetails = "Missing some details, so I can't create the appointment. Please provide the date, time, and email."
	msgCreateFailed   = "Sorry, I couldn't create the appointment. Please try again in a moment."
)

func (e *Engine) createAppointment(ctx context.Context, st *State) {
	if st.AwaitingUserResponse {
		return
	}
	if !st.SlotsComplete() {
		st.AddBotMessage(msgMissingDetails)
		st.AwaitingUserResponse = true
		return
	}

	start, err := time.Parse(slotTimeLayout, st.Date+"T"+st.Time)
	if err != nil {
		e.logger.Error("stored slots failed to parse", "date", st.Date, "time", st.Time, "error", err)
		st.AddBotMessage(msgCreateFailed)
		st.AwaitingUserResponse = true
		return
	}

	ev := calendar.Event{
		UID:         uuid.NewString(),
		Summary:     "Appointment booked via chatbot",
		Description: "Appointment booked by user " + st.Email,
		Start:       start,
		End:         start.Add(e.slotLength),
	}

	cctx, cancel := e.bounded(ctx)
	err = e.calendar.CreateEvent(cctx, ev)
	cancel()
	if err != nil {
		e.metrics.ObserveBackendFailure("calendar")
		e.logger.Error("calendar event creation failed", "error", err, "uid", ev.UID)
		st.AddBotMessage(msgCreateFailed)
		st.AwaitingUserResponse = true
		return
	}

	e.metrics.ObserveBooking()
	e.logger.Info("appointment created", "uid", ev.UID, "date", st.Date, "time", st.Time)

	msg := notify.EmailMessage{
		To:      st.Email,
		Subject: "Appointment Confirmation",
		Body: fmt.Sprintf(
			"Hello,\n\nYour appointment has been successfully booked.\n\nDate: %s\nTime: %s\n\nThank you!",
			st.Date, st.Time),
	}

	cctx, cancel = e.bounded(ctx)
	err = e.email.Send(cctx, msg)
	cancel()
	if err != nil {
		// The event stays booked; there is no rollback or notification retry.
		e.metrics.ObserveBackendFailure("email")
		e.logger.Error("confirmation email failed", "error", err, "uid", ev.UID, "to", st.Email)
		st.AddBotMessage(fmt.Sprintf(
			"Your appointment is booked for %s at %s, but I couldn't send the confirmation email to %s.",
			st.Date, st.Time, st.Email))
		st.AwaitingUserResponse = true
		return
	}

	st.AddBotMessage(fmt.Sprintf(
		"Your appointment is confirmed for %s at %s. A confirmation email has been sent to %s.",
		st.Date, st.Time, st.Email))
	st.AwaitingUserResponse = false
}
