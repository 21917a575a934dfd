package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinicassist/appointment-agent/internal/validate"
)

const (
	msgRephrase   = "Sorry, I couldn't understand that. Could you please rephrase the date, time, and email?"
	msgDateTooFar = "That date is too far in the future. Could you please choose a date within the next 12 months?"
	msgDatePast   = "That date is in the past. Could you please choose a future date?"
)

func (e *Engine) collectDetails(ctx context.Context, st *State) {
	if st.AwaitingUserResponse {
		return
	}
	if st.SlotsComplete() {
		return
	}

	utterance := strings.TrimSpace(st.LastUserMessage())
	if utterance == "" {
		st.AddBotMessage(fmt.Sprintf("Please provide the appointment %s.", joinSlots(missingSlots(st))))
		st.AwaitingUserResponse = true
		return
	}

	// Bare-email fast path: a single token with @ and . is treated as the
	// email directly, no extraction call needed.
	if isBareEmail(utterance) {
		e.collectBareEmail(ctx, st, utterance)
		return
	}

	cctx, cancel := e.bounded(ctx)
	slots, err := e.extractor.Extract(cctx, utterance, e.now())
	cancel()
	if err != nil {
		e.metrics.ObserveLLMFailure("extract")
		e.logger.Error("slot extraction failed", "error", err)
		st.AddBotMessage(msgRephrase)
		st.AwaitingUserResponse = true
		return
	}

	// Known slots are never overwritten by a later extraction.
	if st.Date == "" && slots.Date != nil {
		st.Date = strings.TrimSpace(*slots.Date)
	}
	if st.Time == "" && slots.Time != nil {
		st.Time = strings.TrimSpace(*slots.Time)
	}
	if st.Email == "" && slots.Email != nil {
		st.Email = strings.TrimSpace(*slots.Email)
	}

	var invalid []string
	if st.Date != "" {
		switch validate.Date(st.Date, e.now()) {
		case validate.DateTooFar:
			st.Date = ""
			st.AddBotMessage(msgDateTooFar)
			st.AwaitingUserResponse = true
			return
		case validate.DatePast:
			st.Date = ""
			st.AddBotMessage(msgDatePast)
			st.AwaitingUserResponse = true
			return
		case validate.DateInvalid:
			invalid = append(invalid, "date")
			st.Date = ""
		}
	}
	if st.Time != "" && !validate.Time(st.Time) {
		invalid = append(invalid, "time")
		st.Time = ""
	}
	if st.Email != "" && !e.emailDeliverable(ctx, st.Email) {
		invalid = append(invalid, "email")
		st.Email = ""
	}

	if missing := missingSlots(st); len(missing) > 0 {
		st.AddBotMessage(missingPrompt(invalid, missing))
		st.AwaitingUserResponse = true
		return
	}

	// All three slots valid; fall through to availability confirmation.
	st.AwaitingUserResponse = false
}

func (e *Engine) collectBareEmail(ctx context.Context, st *State, candidate string) {
	if !e.emailDeliverable(ctx, candidate) {
		st.AddBotMessage(missingPrompt([]string{"email"}, missingSlots(st)))
		st.AwaitingUserResponse = true
		return
	}

	if st.Email == "" {
		st.Email = candidate
	}
	if missing := missingSlots(st); len(missing) > 0 {
		st.AddBotMessage(fmt.Sprintf(
			"Great! I have your email. I still need the appointment %s. Could you please provide that?",
			joinSlots(missing)))
		st.AwaitingUserResponse = true
		return
	}
	st.AwaitingUserResponse = false
}

func (e *Engine) emailDeliverable(ctx context.Context, addr string) bool {
	if !validate.EmailFormat(addr) {
		return false
	}
	cctx, cancel := e.bounded(ctx)
	defer cancel()
	return e.verifier.Deliverable(cctx, addr)
}

// isBareEmail reports whether the message is a single token that looks like
// an email address.
func isBareEmail(msg string) bool {
	return msg != "" &&
		!strings.ContainsAny(msg, " \t\n") &&
		strings.Contains(msg, "@") &&
		strings.Contains(msg, ".")
}

func missingSlots(st *State) []string {
	var missing []string
	if st.Date == "" {
		missing = append(missing, "date")
	}
	if st.Time == "" {
		missing = append(missing, "time")
	}
	if st.Email == "" {
		missing = append(missing, "email")
	}
	return missing
}

// joinSlots renders a slot-name list grammatically: "date", "date and time",
// "date, time, and email".
func joinSlots(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

func missingPrompt(invalid, missing []string) string {
	if len(invalid) > 0 {
		return fmt.Sprintf("I noticed some details seem invalid: %s. Could you please re-enter the %s?",
			joinSlots(invalid), joinSlots(missing))
	}
	return fmt.Sprintf("I still need the appointment %s. Could you please provide that?", joinSlots(missing))
}
