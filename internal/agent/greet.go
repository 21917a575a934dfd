package agent

import (
	"context"

	"github.com/clinicassist/appointment-agent/internal/nlu"
)

// OpeningGreeting is shown once before any user input. The host seeds it
// via State.SeedGreeting.
const OpeningGreeting = "Hello! I'm here to help you book an appointment. How can I assist you today?"

const (
	msgApology  = "Sorry, I couldn't process your message. Please try again."
	msgRedirect = "I can only help with booking appointments. Please tell me when you'd like to book and your email address."
)

// SeedGreeting queues the opening greeting on a fresh conversation. It is a
// no-op once any user message exists or the greeting was already sent.
func (s *State) SeedGreeting() {
	if s.GreetingSent || len(s.UserMessages) > 0 {
		return
	}
	s.AddBotMessage(OpeningGreeting)
	s.GreetingSent = true
}

func (e *Engine) greetUser(ctx context.Context, st *State) {
	if st.AwaitingUserResponse {
		return
	}
	if len(st.UserMessages) == 0 {
		st.AwaitingUserResponse = true
		return
	}

	utterance := st.LastUserMessage()

	cctx, cancel := e.bounded(ctx)
	intent, err := e.classifier.Classify(cctx, utterance)
	cancel()
	if err != nil {
		e.metrics.ObserveLLMFailure("classify")
		e.logger.Error("intent classification failed", "error", err)
		st.AddBotMessage(msgApology)
		st.AwaitingUserResponse = true
		return
	}

	st.LastUserIntent = string(intent)

	switch intent {
	case nlu.IntentGreeting, nlu.IntentAppointmentRequest:
		cctx, cancel := e.bounded(ctx)
		reply, err := e.responder.Reply(cctx, intent, utterance)
		cancel()
		if err != nil {
			e.metrics.ObserveLLMFailure("respond")
			e.logger.Error("reply generation failed", "error", err)
			reply = msgApology
		}
		st.AddBotMessage(reply)
		st.AwaitingUserResponse = true
	case nlu.IntentAppointmentDetails:
		// Fall through to detail collection in the same turn.
		st.AwaitingUserResponse = false
	default:
		st.AddBotMessage(msgRedirect)
		st.AwaitingUserResponse = true
	}
}
