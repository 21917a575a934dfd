package nlu

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinicassist/appointment-agent/internal/llm"
	"github.com/clinicassist/appointment-agent/pkg/logging"
)

const responderSystemPrompt = `You are a helpful appointment booking assistant.
You help users book appointments in a doctor's office.
Based on the user's intent and message, generate a short, friendly reply.
Keep it under 2 sentences. Be helpful and on-topic.`

var responderExamples = []struct {
	intent  Intent
	message string
	reply   string
}{
	{IntentGreeting, "hi", "Hi there! How can I assist you with booking an appointment today?"},
	{IntentAppointmentRequest, "I'd like to book something", "Sure! Could you please tell me the preferred date and time?"},
	{IntentAppointmentRequest, "I want to book an appointment. Is that possible?", "Absolutely! Please let me know the date and time you prefer, also please enter your email."},
	{IntentOther, "What's your favorite movie?", "I'm here to help with booking appointments. Could you tell me when you'd like one?"},
}

// Responder generates short contextual replies for conversational turns that
// don't advance the booking, like greetings.
type Responder struct {
	llm    llm.Client
	logger *logging.Logger
}

// NewResponder creates a reply generator backed by the given LLM client.
func NewResponder(client llm.Client, logger *logging.Logger) *Responder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Responder{llm: client, logger: logger}
}

// Reply generates a short on-topic reply for the given intent and utterance.
func (r *Responder) Reply(ctx context.Context, intent Intent, utterance string) (string, error) {
	var b strings.Builder
	for _, ex := range responderExamples {
		fmt.Fprintf(&b, "Intent: %s\nMessage: %s\nReply: %s\n\n", ex.intent, ex.message, ex.reply)
	}
	fmt.Fprintf(&b, "Intent: %s\nMessage: %s\nReply:", intent, utterance)

	resp, err := r.llm.Complete(ctx, llm.Request{
		System: []string{responderSystemPrompt},
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: b.String()},
		},
		MaxTokens:   128,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("nlu: reply generation failed: %w", err)
	}

	reply := strings.TrimSpace(resp.Text)
	if reply == "" {
		return "", fmt.Errorf("nlu: responder returned empty response")
	}
	return reply, nil
}
