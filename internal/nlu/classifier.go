package nlu

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinicassist/appointment-agent/internal/llm"
	"github.com/clinicassist/appointment-agent/pkg/logging"
)

const classifierSystemPrompt = `You are an intent classification assistant for an appointment booking chatbot.

Classify the user's message as exactly one of the following intents:
1. GREETING - The user is greeting you.
2. APPOINTMENT_REQUEST - The user wants to book an appointment but gives NO specific date/time/email.
3. APPOINTMENT_DETAILS - The user provides specific date, time, or email info.
4. OTHER - Everything else.

IMPORTANT RULE:
If the message contains ANY date, time, or email, even if it also includes a request to book, classify it as APPOINTMENT_DETAILS.
Only classify as APPOINTMENT_REQUEST if NO date, time or email is present.
Respond ONLY with the intent label.`

var classifierExamples = []struct {
	message string
	answer  Intent
}{
	{"hi", IntentGreeting},
	{"I'd like to book something", IntentAppointmentRequest},
	{"I want to book an appointment", IntentAppointmentRequest},
	{"I want to book an appointment on August 15 at 9 am", IntentAppointmentDetails},
	{"15 August at 9 am", IntentAppointmentDetails},
	{"Please book me for 2025-07-05 10:00", IntentAppointmentDetails},
	{"Email: user@example.com", IntentAppointmentDetails},
	{"What's the weather today?", IntentOther},
}

// Classifier labels user utterances with a booking intent using an LLM.
type Classifier struct {
	llm    llm.Client
	logger *logging.Logger
}

// NewClassifier creates an intent classifier backed by the given LLM client.
func NewClassifier(client llm.Client, logger *logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &Classifier{llm: client, logger: logger}
}

// Classify returns the canonical intent for the utterance. An empty model
// response is an error so the caller can fall back to an apology.
func (c *Classifier) Classify(ctx context.Context, utterance string) (Intent, error) {
	var b strings.Builder
	for _, ex := range classifierExamples {
		fmt.Fprintf(&b, "Message: %s\nAnswer: %s\n\n", ex.message, ex.answer)
	}
	fmt.Fprintf(&b, "Message: %s\nAnswer:", utterance)

	resp, err := c.llm.Complete(ctx, llm.Request{
		System: []string{classifierSystemPrompt},
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: b.String()},
		},
		MaxTokens:   16,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("nlu: intent classification failed: %w", err)
	}

	raw := strings.TrimSpace(resp.Text)
	if raw == "" {
		return "", fmt.Errorf("nlu: classifier returned empty response")
	}

	intent := NormalizeIntent(raw)
	c.logger.Debug("classified intent", "raw", raw, "intent", string(intent))
	return intent, nil
}
