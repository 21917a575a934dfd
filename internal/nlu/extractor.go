package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/clinicassist/appointment-agent/internal/llm"
	"github.com/clinicassist/appointment-agent/pkg/logging"
)

const extractorSystemTemplate = `You extract appointment booking details from the user's message and return them as a JSON object. Today is %s. Return a JSON object with keys: date (YYYY-MM-DD), time (24h HH:MM), email. If any value is missing, use null. For dates, convert to YYYY-MM-DD format. For times, convert to 24-hour HH:MM format. For emails, extract any email address found in the message. If the date format is ambiguous (e.g., it's unclear which number is the day and which is the month), then return null for the date instead of guessing. Only extract the date if you are certain about the interpretation.`

// Slots holds the appointment details extracted from one utterance.
// A nil field means the utterance did not mention that detail.
type Slots struct {
	Date  *string `json:"date"`
	Time  *string `json:"time"`
	Email *string `json:"email"`
}

// Extractor pulls structured appointment slots out of free text using an LLM.
type Extractor struct {
	llm    llm.Client
	logger *logging.Logger
}

// NewExtractor creates a slot extractor backed by the given LLM client.
func NewExtractor(client llm.Client, logger *logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Extractor{llm: client, logger: logger}
}

// Extract returns the slot values the model found in the utterance. Today
// anchors relative dates like "next Tuesday". Malformed model output is an
// error the caller recovers from with a re-prompt.
func (e *Extractor) Extract(ctx context.Context, utterance string, today time.Time) (Slots, error) {
	user := fmt.Sprintf("Message: %s\n\nRespond only with the JSON object.\n\nExample: {\"date\": \"2025-07-05\", \"time\": \"15:00\", \"email\": \"example@example.com\"}", utterance)

	resp, err := e.llm.Complete(ctx, llm.Request{
		System: []string{fmt.Sprintf(extractorSystemTemplate, today.Format("2006-01-02"))},
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: user},
		},
		MaxTokens:   128,
		Temperature: 0,
	})
	if err != nil {
		return Slots{}, fmt.Errorf("nlu: slot extraction failed: %w", err)
	}

	// The model sometimes wraps the object in prose or code fences.
	content := strings.TrimSpace(resp.Text)
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}

	var slots Slots
	if err := json.Unmarshal([]byte(content), &slots); err != nil {
		e.logger.Warn("slot extraction returned malformed JSON", "error", err, "raw", resp.Text)
		return Slots{}, fmt.Errorf("nlu: parsing extraction response: %w", err)
	}

	e.logger.Debug("extracted slots",
		"date", stringOrEmpty(slots.Date),
		"time", stringOrEmpty(slots.Time),
		"email", stringOrEmpty(slots.Email))
	return slots, nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
