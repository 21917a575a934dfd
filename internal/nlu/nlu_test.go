package nlu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicassist/appointment-agent/internal/llm"
)

type fakeLLM struct {
	text string
	err  error
	last llm.Request
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.last = req
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Text: f.text}, nil
}

func TestNormalizeIntent(t *testing.T) {
	tests := []struct {
		raw  string
		want Intent
	}{
		{"GREETING", IntentGreeting},
		{"  greeting \n", IntentGreeting},
		{"APPOINTMENT_REQUEST", IntentAppointmentRequest},
		{"REQUEST_APPOINTMENT", IntentAppointmentRequest},
		{"APPOINTMENT_DETAILS", IntentAppointmentDetails},
		{"APPOINT_DETAILS", IntentAppointmentDetails},
		{"OTHER", IntentOther},
		{"BANANA", IntentOther},
		{"", IntentOther},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeIntent(tt.raw))
		})
	}
}

func TestClassify(t *testing.T) {
	fake := &fakeLLM{text: "APPOINT_DETAILS\n"}
	c := NewClassifier(fake, nil)

	intent, err := c.Classify(context.Background(), "book me for 2025-07-05 10:00")

	require.NoError(t, err)
	assert.Equal(t, IntentAppointmentDetails, intent)
	require.Len(t, fake.last.System, 1)
	assert.Contains(t, fake.last.System[0], "intent classification assistant")
	assert.Contains(t, fake.last.Messages[0].Content, "Message: book me for 2025-07-05 10:00\nAnswer:")
	assert.Equal(t, int32(16), fake.last.MaxTokens)
}

func TestClassifyEmptyResponse(t *testing.T) {
	c := NewClassifier(&fakeLLM{text: "   "}, nil)

	_, err := c.Classify(context.Background(), "hi")

	require.Error(t, err)
}

func TestClassifyError(t *testing.T) {
	c := NewClassifier(&fakeLLM{err: errors.New("model unavailable")}, nil)

	_, err := c.Classify(context.Background(), "hi")

	require.Error(t, err)
}

func TestExtract(t *testing.T) {
	fake := &fakeLLM{text: `{"date": "2025-07-05", "time": "10:00", "email": null}`}
	e := NewExtractor(fake, nil)
	today := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	slots, err := e.Extract(context.Background(), "book me for July 5 at 10", today)

	require.NoError(t, err)
	require.NotNil(t, slots.Date)
	assert.Equal(t, "2025-07-05", *slots.Date)
	require.NotNil(t, slots.Time)
	assert.Equal(t, "10:00", *slots.Time)
	assert.Nil(t, slots.Email)
	require.Len(t, fake.last.System, 1)
	assert.Contains(t, fake.last.System[0], "Today is 2025-07-01")
}

func TestExtractCarvesJSONFromProse(t *testing.T) {
	fake := &fakeLLM{text: "Here you go:\n```json\n{\"date\": null, \"time\": \"09:00\", \"email\": \"a@b.com\"}\n```"}
	e := NewExtractor(fake, nil)

	slots, err := e.Extract(context.Background(), "9 am, a@b.com", time.Now())

	require.NoError(t, err)
	assert.Nil(t, slots.Date)
	assert.Equal(t, "09:00", *slots.Time)
	assert.Equal(t, "a@b.com", *slots.Email)
}

func TestExtractMalformedJSON(t *testing.T) {
	e := NewExtractor(&fakeLLM{text: "sorry, I can't help with that"}, nil)

	_, err := e.Extract(context.Background(), "whatever", time.Now())

	require.Error(t, err)
}

func TestReply(t *testing.T) {
	fake := &fakeLLM{text: " Hi there! How can I help you book today? "}
	r := NewResponder(fake, nil)

	reply, err := r.Reply(context.Background(), IntentGreeting, "hello")

	require.NoError(t, err)
	assert.Equal(t, "Hi there! How can I help you book today?", reply)
	assert.Contains(t, fake.last.Messages[0].Content, "Intent: GREETING\nMessage: hello\nReply:")
}

func TestReplyEmptyResponse(t *testing.T) {
	r := NewResponder(&fakeLLM{text: ""}, nil)

	_, err := r.Reply(context.Background(), IntentGreeting, "hello")

	require.Error(t, err)
}
