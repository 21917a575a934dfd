package agent

import (
	"context"
	"errors"
	"time"

	"github.com/clinicassist/appointment-agent/internal/calendar"
	"github.com/clinicassist/appointment-agent/internal/nlu"
	"github.com/clinicassist/appointment-agent/internal/notify"
	"github.com/clinicassist/appointment-agent/internal/observability/metrics"
	"github.com/clinicassist/appointment-agent/internal/validate"
	"github.com/clinicassist/appointment-agent/pkg/logging"
)

// Classifier labels a user utterance with a booking intent.
type Classifier interface {
	Classify(ctx context.Context, utterance string) (nlu.Intent, error)
}

// Extractor pulls appointment slots out of a user utterance.
type Extractor interface {
	Extract(ctx context.Context, utterance string, today time.Time) (nlu.Slots, error)
}

// Responder generates short conversational replies.
type Responder interface {
	Reply(ctx context.Context, intent nlu.Intent, utterance string) (string, error)
}

// Config holds the dependencies and tuning knobs for an Engine.
type Config struct {
	Classifier Classifier
	Extractor  Extractor
	Responder  Responder
	Calendar   calendar.Client
	Email      notify.EmailSender
	Verifier   validate.Verifier

	Metrics *metrics.BookingMetrics
	Logger  *logging.Logger

	// Now supplies the current time; defaults to time.Now. Tests pin it.
	Now func() time.Time
	// SlotLength is the booked interval length; defaults to 30 minutes.
	SlotLength time.Duration
	// CallTimeout bounds each external call within a turn; defaults to 30s.
	CallTimeout time.Duration
}

// Engine runs the booking dialogue flow over a conversation state.
type Engine struct {
	classifier  Classifier
	extractor   Extractor
	responder   Responder
	calendar    calendar.Client
	email       notify.EmailSender
	verifier    validate.Verifier
	metrics     *metrics.BookingMetrics
	logger      *logging.Logger
	now         func() time.Time
	slotLength  time.Duration
	callTimeout time.Duration
}

// NewEngine validates the configuration and builds an Engine. Missing
// dependencies are a startup error, not a per-turn one.
func NewEngine(cfg Config) (*Engine, error) {
	switch {
	case cfg.Classifier == nil:
		return nil, errors.New("agent: classifier is required")
	case cfg.Extractor == nil:
		return nil, errors.New("agent: extractor is required")
	case cfg.Responder == nil:
		return nil, errors.New("agent: responder is required")
	case cfg.Calendar == nil:
		return nil, errors.New("agent: calendar client is required")
	case cfg.Email == nil:
		return nil, errors.New("agent: email sender is required")
	}
	if cfg.Verifier == nil {
		cfg.Verifier = validate.FormatVerifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SlotLength <= 0 {
		cfg.SlotLength = 30 * time.Minute
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	return &Engine{
		classifier:  cfg.Classifier,
		extractor:   cfg.Extractor,
		responder:   cfg.Responder,
		calendar:    cfg.Calendar,
		email:       cfg.Email,
		verifier:    cfg.Verifier,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		now:         cfg.Now,
		slotLength:  cfg.SlotLength,
		callTimeout: cfg.CallTimeout,
	}, nil
}

// Invoke runs one turn: it walks the stage graph from GreetUser until a
// stage leaves the conversation waiting for the user. Stage failures never
// escape; they become bot messages on the state.
func (e *Engine) Invoke(ctx context.Context, st *State) {
	e.metrics.ObserveTurn()

	stage := StageGreetUser
	for stage != StageEnd {
		e.metrics.ObserveStage(string(stage))
		switch stage {
		case StageGreetUser:
			e.greetUser(ctx, st)
		case StageCollectDetails:
			e.collectDetails(ctx, st)
		case StageConfirmBooking:
			e.confirmBooking(ctx, st)
		case StageCreateAppointment:
			e.createAppointment(ctx, st)
		}
		stage = Next(stage, st)
	}
}

// bounded derives a per-call context so a stuck backend cannot hang the
// whole turn.
func (e *Engine) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.callTimeout)
}
