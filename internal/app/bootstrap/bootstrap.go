// Package bootstrap wires configuration into concrete dependencies so the
// API server and the terminal chatbot share one construction path.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/redis/go-redis/v9"

	"github.com/clinicassist/appointment-agent/internal/agent"
	"github.com/clinicassist/appointment-agent/internal/calendar"
	appconfig "github.com/clinicassist/appointment-agent/internal/config"
	"github.com/clinicassist/appointment-agent/internal/llm"
	"github.com/clinicassist/appointment-agent/internal/notify"
	"github.com/clinicassist/appointment-agent/internal/nlu"
	"github.com/clinicassist/appointment-agent/internal/observability/metrics"
	"github.com/clinicassist/appointment-agent/internal/session"
	"github.com/clinicassist/appointment-agent/internal/validate"
	"github.com/clinicassist/appointment-agent/pkg/logging"
)

// BuildLLMClient constructs the configured provider, optionally wrapped with
// a fallback provider. The returned func releases provider resources.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (llm.Client, func(), error) {
	closers := []func(){}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	build := func(provider string) (llm.Client, error) {
		switch provider {
		case "gemini":
			client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
			if err != nil {
				return nil, err
			}
			closers = append(closers, func() { _ = client.Close() })
			return client, nil
		case "bedrock":
			awsCfg, err := appconfig.LoadAWS(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return llm.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID), nil
		default:
			return nil, fmt.Errorf("bootstrap: unsupported LLM provider %q", provider)
		}
	}

	primary, err := build(cfg.LLMProvider)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	if cfg.LLMFallbackProvider == "" {
		return primary, closeAll, nil
	}

	fallback, err := build(cfg.LLMFallbackProvider)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return llm.NewFallbackClient(primary, fallback, logger), closeAll, nil
}

// BuildEmailSender constructs the configured notification backend.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, error) {
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			return nil, fmt.Errorf("bootstrap: sendgrid sender not configured")
		}
		return sender, nil
	case "ses":
		awsCfg, err := appconfig.LoadAWS(ctx, cfg)
		if err != nil {
			return nil, err
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
		if sender == nil {
			return nil, fmt.Errorf("bootstrap: SES sender not configured")
		}
		return sender, nil
	case "smtp":
		sender := notify.NewSMTPSender(notify.SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUsername,
			Password:  cfg.SMTPPassword,
			FromEmail: cfg.SMTPFromEmail,
		}, logger)
		if sender == nil {
			return nil, fmt.Errorf("bootstrap: smtp sender not configured")
		}
		return sender, nil
	default:
		return notify.NewStubEmailSender(logger), nil
	}
}

// BuildVerifier selects deep (DNS+SMTP) or format-only email verification.
func BuildVerifier(cfg *appconfig.Config, logger *logging.Logger) validate.Verifier {
	if !cfg.VerifyDeep {
		return validate.FormatVerifier{}
	}
	return validate.NewSMTPVerifier(validate.SMTPVerifierConfig{
		HelloHost:   cfg.VerifyHelloHost,
		FromAddress: cfg.VerifyFromAddress,
		DNSTimeout:  cfg.VerifyDNSTimeout,
		SMTPTimeout: cfg.VerifySMTPTimeout,
	}, logger)
}

// BuildSessionStore selects the conversation state backend.
func BuildSessionStore(cfg *appconfig.Config) (session.Store, error) {
	switch cfg.SessionBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		return session.NewRedisStore(client, cfg.SessionTTL, nil), nil
	case "memory":
		return session.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("bootstrap: unsupported session backend %q", cfg.SessionBackend)
	}
}

// BuildEngine assembles the dialogue engine from configuration.
func BuildEngine(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, m *metrics.BookingMetrics) (*agent.Engine, func(), error) {
	llmClient, closeLLM, err := BuildLLMClient(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	calendarClient, err := calendar.NewCalDAVClient(calendar.CalDAVConfig{
		BaseURL:    cfg.CalDAVURL,
		Username:   cfg.CalDAVUsername,
		Password:   cfg.CalDAVPassword,
		TimeZoneID: cfg.CalDAVTimezone,
		Timeout:    cfg.CalDAVTimeout,
	}, logger)
	if err != nil {
		closeLLM()
		return nil, nil, err
	}

	emailSender, err := BuildEmailSender(ctx, cfg, logger)
	if err != nil {
		closeLLM()
		return nil, nil, err
	}

	engine, err := agent.NewEngine(agent.Config{
		Classifier: nlu.NewClassifier(llmClient, logger),
		Extractor:  nlu.NewExtractor(llmClient, logger),
		Responder:  nlu.NewResponder(llmClient, logger),
		Calendar:   calendarClient,
		Email:      emailSender,
		Verifier:   BuildVerifier(cfg, logger),
		Metrics:    m,
		Logger:     logger,
		SlotLength: cfg.SlotDuration,
	})
	if err != nil {
		closeLLM()
		return nil, nil, err
	}
	return engine, closeLLM, nil
}
