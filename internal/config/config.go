package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// LLM provider selection. Supported: "gemini", "bedrock". An optional
	// fallback provider is tried when the primary call fails.
	LLMProvider         string
	LLMFallbackProvider string
	GeminiAPIKey        string
	GeminiModelID       string
	BedrockModelID      string
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string

	// CalDAV calendar backend (Radicale or compatible).
	CalDAVURL      string
	CalDAVUsername string
	CalDAVPassword string
	CalDAVTimezone string
	CalDAVTimeout  time.Duration

	// Appointment slot length used for availability checks and events.
	SlotDuration time.Duration

	// Email provider selection. Supported: "sendgrid", "ses", "smtp", "stub".
	EmailProvider     string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	SESFromName       string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
	SMTPFromEmail     string

	// Email deliverability verification.
	VerifyDeep        bool
	VerifyHelloHost   string
	VerifyFromAddress string
	VerifyDNSTimeout  time.Duration
	VerifySMTPTimeout time.Duration

	// Conversation state storage. Supported: "memory", "redis".
	SessionBackend string
	RedisAddr      string
	RedisPassword  string
	SessionTTL     time.Duration

	// HTTP surface.
	CORSAllowedOrigins []string
	ChatRatePerSecond  float64
	ChatBurst          int
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LLMProvider:         strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "gemini"))),
		LLMFallbackProvider: strings.ToLower(strings.TrimSpace(getEnv("LLM_FALLBACK_PROVIDER", ""))),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:       getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		BedrockModelID:      getEnv("BEDROCK_MODEL_ID", ""),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),

		CalDAVURL:      getEnv("CALDAV_URL", ""),
		CalDAVUsername: getEnv("CALDAV_USERNAME", ""),
		CalDAVPassword: getEnv("CALDAV_PASSWORD", ""),
		CalDAVTimezone: getEnv("CALDAV_TIMEZONE", "Europe/Paris"),
		CalDAVTimeout:  getEnvAsDuration("CALDAV_TIMEOUT", 15*time.Second),

		SlotDuration: getEnvAsDuration("SLOT_DURATION", 30*time.Minute),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "ClinicAssist"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "ClinicAssist"),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:     getEnv("SMTP_FROM_EMAIL", ""),

		VerifyDeep:        getEnvAsBool("EMAIL_VERIFY_DEEP", false),
		VerifyHelloHost:   getEnv("EMAIL_VERIFY_HELO_HOST", "localhost"),
		VerifyFromAddress: getEnv("EMAIL_VERIFY_FROM", "noreply@clinicassist.local"),
		VerifyDNSTimeout:  getEnvAsDuration("EMAIL_VERIFY_DNS_TIMEOUT", 10*time.Second),
		VerifySMTPTimeout: getEnvAsDuration("EMAIL_VERIFY_SMTP_TIMEOUT", 10*time.Second),

		SessionBackend: strings.ToLower(strings.TrimSpace(getEnv("SESSION_BACKEND", "memory"))),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		SessionTTL:     getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS"),
		ChatRatePerSecond:  getEnvAsFloat("CHAT_RATE_PER_SECOND", 1),
		ChatBurst:          getEnvAsInt("CHAT_BURST", 5),
	}
}

// Validate reports missing or inconsistent required settings. Validation
// failures are fatal at startup; nothing here is recoverable per turn.
func (c *Config) Validate() error {
	var missing []string

	if strings.TrimSpace(c.CalDAVURL) == "" {
		missing = append(missing, "CALDAV_URL")
	}

	switch c.LLMProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	case "bedrock":
		if c.BedrockModelID == "" {
			missing = append(missing, "BEDROCK_MODEL_ID")
		}
	default:
		return fmt.Errorf("config: unsupported LLM_PROVIDER %q", c.LLMProvider)
	}

	switch c.LLMFallbackProvider {
	case "", "gemini", "bedrock":
	default:
		return fmt.Errorf("config: unsupported LLM_FALLBACK_PROVIDER %q", c.LLMFallbackProvider)
	}
	if c.LLMFallbackProvider == c.LLMProvider && c.LLMFallbackProvider != "" {
		return fmt.Errorf("config: LLM_FALLBACK_PROVIDER must differ from LLM_PROVIDER")
	}

	switch c.EmailProvider {
	case "sendgrid":
		if c.SendGridAPIKey == "" {
			missing = append(missing, "SENDGRID_API_KEY")
		}
		if c.SendGridFromEmail == "" {
			missing = append(missing, "SENDGRID_FROM_EMAIL")
		}
	case "ses":
		if c.SESFromEmail == "" {
			missing = append(missing, "SES_FROM_EMAIL")
		}
	case "smtp":
		if c.SMTPHost == "" {
			missing = append(missing, "SMTP_HOST")
		}
		if c.SMTPFromEmail == "" {
			missing = append(missing, "SMTP_FROM_EMAIL")
		}
	case "stub":
	default:
		return fmt.Errorf("config: unsupported EMAIL_PROVIDER %q", c.EmailProvider)
	}

	switch c.SessionBackend {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	default:
		return fmt.Errorf("config: unsupported SESSION_BACKEND %q", c.SessionBackend)
	}

	if len(missing) > 0 {
		return fmt.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsSlice(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
