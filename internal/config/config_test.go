package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "stub", cfg.EmailProvider)
	assert.Equal(t, "memory", cfg.SessionBackend)
	assert.Equal(t, 30*time.Minute, cfg.SlotDuration)
	assert.Equal(t, 15*time.Second, cfg.CalDAVTimeout)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "Bedrock")
	t.Setenv("SLOT_DURATION", "45m")
	t.Setenv("SMTP_PORT", "25")
	t.Setenv("EMAIL_VERIFY_DEEP", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "bedrock", cfg.LLMProvider)
	assert.Equal(t, 45*time.Minute, cfg.SlotDuration)
	assert.Equal(t, 25, cfg.SMTPPort)
	assert.True(t, cfg.VerifyDeep)
}

func validConfig() *Config {
	return &Config{
		CalDAVURL:      "http://radicale:5232/booking/calendar/",
		LLMProvider:    "gemini",
		GeminiAPIKey:   "key",
		EmailProvider:  "stub",
		SessionBackend: "memory",
	}
}

func TestValidateOK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateMissingCalDAV(t *testing.T) {
	cfg := validConfig()
	cfg.CalDAVURL = "  "

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CALDAV_URL")
}

func TestValidateMissingProviderCredentials(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"gemini key", func(c *Config) { c.GeminiAPIKey = "" }, "GEMINI_API_KEY"},
		{"bedrock model", func(c *Config) { c.LLMProvider = "bedrock"; c.BedrockModelID = "" }, "BEDROCK_MODEL_ID"},
		{"sendgrid key", func(c *Config) { c.EmailProvider = "sendgrid" }, "SENDGRID_API_KEY"},
		{"smtp host", func(c *Config) { c.EmailProvider = "smtp" }, "SMTP_HOST"},
		{"redis addr", func(c *Config) { c.SessionBackend = "redis" }, "REDIS_ADDR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q should mention %s", err, tt.want)
		})
	}
}

func TestValidateUnsupportedProviders(t *testing.T) {
	cfg := validConfig()
	cfg.LLMProvider = "ollama"
	require.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.EmailProvider = "pigeon"
	require.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.LLMFallbackProvider = "gemini"
	require.Error(t, cfg.Validate())
}
