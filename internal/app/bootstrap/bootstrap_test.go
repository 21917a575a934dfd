package bootstrap

import (
	"context"
	"testing"
	"time"

	appconfig "github.com/clinicassist/appointment-agent/internal/config"
	"github.com/clinicassist/appointment-agent/internal/session"
	"github.com/clinicassist/appointment-agent/internal/validate"
	"github.com/clinicassist/appointment-agent/pkg/logging"
)

func TestBuildVerifierFormatOnly(t *testing.T) {
	v := BuildVerifier(&appconfig.Config{VerifyDeep: false}, logging.New("error"))

	if _, ok := v.(validate.FormatVerifier); !ok {
		t.Fatalf("expected FormatVerifier, got %T", v)
	}
	if !v.Deliverable(context.Background(), "a@b.com") {
		t.Error("format verifier should accept a syntactically valid address")
	}
}

func TestBuildVerifierDeep(t *testing.T) {
	cfg := &appconfig.Config{
		VerifyDeep:        true,
		VerifyHelloHost:   "localhost",
		VerifyFromAddress: "noreply@clinicassist.local",
		VerifyDNSTimeout:  time.Second,
		VerifySMTPTimeout: time.Second,
	}

	if _, ok := BuildVerifier(cfg, logging.New("error")).(*validate.SMTPVerifier); !ok {
		t.Fatal("expected SMTPVerifier when deep verification is enabled")
	}
}

func TestBuildEmailSenderStub(t *testing.T) {
	sender, err := BuildEmailSender(context.Background(), &appconfig.Config{EmailProvider: "stub"}, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender == nil {
		t.Fatal("expected a stub sender")
	}
}

func TestBuildEmailSenderSendGridRequiresKey(t *testing.T) {
	_, err := BuildEmailSender(context.Background(), &appconfig.Config{EmailProvider: "sendgrid"}, logging.New("error"))
	if err == nil {
		t.Fatal("expected error when SendGrid API key is missing")
	}
}

func TestBuildSessionStore(t *testing.T) {
	store, err := BuildSessionStore(&appconfig.Config{SessionBackend: "memory"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.(*session.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}

	if _, err := BuildSessionStore(&appconfig.Config{SessionBackend: "mongo"}); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}

func TestBuildLLMClientUnsupportedProvider(t *testing.T) {
	_, _, err := BuildLLMClient(context.Background(), &appconfig.Config{LLMProvider: "ollama"}, logging.New("error"))
	if err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}
