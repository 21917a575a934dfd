package validate

import (
	"context"
	"net"
	"net/smtp"
	"sort"
	"strings"
	"time"

	"github.com/clinicassist/appointment-agent/pkg/logging"
)

// Verifier decides whether an email address plausibly accepts mail. Any
// verification failure means "not deliverable", never a fatal error.
type Verifier interface {
	Deliverable(ctx context.Context, addr string) bool
}

// FormatVerifier accepts any syntactically valid address. Used when deep
// verification is disabled.
type FormatVerifier struct{}

func (FormatVerifier) Deliverable(_ context.Context, addr string) bool {
	return EmailFormat(addr)
}

// SMTPVerifier performs a deep deliverability check: MX lookup for the
// domain (falling back to an A record) followed by an SMTP mailbox probe.
// Both phases run under their own bounded timeout.
type SMTPVerifier struct {
	helloHost   string
	fromAddress string
	dnsTimeout  time.Duration
	smtpTimeout time.Duration
	logger      *logging.Logger
}

// SMTPVerifierConfig holds tunables for the deep check.
type SMTPVerifierConfig struct {
	HelloHost   string
	FromAddress string
	DNSTimeout  time.Duration
	SMTPTimeout time.Duration
}

// NewSMTPVerifier creates a verifier with sane defaults for any zero-valued
// configuration field.
func NewSMTPVerifier(cfg SMTPVerifierConfig, logger *logging.Logger) *SMTPVerifier {
	if cfg.HelloHost == "" {
		cfg.HelloHost = "localhost"
	}
	if cfg.FromAddress == "" {
		cfg.FromAddress = "noreply@clinicassist.local"
	}
	if cfg.DNSTimeout <= 0 {
		cfg.DNSTimeout = 10 * time.Second
	}
	if cfg.SMTPTimeout <= 0 {
		cfg.SMTPTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SMTPVerifier{
		helloHost:   cfg.HelloHost,
		fromAddress: cfg.FromAddress,
		dnsTimeout:  cfg.DNSTimeout,
		smtpTimeout: cfg.SMTPTimeout,
		logger:      logger,
	}
}

// Deliverable checks format, the domain's mail exchanger, and mailbox
// acceptance. Every error path returns false.
func (v *SMTPVerifier) Deliverable(ctx context.Context, addr string) bool {
	if !EmailFormat(addr) {
		return false
	}
	domain := addr[strings.LastIndex(addr, "@")+1:]

	host, ok := v.lookupMailHost(ctx, domain)
	if !ok {
		v.logger.Debug("deliverability: no mail host for domain", "domain", domain)
		return false
	}

	if !v.probeMailbox(host, addr) {
		v.logger.Debug("deliverability: mailbox probe failed", "address", addr, "host", host)
		return false
	}
	return true
}

func (v *SMTPVerifier) lookupMailHost(ctx context.Context, domain string) (string, bool) {
	dnsCtx, cancel := context.WithTimeout(ctx, v.dnsTimeout)
	defer cancel()

	var resolver net.Resolver
	mxs, err := resolver.LookupMX(dnsCtx, domain)
	if err == nil && len(mxs) > 0 {
		sort.Slice(mxs, func(i, j int) bool { return mxs[i].Pref < mxs[j].Pref })
		return strings.TrimSuffix(mxs[0].Host, "."), true
	}

	// No MX record; RFC 5321 allows falling back to the domain itself.
	if _, err := resolver.LookupHost(dnsCtx, domain); err != nil {
		return "", false
	}
	return domain, true
}

func (v *SMTPVerifier) probeMailbox(host, addr string) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, "25"), v.smtpTimeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(v.smtpTimeout))

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return false
	}
	defer client.Close()

	if err := client.Hello(v.helloHost); err != nil {
		return false
	}
	if err := client.Mail(v.fromAddress); err != nil {
		return false
	}
	if err := client.Rcpt(addr); err != nil {
		return false
	}
	_ = client.Quit()
	return true
}

var (
	_ Verifier = FormatVerifier{}
	_ Verifier = (*SMTPVerifier)(nil)
)
