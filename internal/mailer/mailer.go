package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"sync"
)

// Mailer delivers plain-text mail to a single recipient
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPConfig holds the SMTP relay settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// smtpMailer sends mail through a plain SMTP relay
type smtpMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	return nil
}

// ===== MOCK MAILER =====

// SentMail is one message recorded by the mock
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// MockMailer records messages in memory for tests. FailFor lists recipients
// whose sends should fail.
type MockMailer struct {
	mu      sync.Mutex
	sent    []SentMail
	FailFor map[string]bool
}

func NewMockMailer() *MockMailer {
	return &MockMailer{FailFor: make(map[string]bool)}
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailFor[to] {
		return fmt.Errorf("mock mail failure for %s", to)
	}

	m.sent = append(m.sent, SentMail{To: to, Subject: subject, Body: body})
	return nil
}

// SentMails returns a copy of every recorded message
func (m *MockMailer) SentMails() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// Clear drops all recorded messages
func (m *MockMailer) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = nil
}
