package mocks

import (
	"context"
	"sync"
)

// SentMail records a single call to MockMailer.Send.
type SentMail struct {
	Sender    string
	Recipient string
	Subject   string
	HTMLBody  string
}

// MockMailer implements mail.Mailer for testing
type MockMailer struct {
	// SendFn allows test cases to mock the Send behavior
	SendFn func(ctx context.Context, sender, recipient, subject, htmlBody string) error

	// SendErr is returned by the default implementation when set
	SendErr error

	mu   sync.Mutex
	sent []SentMail
}

// Send implements the mail.Mailer interface, recording every call.
func (m *MockMailer) Send(ctx context.Context, sender, recipient, subject, htmlBody string) error {
	m.mu.Lock()
	m.sent = append(m.sent, SentMail{
		Sender:    sender,
		Recipient: recipient,
		Subject:   subject,
		HTMLBody:  htmlBody,
	})
	m.mu.Unlock()

	if m.SendFn != nil {
		return m.SendFn(ctx, sender, recipient, subject, htmlBody)
	}

	return m.SendErr
}

// Sent returns a copy of all recorded sends.
func (m *MockMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}
