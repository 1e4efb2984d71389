// Package mailer delivers account emails. The interface is small on purpose so
// handlers can be tested with a fake and a real provider can be swapped in
// later without touching the API layer.
package mailer

import (
	"context"
	"log"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
	SendNewAccount(ctx context.Context, email string) error
}

// LogMailer writes outgoing mail to the process log instead of an SMTP
// provider. Good enough for development and for tests.
type LogMailer struct{}

func NewLogMailer() *LogMailer { return &LogMailer{} }

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	log.Printf("mail.password_reset to=%s token=%s", email, token)
	return nil
}

func (m *LogMailer) SendNewAccount(ctx context.Context, email string) error {
	log.Printf("mail.new_account to=%s", email)
	return nil
}
