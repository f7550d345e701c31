// Package mail provides outbound email delivery for account verification
// and deadline reminders.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

// Mailer is the outbound email collaborator. Implementations deliver a
// single HTML message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, sender, recipient, subject, htmlBody string) error
}

// SESMailer implements Mailer on top of AWS Simple Email Service.
type SESMailer struct {
	client sesiface.SESAPI
	logger *slog.Logger
}

// NewSESMailer creates a Mailer backed by SES in the configured region.
// Credentials are resolved through the default AWS chain (env, shared
// config, instance role).
func NewSESMailer(cfg config.MailConfig, logger *slog.Logger) (*SESMailer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &SESMailer{
		client: ses.New(sess),
		logger: logger.With(slog.String("component", "ses_mailer")),
	}, nil
}

// Send implements Mailer using SES SendEmail.
func (m *SESMailer) Send(ctx context.Context, sender, recipient, subject, htmlBody string) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	input := &ses.SendEmailInput{
		Source: aws.String(sender),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(recipient)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{Data: aws.String(subject)},
			Body: &ses.Body{
				Html: &ses.Content{Data: aws.String(htmlBody)},
			},
		},
	}

	if _, err := m.client.SendEmailWithContext(ctx, input); err != nil {
		log.Error("failed to send email",
			slog.String("error", err.Error()),
			slog.String("subject", subject))
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info("email sent",
		slog.String("subject", subject))
	return nil
}

// LogMailer implements Mailer by logging instead of sending.
// Used when mail.dry_run is set and in tests.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a Mailer that only logs.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger.With(slog.String("component", "log_mailer"))}
}

// Send implements Mailer by recording the message at info level.
func (m *LogMailer) Send(ctx context.Context, sender, recipient, subject, htmlBody string) error {
	m.logger.Info("dry-run email",
		slog.String("sender", sender),
		slog.String("recipient", recipient),
		slog.String("subject", subject),
		slog.Int("body_bytes", len(htmlBody)))
	return nil
}
