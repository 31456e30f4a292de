package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/iccs-ops/apr-portal/pkg/common/logger"
)

// Notifier alerts the operator about cleaning failures. Implementations are
// best-effort: callers log and swallow errors, they never escalate.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// SMTPNotifier sends plain-text mail to a fixed operator recipient.
type SMTPNotifier struct {
	addr      string
	from      string
	recipient string
}

func NewSMTPNotifier(host, port, from, recipient string) *SMTPNotifier {
	return &SMTPNotifier{
		addr:      fmt.Sprintf("%s:%s", host, port),
		from:      from,
		recipient: recipient,
	}
}

func (n *SMTPNotifier) Notify(ctx context.Context, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + n.recipient,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(n.addr, nil, n.from, []string{n.recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"recipient": n.recipient,
		"subject":   subject,
	}).Info("Operator notification sent")
	return nil
}

// NopNotifier discards notifications; used in tests and local development.
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, subject, body string) error {
	return nil
}
