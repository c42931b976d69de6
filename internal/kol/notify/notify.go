// Package notify delivers onboarding emails. Delivery is best-effort:
// callers treat a failed send as a warning, never as a failed operation.
package notify

import (
	"context"
	"log/slog"
)

// Notifier sends transactional mail to invitees.
type Notifier interface {
	// SendInvite delivers the onboarding link to the recipient.
	SendInvite(ctx context.Context, email, link string) error

	// SendWelcome congratulates a newly finalized influencer.
	SendWelcome(ctx context.Context, email, name string) error
}

// LogNotifier writes notifications to the log instead of sending mail.
// Used in development and as the default when no mail provider is
// configured.
type LogNotifier struct {
	Logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) SendInvite(ctx context.Context, email, link string) error {
	n.Logger.Info("invite email (log only)",
		slog.String("to", email),
		slog.String("link", link),
	)
	return nil
}

func (n *LogNotifier) SendWelcome(ctx context.Context, email, name string) error {
	n.Logger.Info("welcome email (log only)",
		slog.String("to", email),
		slog.String("name", name),
	)
	return nil
}
