// Package notify delivers account-lifecycle notices. Every backend is
// fire-and-forget: delivery failure is logged and never propagates into the
// archival transactions that trigger it.
package notify

import (
	"context"
	"time"

	"github.com/jot/notes-backend/internal/config"
	log "github.com/sirupsen/logrus"
)

type Notifier interface {
	// DeletionScheduled confirms an account archival and tells the owner
	// until when reactivation stays possible.
	DeletionScheduled(ctx context.Context, email, displayName string, expiresAt time.Time) error
	// AccountRestored confirms a successful reactivation.
	AccountRestored(ctx context.Context, email, displayName string) error
}

// New picks a backend from config: SMTP when configured, else Kafka, else a
// log-only notifier.
func New(cfg *config.Config) Notifier {
	switch {
	case cfg.SMTPHost != "":
		return NewMailer(cfg)
	case cfg.KafkaBroker != "":
		return NewKafkaNotifier(cfg)
	default:
		log.Warn("notify: no SMTP or Kafka configured, notifications are log-only")
		return LogNotifier{}
	}
}

// LogNotifier writes notices to the log. Used in development and tests.
type LogNotifier struct{}

func (LogNotifier) DeletionScheduled(_ context.Context, email, displayName string, expiresAt time.Time) error {
	log.WithFields(log.Fields{
		"email":      email,
		"name":       displayName,
		"expires_at": expiresAt,
	}).Info("notify: deletion scheduled")
	return nil
}

func (LogNotifier) AccountRestored(_ context.Context, email, displayName string) error {
	log.WithFields(log.Fields{
		"email": email,
		"name":  displayName,
	}).Info("notify: account restored")
	return nil
}
