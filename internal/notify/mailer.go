package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/jot/notes-backend/internal/config"
	log "github.com/sirupsen/logrus"
)

// Mailer sends notices over SMTP.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPass,
		from:     cfg.SMTPFrom,
	}
}

func (m *Mailer) DeletionScheduled(_ context.Context, email, displayName string, expiresAt time.Time) error {
	subject := "Your account has been deleted"
	body := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Your account and its notes were deleted as requested. "+
			"You can reactivate it by signing in with this email address before <b>%s</b>. "+
			"After that everything is permanently removed.</p>",
		displayName, expiresAt.Format("2 January 2006 15:04 MST"))
	return m.send(email, subject, body)
}

func (m *Mailer) AccountRestored(_ context.Context, email, displayName string) error {
	subject := "Welcome back"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your account and all archived notes have been restored.</p>",
		displayName)
	return m.send(email, subject, body)
}

func (m *Mailer) send(to, subject, body string) error {
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		to, m.from, subject, body))

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		log.WithError(err).WithField("to", to).Error("notify: smtp send failed")
		return err
	}
	return nil
}
