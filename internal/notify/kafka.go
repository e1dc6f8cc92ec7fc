package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jot/notes-backend/internal/config"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

// KafkaNotifier publishes mail events to a topic for an external mail
// worker to consume.
type KafkaNotifier struct {
	writer *kafka.Writer
}

// MailEvent is the wire shape consumed by the mail worker.
type MailEvent struct {
	Kind        string    `json:"kind"` // "deletion_scheduled" | "account_restored"
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	ExpiresAt   time.Time `json:"expiresAt,omitempty"`
	EmittedAt   time.Time `json:"emittedAt"`
}

func NewKafkaNotifier(cfg *config.Config) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.KafkaBroker),
			Topic:        cfg.KafkaTopic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: 10 * time.Second,
		},
	}
}

func (n *KafkaNotifier) DeletionScheduled(ctx context.Context, email, displayName string, expiresAt time.Time) error {
	return n.publish(ctx, MailEvent{
		Kind:        "deletion_scheduled",
		Email:       email,
		DisplayName: displayName,
		ExpiresAt:   expiresAt,
	})
}

func (n *KafkaNotifier) AccountRestored(ctx context.Context, email, displayName string) error {
	return n.publish(ctx, MailEvent{
		Kind:        "account_restored",
		Email:       email,
		DisplayName: displayName,
	})
}

func (n *KafkaNotifier) publish(ctx context.Context, event MailEvent) error {
	event.EmittedAt = time.Now().UTC()
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Email),
		Value: value,
		Time:  event.EmittedAt,
	})
	if err != nil {
		log.WithError(err).WithField("kind", event.Kind).Error("notify: kafka publish failed")
	}
	return err
}

// Close flushes and closes the underlying writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
