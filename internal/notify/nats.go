package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"casa-nova-rsvp/internal/models"
)

// SubjectConfirmationCreated is the default NATS subject for new confirmations.
const SubjectConfirmationCreated = "rsvp.confirmation.created"

// ConfirmationCreated is the event payload published on NATS.
type ConfirmationCreated struct {
	EventID      string              `json:"event_id"`
	OccurredAt   time.Time           `json:"occurred_at"`
	Confirmation models.Confirmation `json:"confirmation"`
}

type natsConn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSNotifier publishes each confirmation as a JSON event.
type NATSNotifier struct {
	conn    natsConn
	subject string
}

// NewNATSNotifier connects to url. An empty url yields a disabled notifier.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	if subject == "" {
		subject = SubjectConfirmationCreated
	}
	if url == "" {
		return &NATSNotifier{subject: subject}, nil
	}

	nc, err := nats.Connect(url,
		nats.Name("casa-nova-rsvp"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSNotifier{conn: nc, subject: subject}, nil
}

func (n *NATSNotifier) Name() string { return "nats" }

func (n *NATSNotifier) Enabled() bool { return n.conn != nil }

func (n *NATSNotifier) Notify(ctx context.Context, c models.Confirmation) error {
	data, err := json.Marshal(ConfirmationCreated{
		EventID:      uuid.NewString(),
		OccurredAt:   time.Now().UTC(),
		Confirmation: c,
	})
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", n.subject, err)
	}
	return n.conn.FlushWithContext(ctx)
}

// Close closes the NATS connection, if any.
func (n *NATSNotifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}
