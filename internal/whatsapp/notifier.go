package whatsapp

import (
	"context"
	"fmt"
	"time"

	"casa-nova-rsvp/internal/models"
)

type messenger interface {
	LoggedIn() bool
	SendMessage(ctx context.Context, phoneNumber, message string) error
}

// Notifier sends the organizer a WhatsApp message for each new confirmation.
type Notifier struct {
	service   messenger
	organizer string
	eventName string
	loc       *time.Location
}

// NewNotifier builds a notifier. A nil service or empty organizer phone
// leaves it disabled.
func NewNotifier(service *Service, organizerPhone, eventName string, loc *time.Location) *Notifier {
	n := &Notifier{organizer: organizerPhone, eventName: eventName, loc: loc}
	if service != nil {
		n.service = service
	}
	if n.loc == nil {
		n.loc = time.Local
	}
	return n
}

func (n *Notifier) Name() string { return "whatsapp" }

func (n *Notifier) Enabled() bool {
	return n.service != nil && n.organizer != "" && n.service.LoggedIn()
}

func (n *Notifier) Notify(ctx context.Context, c models.Confirmation) error {
	return n.service.SendMessage(ctx, n.organizer, n.message(c))
}

func (n *Notifier) message(c models.Confirmation) string {
	msg := fmt.Sprintf(
		"🎉 *Nova confirmação de presença!*\n\n"+
			"Convidado: *%s*\n"+
			"Data e Hora: %s\n"+
			"Status: %s",
		c.Name, c.ConfirmedAt.In(n.loc).Format("02/01/2006 às 15:04"), models.StatusConfirmed,
	)
	if n.eventName != "" {
		msg += "\n\n" + n.eventName
	}
	return msg
}
