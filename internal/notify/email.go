package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"casa-nova-rsvp/internal/models"
)

// EmailConfig holds the mail relay settings and the organizer address.
type EmailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Recipient string
}

// EventInfo describes the event in message footers.
type EventInfo struct {
	Title string
	When  string
}

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier emails the organizer through an SMTP relay.
type EmailNotifier struct {
	cfg    EmailConfig
	event  EventInfo
	loc    *time.Location
	tmpl   *template.Template
	sender mailSender
}

// NewEmailNotifier creates an email notifier. Timestamps in the message body
// are rendered in loc.
func NewEmailNotifier(cfg EmailConfig, event EventInfo, loc *time.Location) *EmailNotifier {
	if loc == nil {
		loc = time.Local
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	// Port 465 speaks TLS from the first byte; anything else upgrades with STARTTLS.
	d.SSL = cfg.Port == 465
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}

	return &EmailNotifier{
		cfg:    cfg,
		event:  event,
		loc:    loc,
		tmpl:   template.Must(template.New("confirmation").Parse(confirmationTemplate)),
		sender: d,
	}
}

func (e *EmailNotifier) Name() string { return "email" }

// Enabled requires credentials, a relay host and a recipient.
func (e *EmailNotifier) Enabled() bool {
	return e.cfg.Host != "" && e.cfg.Username != "" && e.cfg.Password != "" && e.cfg.Recipient != ""
}

func (e *EmailNotifier) Notify(ctx context.Context, c models.Confirmation) error {
	m, err := e.message(c)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (e *EmailNotifier) message(c models.Confirmation) (*gomail.Message, error) {
	body, err := e.renderBody(c)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.cfg.Username)
	m.SetHeader("To", e.cfg.Recipient)
	m.SetHeader("Subject", Subject(c.Name))
	m.SetBody("text/html", body)
	return m, nil
}

func (e *EmailNotifier) renderBody(c models.Confirmation) (string, error) {
	data := map[string]interface{}{
		"Name":        c.Name,
		"ConfirmedAt": c.ConfirmedAt.In(e.loc).Format("02/01/2006 às 15:04"),
		"Status":      models.StatusConfirmed,
		"EventTitle":  e.event.Title,
		"EventWhen":   e.event.When,
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}

// Subject is the organizer email subject for a guest.
func Subject(name string) string {
	return fmt.Sprintf("✅ Nova Confirmação - %s", name)
}

const confirmationTemplate = `
<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2 style="color: #d4a5a5;">🎉 Nova Confirmação de Presença!</h2>
    <p><strong>Convidado:</strong> {{.Name}}</p>
    <p><strong>Data e Hora:</strong> {{.ConfirmedAt}}</p>
    <p><strong>Status:</strong> {{.Status}}</p>
    <hr>
    <p style="color: #888; font-size: 12px;">
        {{.EventTitle}}<br>
        {{.EventWhen}}
    </p>
</body>
</html>
`
