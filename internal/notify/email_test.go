package notify

import (
	"context"
	"errors"
	"mime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"casa-nova-rsvp/internal/models"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

var testEvent = EventInfo{Title: "Chá de Casa Nova - Manu e Gabriel", When: "10 de Janeiro de 2026 | 13h"}

func newTestEmailNotifier(cfg EmailConfig) (*EmailNotifier, *fakeSender) {
	n := NewEmailNotifier(cfg, testEvent, time.UTC)
	sender := &fakeSender{}
	n.sender = sender
	return n, sender
}

func fullEmailConfig() EmailConfig {
	return EmailConfig{
		Host:      "smtp.gmail.com",
		Port:      587,
		Username:  "festa@example.com",
		Password:  "app-password",
		Recipient: "organizador@example.com",
	}
}

func TestEmailNotifier_Enabled(t *testing.T) {
	full := fullEmailConfig()
	n, _ := newTestEmailNotifier(full)
	assert.True(t, n.Enabled())

	for name, mutate := range map[string]func(*EmailConfig){
		"no host":      func(c *EmailConfig) { c.Host = "" },
		"no user":      func(c *EmailConfig) { c.Username = "" },
		"no password":  func(c *EmailConfig) { c.Password = "" },
		"no recipient": func(c *EmailConfig) { c.Recipient = "" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := full
			mutate(&cfg)
			n, _ := newTestEmailNotifier(cfg)
			assert.False(t, n.Enabled())
		})
	}
}

func TestEmailNotifier_Notify(t *testing.T) {
	n, sender := newTestEmailNotifier(fullEmailConfig())
	c := models.Confirmation{
		ID:          1,
		Name:        "Ana Souza",
		ConfirmedAt: time.Date(2026, 1, 3, 19, 45, 0, 0, time.UTC),
		Status:      models.StatusConfirmed,
	}

	require.NoError(t, n.Notify(context.Background(), c))
	require.Len(t, sender.sent, 1)

	m := sender.sent[0]
	require.Len(t, m.GetHeader("Subject"), 1)
	subject, err := new(mime.WordDecoder).DecodeHeader(m.GetHeader("Subject")[0])
	require.NoError(t, err)
	assert.Equal(t, "✅ Nova Confirmação - Ana Souza", subject)
	assert.Equal(t, []string{"organizador@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"festa@example.com"}, m.GetHeader("From"))

	body, err := n.renderBody(c)
	require.NoError(t, err)
	assert.Contains(t, body, "Ana Souza")
	assert.Contains(t, body, "03/01/2026 às 19:45")
	assert.Contains(t, body, "Status:</strong> Confirmado")
	assert.Contains(t, body, testEvent.Title)
}

func TestEmailNotifier_EscapesName(t *testing.T) {
	n, _ := newTestEmailNotifier(fullEmailConfig())

	body, err := n.renderBody(models.Confirmation{Name: "<script>x</script>", ConfirmedAt: time.Now()})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

func TestEmailNotifier_SendError(t *testing.T) {
	n, sender := newTestEmailNotifier(fullEmailConfig())
	sender.err = errors.New("dial tcp: i/o timeout")

	err := n.Notify(context.Background(), models.Confirmation{Name: "Ana Souza", ConfirmedAt: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "i/o timeout")
}

func TestEmailNotifier_ExpiredContext(t *testing.T) {
	n, sender := newTestEmailNotifier(fullEmailConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.Notify(ctx, models.Confirmation{Name: "Ana Souza", ConfirmedAt: time.Now()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sender.sent)
}
