package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"
)

// ErrNotLinked means no WhatsApp device has been paired yet.
var ErrNotLinked = errors.New("whatsapp device not linked, run `rsvp whatsapp link` first")

type Config struct {
	DataDir     string
	CountryCode string
}

// Service is a thin wrapper around a whatsmeow client session.
type Service struct {
	client *whatsmeow.Client
	cfg    *Config
	log    zerolog.Logger
}

// NewService opens (or creates) the device session stored under cfg.DataDir.
func NewService(ctx context.Context, cfg *Config, log zerolog.Logger) (*Service, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(cfg.DataDir, "whatsmeow.db"))
	// nil loggers make sqlstore and whatsmeow stay quiet
	container, err := sqlstore.New(ctx, "sqlite3", dsn, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	service := &Service{
		client: whatsmeow.NewClient(deviceStore, nil),
		cfg:    cfg,
		log:    log.With().Str("component", "whatsapp").Logger(),
	}
	service.client.AddEventHandler(service.eventHandler)

	return service, nil
}

// NormalizePhoneNumber strips punctuation and turns national numbers into
// international ones using countryCode. A leading trunk 0 is dropped, so
// Brazilian "011 91234-5678" and "(11) 91234-5678" both become 5511912345678.
func NormalizePhoneNumber(phoneNumber, countryCode string) string {
	phoneNumber = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phoneNumber)

	if phoneNumber == "" || countryCode == "" {
		return phoneNumber
	}
	if strings.HasPrefix(phoneNumber, "0") {
		return countryCode + strings.TrimLeft(phoneNumber, "0")
	}
	// Up to 11 digits is a national number (area code + subscriber).
	if len(phoneNumber) <= 11 {
		return countryCode + phoneNumber
	}
	return phoneNumber
}

// Connect connects an already linked device.
func (s *Service) Connect() error {
	if s.client.Store.ID == nil {
		return ErrNotLinked
	}
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	return nil
}

// Link pairs a new device, printing QR codes to out until the phone scans one.
func (s *Service) Link(ctx context.Context, out io.Writer) error {
	if s.client.Store.ID != nil {
		fmt.Fprintln(out, "Device already linked.")
		return s.Connect()
	}

	qrChan, err := s.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to get QR channel: %w", err)
	}
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	for evt := range qrChan {
		if evt.Event != "code" {
			fmt.Fprintf(out, "Login event: %s\n", evt.Event)
			continue
		}
		q, err := qrcode.New(evt.Code, qrcode.Medium)
		if err != nil {
			fmt.Fprintf(out, "QR Code: %s\n", evt.Code)
			continue
		}
		fmt.Fprintln(out, "\n"+q.ToSmallString(false))
		fmt.Fprintln(out, "📱 Scan the QR code above with WhatsApp:")
		fmt.Fprintln(out, "   Settings > Linked Devices > Link a Device")
	}
	return nil
}

// LoggedIn reports whether the session is connected and authenticated.
func (s *Service) LoggedIn() bool {
	return s.client.IsLoggedIn()
}

// Disconnect disconnects from WhatsApp
func (s *Service) Disconnect() {
	s.client.Disconnect()
}

// SendMessage sends a plain text message to phoneNumber.
func (s *Service) SendMessage(ctx context.Context, phoneNumber, message string) error {
	phoneNumber = NormalizePhoneNumber(phoneNumber, s.cfg.CountryCode)

	// Resolve the JID WhatsApp actually uses for this number.
	resp, err := s.client.IsOnWhatsApp(ctx, []string{"+" + phoneNumber})
	if err != nil {
		return fmt.Errorf("failed to verify number on WhatsApp: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return fmt.Errorf("number %s is not registered on WhatsApp", phoneNumber)
	}
	jid := resp[0].JID

	s.log.Debug().Str("jid", jid.String()).Msg("Sending message")

	sent, err := s.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: &message,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", jid.String(), err)
	}

	s.log.Debug().Str("id", string(sent.ID)).Time("timestamp", sent.Timestamp).Msg("Message sent")
	return nil
}

func (s *Service) eventHandler(evt interface{}) {
	switch evt.(type) {
	case *events.Connected:
		s.log.Info().Msg("Connected to WhatsApp")
	case *events.Disconnected:
		s.log.Info().Msg("Disconnected from WhatsApp")
	case *events.LoggedOut:
		s.log.Warn().Msg("Logged out from WhatsApp, link the device again")
	}
}
