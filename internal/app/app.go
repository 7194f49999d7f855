package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"casa-nova-rsvp/internal/auth"
	"casa-nova-rsvp/internal/config"
	"casa-nova-rsvp/internal/handler"
	"casa-nova-rsvp/internal/metrics"
	"casa-nova-rsvp/internal/notify"
	"casa-nova-rsvp/internal/rsvp"
	"casa-nova-rsvp/internal/storage"
	"casa-nova-rsvp/internal/whatsapp"
)

// App represents the application
type App struct {
	cfg        *config.Config
	log        zerolog.Logger
	metrics    *metrics.Metrics
	store      storage.Store
	service    *rsvp.Service
	dispatcher *notify.Dispatcher
	nats       *notify.NATSNotifier
	whatsapp   *whatsapp.Service
	httpServer *http.Server
}

// New wires storage, notifiers and the HTTP server from cfg.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	app := &App{
		cfg:     cfg,
		log:     log,
		metrics: metrics.New(),
	}

	store, err := OpenStore(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	app.store = store

	app.initNotifiers(ctx)
	app.service = rsvp.NewService(app.store, app.dispatcher, app.metrics, log)
	app.initHTTPServer()

	return app, nil
}

func (a *App) initNotifiers(ctx context.Context) {
	loc := a.cfg.Location()

	email := notify.NewEmailNotifier(notify.EmailConfig{
		Host:      a.cfg.SMTP.Host,
		Port:      a.cfg.SMTP.Port,
		Username:  a.cfg.SMTP.Username,
		Password:  a.cfg.SMTP.Password,
		Recipient: a.cfg.SMTP.Recipient,
	}, notify.EventInfo{Title: a.cfg.Event.Title, When: a.cfg.Event.When}, loc)
	if !email.Enabled() {
		a.log.Warn().Msg("Email settings incomplete, organizer emails disabled")
	}

	nats, err := notify.NewNATSNotifier(a.cfg.NATS.URL, a.cfg.NATS.Subject)
	if err != nil {
		a.log.Warn().Err(err).Msg("NATS unavailable, confirmation events disabled")
		nats, _ = notify.NewNATSNotifier("", a.cfg.NATS.Subject)
	}
	a.nats = nats

	if a.cfg.WhatsApp.Enabled {
		a.whatsapp = a.connectWhatsApp(ctx)
	}
	wa := whatsapp.NewNotifier(a.whatsapp, a.cfg.WhatsApp.OrganizerPhone, a.cfg.Event.Title, loc)

	a.dispatcher = notify.NewDispatcher(a.log, a.metrics, a.cfg.Notify.Timeout, email, nats, wa)
}

func (a *App) connectWhatsApp(ctx context.Context) *whatsapp.Service {
	svc, err := whatsapp.NewService(ctx, &whatsapp.Config{
		DataDir:     a.cfg.WhatsApp.DataDir,
		CountryCode: a.cfg.WhatsApp.CountryCode,
	}, a.log)
	if err != nil {
		a.log.Warn().Err(err).Msg("WhatsApp unavailable, organizer messages disabled")
		return nil
	}
	if err := svc.Connect(); err != nil {
		a.log.Warn().Err(err).Msg("WhatsApp not connected, organizer messages disabled")
		return nil
	}
	return svc
}

func (a *App) initHTTPServer() {
	gate := auth.NewGate(a.cfg.Admin.Password)
	event := handler.Event{Title: a.cfg.Event.Title, When: a.cfg.Event.When}

	router := handler.NewRouter(
		handler.NewRSVPHandler(a.service, event, a.log),
		handler.NewAdminHandler(a.service, gate, event, a.cfg.Location(), a.log),
		gate,
		a.store,
		a.metrics,
		a.cfg.HTTP.StaticDir,
		a.log,
	)

	a.httpServer = &http.Server{
		Addr:         a.cfg.HTTP.Addr,
		Handler:      router.Setup(),
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
	}
}

// Handler returns the fully wired HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.httpServer.Addr).Msg("Starting HTTP server")
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		a.Close()
		return fmt.Errorf("HTTP server error: %w", err)
	}

	a.log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	a.Close()

	a.log.Info().Msg("Server stopped")
	return nil
}

// Close waits briefly for in-flight notifications and releases connections.
func (a *App) Close() {
	waitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.dispatcher.Wait(waitCtx); err != nil {
		a.log.Warn().Msg("Dropping in-flight notifications")
	}

	a.nats.Close()
	if a.whatsapp != nil {
		a.whatsapp.Disconnect()
	}
	if err := a.store.Close(); err != nil {
		a.log.Error().Err(err).Msg("Failed to close storage")
	}
}
