// Package notify tells the organizer about new confirmations.
//
// Delivery is best effort: the Dispatcher runs every configured Notifier in
// its own goroutine under a hard timeout and only ever logs the outcome.
// Nothing is retried and nothing is reported back to the caller.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"casa-nova-rsvp/internal/metrics"
	"casa-nova-rsvp/internal/models"
)

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 10 * time.Second

// Notifier delivers a confirmation notice over one channel.
type Notifier interface {
	// Name identifies the channel in logs and metrics.
	Name() string
	// Enabled reports whether the channel has everything it needs to send.
	// A disabled channel is skipped without error.
	Enabled() bool
	Notify(ctx context.Context, c models.Confirmation) error
}

// Dispatcher fans a confirmation out to its notifiers without blocking the caller.
type Dispatcher struct {
	notifiers []Notifier
	timeout   time.Duration
	log       zerolog.Logger
	metrics   *metrics.Metrics
	wg        sync.WaitGroup
}

// NewDispatcher creates a dispatcher. A non-positive timeout means DefaultTimeout.
func NewDispatcher(log zerolog.Logger, m *metrics.Metrics, timeout time.Duration, notifiers ...Notifier) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		notifiers: notifiers,
		timeout:   timeout,
		log:       log.With().Str("component", "notify").Logger(),
		metrics:   m,
	}
}

// Dispatch schedules delivery of c on every notifier and returns immediately.
func (d *Dispatcher) Dispatch(c models.Confirmation) {
	for _, n := range d.notifiers {
		d.wg.Add(1)
		go func(n Notifier) {
			defer d.wg.Done()
			d.deliver(n, c)
		}(n)
	}
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) deliver(n Notifier, c models.Confirmation) {
	log := d.log.With().Str("channel", n.Name()).Str("guest", c.Name).Logger()

	if !n.Enabled() {
		log.Info().Msg("Notification channel not configured, skipping")
		d.metrics.ObserveNotification(n.Name(), metrics.NotificationSkipped)
		return
	}

	// The request context is long gone by now; each attempt gets its own deadline.
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	// Run the notifier separately so the deadline holds even for senders
	// that ignore ctx.
	result := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("notifier panicked: %v", r)
			}
		}()
		result <- n.Notify(ctx, c)
	}()

	var err error
	select {
	case err = <-result:
	case <-ctx.Done():
		err = ctx.Err()
	}

	switch {
	case err == nil:
		log.Info().Msg("Organizer notified")
		d.metrics.ObserveNotification(n.Name(), metrics.NotificationSent)
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn().Dur("timeout", d.timeout).Msg("Notification timed out, dropping")
		d.metrics.ObserveNotification(n.Name(), metrics.NotificationTimeout)
	default:
		log.Error().Err(err).Msg("Notification failed, dropping")
		d.metrics.ObserveNotification(n.Name(), metrics.NotificationFailed)
	}
}
