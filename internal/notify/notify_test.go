package notify

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casa-nova-rsvp/internal/metrics"
	"casa-nova-rsvp/internal/models"
)

type fakeNotifier struct {
	name    string
	enabled bool
	delay   time.Duration
	err     error
	panics  bool

	mu    sync.Mutex
	calls []models.Confirmation
}

func (f *fakeNotifier) Name() string  { return f.name }
func (f *fakeNotifier) Enabled() bool { return f.enabled }

func (f *fakeNotifier) Notify(ctx context.Context, c models.Confirmation) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	if f.panics {
		panic("relay exploded")
	}
	if f.delay > 0 {
		// Deliberately ignores ctx, like a blocking SMTP dial.
		time.Sleep(f.delay)
	}
	return f.err
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// syncBuffer guards log output written from dispatcher goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitDispatcher(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))
}

func TestDispatch_DoesNotBlock(t *testing.T) {
	slow := &fakeNotifier{name: "slow", enabled: true, delay: 300 * time.Millisecond}
	d := NewDispatcher(zerolog.Nop(), nil, time.Second, slow)

	start := time.Now()
	d.Dispatch(models.Confirmation{Name: "Ana Souza"})
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	waitDispatcher(t, d)
	assert.Equal(t, 1, slow.callCount())
}

func TestDispatch_Outcomes(t *testing.T) {
	m := metrics.New()
	var logs syncBuffer
	log := zerolog.New(&logs)

	ok := &fakeNotifier{name: "ok", enabled: true}
	off := &fakeNotifier{name: "off", enabled: false}
	failing := &fakeNotifier{name: "failing", enabled: true, err: errors.New("535 auth failed")}
	hanging := &fakeNotifier{name: "hanging", enabled: true, delay: 2 * time.Second}
	panicky := &fakeNotifier{name: "panicky", enabled: true, panics: true}

	d := NewDispatcher(log, m, 50*time.Millisecond, ok, off, failing, hanging, panicky)
	d.Dispatch(models.Confirmation{Name: "Ana Souza"})

	// The timeout bounds the wait even though "hanging" sleeps for seconds.
	waitDispatcher(t, d)

	assert.Equal(t, 0, off.callCount())
	assert.Equal(t, 1, ok.callCount())

	counter := func(channel, outcome string) float64 {
		return testutil.ToFloat64(m.NotificationCounter(channel, outcome))
	}
	assert.Equal(t, 1.0, counter("ok", metrics.NotificationSent))
	assert.Equal(t, 1.0, counter("off", metrics.NotificationSkipped))
	assert.Equal(t, 1.0, counter("failing", metrics.NotificationFailed))
	assert.Equal(t, 1.0, counter("hanging", metrics.NotificationTimeout))
	assert.Equal(t, 1.0, counter("panicky", metrics.NotificationFailed))

	out := logs.String()
	assert.Contains(t, out, "535 auth failed")
	assert.Contains(t, out, "notifier panicked")
	assert.Contains(t, out, "timed out")
}

func TestDispatch_NoNotifiers(t *testing.T) {
	d := NewDispatcher(zerolog.Nop(), nil, 0)
	assert.Equal(t, DefaultTimeout, d.timeout)
	d.Dispatch(models.Confirmation{Name: "Ana Souza"})
	waitDispatcher(t, d)
}

func TestWait_RespectsContext(t *testing.T) {
	slow := &fakeNotifier{name: "slow", enabled: true, delay: 500 * time.Millisecond}
	d := NewDispatcher(zerolog.Nop(), nil, time.Second, slow)
	d.Dispatch(models.Confirmation{Name: "Ana Souza"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)

	waitDispatcher(t, d)
}
