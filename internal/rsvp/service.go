// Package rsvp implements attendance confirmation and the admin read side.
package rsvp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"casa-nova-rsvp/internal/metrics"
	"casa-nova-rsvp/internal/models"
	"casa-nova-rsvp/internal/storage"
)

const (
	MinNameLength = 3
	MaxNameLength = 100
)

// DuplicateMessage is what guests see when their name is already on the list.
const DuplicateMessage = "Este nome já confirmou presença!"

// ValidationError reports input the guest can fix.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Dispatcher receives newly created confirmations. Implementations must not block.
type Dispatcher interface {
	Dispatch(c models.Confirmation)
}

// Service confirms attendance and lists confirmations.
type Service struct {
	store      storage.Store
	dispatcher Dispatcher
	metrics    *metrics.Metrics
	log        zerolog.Logger
	now        func() time.Time
}

// NewService creates the confirmation service. dispatcher and m may be nil.
func NewService(store storage.Store, dispatcher Dispatcher, m *metrics.Metrics, log zerolog.Logger) *Service {
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		metrics:    m,
		log:        log.With().Str("component", "rsvp").Logger(),
		now:        time.Now,
	}
}

// ValidateName trims name and checks its length in characters.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)

	if n < MinNameLength {
		return "", &ValidationError{Message: fmt.Sprintf("O nome deve ter pelo menos %d caracteres", MinNameLength)}
	}
	if n > MaxNameLength {
		return "", &ValidationError{Message: fmt.Sprintf("O nome deve ter no máximo %d caracteres", MaxNameLength)}
	}
	return name, nil
}

// Confirm records attendance for name. It returns a *ValidationError for bad
// input and storage.ErrDuplicateName if the trimmed name already confirmed.
// On success the organizer is notified in the background.
func (s *Service) Confirm(ctx context.Context, name string) (*models.Confirmation, error) {
	name, err := ValidateName(name)
	if err != nil {
		s.metrics.ObserveConfirmation(metrics.OutcomeInvalid)
		return nil, err
	}

	// Fast path only; the unique index is what actually guarantees uniqueness.
	existing, err := s.store.GetConfirmationByName(ctx, name)
	if err != nil {
		s.metrics.ObserveConfirmation(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to check existing confirmation: %w", err)
	}
	if existing != nil {
		s.metrics.ObserveConfirmation(metrics.OutcomeDuplicate)
		return nil, storage.ErrDuplicateName
	}

	c := &models.Confirmation{
		Name:        name,
		ConfirmedAt: s.now(),
		Status:      models.StatusConfirmed,
	}
	if err := s.store.CreateConfirmation(ctx, c); err != nil {
		if errors.Is(err, storage.ErrDuplicateName) {
			s.metrics.ObserveConfirmation(metrics.OutcomeDuplicate)
			return nil, storage.ErrDuplicateName
		}
		s.metrics.ObserveConfirmation(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to create confirmation: %w", err)
	}

	s.metrics.ObserveConfirmation(metrics.OutcomeCreated)
	s.log.Info().Int64("id", c.ID).Str("guest", c.Name).Msg("Attendance confirmed")

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(*c)
	}
	return c, nil
}

// List returns every confirmation, most recent first.
func (s *Service) List(ctx context.Context) ([]models.Confirmation, error) {
	confirmations, err := s.store.ListConfirmations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmations: %w", err)
	}
	return confirmations, nil
}
