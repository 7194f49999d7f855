// Package storage defines how confirmations are persisted.
package storage

import (
	"context"
	"errors"

	"casa-nova-rsvp/internal/models"
)

// ErrDuplicateName is returned when a confirmation with the same name is
// already stored. Backends must enforce this with a unique index so that it
// holds under concurrent inserts.
var ErrDuplicateName = errors.New("name already confirmed")

// Store is the persistence contract for confirmations.
type Store interface {
	// CreateConfirmation inserts c and fills in its ID.
	// Returns ErrDuplicateName if c.Name is taken.
	CreateConfirmation(ctx context.Context, c *models.Confirmation) error

	// GetConfirmationByName returns the confirmation with exactly this name,
	// or nil and no error if there is none.
	GetConfirmationByName(ctx context.Context, name string) (*models.Confirmation, error)

	// ListConfirmations returns every confirmation, most recent first.
	ListConfirmations(ctx context.Context) ([]models.Confirmation, error)

	Ping(ctx context.Context) error
	Close() error
}
