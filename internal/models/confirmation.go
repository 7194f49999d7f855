package models

import "time"

// StatusConfirmed is the only status a confirmation ever carries.
const StatusConfirmed = "Confirmado"

// DisplayLayout is the dd/mm/yyyy HH:MM layout used on admin pages and exports.
const DisplayLayout = "02/01/2006 15:04"

// Confirmation represents one guest's RSVP
type Confirmation struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nome"`
	ConfirmedAt time.Time `json:"data_confirmacao"`
	Status      string    `json:"status"`
}

// ConfirmationView is the admin-facing rendering of a confirmation, with the
// timestamp already formatted for display.
type ConfirmationView struct {
	ID          int64  `json:"id"`
	Name        string `json:"nome"`
	ConfirmedAt string `json:"data_confirmacao"`
	Status      string `json:"status"`
}

// View formats the confirmation for display in the given location.
func (c Confirmation) View(loc *time.Location) ConfirmationView {
	if loc == nil {
		loc = time.Local
	}
	return ConfirmationView{
		ID:          c.ID,
		Name:        c.Name,
		ConfirmedAt: c.ConfirmedAt.In(loc).Format(DisplayLayout),
		Status:      c.Status,
	}
}

// ConfirmationList is the admin listing payload
type ConfirmationList struct {
	Total         int                `json:"total"`
	Confirmations []ConfirmationView `json:"confirmacoes"`
}
