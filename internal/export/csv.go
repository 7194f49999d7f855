// Package export renders confirmation lists for spreadsheets and archives them.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"casa-nova-rsvp/internal/models"
)

// ContentType is served with CSV downloads.
const ContentType = "text/csv; charset=utf-8"

// Header is the first row of every export.
var Header = []string{"ID", "Nome", "Data Confirmação", "Status"}

// WriteCSV writes a header row and one row per confirmation, in the given
// order, with dates rendered in loc.
func WriteCSV(w io.Writer, confirmations []models.Confirmation, loc *time.Location) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, c := range confirmations {
		v := c.View(loc)
		row := []string{strconv.FormatInt(v.ID, 10), v.Name, v.ConfirmedAt, v.Status}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", c.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// Filename names an export taken at now.
func Filename(now time.Time) string {
	return now.Format("confirmacoes_20060102_150405.csv")
}
