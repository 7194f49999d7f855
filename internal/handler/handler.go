// Package handler exposes the RSVP service over HTTP.
package handler

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"

	"casa-nova-rsvp/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Confirmer is the write side used by the public form.
type Confirmer interface {
	Confirm(ctx context.Context, name string) (*models.Confirmation, error)
}

// Lister is the read side used by the admin pages.
type Lister interface {
	List(ctx context.Context) ([]models.Confirmation, error)
}

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Event is shown on rendered pages.
type Event struct {
	Title string
	When  string
}

type errorResponse struct {
	Detail string `json:"detail"`
}

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func embeddedStatic() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// writeJSON writes data as a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func renderPage(w http.ResponseWriter, status int, name string, data any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return pages.ExecuteTemplate(w, name, data)
}
