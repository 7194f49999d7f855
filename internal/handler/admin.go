package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"casa-nova-rsvp/internal/auth"
	"casa-nova-rsvp/internal/export"
	"casa-nova-rsvp/internal/models"
)

// AdminHandler serves the password protected listing and export.
type AdminHandler struct {
	service Lister
	gate    *auth.Gate
	event   Event
	loc     *time.Location
	log     zerolog.Logger
	now     func() time.Time
}

func NewAdminHandler(service Lister, gate *auth.Gate, event Event, loc *time.Location, log zerolog.Logger) *AdminHandler {
	if loc == nil {
		loc = time.Local
	}
	return &AdminHandler{
		service: service,
		gate:    gate,
		event:   event,
		loc:     loc,
		log:     log.With().Str("component", "admin").Logger(),
		now:     time.Now,
	}
}

// Page renders the admin page, or the password form with a 401.
func (h *AdminHandler) Page(w http.ResponseWriter, r *http.Request) {
	list, err := h.list(r)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list confirmations")
		http.Error(w, "Erro ao carregar confirmações", http.StatusInternalServerError)
		return
	}

	data := struct {
		Event  Event
		List   models.ConfirmationList
		Secret string
	}{h.event, list, r.URL.Query().Get(auth.SecretParam)}

	if err := renderPage(w, http.StatusOK, "admin.html", data); err != nil {
		h.log.Error().Err(err).Msg("Failed to render admin page")
	}
}

// List handles GET /admin/confirmados.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.list(r)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list confirmations")
		writeError(w, http.StatusInternalServerError, "Erro ao listar confirmações")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ExportCSV handles GET /admin/confirmados/csv.
func (h *AdminHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	confirmations, err := h.service.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list confirmations")
		writeError(w, http.StatusInternalServerError, "Erro ao exportar confirmações")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, confirmations, h.loc); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode csv")
		writeError(w, http.StatusInternalServerError, "Erro ao exportar confirmações")
		return
	}

	filename := export.Filename(h.now().In(h.loc))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())

	h.log.Info().Int("rows", len(confirmations)).Str("file", filename).Msg("Exported confirmations")
}

// DenyPage answers an unauthorized /admin request with the password form.
func (h *AdminHandler) DenyPage(w http.ResponseWriter, _ *http.Request) {
	if err := renderPage(w, http.StatusUnauthorized, "login.html", nil); err != nil {
		h.log.Error().Err(err).Msg("Failed to render login page")
	}
}

// DenyJSON answers an unauthorized API request.
func (h *AdminHandler) DenyJSON(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusUnauthorized, "Senha incorreta")
}

func (h *AdminHandler) list(r *http.Request) (models.ConfirmationList, error) {
	confirmations, err := h.service.List(r.Context())
	if err != nil {
		return models.ConfirmationList{}, err
	}

	views := make([]models.ConfirmationView, 0, len(confirmations))
	for _, c := range confirmations {
		views = append(views, c.View(h.loc))
	}
	return models.ConfirmationList{Total: len(views), Confirmations: views}, nil
}
