package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"casa-nova-rsvp/internal/rsvp"
	"casa-nova-rsvp/internal/storage"
)

const maxConfirmBody = 4 << 10

type RSVPHandler struct {
	service Confirmer
	event   Event
	log     zerolog.Logger
}

type confirmRequest struct {
	Name string `json:"nome"`
}

// NewRSVPHandler creates the handler behind the public confirmation form
func NewRSVPHandler(service Confirmer, event Event, log zerolog.Logger) *RSVPHandler {
	return &RSVPHandler{
		service: service,
		event:   event,
		log:     log.With().Str("component", "handler").Logger(),
	}
}

// Home renders the landing page.
func (h *RSVPHandler) Home(w http.ResponseWriter, r *http.Request) {
	if err := renderPage(w, http.StatusOK, "index.html", struct{ Event Event }{h.event}); err != nil {
		h.log.Error().Err(err).Msg("Failed to render landing page")
	}
}

// Confirm handles POST /confirmar-presenca.
func (h *RSVPHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxConfirmBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}

	c, err := h.service.Confirm(r.Context(), req.Name)
	if err != nil {
		var verr *rsvp.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Message)
		case errors.Is(err, storage.ErrDuplicateName):
			writeError(w, http.StatusBadRequest, rsvp.DuplicateMessage)
		default:
			h.log.Error().Err(err).Msg("Failed to confirm attendance")
			writeError(w, http.StatusInternalServerError, "Erro ao confirmar presença. Tente novamente.")
		}
		return
	}

	writeJSON(w, http.StatusOK, c)
}
