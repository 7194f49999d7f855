package handler

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"casa-nova-rsvp/internal/auth"
	"casa-nova-rsvp/internal/metrics"
)

// Router sets up HTTP routes
type Router struct {
	rsvp      *RSVPHandler
	admin     *AdminHandler
	gate      *auth.Gate
	store     Pinger
	metrics   *metrics.Metrics
	staticDir string
	log       zerolog.Logger
	mux       *http.ServeMux
}

// NewRouter creates a new router. staticDir, when it exists on disk, replaces
// the embedded assets under /static/.
func NewRouter(rsvp *RSVPHandler, admin *AdminHandler, gate *auth.Gate, store Pinger, m *metrics.Metrics, staticDir string, log zerolog.Logger) *Router {
	return &Router{
		rsvp:      rsvp,
		admin:     admin,
		gate:      gate,
		store:     store,
		metrics:   m,
		staticDir: staticDir,
		log:       log,
		mux:       http.NewServeMux(),
	}
}

// Setup configures all routes
func (r *Router) Setup() http.Handler {
	r.mux.HandleFunc("GET /{$}", r.rsvp.Home)
	r.mux.HandleFunc("POST /confirmar-presenca", r.rsvp.Confirm)

	r.mux.Handle("GET /admin", r.gate.Middleware(r.admin.DenyPage, http.HandlerFunc(r.admin.Page)))
	r.mux.Handle("GET /admin/confirmados", r.gate.Middleware(r.admin.DenyJSON, http.HandlerFunc(r.admin.List)))
	r.mux.Handle("GET /admin/confirmados/csv", r.gate.Middleware(r.admin.DenyJSON, http.HandlerFunc(r.admin.ExportCSV)))

	r.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(r.assets())))

	r.mux.HandleFunc("GET /health", r.health)
	if r.metrics != nil {
		r.mux.Handle("GET /metrics", r.metrics.Handler())
	}

	return Logging(r.log, r.metrics, r.mux)
}

func (r *Router) assets() fs.FS {
	if r.staticDir != "" {
		if info, err := os.Stat(r.staticDir); err == nil && info.IsDir() {
			return os.DirFS(r.staticDir)
		}
	}
	return embeddedStatic()
}

func (r *Router) health(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	if err := r.store.Ping(ctx); err != nil {
		r.log.Error().Err(err).Msg("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
