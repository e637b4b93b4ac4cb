package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/drywaters/muadzin/internal/config"
	"github.com/drywaters/muadzin/internal/handler"
	"github.com/drywaters/muadzin/internal/middleware"
	"github.com/drywaters/muadzin/internal/styling"
	"github.com/drywaters/muadzin/internal/ui"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// BrowserAssets are the files the pages load from STATIC_DIR.
var BrowserAssets = []string{"wasm_exec.js", "countdown.wasm"}

// MissingAssets returns the BrowserAssets not present in dir.
func MissingAssets(dir string) []string {
	var missing []string
	for _, name := range BrowserAssets {
		if _, err := os.Stat(filepath.Join(dir, name)); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Server represents the HTTP server
type Server struct {
	cfg       *config.Config
	displays  handler.DisplayStore
	catalog   *styling.Catalog
	templates handler.TemplateRenderer
}

// New creates a new Server
func New(cfg *config.Config, displays handler.DisplayStore, catalog *styling.Catalog) (*Server, error) {
	templates, err := ui.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return &Server{
		cfg:       cfg,
		displays:  displays,
		catalog:   catalog,
		templates: templates,
	}, nil
}

// Router returns the configured chi router
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Static files
	styleHandler := handler.NewStyleHandler(s.catalog)
	r.Get("/static/animations.css", styleHandler.Stylesheet)

	fileServer := http.FileServer(http.Dir(s.cfg.StaticDir))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	displayHandler := handler.NewDisplayHandler(s.displays, s.templates, ui.ViewOptions{
		Location:        s.cfg.Location,
		RefreshInterval: s.cfg.RefreshInterval,
		PollInterval:    s.cfg.PollInterval,
	})

	// Pages
	r.Get("/", displayHandler.BoardPage)
	r.Get("/displays/{id}", displayHandler.DisplayPage)
	r.Get("/displays/{id}/card", displayHandler.DisplayCard)

	// Read API used by the browser poller
	r.Get("/api/displays", displayHandler.List)
	r.Get("/api/displays/{id}", displayHandler.Get)

	// Scheduler API
	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKey(s.cfg.APIKeyHash))

		r.Post("/api/displays", displayHandler.Create)
		r.Delete("/api/displays/{id}", displayHandler.Delete)
		r.Put("/api/displays/{id}/next-event", displayHandler.SetNextEvent)
		r.Delete("/api/displays/{id}/next-event", displayHandler.ClearNextEvent)
	})

	return r
}
