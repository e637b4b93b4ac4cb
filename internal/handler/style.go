package handler

import (
	"log/slog"
	"net/http"

	"github.com/drywaters/muadzin/internal/styling"
)

// StyleHandler serves the generated animation stylesheet
type StyleHandler struct {
	css string
}

// NewStyleHandler renders the catalog once up front
func NewStyleHandler(catalog *styling.Catalog) *StyleHandler {
	return &StyleHandler{css: catalog.CSS()}
}

// Stylesheet writes the animation CSS
func (h *StyleHandler) Stylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write([]byte(h.css)); err != nil {
		slog.Warn("failed to write stylesheet", "error", err)
	}
}
