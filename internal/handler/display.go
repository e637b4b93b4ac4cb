package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/drywaters/muadzin/internal/board"
	"github.com/drywaters/muadzin/internal/countdown"
	"github.com/drywaters/muadzin/internal/htmldom"
	"github.com/drywaters/muadzin/internal/model"
	"github.com/drywaters/muadzin/internal/ui"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DisplayHandler serves display pages and the display API
type DisplayHandler struct {
	store     DisplayStore
	templates TemplateRenderer
	opts      ui.ViewOptions
	now       func() time.Time
}

// NewDisplayHandler creates a new DisplayHandler
func NewDisplayHandler(store DisplayStore, templates TemplateRenderer, opts ui.ViewOptions) *DisplayHandler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &DisplayHandler{
		store:     store,
		templates: templates,
		opts:      opts,
		now:       time.Now,
	}
}

type displayResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	NextEventAt string    `json:"next_event_at,omitempty"`
	Label       string    `json:"label,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func newDisplayResponse(d model.Display) displayResponse {
	resp := displayResponse{
		ID:        d.ID,
		Name:      d.Name,
		UpdatedAt: d.UpdatedAt,
		CreatedAt: d.CreatedAt,
	}
	if d.Next != nil {
		resp.NextEventAt = ui.FormatTarget(d.Next.At)
		resp.Label = d.Next.Label
	}
	return resp
}

// BoardPage renders all displays
func (h *DisplayHandler) BoardPage(w http.ResponseWriter, r *http.Request) {
	views := ui.NewDisplayViews(h.store.List(), h.opts)
	h.renderPage(w, "board.html", ui.BoardPageData{
		Date:     ui.FormatDate(h.now(), h.opts.Location),
		Displays: views,
	})
}

// DisplayPage renders a single display
func (h *DisplayHandler) DisplayPage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	d, err := h.store.Get(id)
	if err != nil {
		h.storeError(w, "DisplayPage", id, err)
		return
	}

	view := ui.NewDisplayView(d, h.opts)
	h.renderPage(w, "display.html", ui.DisplayPageData{
		Date:    ui.FormatDate(h.now(), h.opts.Location),
		Display: view,
	})
}

// DisplayCard renders the card partial of a single display
func (h *DisplayHandler) DisplayCard(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	d, err := h.store.Get(id)
	if err != nil {
		h.storeError(w, "DisplayCard", id, err)
		return
	}

	var buf bytes.Buffer
	if err := h.templates.RenderPartial(&buf, "display_card", ui.NewDisplayView(d, h.opts)); err != nil {
		slog.Error("failed to render partial", "partial", "display_card", "error", err)
		http.Error(w, "Failed to render display", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := htmldom.PrerenderFragment(&buf, w, h.now(), h.opts.Location); err != nil {
		slog.Error("failed to prerender partial", "partial", "display_card", "error", err)
	}
}

// renderPage executes a page template and fills in countdown values before writing it
func (h *DisplayHandler) renderPage(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates.RenderPage(&buf, name, data); err != nil {
		slog.Error("failed to render page", "page", name, "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := htmldom.Prerender(&buf, w, h.now(), h.opts.Location); err != nil {
		// Log only - response may already be partially written, can't send clean http.Error
		slog.Error("failed to prerender page", "page", name, "error", err)
	}
}

// List returns all displays as JSON
func (h *DisplayHandler) List(w http.ResponseWriter, r *http.Request) {
	displays := h.store.List()
	resp := make([]displayResponse, 0, len(displays))
	for _, d := range displays {
		resp = append(resp, newDisplayResponse(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single display as JSON
func (h *DisplayHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	d, err := h.store.Get(id)
	if err != nil {
		h.storeError(w, "Get", id, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, newDisplayResponse(d))
}

// Create registers a new display
func (h *DisplayHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.CreateDisplayInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(input.Name) == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	d, err := h.store.Create(input.Name)
	if err != nil {
		if errors.Is(err, board.ErrExists) {
			http.Error(w, "Display already exists", http.StatusConflict)
			return
		}
		slog.Error("failed to create display", "handler", "Create", "error", err)
		http.Error(w, "Failed to create display", http.StatusInternalServerError)
		return
	}

	slog.Info("display created", "id", d.ID, "name", d.Name)
	writeJSON(w, http.StatusCreated, newDisplayResponse(d))
}

// SetNextEvent stores the next event pushed by the external scheduler
func (h *DisplayHandler) SetNextEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var input model.SetNextEventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	at, err := countdown.ParseTarget(input.At, h.opts.Location)
	if err != nil {
		if errors.Is(err, countdown.ErrMissingTarget) {
			http.Error(w, "Field 'at' is required", http.StatusBadRequest)
			return
		}
		http.Error(w, "Invalid timestamp", http.StatusBadRequest)
		return
	}

	d, err := h.store.SetNext(id, model.NextEvent{At: at, Label: strings.TrimSpace(input.Label)})
	if err != nil {
		h.storeError(w, "SetNextEvent", id, err)
		return
	}

	slog.Info("next event set", "id", id, "at", at, "label", d.Next.Label)
	writeJSON(w, http.StatusOK, newDisplayResponse(d))
}

// ClearNextEvent removes the next event of a display
func (h *DisplayHandler) ClearNextEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.store.ClearNext(id); err != nil {
		h.storeError(w, "ClearNextEvent", id, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a display
func (h *DisplayHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.storeError(w, "Delete", id, err)
		return
	}

	slog.Info("display deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *DisplayHandler) storeError(w http.ResponseWriter, handler string, id uuid.UUID, err error) {
	if errors.Is(err, board.ErrNotFound) {
		http.Error(w, "Display not found", http.StatusNotFound)
		return
	}
	slog.Error("display store error", "handler", handler, "id", id, "error", err)
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
