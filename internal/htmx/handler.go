package htmx

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"battleship/internal/area"
	"battleship/internal/broadcast"
	"battleship/internal/game"
	"battleship/internal/models"

	"github.com/a-h/templ"
)

// Handler handles HTMX requests with SSE for real-time updates.
type Handler struct {
	areas *area.Registry
	hub   *broadcast.Hub
}

// NewHandler creates a new HTMX handler.
func NewHandler(areas *area.Registry, hub *broadcast.Hub) *Handler {
	return &Handler{
		areas: areas,
		hub:   hub,
	}
}

// RegisterRoutes sets up the HTMX routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /htmx/areas/{areaID}", h.handleGetArea)
	mux.HandleFunc("GET /htmx/areas/{areaID}/history", h.handleHistory)
	mux.HandleFunc("GET /htmx/sse/{areaID}", h.handleSSE)
}

func (h *Handler) area(w http.ResponseWriter, r *http.Request) (*area.Area, bool) {
	a, exists := h.areas.Get(r.PathValue("areaID"))
	if !exists {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
		ErrorStatus(game.ErrAreaNotFound.Error()).Render(r.Context(), w)
	}
	return a, exists
}

func (h *Handler) handleGetArea(w http.ResponseWriter, r *http.Request) {
	a, ok := h.area(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html")
	AreaWrapper(a.Snapshot()).Render(r.Context(), w)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	a, ok := h.area(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html")
	HistoryTable(a.History()).Render(r.Context(), w)
}

func (h *Handler) handleSSE(w http.ResponseWriter, r *http.Request) {
	a, ok := h.area(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	ch := make(chan *models.AreaSnapshot, 10)
	h.hub.RegisterSSE(a.ID(), ch)
	defer h.hub.UnregisterSSE(a.ID(), ch)

	// Send initial state
	writeEvent(r.Context(), w, a.Snapshot())
	flusher.Flush()
	for {
		select {
		case snap := <-ch:
			writeEvent(r.Context(), w, snap)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(ctx context.Context, w http.ResponseWriter, snap *models.AreaSnapshot) {
	html := renderToString(ctx, AreaContent(snap))
	fmt.Fprintf(w, "event: area-update\ndata: %s\n\n", strings.ReplaceAll(html, "\n", ""))
}

func renderToString(ctx context.Context, component templ.Component) string {
	var buf bytes.Buffer
	component.Render(ctx, &buf)
	return buf.String()
}
