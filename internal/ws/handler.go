package ws

import (
	"log"
	"net/http"

	"battleship/internal/area"
	"battleship/internal/broadcast"
	"battleship/internal/models"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ResultMessage answers a successful command.
type ResultMessage struct {
	Type   string               `json:"type"`
	Result models.CommandResult `json:"result"`
}

// ErrorMessage answers a rejected command.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Handler handles WebSocket connections for area occupants.
type Handler struct {
	areas *area.Registry
	hub   *broadcast.Hub
}

// NewHandler creates a new WebSocket handler.
func NewHandler(areas *area.Registry, hub *broadcast.Hub) *Handler {
	return &Handler{
		areas: areas,
		hub:   hub,
	}
}

// RegisterRoutes sets up the WebSocket routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/{areaID}", h.handleWebSocket)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	a, exists := h.areas.Get(r.PathValue("areaID"))
	if !exists {
		http.Error(w, "Area not found", http.StatusNotFound)
		return
	}
	player := models.Player{
		ID:       models.PlayerID(r.URL.Query().Get("player")),
		Username: r.URL.Query().Get("name"),
	}
	if player.ID == "" {
		http.Error(w, "Player required", http.StatusBadRequest)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn := broadcast.NewConn(ws)
	defer conn.Close()

	a.AddOccupant(player)
	defer a.RemoveOccupant(player.ID)

	h.hub.RegisterWS(a.ID(), conn)
	defer h.hub.UnregisterWS(a.ID(), conn)
	log.Printf("[ws] area %s: %s connected", a.ID(), player.ID)

	// Send current area state
	conn.Send(broadcast.StateMessage{Type: "state", Area: a.Snapshot()})

	for {
		var cmd models.Command
		if err := ws.ReadJSON(&cmd); err != nil {
			break
		}
		result, err := a.HandleCommand(player, cmd)
		if err != nil {
			log.Printf("[ws] area %s: %s %s rejected: %v", a.ID(), player.ID, cmd.Type, err)
			conn.Send(ErrorMessage{Type: "error", Error: err.Error()})
			continue
		}
		log.Printf("[ws] area %s: %s %s", a.ID(), player.ID, cmd.Type)
		conn.Send(ResultMessage{Type: "result", Result: result})
	}
	log.Printf("[ws] area %s: %s disconnected", a.ID(), player.ID)
}
