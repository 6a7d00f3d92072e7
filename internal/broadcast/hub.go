package broadcast

import (
	"log"
	"sync"
	"time"

	"battleship/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 32
)

// Conn is a websocket connection with a single writer goroutine fed by a
// buffered queue, so senders never wait on the network.
type Conn struct {
	ws        *websocket.Conn
	send      chan any
	done      chan struct{}
	closeOnce sync.Once
}

// NewConn wraps ws for use with a Hub and starts its writer.
func NewConn(ws *websocket.Conn) *Conn {
	c := newConn(ws, sendBuffer)
	go c.writeLoop()
	return c
}

func newConn(ws *websocket.Conn, size int) *Conn {
	return &Conn{
		ws:   ws,
		send: make(chan any, size),
		done: make(chan struct{}),
	}
}

// Send queues v to be written as a single text frame. A connection whose
// queue is full is closed instead of blocking the caller. Send reports
// whether v was queued.
func (c *Conn) Send(v any) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- v:
		return true
	default:
		c.Close()
		return false
	}
}

// Close stops the writer and closes the underlying connection.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.ws.Close()
	})
}

func (c *Conn) writeLoop() {
	for {
		select {
		case v := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(v); err != nil {
				log.Printf("[hub] write failed: %v", err)
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// StateMessage is the frame pushed to websocket observers.
type StateMessage struct {
	Type string               `json:"type"`
	Area *models.AreaSnapshot `json:"area"`
}

// Hub manages broadcasting area snapshots to WebSocket and SSE clients.
type Hub struct {
	wsClients  map[string]map[*Conn]bool
	sseClients map[string]map[chan *models.AreaSnapshot]bool
	mu         sync.RWMutex
}

// NewHub creates a new broadcast hub.
func NewHub() *Hub {
	return &Hub{
		wsClients:  make(map[string]map[*Conn]bool),
		sseClients: make(map[string]map[chan *models.AreaSnapshot]bool),
	}
}

// RegisterWS adds a WebSocket connection for an area.
func (h *Hub) RegisterWS(areaID string, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.wsClients[areaID] == nil {
		h.wsClients[areaID] = make(map[*Conn]bool)
	}
	h.wsClients[areaID][conn] = true
}

// UnregisterWS removes a WebSocket connection for an area.
func (h *Hub) UnregisterWS(areaID string, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.wsClients[areaID], conn)
	if len(h.wsClients[areaID]) == 0 {
		delete(h.wsClients, areaID)
	}
}

// RegisterSSE adds an SSE channel for an area.
func (h *Hub) RegisterSSE(areaID string, ch chan *models.AreaSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sseClients[areaID] == nil {
		h.sseClients[areaID] = make(map[chan *models.AreaSnapshot]bool)
	}
	h.sseClients[areaID][ch] = true
}

// UnregisterSSE removes an SSE channel for an area and closes it.
func (h *Hub) UnregisterSSE(areaID string, ch chan *models.AreaSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sseClients[areaID], ch)
	if len(h.sseClients[areaID]) == 0 {
		delete(h.sseClients, areaID)
	}
	close(ch)
}

// Broadcast sends an area snapshot to all connected WebSocket and SSE clients
// without blocking. Slow SSE clients drop updates; websocket clients whose
// queue is full are disconnected.
func (h *Hub) Broadcast(areaID string, snap *models.AreaSnapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	msg := StateMessage{Type: "state", Area: snap}
	for conn := range h.wsClients[areaID] {
		if !conn.Send(msg) {
			log.Printf("[hub] area %s: dropped slow websocket client", areaID)
		}
	}
	for ch := range h.sseClients[areaID] {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Clients reports how many observers an area has.
func (h *Hub) Clients(areaID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.wsClients[areaID]) + len(h.sseClients[areaID])
}
