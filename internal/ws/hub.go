package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"SaborBot/entity"
)

// Event represents a WebSocket event pushed to dashboard clients.
type Event struct {
	Type string      `json:"type"` // "bot_status", "transport_ready", "sessions", "new_registration"
	Data interface{} `json:"data"`
}

// Snapshotter provides the current state events sent to a client right
// after it connects, so the dashboard renders without an extra poll.
type Snapshotter interface {
	SnapshotEvents() []Event
}

// Hub maintains the set of active WebSocket clients and broadcasts events.
type Hub struct {
	clients     map[*Client]bool
	broadcast   chan *Event
	register    chan *Client
	unregister  chan *Client
	mu          sync.RWMutex
	snapshotter Snapshotter
	log         *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// SetSnapshotter sets the provider of on-connect state events.
func (h *Hub) SetSnapshotter(s Snapshotter) {
	h.snapshotter = s
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.sendSnapshot(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) sendSnapshot(client *Client) {
	if h.snapshotter == nil {
		return
	}
	for _, event := range h.snapshotter.SnapshotEvents() {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		select {
		case client.send <- data:
		default:
			return
		}
	}
}

// BroadcastBotStatus sends the global switch state to all connected clients.
func (h *Hub) BroadcastBotStatus(status entity.BotStatus) {
	h.broadcast <- &Event{
		Type: "bot_status",
		Data: map[string]string{"status": string(status)},
	}
}

// BroadcastReadiness sends the messaging transport readiness state.
func (h *Hub) BroadcastReadiness(ready bool) {
	h.broadcast <- &Event{
		Type: "transport_ready",
		Data: map[string]bool{"ready": ready},
	}
}

// BroadcastSessions sends a sessions event with the current breakdown.
func (h *Hub) BroadcastSessions(overview *entity.SessionOverview) {
	h.broadcast <- &Event{
		Type: "sessions",
		Data: overview,
	}
}

// BroadcastRegistration sends a new_registration event to all clients.
func (h *Hub) BroadcastRegistration(reg entity.Registration) {
	h.broadcast <- &Event{
		Type: "new_registration",
		Data: reg,
	}
}
