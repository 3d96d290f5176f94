package realtime

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type envelope struct {
	Event string `json:"event"`
	Data  Event  `json:"data"`
}

// Hub tracks connections grouped per applicant (room "user:<id>").
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[uint]map[*Client]bool
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		rooms:   make(map[uint]map[*Client]bool),
		log:     log,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	room, ok := h.rooms[c.applicantID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[c.applicantID] = room
	}
	room[c] = true
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("ws connected", zap.Uint("applicant_id", c.applicantID), zap.Int("total", total))
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		if room, ok := h.rooms[c.applicantID]; ok {
			delete(room, c)
			if len(room) == 0 {
				delete(h.rooms, c.applicantID)
			}
		}
		close(c.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("ws disconnected", zap.Uint("applicant_id", c.applicantID), zap.Int("total", total))
}

// EmitPostulationUpdated sends the event to every connection of the applicant.
// A client whose send buffer is full is dropped rather than blocking the
// emitter.
func (h *Hub) EmitPostulationUpdated(applicantID uint, event Event) error {
	msg, err := json.Marshal(envelope{Event: "postulation_updated", Data: event})
	if err != nil {
		return fmt.Errorf("marshal postulation_updated: %w", err)
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.rooms[applicantID]))
	for c := range h.rooms[applicantID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("ws send buffer full; dropping client", zap.Uint("applicant_id", applicantID))
			h.Unregister(c)
		}
	}

	h.log.Info("emitted postulation_updated",
		zap.Uint("postulation_id", event.ID),
		zap.Uint("applicant_id", applicantID),
		zap.Int("connections", len(targets)),
	)
	return nil
}
