package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"rsvp-service/internal/models"
	"rsvp-service/internal/observability"
)

// Hub maintains active websocket rooms, one per event.
type Hub struct {
	rooms    map[int]map[*websocket.Conn]bool
	connInfo map[int]map[*websocket.Conn]ConnInfo
	mu       sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:    make(map[int]map[*websocket.Conn]bool),
		connInfo: make(map[int]map[*websocket.Conn]ConnInfo),
	}
}

// AddClient registers a websocket connection to an event room.
func (h *Hub) AddClient(eventID int, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[eventID]; !ok {
		h.rooms[eventID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[eventID][conn] = true
	if _, ok := h.connInfo[eventID]; !ok {
		h.connInfo[eventID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.connInfo[eventID][conn] = info
}

// RemoveClient removes a websocket connection from an event room.
func (h *Hub) RemoveClient(eventID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[eventID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, eventID)
		}
	}
	if infos, ok := h.connInfo[eventID]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.connInfo, eventID)
		}
	}
}

// Broadcast fans an update notice out to every client subscribed to the
// event. Delivery is best effort: a failed write closes and drops that
// connection, the remaining clients still receive the notice.
func (h *Hub) Broadcast(eventID int, noticeType string, payload any) {
	h.mu.RLock()
	conns := h.rooms[eventID]
	h.mu.RUnlock()

	notice := models.UpdateNotice{Type: noticeType, Payload: payload}
	body, _ := json.Marshal(notice)
	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
			logrus.WithError(err).Warn("websocket write error")
			conn.Close()
			h.RemoveClient(eventID, conn)
			h.publishWSError(eventID, conn, err)
		}
	}
}

func (h *Hub) publishWSError(eventID int, conn *websocket.Conn, err error) {
	info, ok := h.getConnInfo(eventID, conn)
	if !ok {
		return
	}

	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"event_id":    eventID,
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]interface{}{
			"ip": info.IP,
		},
	}

	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), "ws_events.events", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   payload,
	}, headers)
	observability.IncWSEvent("ws_error")
}

func (h *Hub) getConnInfo(eventID int, conn *websocket.Conn) (ConnInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if infos, ok := h.connInfo[eventID]; ok {
		info, exists := infos[conn]
		return info, exists
	}
	return ConnInfo{}, false
}
