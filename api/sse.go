package api

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/manzoomehweb/bookingcal/picker"
)

// changeEvent is the SSE payload for a committed date change. ISO is null
// when the date was cleared.
type changeEvent struct {
	Context string  `json:"context"`
	Role    string  `json:"role"`
	ISO     *string `json:"iso"`
}

// eventHub fans a session's change events out to its SSE subscribers.
type eventHub struct {
	mu      sync.Mutex
	nextID  int
	clients map[int]chan changeEvent
	closed  bool
}

func newEventHub() *eventHub {
	return &eventHub{clients: make(map[int]chan changeEvent)}
}

// publishChange is the picker.ChangeFunc wired into the controller. A slow
// subscriber drops events rather than blocking the selection path.
func (h *eventHub) publishChange(key picker.ContextKey, role picker.Role, iso *string) {
	ev := changeEvent{Context: string(key), Role: role.String(), ISO: iso}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.clients {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *eventHub) subscribe() (int, chan changeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		ch := make(chan changeEvent)
		close(ch)
		return -1, ch
	}
	h.nextID++
	ch := make(chan changeEvent, 64)
	h.clients[h.nextID] = ch
	return h.nextID, ch
}

func (h *eventHub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(ch)
	}
}

func (h *eventHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, ch := range h.clients {
		delete(h.clients, id)
		close(ch)
	}
}

// StreamEvents serves the session's change events as SSE.
func StreamEvents(m *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := m.Get(c.Param("id"))
		if !ok {
			c.JSON(404, gin.H{"error": "session not found"})
			return
		}

		id, ch := s.hub.subscribe()
		defer s.hub.unsubscribe(id)

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		c.Stream(func(w io.Writer) bool {
			select {
			case ev, open := <-ch:
				if !open {
					return false
				}
				data, _ := json.Marshal(ev)
				c.SSEvent("change", string(data))
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
