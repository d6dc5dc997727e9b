// Package api exposes the date-picker engine over HTTP. Each UI session gets
// its own controller, holiday registry snapshot and price overlay; the
// surrounding form drives it through the endpoints in routes.go and listens
// for committed date changes on the per-session SSE stream.
package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/manzoomehweb/bookingcal/holiday"
	"github.com/manzoomehweb/bookingcal/picker"
	"github.com/manzoomehweb/bookingcal/prices"
)

// Deps carries the shared collaborators sessions are built from.
type Deps struct {
	HolidaySource holiday.Source // nil: sessions start without annotations
	PriceClient   *prices.Client // nil: overlay disabled
}

// Session is one UI session's picker state.
type Session struct {
	ID         string
	Controller *picker.Controller
	Registry   *holiday.Registry
	Overlay    *prices.Overlay
	CreatedAt  time.Time

	hub *eventHub
}

// SessionManager owns all live sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	deps     Deps
}

// NewSessionManager creates an empty manager.
func NewSessionManager(deps Deps) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		deps:     deps,
	}
}

// Create builds a new session. The holiday dataset load is fire-and-forget:
// the picker is usable immediately and annotations appear when the load
// lands.
func (m *SessionManager) Create() *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Registry:  holiday.NewRegistry(),
		Overlay:   prices.NewOverlay(),
		CreatedAt: time.Now(),
		hub:       newEventHub(),
	}

	var priceFor picker.FetchProvider
	if m.deps.PriceClient != nil {
		priceFor = m.deps.PriceClient.FetcherFor
	}

	s.Controller = picker.NewController(
		picker.NewStore(), s.Registry, s.Overlay, priceFor, s.hub.publishChange)

	if m.deps.HolidaySource != nil {
		src := m.deps.HolidaySource
		go s.Registry.Load(context.Background(), src)
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks a session up by id.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete removes a session and closes its event stream.
func (m *SessionManager) Delete(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.hub.close()
	}
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
