package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manzoomehweb/bookingcal/calendar"
	"github.com/manzoomehweb/bookingcal/picker"
)

func jalaliDate(y, m, d int) calendar.Date { return calendar.NewJalali(y, m, d) }

func TestEventHub_PublishAndSubscribe(t *testing.T) {
	h := newEventHub()
	id, ch := h.subscribe()

	iso := "2025-03-29"
	h.publishChange("flight", picker.RoleDepart, &iso)

	ev := <-ch
	assert.Equal(t, "flight", ev.Context)
	assert.Equal(t, "depart", ev.Role)
	require.NotNil(t, ev.ISO)
	assert.Equal(t, iso, *ev.ISO)

	h.unsubscribe(id)
	_, open := <-ch
	assert.False(t, open)
}

func TestEventHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	h := newEventHub()
	_, ch := h.subscribe()

	iso := "2025-03-29"
	for i := 0; i < 100; i++ {
		h.publishChange("flight", picker.RoleDepart, &iso)
	}

	// The channel buffer absorbed what it could; publishing never blocked.
	assert.Equal(t, 64, len(ch))
}

func TestEventHub_CloseTerminatesSubscribers(t *testing.T) {
	h := newEventHub()
	_, ch := h.subscribe()

	h.close()
	_, open := <-ch
	assert.False(t, open)

	// Subscribing after close yields a closed channel immediately.
	_, ch2 := h.subscribe()
	_, open = <-ch2
	assert.False(t, open)
}

func TestSessionManager_CreateWiresChangeEvents(t *testing.T) {
	m := NewSessionManager(Deps{})
	s := m.Create()

	_, ch := s.hub.subscribe()

	s.Controller.Open(picker.Field{Context: "flight", Role: picker.RoleDepart})
	s.Controller.SelectDate(picker.RoleDepart, jalaliDate(1404, 1, 10))

	ev := <-ch
	assert.Equal(t, "flight", ev.Context)
	assert.Equal(t, "depart", ev.Role)
	require.NotNil(t, ev.ISO)
	assert.Equal(t, "2025-03-29", *ev.ISO)
}
