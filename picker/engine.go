package picker

import (
	"time"

	"github.com/manzoomehweb/bookingcal/calendar"
)

// State is the position of a context in the two-step selection flow.
type State int

const (
	StateEmpty State = iota
	StateDepartSet
	StateRangeSet
)

func (s State) String() string {
	switch s {
	case StateDepartSet:
		return "depart_set"
	case StateRangeSet:
		return "range_set"
	default:
		return "empty"
	}
}

// Preview is the transient highlighted span shown while hovering. It is
// never stored; a render pass either gets one or it does not.
type Preview struct {
	From calendar.Date
	To   calendar.Date
}

// SelectResult tells the controller what a selection did.
type SelectResult struct {
	Applied     bool // false when the date was not selectable
	AutoAdvance bool // the active field should switch to the return role
}

// Engine drives the range selection state machine over a Store. All entry
// points run synchronously inside UI event handling; the engine itself keeps
// no date state of its own.
type Engine struct {
	store *Store
	now   func() time.Time
}

// NewEngine builds an engine over the shared store.
func NewEngine(store *Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// State classifies a context by which dates it holds.
func (e *Engine) State(key ContextKey) State {
	b := e.store.Bucket(key)
	switch {
	case b.Depart == nil && b.Return == nil:
		return StateEmpty
	case b.Return == nil:
		return StateDepartSet
	default:
		return StateRangeSet
	}
}

// Select applies a click on date d for the given role. hasReturnField tells
// the engine whether the context has an enabled paired return field, which
// controls the auto-advance signal after a depart selection.
//
// A click on a non-selectable date is ignored, not an error.
func (e *Engine) Select(key ContextKey, role Role, d calendar.Date, hasReturnField bool) SelectResult {
	if !e.store.Selectable(key, d) {
		return SelectResult{}
	}

	b := e.store.Bucket(key)

	if role == RoleDepart {
		// Unconditional in every state; an existing return is preserved.
		dd := d
		e.store.SetDate(key, RoleDepart, &dd)
		return SelectResult{Applied: true, AutoAdvance: hasReturnField}
	}

	// Return selection with no depart yet: default the depart first.
	if b.Depart == nil {
		today := calendar.FromTime(e.now(), d.System)
		e.store.SetDate(key, RoleDepart, &today)
		if b.Depart == nil {
			// The defaulted depart was itself outside the scoped range.
			return SelectResult{}
		}
	}

	if d.DayKey() < b.Depart.DayKey() {
		// The user picked a return before the depart: treat the click as
		// the new depart and push the return one day out so the range can
		// never invert.
		newDepart := d
		newReturn := d.AddDays(1)
		e.store.SetDate(key, RoleDepart, &newDepart)
		e.store.SetDate(key, RoleReturn, &newReturn)
		return SelectResult{Applied: true}
	}

	dd := d
	e.store.SetDate(key, RoleReturn, &dd)
	return SelectResult{Applied: true}
}

// Hover reports the preview range for d, if one applies. Previews only show
// while the active role is "return", a depart is set, and d extends the range
// forward without passing a confirmed return. Hovering never mutates state.
func (e *Engine) Hover(key ContextKey, role Role, d calendar.Date) (Preview, bool) {
	if role != RoleReturn {
		return Preview{}, false
	}
	b := e.store.Bucket(key)
	if b.Depart == nil {
		return Preview{}, false
	}
	k := d.DayKey()
	if k <= b.Depart.DayKey() {
		return Preview{}, false
	}
	if b.Return != nil && k > b.Return.DayKey() {
		return Preview{}, false
	}
	return Preview{From: *b.Depart, To: d}, true
}

// Leave handles the pointer leaving the calendar without a click: a confirmed
// range is reported again so the renderer repaints it over any stale preview;
// with only a depart set there is nothing to restore and the preview clears.
func (e *Engine) Leave(key ContextKey) (Preview, bool) {
	b := e.store.Bucket(key)
	if b.Depart != nil && b.Return != nil {
		return Preview{From: *b.Depart, To: *b.Return}, true
	}
	return Preview{}, false
}

// Clear resets the context to StateEmpty.
func (e *Engine) Clear(key ContextKey) {
	e.store.ClearContext(key)
}
