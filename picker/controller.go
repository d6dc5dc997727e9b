package picker

import (
	"context"
	"sync"
	"time"

	"github.com/manzoomehweb/bookingcal/calendar"
	"github.com/manzoomehweb/bookingcal/holiday"
	"github.com/manzoomehweb/bookingcal/prices"
)

// Field describes the input the picker was opened for. It is the contract
// between the surrounding form and the controller.
type Field struct {
	Context     ContextKey `json:"context"`
	Role        Role       `json:"-"`
	HasReturn   bool       `json:"has_return"` // a paired, enabled return field exists
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`

	// PriceEligible is decided by the caller; only single-direction,
	// non-range lookups qualify for the day-price overlay.
	PriceEligible bool `json:"price_eligible"`

	// Constraint, when set, scopes this field's context to a parent range.
	Constraint *Constraint `json:"-"`
}

// ChangeFunc receives every committed date change. A nil iso means the date
// was cleared.
type ChangeFunc func(key ContextKey, role Role, iso *string)

// FetchProvider builds the price fetcher for a route. Nil disables the
// overlay entirely.
type FetchProvider func(origin, destination string) prices.Fetcher

// Controller orchestrates the picker: which field is active, the visible
// month, the calendar mode, and the delegation to the selection engine, the
// holiday registry and the price overlay. One Controller serves one UI
// session; a mutex serializes its entry points the way the browser's event
// loop did in the original UI.
type Controller struct {
	mu       sync.Mutex
	store    *Store
	engine   *Engine
	holidays *holiday.Registry
	overlay  *prices.Overlay
	priceFor FetchProvider
	onChange ChangeFunc
	now      func() time.Time

	opened bool
	active Field
	mode   calendar.System

	// First day of the month currently shown, expressed in mode.
	visibleYear  int
	visibleMonth int
}

// NewController wires a controller. onChange and priceFor may be nil.
func NewController(store *Store, holidays *holiday.Registry, overlay *prices.Overlay, priceFor FetchProvider, onChange ChangeFunc) *Controller {
	c := &Controller{
		store:    store,
		holidays: holidays,
		overlay:  overlay,
		priceFor: priceFor,
		onChange: onChange,
		now:      time.Now,
		mode:     calendar.Jalali,
	}
	c.engine = NewEngine(store)
	c.snapVisible(calendar.FromTime(c.now(), c.mode))
	return c
}

func (c *Controller) snapVisible(d calendar.Date) {
	d = d.In(c.mode)
	c.visibleYear, c.visibleMonth = d.Year, d.Month
}

// Open activates the picker for a field. The visible month snaps to the
// field's current value when it has one, otherwise to today. Opening a
// price-eligible depart field kicks off the overlay refresh for its route.
func (c *Controller) Open(f Field) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.opened = true
	c.active = f
	if f.Constraint != nil {
		c.store.Constrain(f.Context, *f.Constraint)
	}

	b := c.store.Bucket(f.Context)
	switch {
	case f.Role == RoleReturn && b.Return != nil:
		c.snapVisible(*b.Return)
	case b.Depart != nil:
		c.snapVisible(*b.Depart)
	default:
		c.snapVisible(calendar.FromTime(c.now(), c.mode))
	}

	c.refreshPrices()
}

// refreshPrices is called with the lock held.
func (c *Controller) refreshPrices() {
	if c.overlay == nil || c.priceFor == nil || !c.opened {
		return
	}
	f := c.active
	if f.Role != RoleDepart || !f.PriceEligible || f.Origin == "" || f.Destination == "" {
		return
	}
	c.overlay.Ensure(context.Background(), prices.Key(f.Origin, f.Destination), c.priceFor(f.Origin, f.Destination))
}

// Close deactivates the picker. Stored dates survive until the session ends.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opened = false
}

// IsOpen reports whether a field is active.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened
}

// ActiveField returns the field the picker is open for.
func (c *Controller) ActiveField() Field {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Mode returns the calendar system the picker currently renders in.
func (c *Controller) Mode() calendar.System {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SelectDate forwards a click to the engine and emits change events for the
// roles that actually moved. Clicks on non-selectable dates do nothing.
func (c *Controller) SelectDate(role Role, d calendar.Date) SelectResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opened {
		return SelectResult{}
	}

	key := c.active.Context
	before := *c.store.Bucket(key)

	res := c.engine.Select(key, role, d, c.active.HasReturn)
	if !res.Applied {
		return res
	}

	after := *c.store.Bucket(key)
	c.emitDiff(key, before, after)

	if res.AutoAdvance {
		c.active.Role = RoleReturn
	}
	return res
}

// Hover asks the engine for a preview range for the active field.
func (c *Controller) Hover(d calendar.Date) (Preview, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opened {
		return Preview{}, false
	}
	return c.engine.Hover(c.active.Context, c.active.Role, d)
}

// Leave applies the pointer-leave rule for the active field.
func (c *Controller) Leave() (Preview, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opened {
		return Preview{}, false
	}
	return c.engine.Leave(c.active.Context)
}

// Today selects the current day for the active role and snaps the visible
// month back to it.
func (c *Controller) Today() SelectResult {
	c.mu.Lock()
	today := calendar.FromTime(c.now(), c.mode)
	c.snapVisible(today)
	role := c.active.Role
	c.mu.Unlock()

	return c.SelectDate(role, today)
}

// Clear empties the active context and notifies both roles.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opened {
		return
	}
	key := c.active.Context
	before := *c.store.Bucket(key)
	c.engine.Clear(key)
	c.emitDiff(key, before, *c.store.Bucket(key))
}

// ResetReturn drops the return date of the active context, used when the
// trip type switches to one-way.
func (c *Controller) ResetReturn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opened {
		return
	}
	key := c.active.Context
	before := *c.store.Bucket(key)
	c.store.ResetReturn(key)
	c.emitDiff(key, before, *c.store.Bucket(key))
}

// Dates returns the selected pair for any context.
func (c *Controller) Dates(key ContextKey) (depart, ret *calendar.Date) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.store.Bucket(key)
	return copyDate(b.Depart), copyDate(b.Return)
}

// SetCalendarMode switches between Jalali and Gregorian display. The visible
// month is re-anchored so the same days stay on screen.
func (c *Controller) SetCalendarMode(sys calendar.System) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sys == c.mode {
		return
	}
	first := c.firstOfVisible()
	c.mode = sys
	c.snapVisible(first)
}

// NavigateMonth moves the visible month by delta (negative is backwards).
func (c *Controller) NavigateMonth(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	y, m := c.visibleYear, c.visibleMonth
	m += delta
	for m > 12 {
		m -= 12
		y++
	}
	for m < 1 {
		m += 12
		y--
	}
	c.visibleYear, c.visibleMonth = y, m
}

// VisibleMonth returns the month currently shown, in the current mode.
func (c *Controller) VisibleMonth() (year, month int, sys calendar.System) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibleYear, c.visibleMonth, c.mode
}

func (c *Controller) firstOfVisible() calendar.Date {
	if c.mode == calendar.Jalali {
		return calendar.NewJalali(c.visibleYear, c.visibleMonth, 1)
	}
	return calendar.NewGregorian(c.visibleYear, c.visibleMonth, 1)
}

func (c *Controller) emitDiff(key ContextKey, before, after Bucket) {
	if c.onChange == nil {
		return
	}
	if !sameDate(before.Depart, after.Depart) {
		c.onChange(key, RoleDepart, isoOf(after.Depart))
	}
	if !sameDate(before.Return, after.Return) {
		c.onChange(key, RoleReturn, isoOf(after.Return))
	}
}

func copyDate(d *calendar.Date) *calendar.Date {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func sameDate(a, b *calendar.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func isoOf(d *calendar.Date) *string {
	if d == nil {
		return nil
	}
	s := d.ISO()
	return &s
}
