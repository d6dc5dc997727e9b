// Package picker implements the date-range selection core of the booking UI:
// per-context depart/return state, the two-step range selection state machine
// with hover preview and auto-correction, and the controller that ties them
// to the holiday registry and the price overlay.
package picker

import (
	"fmt"

	"github.com/manzoomehweb/bookingcal/calendar"
)

// ContextKey identifies one booking flow ("flight", "bus", "hotel", ...).
// Each key gets its own depart/return bucket, so switching between flows
// never clobbers dates picked in another one.
type ContextKey string

// Role is the field a date is being selected for.
type Role int

const (
	RoleDepart Role = iota
	RoleReturn
)

func (r Role) String() string {
	if r == RoleReturn {
		return "return"
	}
	return "depart"
}

// ParseRole validates a wire role name at the store boundary.
func ParseRole(s string) (Role, error) {
	switch s {
	case "depart", "departure":
		return RoleDepart, nil
	case "return":
		return RoleReturn, nil
	}
	return RoleDepart, fmt.Errorf("unknown role %q", s)
}

// Bucket holds the selected pair for one context. Nil means not picked yet.
type Bucket struct {
	Depart *calendar.Date
	Return *calendar.Date
}

// Constraint binds a sub-context's selectable dates to the resolved range of
// parent contexts: the lower bound is Start's depart, the upper bound is
// End's return. It only takes effect once both bounds are resolved.
type Constraint struct {
	Start ContextKey
	End   ContextKey
}

// Store owns every Bucket. The engine and the controller keep only context
// keys and always read through the store, so there is a single copy of each
// pair and no state to drift apart.
type Store struct {
	buckets     map[ContextKey]*Bucket
	constraints map[ContextKey]Constraint
}

// NewStore returns an empty store. Buckets are created lazily on first
// access and live for the whole session.
func NewStore() *Store {
	return &Store{
		buckets:     make(map[ContextKey]*Bucket),
		constraints: make(map[ContextKey]Constraint),
	}
}

// Bucket returns the bucket for a context, creating it on first use.
func (s *Store) Bucket(key ContextKey) *Bucket {
	b, ok := s.buckets[key]
	if !ok {
		b = &Bucket{}
		s.buckets[key] = b
	}
	return b
}

// Constrain attaches a scoped range constraint to a sub-context.
func (s *Store) Constrain(key ContextKey, c Constraint) {
	s.constraints[key] = c
}

// Selectable reports whether a date may be assigned in a context. Without a
// constraint, or while either bound is unresolved, everything is selectable.
func (s *Store) Selectable(key ContextKey, d calendar.Date) bool {
	c, ok := s.constraints[key]
	if !ok {
		return true
	}
	lo := s.Bucket(c.Start).Depart
	hi := s.Bucket(c.End).Return
	if lo == nil || hi == nil {
		return true
	}
	k := d.DayKey()
	return k >= lo.DayKey() && k <= hi.DayKey()
}

// SetDate assigns a date (or nil) to one role of a context. An assignment
// that falls outside an active scoped range constraint is silently dropped.
func (s *Store) SetDate(key ContextKey, role Role, d *calendar.Date) {
	if d != nil && !s.Selectable(key, *d) {
		return
	}
	b := s.Bucket(key)
	switch role {
	case RoleDepart:
		b.Depart = d
	case RoleReturn:
		b.Return = d
	}
}

// ClearContext resets both dates of a context to nil. The bucket itself is
// kept; buckets are never destroyed during a session.
func (s *Store) ClearContext(key ContextKey) {
	b := s.Bucket(key)
	b.Depart = nil
	b.Return = nil
}

// ResetReturn drops only the return date, e.g. when the trip type switches
// to one-way. The depart date is left untouched.
func (s *Store) ResetReturn(key ContextKey) {
	s.Bucket(key).Return = nil
}
