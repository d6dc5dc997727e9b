// Package calendar implements conversion between the Gregorian calendar and
// the Jalali (Solar Hijri) calendar used throughout the booking UI.
package calendar

import (
	"fmt"
	"time"
)

// System identifies which calendar a Date's fields are expressed in.
type System int

const (
	Gregorian System = iota
	Jalali
)

func (s System) String() string {
	if s == Jalali {
		return "jalali"
	}
	return "gregorian"
}

// ParseSystem maps the wire names used by the UI to a System.
func ParseSystem(name string) (System, error) {
	switch name {
	case "jalali", "shamsi":
		return Jalali, nil
	case "gregorian", "miladi":
		return Gregorian, nil
	}
	return Gregorian, fmt.Errorf("unknown calendar system %q", name)
}

// Date is a year/month/day triple in either calendar system. Two Dates are
// considered equal when their Gregorian projections are equal, regardless of
// which system produced them; all ordering goes through DayKey.
type Date struct {
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Day    int    `json:"day"`
	System System `json:"-"`
}

// NewJalali returns a Date in the Jalali system.
func NewJalali(y, m, d int) Date {
	return Date{Year: y, Month: m, Day: d, System: Jalali}
}

// NewGregorian returns a Date in the Gregorian system.
func NewGregorian(y, m, d int) Date {
	return Date{Year: y, Month: m, Day: d, System: Gregorian}
}

// FromTime projects a wall-clock time onto a calendar Date in the requested
// system. The time's own zone decides which civil day it falls on.
func FromTime(t time.Time, sys System) Date {
	y, m, d := t.Date()
	if sys == Gregorian {
		return NewGregorian(y, int(m), d)
	}
	jy, jm, jd := ToJalali(y, int(m), d)
	return NewJalali(jy, jm, jd)
}

// Time returns the Gregorian projection of d as a UTC midnight.
func (d Date) Time() time.Time {
	if d.System == Jalali {
		gy, gm, gd := ToGregorian(d.Year, d.Month, d.Day)
		return time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// In re-expresses d in the given system.
func (d Date) In(sys System) Date {
	if d.System == sys {
		return d
	}
	return FromTime(d.Time(), sys)
}

// AddDays returns d shifted by n days, staying in d's system.
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n), d.System)
}

// DayKey collapses the Gregorian projection into a single comparable integer
// (y*10000 + m*100 + d). All range ordering and equality in the picker uses
// this key, so mixed-system comparisons are well defined.
func (d Date) DayKey() int {
	g := d.In(Gregorian)
	return g.Year*10000 + g.Month*100 + g.Day
}

// Equal reports whether two dates land on the same civil day.
func (d Date) Equal(o Date) bool { return d.DayKey() == o.DayKey() }

// Before reports whether d falls strictly before o.
func (d Date) Before(o Date) bool { return d.DayKey() < o.DayKey() }

// ISO renders the Gregorian projection as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Time().Format("2006-01-02")
}

// Valid reports whether the triple denotes a real day in its system.
// Conversion functions do not call this; callers that cannot trust their
// inputs should.
func (d Date) Valid() bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	if d.System == Jalali {
		return d.Day <= MonthLength(d.Year, d.Month)
	}
	t := d.Time()
	return t.Day() == d.Day && int(t.Month()) == d.Month
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d (%s)", d.Year, d.Month, d.Day, d.System)
}
