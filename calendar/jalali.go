package calendar

import "time"

// The Jalali year starts at the March equinox. The leap-year rule implemented
// here is the arithmetic 2820-year cycle approximation (Birashk). It is known
// to drift from the astronomical calendar at a handful of cycle boundaries,
// but every date already stored by the booking flow was produced under this
// rule, so it must not be swapped for an astronomically exact one.

// Converter turns civil days from one calendar into the other. Both
// implementations agree on every date in the supported range (Jalali year 1
// onward); OffsetConverter is the default because it avoids walking the whole
// era on every call.
type Converter interface {
	ToJalali(gy, gm, gd int) (jy, jm, jd int)
	ToGregorian(jy, jm, jd int) (gy, gm, gd int)
}

// Default is the converter used by the package-level functions.
var Default Converter = OffsetConverter{}

// ToJalali converts a Gregorian date to Jalali using the default converter.
func ToJalali(gy, gm, gd int) (jy, jm, jd int) {
	return Default.ToJalali(gy, gm, gd)
}

// ToGregorian converts a Jalali date to Gregorian using the default converter.
func ToGregorian(jy, jm, jd int) (gy, gm, gd int) {
	return Default.ToGregorian(jy, jm, jd)
}

// IsLeapYear reports whether the Jalali year has 366 days under the 2820-year
// cycle rule.
func IsLeapYear(year int) bool {
	cycleYear := 474 + mod(year-474, 2820)
	return mod((cycleYear+38)*682, 2816) < 682
}

// MonthLength returns the number of days in a Jalali month. Months 1-6 have
// 31 days, 7-11 have 30, and month 12 has 30 in a leap year and 29 otherwise.
// Out-of-range months are the caller's problem (see Date.Valid).
func MonthLength(year, month int) int {
	switch {
	case month <= 6:
		return 31
	case month <= 11:
		return 30
	default:
		if IsLeapYear(year) {
			return 30
		}
		return 29
	}
}

func yearDays(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// monthOffset is the zero-based day-of-year of the first day of a month.
func monthOffset(month int) int {
	if month <= 7 {
		return (month - 1) * 31
	}
	return 186 + (month-7)*30
}

// daysFromEra counts days from Jalali 0001-01-01 to the given date by
// accumulating whole-year and whole-month lengths. This is the legacy
// authoritative path; it is O(year) but only runs inside EpochConverter and
// package initialization.
func daysFromEra(y, m, d int) int {
	n := 0
	for year := 1; year < y; year++ {
		n += yearDays(year)
	}
	return n + monthOffset(m) + d - 1
}

// Anchor pair: Jalali 1400-01-01 fell on 2021-03-21. Everything else is
// derived from this single known correspondence so that both converters stay
// consistent with each other.
var (
	refGregorian  = time.Date(2021, time.March, 21, 0, 0, 0, 0, time.UTC)
	refJalaliYear = 1400

	// eraStart is the Gregorian projection of Jalali 0001-01-01, derived
	// from the anchor at init.
	eraStart = refGregorian.AddDate(0, 0, -daysFromEra(refJalaliYear, 1, 1))
)

// daysBetween returns the signed number of civil days from a to b. Both must
// be UTC midnights. Unix seconds are used instead of time.Duration because
// the era spans more than Duration's ~292-year range.
func daysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / 86400)
}

// splitYearDay resolves a zero-based day-of-year into month and day.
func splitYearDay(n int) (m, d int) {
	if n < 186 {
		return n/31 + 1, n%31 + 1
	}
	n -= 186
	return n/30 + 7, n%30 + 1
}

// EpochConverter walks whole-year and whole-month day counts from the era
// start on every conversion. Kept as the authoritative reference path.
type EpochConverter struct{}

func (EpochConverter) ToGregorian(jy, jm, jd int) (int, int, int) {
	t := eraStart.AddDate(0, 0, daysFromEra(jy, jm, jd))
	y, m, d := t.Date()
	return y, int(m), d
}

func (EpochConverter) ToJalali(gy, gm, gd int) (int, int, int) {
	n := daysBetween(eraStart, time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, time.UTC))
	y := 1
	for n >= yearDays(y) {
		n -= yearDays(y)
		y++
	}
	m, d := splitYearDay(n)
	return y, m, d
}

// OffsetConverter advances or retreats from the fixed anchor pair by day
// difference. Default path; the year walk starts at the anchor year, so the
// loop is short for the dates the booking UI actually handles.
type OffsetConverter struct{}

func (OffsetConverter) ToGregorian(jy, jm, jd int) (int, int, int) {
	n := 0
	switch {
	case jy >= refJalaliYear:
		for y := refJalaliYear; y < jy; y++ {
			n += yearDays(y)
		}
	default:
		for y := jy; y < refJalaliYear; y++ {
			n -= yearDays(y)
		}
	}
	n += monthOffset(jm) + jd - 1
	t := refGregorian.AddDate(0, 0, n)
	y, m, d := t.Date()
	return y, int(m), d
}

func (OffsetConverter) ToJalali(gy, gm, gd int) (int, int, int) {
	n := daysBetween(refGregorian, time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, time.UTC))
	y := refJalaliYear
	for n < 0 {
		y--
		n += yearDays(y)
	}
	for n >= yearDays(y) {
		n -= yearDays(y)
		y++
	}
	m, d := splitYearDay(n)
	return y, m, d
}

func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
