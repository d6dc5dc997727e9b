package picker

import (
	"time"

	"github.com/manzoomehweb/bookingcal/calendar"
)

// DayCell is the render model for one day of the visible month. Drawing it
// is the renderer's job; the controller only supplies values and annotations.
type DayCell struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`

	ISO     string `json:"iso"`
	Weekday int    `json:"weekday"` // 0 = Saturday, the first column of the grid

	Holiday     string   `json:"holiday,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Selectable  bool     `json:"selectable"`
	IsDepart    bool     `json:"is_depart"`
	IsReturn    bool     `json:"is_return"`
	InRange     bool     `json:"in_range"`
	IsToday     bool     `json:"is_today"`
}

// MonthGrid holds everything the renderer needs for the visible month.
type MonthGrid struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	System        string          `json:"system"`
	PricesLoading bool            `json:"prices_loading"`
	Days          []DayCell       `json:"days"`
}

// Grid builds the render model for the visible month of the active field.
// This is the payload behind the outward "render requested" signal.
func (c *Controller) Grid() MonthGrid {
	c.mu.Lock()
	defer c.mu.Unlock()

	y, m := c.visibleYear, c.visibleMonth
	grid := MonthGrid{Year: y, Month: m, System: c.mode.String()}
	if c.overlay != nil {
		grid.PricesLoading = c.overlay.Loading()
	}

	key := c.active.Context
	b := c.store.Bucket(key)
	today := calendar.FromTime(c.now(), c.mode)

	var length int
	if c.mode == calendar.Jalali {
		length = calendar.MonthLength(y, m)
	} else {
		length = gregorianMonthLength(y, m)
	}

	for day := 1; day <= length; day++ {
		var d calendar.Date
		if c.mode == calendar.Jalali {
			d = calendar.NewJalali(y, m, day)
		} else {
			d = calendar.NewGregorian(y, m, day)
		}

		cell := DayCell{
			Year:       y,
			Month:      m,
			Day:        day,
			ISO:        d.ISO(),
			Weekday:    weekdayColumn(d),
			Selectable: c.store.Selectable(key, d),
			IsToday:    d.Equal(today),
		}

		if c.holidays != nil {
			j := d.In(calendar.Jalali)
			if res := c.holidays.Lookup(j.Year, j.Month, j.Day); res.IsHoliday {
				cell.Holiday = res.Name
			}
		}

		if c.overlay != nil {
			if p, ok := c.overlay.Get(cell.ISO); ok {
				cell.Price = &p
			}
		}

		k := d.DayKey()
		if b.Depart != nil {
			cell.IsDepart = k == b.Depart.DayKey()
		}
		if b.Return != nil {
			cell.IsReturn = k == b.Return.DayKey()
		}
		if b.Depart != nil && b.Return != nil {
			cell.InRange = k >= b.Depart.DayKey() && k <= b.Return.DayKey()
		}

		grid.Days = append(grid.Days, cell)
	}
	return grid
}

// weekdayColumn maps a date to its grid column. The calendar week starts on
// Saturday.
func weekdayColumn(d calendar.Date) int {
	wd := d.Time().Weekday()
	return int((wd + 1) % 7) // Saturday -> 0, Friday -> 6
}

func gregorianMonthLength(y, m int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(y, time.Month(m)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
