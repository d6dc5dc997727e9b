package picker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manzoomehweb/bookingcal/calendar"
	"github.com/manzoomehweb/bookingcal/holiday"
	"github.com/manzoomehweb/bookingcal/prices"
)

type changeLog struct {
	entries []string
}

func (l *changeLog) record(key ContextKey, role Role, iso *string) {
	v := "nil"
	if iso != nil {
		v = *iso
	}
	l.entries = append(l.entries, string(key)+"/"+role.String()+"="+v)
}

func newTestController(priceFor FetchProvider) (*Controller, *changeLog) {
	log := &changeLog{}
	reg := holiday.NewRegistry()
	reg.Install(holiday.Dataset{
		FixedHolidays: map[string]string{"1-1": "Nowruz"},
		LunarHolidays: map[string]map[string]string{"1404": {"1-14": "Eid"}},
	})

	c := NewController(NewStore(), reg, prices.NewOverlay(), priceFor, log.record)
	c.now = func() time.Time { return time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC) } // 1404-01-14
	c.engine.now = c.now
	return c, log
}

func flightField() Field {
	return Field{Context: "flight", Role: RoleDepart, HasReturn: true}
}

func TestController_OpenSnapsVisibleMonth(t *testing.T) {
	c, _ := newTestController(nil)

	c.Open(flightField())
	y, m, sys := c.VisibleMonth()
	assert.Equal(t, calendar.Jalali, sys)
	assert.Equal(t, 1404, y)
	assert.Equal(t, 1, m)

	// With a depart already picked, the picker reopens on its month.
	c.SelectDate(RoleDepart, jd(1404, 5, 10))
	c.Close()
	c.Open(flightField())
	y, m, _ = c.VisibleMonth()
	assert.Equal(t, 1404, y)
	assert.Equal(t, 5, m)
}

func TestController_SelectEmitsChangesAndAutoAdvances(t *testing.T) {
	c, log := newTestController(nil)
	c.Open(flightField())

	res := c.SelectDate(RoleDepart, jd(1404, 1, 20))
	assert.True(t, res.AutoAdvance)
	assert.Equal(t, RoleReturn, c.ActiveField().Role)

	c.SelectDate(RoleReturn, jd(1404, 1, 24))

	require.Len(t, log.entries, 2)
	assert.Equal(t, "flight/depart=2025-04-08", log.entries[0])
	assert.Equal(t, "flight/return=2025-04-12", log.entries[1])
}

func TestController_AutoCorrectionEmitsBothRoles(t *testing.T) {
	c, log := newTestController(nil)
	c.Open(flightField())

	c.SelectDate(RoleDepart, jd(1404, 1, 10))
	c.SelectDate(RoleReturn, jd(1404, 1, 5))

	dep, ret := c.Dates("flight")
	require.NotNil(t, dep)
	require.NotNil(t, ret)
	assert.Equal(t, jd(1404, 1, 5).DayKey(), dep.DayKey())
	assert.Equal(t, jd(1404, 1, 6).DayKey(), ret.DayKey())

	// depart emitted twice (initial + correction), return once
	require.Len(t, log.entries, 3)
	assert.Equal(t, "flight/depart=2025-03-24", log.entries[1])
	assert.Equal(t, "flight/return=2025-03-25", log.entries[2])
}

func TestController_ClearEmitsNils(t *testing.T) {
	c, log := newTestController(nil)
	c.Open(flightField())
	c.SelectDate(RoleDepart, jd(1404, 1, 10))
	c.SelectDate(RoleReturn, jd(1404, 1, 12))

	c.Clear()

	require.Len(t, log.entries, 4)
	assert.Equal(t, "flight/depart=nil", log.entries[2])
	assert.Equal(t, "flight/return=nil", log.entries[3])

	dep, ret := c.Dates("flight")
	assert.Nil(t, dep)
	assert.Nil(t, ret)
}

func TestController_TodaySelectsCurrentDay(t *testing.T) {
	c, log := newTestController(nil)
	c.Open(flightField())
	c.NavigateMonth(3)

	c.Today()

	y, m, _ := c.VisibleMonth()
	assert.Equal(t, 1404, y)
	assert.Equal(t, 1, m)
	require.Len(t, log.entries, 1)
	assert.Equal(t, "flight/depart=2025-04-02", log.entries[0])
}

func TestController_NavigateMonthWraps(t *testing.T) {
	c, _ := newTestController(nil)
	c.Open(flightField())

	c.NavigateMonth(13)
	y, m, _ := c.VisibleMonth()
	assert.Equal(t, 1405, y)
	assert.Equal(t, 2, m)

	c.NavigateMonth(-2)
	y, m, _ = c.VisibleMonth()
	assert.Equal(t, 1404, y)
	assert.Equal(t, 12, m)
}

func TestController_SetCalendarModeReanchors(t *testing.T) {
	c, _ := newTestController(nil)
	c.Open(flightField())

	// 1404-01 starts on 2025-03-20 (Gregorian March).
	c.SetCalendarMode(calendar.Gregorian)
	y, m, sys := c.VisibleMonth()
	assert.Equal(t, calendar.Gregorian, sys)
	assert.Equal(t, 2025, y)
	assert.Equal(t, 3, m)

	c.SetCalendarMode(calendar.Jalali)
	y, m, sys = c.VisibleMonth()
	assert.Equal(t, calendar.Jalali, sys)
	assert.Equal(t, 1403, y, "March 1st falls in the previous Jalali year")
	assert.Equal(t, 12, m)
}

func TestController_PriceRefreshOnEligibleDepartField(t *testing.T) {
	var fetches atomic.Int32
	priceFor := func(origin, destination string) prices.Fetcher {
		return func(context.Context) (map[string]float64, error) {
			fetches.Add(1)
			return map[string]float64{"2025-04-02": 1200000}, nil
		}
	}

	c, _ := newTestController(priceFor)
	c.Open(Field{
		Context: "flight", Role: RoleDepart, HasReturn: true,
		Origin: "THR", Destination: "MHD", PriceEligible: true,
	})

	deadline := time.Now().Add(2 * time.Second)
	for fetches.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	assert.Equal(t, int32(1), fetches.Load())

	// Reopening the same route does not refetch.
	c.Close()
	c.Open(Field{
		Context: "flight", Role: RoleDepart, HasReturn: true,
		Origin: "THR", Destination: "MHD", PriceEligible: true,
	})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), fetches.Load())
}

func TestController_NoPriceRefreshForReturnOrIneligible(t *testing.T) {
	var fetches atomic.Int32
	priceFor := func(string, string) prices.Fetcher {
		return func(context.Context) (map[string]float64, error) {
			fetches.Add(1)
			return nil, nil
		}
	}

	c, _ := newTestController(priceFor)
	c.Open(Field{Context: "flight", Role: RoleReturn, Origin: "THR", Destination: "MHD", PriceEligible: true})
	c.Open(Field{Context: "flight", Role: RoleDepart, Origin: "THR", Destination: "MHD", PriceEligible: false})

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), fetches.Load())
}
