package picker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manzoomehweb/bookingcal/calendar"
)

func TestGrid_VisibleMonthRenderModel(t *testing.T) {
	c, _ := newTestController(nil)
	c.Open(flightField())
	c.SelectDate(RoleDepart, jd(1404, 1, 10))
	c.SelectDate(RoleReturn, jd(1404, 1, 14))

	g := c.Grid()
	assert.Equal(t, 1404, g.Year)
	assert.Equal(t, 1, g.Month)
	assert.Equal(t, "jalali", g.System)
	require.Len(t, g.Days, 31)

	first := g.Days[0]
	assert.Equal(t, "2025-03-20", first.ISO)
	assert.Equal(t, "Nowruz", first.Holiday, "fixed holiday annotated")
	assert.Equal(t, 5, first.Weekday, "2025-03-20 is a Thursday")

	day14 := g.Days[13]
	assert.Equal(t, "Eid", day14.Holiday, "lunar holiday annotated")
	assert.True(t, day14.IsToday)
	assert.True(t, day14.IsReturn)

	day10 := g.Days[9]
	assert.True(t, day10.IsDepart)

	for i := 9; i <= 13; i++ {
		assert.True(t, g.Days[i].InRange, "day %d", i+1)
	}
	assert.False(t, g.Days[8].InRange)
	assert.False(t, g.Days[14].InRange)
}

func TestGrid_GregorianMode(t *testing.T) {
	c, _ := newTestController(nil)
	c.Open(flightField())
	c.SetCalendarMode(calendar.Gregorian)

	g := c.Grid()
	assert.Equal(t, "gregorian", g.System)
	assert.Equal(t, 2025, g.Year)
	assert.Equal(t, 3, g.Month)
	require.Len(t, g.Days, 31)
	assert.Equal(t, "2025-03-01", g.Days[0].ISO)

	// Nowruz still annotated through the Jalali projection.
	assert.Equal(t, "Nowruz", g.Days[19].Holiday)
}
