package picker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manzoomehweb/bookingcal/calendar"
)

func jd(y, m, d int) calendar.Date { return calendar.NewJalali(y, m, d) }

func jdp(y, m, d int) *calendar.Date {
	v := jd(y, m, d)
	return &v
}

func TestStore_BucketCreatedLazily(t *testing.T) {
	s := NewStore()

	b := s.Bucket("flight")
	require.NotNil(t, b)
	assert.Nil(t, b.Depart)
	assert.Nil(t, b.Return)

	assert.Same(t, b, s.Bucket("flight"), "same bucket on every access")
	assert.NotSame(t, b, s.Bucket("bus"))
}

func TestStore_SetDatePerRole(t *testing.T) {
	s := NewStore()

	s.SetDate("flight", RoleDepart, jdp(1404, 1, 10))
	s.SetDate("flight", RoleReturn, jdp(1404, 1, 14))

	b := s.Bucket("flight")
	assert.Equal(t, jd(1404, 1, 10), *b.Depart)
	assert.Equal(t, jd(1404, 1, 14), *b.Return)

	// contexts are isolated
	assert.Nil(t, s.Bucket("bus").Depart)
}

func TestStore_ClearAndResetReturn(t *testing.T) {
	s := NewStore()
	s.SetDate("flight", RoleDepart, jdp(1404, 1, 10))
	s.SetDate("flight", RoleReturn, jdp(1404, 1, 14))

	s.ResetReturn("flight")
	assert.NotNil(t, s.Bucket("flight").Depart, "depart untouched by trip-type switch")
	assert.Nil(t, s.Bucket("flight").Return)

	s.SetDate("flight", RoleReturn, jdp(1404, 1, 14))
	s.ClearContext("flight")
	assert.Nil(t, s.Bucket("flight").Depart)
	assert.Nil(t, s.Bucket("flight").Return)
}

func TestStore_ConstraintBoundsSubContext(t *testing.T) {
	s := NewStore()
	s.Constrain("hotel", Constraint{Start: "flight", End: "flight"})

	// Bounds unresolved: everything selectable.
	assert.True(t, s.Selectable("hotel", jd(1404, 2, 1)))

	s.SetDate("flight", RoleDepart, jdp(1404, 1, 10))
	assert.True(t, s.Selectable("hotel", jd(1404, 2, 1)), "still unresolved with only depart")

	s.SetDate("flight", RoleReturn, jdp(1404, 1, 20))

	assert.True(t, s.Selectable("hotel", jd(1404, 1, 10)))
	assert.True(t, s.Selectable("hotel", jd(1404, 1, 20)))
	assert.False(t, s.Selectable("hotel", jd(1404, 1, 9)))
	assert.False(t, s.Selectable("hotel", jd(1404, 1, 21)))

	// Out-of-range assignment is a silent no-op.
	s.SetDate("hotel", RoleDepart, jdp(1404, 2, 1))
	assert.Nil(t, s.Bucket("hotel").Depart)

	s.SetDate("hotel", RoleDepart, jdp(1404, 1, 12))
	require.NotNil(t, s.Bucket("hotel").Depart)
	assert.Equal(t, jd(1404, 1, 12), *s.Bucket("hotel").Depart)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("return")
	require.NoError(t, err)
	assert.Equal(t, RoleReturn, r)

	r, err = ParseRole("departure")
	require.NoError(t, err)
	assert.Equal(t, RoleDepart, r)

	_, err = ParseRole("middle")
	assert.Error(t, err)
}
