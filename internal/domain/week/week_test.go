package week_test

import (
	"testing"
	"time"

	"github.com/rpggio/dashlog/internal/domain/week"
	"github.com/stretchr/testify/require"
)

var chicago = mustLoad("America/Chicago")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, -6*3600)
	}
	return loc
}

func TestCalendar_MondayStart(t *testing.T) {
	cal := week.NewCalendar(week.MondayStart, time.UTC)

	// 2024-01-07 is a Sunday; it belongs to the week starting Monday 2024-01-01.
	sunday := time.Date(2024, 1, 7, 23, 59, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cal.Start(sunday))

	monday := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	require.Equal(t, monday, cal.Start(monday))
}

func TestCalendar_SundayStart(t *testing.T) {
	cal := week.NewCalendar(week.SundayStart, time.UTC)

	wednesday := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), cal.Start(wednesday))

	sunday := time.Date(2024, 1, 7, 8, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), cal.Start(sunday))
}

func TestCalendar_KeyIdempotentAcrossWeek(t *testing.T) {
	for _, policy := range []week.Policy{week.MondayStart, week.SundayStart} {
		cal := week.NewCalendar(policy, chicago)
		start := cal.Start(time.Date(2024, 3, 6, 15, 0, 0, 0, chicago))

		key := cal.Key(start)
		require.Equal(t, key, cal.Key(time.UnixMilli(key)), "bucketing a key again must not move it")

		for day := 0; day < 7; day++ {
			y, m, d := start.Date()
			late := time.Date(y, m, d+day, 23, 30, 0, 0, chicago)
			require.Equal(t, key, cal.Key(late), "policy %s day %d", policy, day)
		}

		y, m, d := start.Date()
		next := time.Date(y, m, d+7, 0, 0, 0, 0, chicago)
		require.NotEqual(t, key, cal.Key(next))
	}
}

func TestCalendar_ShiftAcrossDST(t *testing.T) {
	cal := week.NewCalendar(week.MondayStart, chicago)
	// DST begins 2024-03-10 in Chicago.
	start := cal.Start(time.Date(2024, 3, 5, 9, 0, 0, 0, chicago))

	next := cal.Shift(start, 1)
	require.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, chicago), next)
	require.Equal(t, 0, next.Hour())

	prev := cal.Shift(next, -1)
	require.True(t, prev.Equal(start))
}

func TestCalendar_Label(t *testing.T) {
	cal := week.NewCalendar(week.MondayStart, time.UTC)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "Jan 1 – Jan 7", cal.Label(start))

	cal.ISOWeek = true
	require.Equal(t, "Jan 1 – Jan 7 · W01", cal.Label(start))

	// Monday 2024-12-30 belongs to ISO week 1 of 2025.
	y, w := cal.ISOWeekOf(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.Equal(t, 2025, y)
	require.Equal(t, 1, w)
}

func TestParsePolicy(t *testing.T) {
	p, err := week.ParsePolicy("Sunday")
	require.NoError(t, err)
	require.Equal(t, week.SundayStart, p)

	p, err = week.ParsePolicy("")
	require.NoError(t, err)
	require.Equal(t, week.MondayStart, p)

	_, err = week.ParsePolicy("friday")
	require.ErrorIs(t, err, week.ErrUnknownPolicy)
}
