package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/repository"
	"github.com/stretchr/testify/require"
)

func testSession(start time.Time, weekStart time.Time) *session.Session {
	return &session.Session{
		ZoneID:        1,
		TimeBlock:     session.BlockDinner,
		StartTime:     start,
		EndTime:       start.Add(2*time.Hour + 30*time.Minute),
		Profit:        48.25,
		StartMiles:    1000.5,
		EndMiles:      1042.3,
		Orders:        6,
		DashMinutes:   150,
		ActiveMinutes: 110,
		WeekStart:     weekStart,
	}
}

func TestSessionRepository_CRUD(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db)

	week := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, 1, 3, 17, 0, 0, 123e6, time.UTC)
	sess := testSession(start, week)

	require.NoError(t, repo.Create(ctx, sess))
	require.NotZero(t, sess.ID)

	got, err := repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.True(t, start.Equal(got.StartTime))
	require.True(t, sess.EndTime.Equal(got.EndTime))
	require.True(t, week.Equal(got.WeekStart))
	require.Equal(t, 48.25, got.Profit)
	require.Equal(t, 1042.3, got.EndMiles)
	require.Equal(t, 110, got.ActiveMinutes)

	got.Profit = 50
	got.TimeBlock = session.BlockLateNight
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, 50.0, got.Profit)
	require.Equal(t, session.BlockLateNight, got.TimeBlock)

	require.NoError(t, repo.Delete(ctx, sess.ID))
	_, err = repo.Get(ctx, sess.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, sess.ID), repository.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, got), repository.ErrNotFound)
}

func TestSessionRepository_Listing(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db)

	week1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	week2 := week1.AddDate(0, 0, 7)

	require.NoError(t, repo.Create(ctx, testSession(time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC), week1)))
	require.NoError(t, repo.Create(ctx, testSession(time.Date(2024, 1, 9, 11, 0, 0, 0, time.UTC), week2)))
	require.NoError(t, repo.Create(ctx, testSession(time.Date(2024, 1, 4, 11, 0, 0, 0, time.UTC), week1)))

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, 9, recent[0].StartTime.UTC().Day())
	require.Equal(t, 4, recent[1].StartTime.UTC().Day())

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	inWeek, err := repo.ListByWeek(ctx, week1)
	require.NoError(t, err)
	require.Len(t, inWeek, 2)
	for _, s := range inWeek {
		require.True(t, week1.Equal(s.WeekStart))
	}

	empty, err := repo.ListByWeek(ctx, week2.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Empty(t, empty)
}
