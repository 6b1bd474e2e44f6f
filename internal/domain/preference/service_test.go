package preference_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/dashlog/internal/domain/preference"
	"github.com/rpggio/dashlog/internal/repository"
	"github.com/rpggio/dashlog/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPreferenceService_LastUsed(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.PreferenceRepository{}

	repo.On("Set", ctx, preference.KeyLastZoneID, "3").Return(nil)
	repo.On("Set", ctx, preference.KeyLastTimeBlock, "Dinner").Return(nil)
	repo.On("Get", ctx, preference.KeyLastZoneID).Return("3", nil)
	repo.On("Get", ctx, preference.KeyLastTimeBlock).Return("Dinner", nil)

	svc := preference.NewService(repo, nil)
	require.NoError(t, svc.Remember(ctx, 3, " Dinner "))

	id, err := svc.LastZoneID(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), id)

	block, err := svc.LastTimeBlock(ctx)
	require.NoError(t, err)
	require.Equal(t, "Dinner", block)
}

func TestPreferenceService_MissingValues(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.PreferenceRepository{}
	repo.On("Get", ctx, mock.Anything).Return("", repository.ErrNotFound)
	repo.On("Delete", ctx, preference.KeyDraft).Return(repository.ErrNotFound)

	svc := preference.NewService(repo, nil)

	id, err := svc.LastZoneID(ctx)
	require.NoError(t, err)
	require.Zero(t, id)

	d, err := svc.Draft(ctx)
	require.NoError(t, err)
	require.Nil(t, d)

	require.NoError(t, svc.ClearDraft(ctx))
}

func TestPreferenceService_DraftRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.PreferenceRepository{}

	var stored string
	repo.On("Set", ctx, preference.KeyDraft, mock.AnythingOfType("string")).Run(func(args mock.Arguments) {
		stored = args.String(2)
	}).Return(nil)

	svc := preference.NewService(repo, nil)

	_, err := svc.SaveDraft(ctx, preference.Draft{})
	require.ErrorIs(t, err, preference.ErrEmptyDraft)

	start := time.Date(2024, 2, 1, 17, 0, 0, 0, time.UTC)
	miles := 1203.4
	saved, err := svc.SaveDraft(ctx, preference.Draft{ZoneID: 2, TimeBlock: "Dinner", StartTime: &start, StartMiles: &miles})
	require.NoError(t, err)
	require.False(t, saved.SavedAt.IsZero())

	repo.On("Get", ctx, preference.KeyDraft).Return(stored, nil)
	loaded, err := svc.Draft(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), loaded.ZoneID)
	require.True(t, start.Equal(*loaded.StartTime))
	require.InDelta(t, miles, *loaded.StartMiles, 1e-9)
}

func TestPreferenceService_Logged(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.PreferenceRepository{}
	repo.On("Set", ctx, preference.KeyLastZoneID, "4").Return(errors.New("disk full"))
	repo.On("Set", ctx, preference.KeyLastTimeBlock, "Lunch").Return(nil).Maybe()
	repo.On("Delete", ctx, preference.KeyDraft).Return(nil)

	svc := preference.NewService(repo, nil)
	err := svc.Logged(ctx, 4, "Lunch")
	require.ErrorContains(t, err, "saving last zone")

	repo.AssertCalled(t, "Delete", ctx, preference.KeyDraft)
}
