package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/game-club-manager/internal/model"
)

func TestStatsToday(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)
	svc := NewReservationService(f.store, f.agg, nil)

	for _, in := range []NewReservation{
		{CustomerName: "Bob", Date: civil.Date{Year: 2024, Month: 6, Day: 2}, Time: civil.Time{Hour: 12}},
		{CustomerName: "Carol", Date: civil.Date{Year: 2024, Month: 6, Day: 3}},
	} {
		_, err := svc.Create(ctx, in, nil)
		require.NoError(t, err)
	}
	_, err := svc.UpdateStatus(ctx, f.res.ID, model.StatusInProgress, nil)
	require.NoError(t, err)

	// 23:30 UTC on June 1st is already June 2nd in Amsterdam.
	loc, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)
	stats := NewStats(f.store, f.store, loc)
	stats.now = func() time.Time { return time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC) }

	got, err := stats.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2024, Month: 6, Day: 2}, got.Date)
	assert.Equal(t, 2, got.TodayReservations)
	assert.Equal(t, 1, got.TodayConfirmed)
	assert.Equal(t, 2, got.AvailableGames)
}

func TestStatsStoreFailure(t *testing.T) {
	f := newFixture(t, AssignDedupe)
	f.store.FailNext("ListGames", errors.New("gone away"))

	_, err := NewStats(f.store, f.store, nil).Today(context.Background())
	assert.ErrorIs(t, err, model.ErrStoreFailure)
}
