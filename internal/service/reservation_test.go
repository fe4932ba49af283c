package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/game-club-manager/internal/filter"
	"github.com/iliyamo/game-club-manager/internal/model"
	"github.com/iliyamo/game-club-manager/internal/queue"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ReservationCompletedEvent
	err    error
}

func (p *recordingPublisher) PublishReservationCompleted(_ context.Context, ev queue.ReservationCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func strPtr(s string) *string { return &s }

func TestCreateReservation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)
	svc := NewReservationService(f.store, f.agg, nil)
	staff := uuid.New()

	r, err := svc.Create(ctx, NewReservation{
		CustomerName:  "  Bob Jones ",
		CustomerPhone: strPtr("   "),
		Date:          civil.Date{Year: 2024, Month: 6, Day: 3},
		Time:          civil.Time{Hour: 18},
	}, &staff)
	require.NoError(t, err)
	assert.Equal(t, "Bob Jones", r.CustomerName)
	assert.Nil(t, r.CustomerPhone)
	assert.Equal(t, model.DefaultPartySize, r.PartySize)
	assert.Equal(t, model.StatusConfirmed, r.Status)
	require.NotNil(t, r.CreatedBy)
	assert.Equal(t, staff, *r.CreatedBy)
}

func TestCreateReservationValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)
	svc := NewReservationService(f.store, f.agg, nil)
	day := civil.Date{Year: 2024, Month: 6, Day: 3}

	tests := map[string]NewReservation{
		"blank name":     {CustomerName: " ", Date: day},
		"missing date":   {CustomerName: "Bob"},
		"negative party": {CustomerName: "Bob", Date: day, PartySize: -1},
		"bad time":       {CustomerName: "Bob", Date: day, Time: civil.Time{Hour: 25}},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, in, nil)
			assert.ErrorIs(t, err, model.ErrInvalidArgument)
		})
	}
}

func TestListAppliesFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)
	svc := NewReservationService(f.store, f.agg, nil)
	_, err := svc.Create(ctx, NewReservation{CustomerName: "Bob", Date: civil.Date{Year: 2024, Month: 6, Day: 1}, PartySize: 6}, nil)
	require.NoError(t, err)

	all, err := svc.List(ctx, filter.Spec{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Bob", all[0].CustomerName)

	four := 4
	small, err := svc.List(ctx, filter.Spec{MaxPartySize: &four})
	require.NoError(t, err)
	require.Len(t, small, 1)
	assert.Equal(t, "Alice Smith", small[0].CustomerName)

	bogus := model.Status("seated")
	_, err = svc.List(ctx, filter.Spec{Status: &bogus})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestUpdateStatusCompletedPublishes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)
	pub := &recordingPublisher{}
	svc := NewReservationService(f.store, f.agg, pub)
	svc.now = func() time.Time { return time.Date(2024, 6, 2, 22, 10, 0, 0, time.UTC) }
	staff := uuid.New()

	_, err := f.agg.AssignGame(ctx, f.res.ID, f.catan.ID)
	require.NoError(t, err)
	_, err = f.agg.AddOrder(ctx, f.res.ID, f.pizza.ID, 1)
	require.NoError(t, err)
	_, err = f.agg.AddOrder(ctx, f.res.ID, f.cola.ID, 1)
	require.NoError(t, err)

	r, err := svc.UpdateStatus(ctx, f.res.ID, model.StatusCompleted, &staff)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, r.Status)
	require.NotNil(t, r.CompletedBy)
	assert.Equal(t, staff, *r.CompletedBy)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, f.res.ID.String(), ev.ReservationID)
	assert.Equal(t, []string{"Catan"}, ev.Games)
	assert.Equal(t, 2, ev.OrderCount)
	assert.Equal(t, "19.75", ev.Total)
	assert.Equal(t, staff.String(), ev.CompletedBy)
	assert.Equal(t, "2024-06-02T22:10:00Z", ev.CompletedAt)
}

func TestUpdateStatusPublishFailureIsIgnored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewReservationService(f.store, f.agg, pub)

	r, err := svc.UpdateStatus(ctx, f.res.ID, model.StatusCompleted, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, r.Status)
	assert.Nil(t, r.CompletedBy)
}

func TestUpdateStatusOtherStatesDoNotPublish(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)
	pub := &recordingPublisher{}
	svc := NewReservationService(f.store, f.agg, pub)
	staff := uuid.New()

	r, err := svc.UpdateStatus(ctx, f.res.ID, model.StatusInProgress, &staff)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, r.Status)
	assert.Nil(t, r.CompletedBy)
	assert.Empty(t, pub.events)

	_, err = svc.UpdateStatus(ctx, f.res.ID, model.Status("seated"), &staff)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = svc.UpdateStatus(ctx, uuid.New(), model.StatusCancelled, &staff)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
