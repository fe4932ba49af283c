package service

import (
	"context"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/game-club-manager/internal/memstore"
	"github.com/iliyamo/game-club-manager/internal/model"
)

var _ Store = (*memstore.Store)(nil)

type fixture struct {
	store *memstore.Store
	agg   *DetailAggregator
	res   model.Reservation
	catan model.Game
	azul  model.Game
	stale model.Game // unavailable
	pizza model.MenuItem
	cola  model.MenuItem
}

func newFixture(t *testing.T, policy AssignmentPolicy) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: memstore.New()}

	f.res = model.Reservation{
		CustomerName: "Alice Smith",
		Date:         civil.Date{Year: 2024, Month: 6, Day: 2},
		Time:         civil.Time{Hour: 19, Minute: 30},
		PartySize:    4,
		Status:       model.StatusConfirmed,
	}
	require.NoError(t, f.store.CreateReservation(ctx, &f.res))

	f.catan = model.Game{Name: "Catan", Available: true}
	f.azul = model.Game{Name: "Azul", Available: true}
	f.stale = model.Game{Name: "Monopoly", Available: false}
	for _, g := range []*model.Game{&f.catan, &f.azul, &f.stale} {
		require.NoError(t, f.store.CreateGame(ctx, g))
	}

	f.pizza = model.MenuItem{Name: "Pizza", Category: model.CategoryFood, Price: decimal.RequireFromString("12.50"), Available: true}
	f.cola = model.MenuItem{Name: "Cola", Category: model.CategoryDrink, Price: decimal.RequireFromString("7.25"), Available: true}
	for _, m := range []*model.MenuItem{&f.pizza, &f.cola} {
		require.NoError(t, f.store.CreateMenuItem(ctx, m))
	}

	f.agg = NewDetailAggregator(f.store, policy)
	return f
}

func gameNames(d ReservationDetail) []string {
	out := make([]string, 0, len(d.Games))
	for _, g := range d.Games {
		out = append(out, g.Game.Name)
	}
	return out
}
