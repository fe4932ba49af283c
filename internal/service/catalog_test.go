package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/game-club-manager/internal/model"
)

func intPtr(n int) *int { return &n }

func TestGameCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)
	games := NewGameCatalog(f.store)
	staff := uuid.New()

	g, err := games.Create(ctx, model.Game{Name: " Brass ", MinPlayers: intPtr(2), MaxPlayers: intPtr(4), Available: true}, &staff)
	require.NoError(t, err)
	assert.Equal(t, "Brass", g.Name)
	assert.Equal(t, staff, *g.CreatedBy)

	_, err = games.Create(ctx, model.Game{Name: "Broken", MinPlayers: intPtr(5), MaxPlayers: intPtr(2)}, nil)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	all, err := games.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	available, err := games.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, available, 3)
	assert.Equal(t, "Azul", available[0].Name)

	g, err = games.SetAvailability(ctx, g.ID, false)
	require.NoError(t, err)
	assert.False(t, g.Available)

	g.Name = "Brass: Birmingham"
	g, err = games.Update(ctx, g.ID, g)
	require.NoError(t, err)
	assert.Equal(t, "Brass: Birmingham", g.Name)
	_, err = games.Update(ctx, uuid.New(), g)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.agg.AssignGame(ctx, f.res.ID, f.catan.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, games.Delete(ctx, f.catan.ID), model.ErrConflict)
	assert.NoError(t, games.Delete(ctx, g.ID))
	_, err = games.Get(ctx, g.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMenuCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)
	menu := NewMenuCatalog(f.store)

	m, err := menu.Create(ctx, model.MenuItem{Name: "Brownie", Category: model.CategoryDessert, Price: decimal.RequireFromString("4.5"), Available: true})
	require.NoError(t, err)
	assert.Equal(t, "4.50", m.Price.StringFixed(2))

	_, err = menu.Create(ctx, model.MenuItem{Name: "Cheap", Category: model.CategorySnack, Price: decimal.RequireFromString("0.999")})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = menu.Create(ctx, model.MenuItem{Name: "Free money", Category: model.CategorySnack, Price: decimal.RequireFromString("-1")})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = menu.Create(ctx, model.MenuItem{Name: "Soup", Category: "starter"})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	items, err := menu.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, items, 3)
	// by category, then name
	assert.Equal(t, []string{"Brownie", "Cola", "Pizza"}, []string{items[0].Name, items[1].Name, items[2].Name})

	m, err = menu.SetAvailability(ctx, m.ID, false)
	require.NoError(t, err)
	avail, err := menu.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, avail, 2)

	_, err = f.agg.AddOrder(ctx, f.res.ID, f.pizza.ID, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, menu.Delete(ctx, f.pizza.ID), model.ErrConflict)
	assert.NoError(t, menu.Delete(ctx, m.ID))
}
