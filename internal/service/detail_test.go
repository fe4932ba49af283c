package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/game-club-manager/internal/model"
)

func TestDetailTotals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)

	d, err := f.agg.Detail(ctx, f.res.ID)
	require.NoError(t, err)
	assert.Empty(t, d.Orders)
	assert.Empty(t, d.Games)
	assert.Equal(t, "0.00", FormatMoney(d.Total))

	_, err = f.agg.AddOrder(ctx, f.res.ID, f.pizza.ID, 1)
	require.NoError(t, err)
	d, err = f.agg.AddOrder(ctx, f.res.ID, f.cola.ID, 1)
	require.NoError(t, err)

	require.Len(t, d.Orders, 2)
	assert.Equal(t, "Pizza", d.Orders[0].MenuItem.Name)
	assert.Equal(t, model.CategoryDrink, d.Orders[1].MenuItem.Category)
	assert.Equal(t, "19.75", FormatMoney(d.Total))
}

func TestDetailUnknownReservation(t *testing.T) {
	f := newFixture(t, AssignDedupe)
	_, err := f.agg.Detail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAddOrderFreezesPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)

	d, err := f.agg.AddOrder(ctx, f.res.ID, f.pizza.ID, 2)
	require.NoError(t, err)
	require.Len(t, d.Orders, 1)
	assert.Equal(t, "25.00", FormatMoney(d.Orders[0].Order.Price))

	f.pizza.Price = decimal.RequireFromString("99.99")
	require.NoError(t, f.store.UpdateMenuItem(ctx, &f.pizza))

	d, err = f.agg.Detail(ctx, f.res.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", FormatMoney(d.Orders[0].Order.Price))
	assert.Equal(t, "25.00", FormatMoney(d.Total))
	assert.Equal(t, "99.99", FormatMoney(d.Orders[0].MenuItem.Price))
}

func TestAddOrderValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)
	f.store.FailNext("GetReservation", errors.New("must not be reached"))

	tests := []struct {
		name     string
		menuItem uuid.UUID
		qty      int
	}{
		{"no menu item", uuid.Nil, 1},
		{"zero quantity", f.pizza.ID, 0},
		{"negative quantity", f.pizza.ID, -3},
		{"quantity above maximum", f.pizza.ID, 10_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.agg.AddOrder(ctx, f.res.ID, tt.menuItem, tt.qty)
			assert.ErrorIs(t, err, model.ErrInvalidArgument)
		})
	}
}

func TestOrderLinePriceLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)

	whisky := model.MenuItem{Name: "Rare Whisky", Category: model.CategoryDrink, Price: decimal.RequireFromString("250000.00"), Available: true}
	require.NoError(t, f.store.CreateMenuItem(ctx, &whisky))

	_, err := f.agg.AddOrder(ctx, f.res.ID, whisky.ID, model.MaxQuantity)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	d, err := f.agg.AddOrder(ctx, f.res.ID, whisky.ID, 2)
	require.NoError(t, err)
	require.Len(t, d.Orders, 1)

	_, err = f.agg.UpdateOrderQuantity(ctx, d.Orders[0].Order.ID, model.MaxQuantity)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = f.agg.UpdateOrderQuantity(ctx, d.Orders[0].Order.ID, model.MaxQuantity+1)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	d, err = f.agg.Detail(ctx, f.res.ID)
	require.NoError(t, err)
	assert.Equal(t, "500000.00", FormatMoney(d.Total))
}

func TestAddOrderLookups(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)

	_, err := f.agg.AddOrder(ctx, f.res.ID, uuid.New(), 1)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.agg.AddOrder(ctx, uuid.New(), f.pizza.ID, 1)
	assert.ErrorIs(t, err, model.ErrNotFound)

	f.cola.Available = false
	require.NoError(t, f.store.UpdateMenuItem(ctx, &f.cola))
	_, err = f.agg.AddOrder(ctx, f.res.ID, f.cola.ID, 1)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestRemoveOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)

	d, err := f.agg.AddOrder(ctx, f.res.ID, f.pizza.ID, 1)
	require.NoError(t, err)
	_, err = f.agg.AddOrder(ctx, f.res.ID, f.cola.ID, 1)
	require.NoError(t, err)

	after, err := f.agg.RemoveOrder(ctx, d.Orders[0].Order.ID)
	require.NoError(t, err)
	require.NotNil(t, after)
	require.Len(t, after.Orders, 1)
	assert.Equal(t, "7.25", FormatMoney(after.Total))

	missing, err := f.agg.RemoveOrder(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateOrderQuantityUsesFrozenUnitPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)

	d, err := f.agg.AddOrder(ctx, f.res.ID, f.cola.ID, 2)
	require.NoError(t, err)
	orderID := d.Orders[0].Order.ID
	assert.Equal(t, "14.50", FormatMoney(d.Total))

	f.cola.Price = decimal.RequireFromString("10.00")
	require.NoError(t, f.store.UpdateMenuItem(ctx, &f.cola))

	d, err = f.agg.UpdateOrderQuantity(ctx, orderID, 3)
	require.NoError(t, err)
	require.Len(t, d.Orders, 1)
	assert.Equal(t, orderID, d.Orders[0].Order.ID)
	assert.Equal(t, 3, d.Orders[0].Order.Quantity)
	assert.Equal(t, "21.75", FormatMoney(d.Orders[0].Order.Price))

	_, err = f.agg.UpdateOrderQuantity(ctx, orderID, 0)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = f.agg.UpdateOrderQuantity(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAssignGameKeepsAssignmentOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignAllow)

	_, err := f.agg.AssignGame(ctx, f.res.ID, f.catan.ID)
	require.NoError(t, err)
	d, err := f.agg.AssignGame(ctx, f.res.ID, f.azul.ID)
	require.NoError(t, err)

	// insertion order, not alphabetical
	assert.Equal(t, []string{"Catan", "Azul"}, gameNames(d))
}

func TestAssignGameValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)

	_, err := f.agg.AssignGame(ctx, f.res.ID, uuid.Nil)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = f.agg.AssignGame(ctx, f.res.ID, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.agg.AssignGame(ctx, uuid.New(), f.catan.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.agg.AssignGame(ctx, f.res.ID, f.stale.ID)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestAssignmentPolicies(t *testing.T) {
	tests := []struct {
		policy    AssignmentPolicy
		wantErr   error
		wantGames []string
		wantLinks int
	}{
		{AssignAllow, nil, []string{"Catan", "Azul", "Catan"}, 3},
		{AssignDedupe, nil, []string{"Catan", "Azul"}, 3},
		{AssignReject, model.ErrConflict, []string{"Catan", "Azul"}, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, tt.policy)

			_, err := f.agg.AssignGame(ctx, f.res.ID, f.catan.ID)
			require.NoError(t, err)
			_, err = f.agg.AssignGame(ctx, f.res.ID, f.azul.ID)
			require.NoError(t, err)
			_, err = f.agg.AssignGame(ctx, f.res.ID, f.catan.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			d, err := f.agg.Detail(ctx, f.res.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantGames, gameNames(d))

			links, err := f.store.ListAssignedGames(ctx, f.res.ID)
			require.NoError(t, err)
			assert.Len(t, links, tt.wantLinks)
		})
	}
}

func TestUnassignGame(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignAllow)

	_, err := f.agg.AssignGame(ctx, f.res.ID, f.catan.ID)
	require.NoError(t, err)
	_, err = f.agg.AssignGame(ctx, f.res.ID, f.catan.ID)
	require.NoError(t, err)

	before, err := f.agg.Detail(ctx, f.res.ID)
	require.NoError(t, err)

	// not assigned: no error, nothing changes
	d, err := f.agg.UnassignGame(ctx, f.res.ID, f.azul.ID)
	require.NoError(t, err)
	assert.Equal(t, gameNames(before), gameNames(d))

	// removes every duplicate link
	d, err = f.agg.UnassignGame(ctx, f.res.ID, f.catan.ID)
	require.NoError(t, err)
	assert.Empty(t, d.Games)

	_, err = f.agg.UnassignGame(ctx, f.res.ID, uuid.Nil)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestStoreFailuresPassThrough(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)
	boom := errors.New("Deadlock found when trying to get lock")

	f.store.FailNext("CreateOrder", boom)
	_, err := f.agg.AddOrder(ctx, f.res.ID, f.pizza.ID, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrStoreFailure)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), boom.Error())

	d, err := f.agg.Detail(ctx, f.res.ID)
	require.NoError(t, err)
	assert.Empty(t, d.Orders, "failed write leaves state unchanged")
}

func TestReloadFailureKeepsWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AssignDedupe)
	boom := errors.New("read timeout")

	f.store.FailNext("ListOrderLines", boom)
	_, err := f.agg.AddOrder(ctx, f.res.ID, f.pizza.ID, 1)

	var reload *ReloadError
	require.ErrorAs(t, err, &reload)
	assert.Equal(t, f.res.ID, reload.ReservationID)
	assert.ErrorIs(t, err, model.ErrStoreFailure)

	d, err := f.agg.Detail(ctx, f.res.ID)
	require.NoError(t, err)
	assert.Len(t, d.Orders, 1)
	assert.Equal(t, "12.50", FormatMoney(d.Total))
}

func TestParseAssignmentPolicy(t *testing.T) {
	p, err := ParseAssignmentPolicy("")
	require.NoError(t, err)
	assert.Equal(t, AssignDedupe, p)

	p, err = ParseAssignmentPolicy(" Reject ")
	require.NoError(t, err)
	assert.Equal(t, AssignReject, p)

	_, err = ParseAssignmentPolicy("merge")
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}
