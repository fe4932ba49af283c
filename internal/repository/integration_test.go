//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/ory/dockertest/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/game-club-manager/internal/database"
	"github.com/iliyamo/game-club-manager/internal/filter"
	"github.com/iliyamo/game-club-manager/internal/model"
	"github.com/iliyamo/game-club-manager/internal/repository"
	"github.com/iliyamo/game-club-manager/internal/service"
)

var store *repository.Store

// TestMain starts a throwaway MySQL 8 container, applies the schema and
// runs the suite against it.
func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "docker unavailable:", err)
		os.Exit(1)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.Run("mysql", "8.0", []string{
		"MYSQL_ROOT_PASSWORD=secret",
		"MYSQL_DATABASE=game_club",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "start mysql:", err)
		os.Exit(1)
	}

	opts := database.Options{
		User: "root",
		Pass: "secret",
		Host: "localhost",
		Port: resource.GetPort("3306/tcp"),
		Name: "game_club",
	}
	err = pool.Retry(func() error {
		db, err := database.Open(opts)
		if err != nil {
			return err
		}
		if err := database.Migrate(context.Background(), db); err != nil {
			_ = db.Close()
			return err
		}
		store = repository.NewStore(db)
		return nil
	})
	if err != nil {
		_ = pool.Purge(resource)
		fmt.Fprintln(os.Stderr, "connect mysql:", err)
		os.Exit(1)
	}

	code := m.Run()
	_ = pool.Purge(resource)
	os.Exit(code)
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

func strp(s string) *string { return &s }

func TestReservationFilterAgainstMySQL(t *testing.T) {
	c := ctx(t)
	res := service.NewReservationService(store, nil, nil)

	day := civil.Date{Year: 2031, Month: 3, Day: 14}
	late, err := res.Create(c, service.NewReservation{
		CustomerName: "Grace Hopper", Date: day, Time: civil.Time{Hour: 21}, PartySize: 6,
		Notes: strp("birthday, 100% surprise"),
	}, nil)
	require.NoError(t, err)
	early, err := res.Create(c, service.NewReservation{
		CustomerName: "Ada Lovelace", CustomerEmail: strp("ada@example.com"),
		Date: day, Time: civil.Time{Hour: 18, Minute: 30}, PartySize: 2,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, day, early.Date)
	assert.Equal(t, civil.Time{Hour: 18, Minute: 30}, early.Time)
	assert.Equal(t, model.StatusConfirmed, early.Status)

	all, err := res.List(c, filter.Spec{DateRange: &filter.DateRange{From: day, To: day}})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, early.ID, all[0].ID)
	assert.Equal(t, late.ID, all[1].ID)

	byPercent, err := res.List(c, filter.Spec{SearchText: "100%", DateRange: &filter.DateRange{From: day, To: day}})
	require.NoError(t, err)
	require.Len(t, byPercent, 1)
	assert.Equal(t, late.ID, byPercent[0].ID)

	byEmail, err := res.List(c, filter.Spec{SearchText: "EXAMPLE.COM"})
	require.NoError(t, err)
	require.NotEmpty(t, byEmail)
	assert.Equal(t, early.ID, byEmail[0].ID)

	from := civil.Time{Hour: 20}
	maxParty := 4
	none, err := res.List(c, filter.Spec{TimeFrom: &from, MaxPartySize: &maxParty, DateRange: &filter.DateRange{From: day, To: day}})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDetailAggregationAgainstMySQL(t *testing.T) {
	c := ctx(t)
	agg := service.NewDetailAggregator(store, service.AssignDedupe)
	res := service.NewReservationService(store, agg, nil)
	games := service.NewGameCatalog(store)
	menu := service.NewMenuCatalog(store)

	r, err := res.Create(c, service.NewReservation{
		CustomerName: "Alan Turing", Date: civil.Date{Year: 2031, Month: 4, Day: 1}, Time: civil.Time{Hour: 19},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPartySize, r.PartySize)

	catan, err := games.Create(c, model.Game{Name: "Catan", Available: true}, nil)
	require.NoError(t, err)
	tea, err := menu.Create(c, model.MenuItem{Name: "Tea", Category: model.CategoryDrink, Price: decimal.RequireFromString("3.10"), Available: true})
	require.NoError(t, err)

	_, err = agg.AssignGame(c, r.ID, catan.ID)
	require.NoError(t, err)
	_, err = agg.AssignGame(c, r.ID, catan.ID)
	require.NoError(t, err)

	d, err := agg.AddOrder(c, r.ID, tea.ID, 3)
	require.NoError(t, err)
	require.Len(t, d.Games, 1)
	require.Len(t, d.Orders, 1)
	assert.True(t, decimal.RequireFromString("9.30").Equal(d.Total))

	// the order keeps its price after the menu changes
	_, err = menu.Update(c, tea.ID, model.MenuItem{Name: "Tea", Category: model.CategoryDrink, Price: decimal.RequireFromString("4.00"), Available: true})
	require.NoError(t, err)
	d, err = agg.UpdateOrderQuantity(c, d.Orders[0].Order.ID, 2)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("6.20").Equal(d.Total))

	err = games.Delete(c, catan.ID)
	assert.ErrorIs(t, err, model.ErrConflict)

	d, err = agg.UnassignGame(c, r.ID, catan.ID)
	require.NoError(t, err)
	assert.Empty(t, d.Games)
	require.NoError(t, games.Delete(c, catan.ID))
}

func TestStaffAndTokensAgainstMySQL(t *testing.T) {
	c := ctx(t)
	id, err := store.CreateStaff(c, "  Manager@Cafe.test ", "Mia", "s3cret-pass", model.RoleManager, 4)
	require.NoError(t, err)

	_, err = store.CreateStaff(c, "manager@cafe.test", "Dup", "s3cret-pass", model.RoleStaff, 4)
	assert.ErrorIs(t, err, model.ErrEmailExists)

	s, err := store.GetStaffByEmail(c, "MANAGER@cafe.test")
	require.NoError(t, err)
	assert.Equal(t, id, s.ID)
	assert.True(t, s.IsActive)

	require.NoError(t, store.StoreRefresh(c, id, "hash-1", time.Now().Add(time.Hour)))
	got, err := store.ValidateRefresh(c, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	require.NoError(t, store.RevokeAllForStaff(c, id))
	_, err = store.ValidateRefresh(c, "hash-1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
