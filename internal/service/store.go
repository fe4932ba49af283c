// Package service holds the reservation core: the detail aggregator and
// bill total, the reservation lifecycle, the catalogs and the dashboard
// statistics.  It talks to persistence only through the interfaces in
// this file, implemented by repository.Store (MySQL) and memstore.Store.
package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/game-club-manager/internal/filter"
	"github.com/iliyamo/game-club-manager/internal/model"
)

// ReservationStore lists, reads and writes reservation rows.
type ReservationStore interface {
	ListReservations(ctx context.Context, q filter.Query) ([]model.Reservation, error)
	GetReservation(ctx context.Context, id uuid.UUID) (model.Reservation, error)
	CreateReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservationStatus(ctx context.Context, id uuid.UUID, status model.Status, completedBy *uuid.UUID) error
}

// GameStore is the games catalog.
type GameStore interface {
	ListGames(ctx context.Context, availableOnly bool) ([]model.Game, error)
	GetGame(ctx context.Context, id uuid.UUID) (model.Game, error)
	CreateGame(ctx context.Context, g *model.Game) error
	UpdateGame(ctx context.Context, g *model.Game) error
	DeleteGame(ctx context.Context, id uuid.UUID) error
}

// MenuItemStore is the food and drink menu.
type MenuItemStore interface {
	ListMenuItems(ctx context.Context, availableOnly bool) ([]model.MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (model.MenuItem, error)
	CreateMenuItem(ctx context.Context, m *model.MenuItem) error
	UpdateMenuItem(ctx context.Context, m *model.MenuItem) error
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
}

// AssignmentStore manages reservation to game links.  ListAssignedGames
// is a joined read returning links in insertion order.
type AssignmentStore interface {
	ListAssignedGames(ctx context.Context, reservationID uuid.UUID) ([]model.AssignedGame, error)
	CreateAssignment(ctx context.Context, link *model.ReservationGame) error
	DeleteAssignments(ctx context.Context, reservationID, gameID uuid.UUID) error
	HasAssignment(ctx context.Context, reservationID, gameID uuid.UUID) (bool, error)
}

// OrderStore manages order lines.  ListOrderLines is a joined read
// returning lines in insertion order.
type OrderStore interface {
	ListOrderLines(ctx context.Context, reservationID uuid.UUID) ([]model.OrderLine, error)
	GetOrder(ctx context.Context, id uuid.UUID) (model.Order, error)
	CreateOrder(ctx context.Context, o *model.Order) error
	UpdateOrderLine(ctx context.Context, id uuid.UUID, quantity int, price decimal.Decimal) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

// Store is everything the reservation core reads and writes.
type Store interface {
	ReservationStore
	GameStore
	MenuItemStore
	AssignmentStore
	OrderStore
}
