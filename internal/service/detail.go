package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/game-club-manager/internal/model"
)

// AssignmentPolicy decides what happens when a game is assigned to a
// reservation that already has it.
type AssignmentPolicy string

const (
	// AssignAllow inserts a link on every call and lists every link.
	AssignAllow AssignmentPolicy = "allow"
	// AssignDedupe inserts a link on every call but lists each game once,
	// at the position of its first assignment.
	AssignDedupe AssignmentPolicy = "dedupe"
	// AssignReject refuses a second link with model.ErrConflict.
	AssignReject AssignmentPolicy = "reject"
)

// ParseAssignmentPolicy reads a policy name; "" means AssignDedupe.
func ParseAssignmentPolicy(raw string) (AssignmentPolicy, error) {
	switch p := AssignmentPolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return AssignDedupe, nil
	case AssignAllow, AssignDedupe, AssignReject:
		return p, nil
	}
	return "", model.InvalidArgumentf("unknown assignment policy %q", raw)
}

// ReservationDetail is the consolidated view of one reservation: the
// record, the games at the table, the order lines and the bill.
type ReservationDetail struct {
	Reservation model.Reservation
	Games       []model.AssignedGame
	Orders      []model.OrderLine
	Total       decimal.Decimal
}

// ReloadError reports that a mutation was written but rebuilding the
// detail view afterwards failed.  The write is not undone.
type ReloadError struct {
	ReservationID uuid.UUID
	Err           error
}

func (e *ReloadError) Error() string {
	return fmt.Sprintf("change saved but reloading reservation %s failed: %v", e.ReservationID, e.Err)
}

func (e *ReloadError) Unwrap() error { return e.Err }

// DetailAggregator builds ReservationDetail views and applies the
// mutations staff make from the reservation screen.  Every mutation
// validates its input before touching the store and rebuilds the view
// from the store afterwards.
type DetailAggregator struct {
	store  Store
	policy AssignmentPolicy
	log    *zap.Logger
}

// NewDetailAggregator returns an aggregator over store.  An empty policy
// means AssignDedupe.
func NewDetailAggregator(store Store, policy AssignmentPolicy) *DetailAggregator {
	if policy == "" {
		policy = AssignDedupe
	}
	return &DetailAggregator{store: store, policy: policy, log: zap.L().Named("detail")}
}

// Policy returns the duplicate-assignment policy in force.
func (a *DetailAggregator) Policy() AssignmentPolicy { return a.policy }

// Detail loads the reservation with its games, orders and total.  An
// unknown id fails with model.ErrNotFound.
func (a *DetailAggregator) Detail(ctx context.Context, reservationID uuid.UUID) (ReservationDetail, error) {
	res, err := a.store.GetReservation(ctx, reservationID)
	if err != nil {
		return ReservationDetail{}, model.StoreFailure("get reservation", err)
	}
	games, err := a.store.ListAssignedGames(ctx, reservationID)
	if err != nil {
		return ReservationDetail{}, model.StoreFailure("list assigned games", err)
	}
	if a.policy == AssignDedupe {
		games = dedupeGames(games)
	}
	lines, err := a.store.ListOrderLines(ctx, reservationID)
	if err != nil {
		return ReservationDetail{}, model.StoreFailure("list orders", err)
	}
	return ReservationDetail{
		Reservation: res,
		Games:       games,
		Orders:      lines,
		Total:       LinesTotal(lines),
	}, nil
}

// dedupeGames keeps the first link of every game.
func dedupeGames(in []model.AssignedGame) []model.AssignedGame {
	seen := make(map[uuid.UUID]bool, len(in))
	out := make([]model.AssignedGame, 0, len(in))
	for _, ag := range in {
		if seen[ag.Game.ID] {
			continue
		}
		seen[ag.Game.ID] = true
		out = append(out, ag)
	}
	return out
}

// reload rebuilds the view after a successful write.
func (a *DetailAggregator) reload(ctx context.Context, reservationID uuid.UUID) (ReservationDetail, error) {
	d, err := a.Detail(ctx, reservationID)
	if err != nil {
		a.log.Warn("reload after write failed", zap.Stringer("reservation_id", reservationID), zap.Error(err))
		return ReservationDetail{}, &ReloadError{ReservationID: reservationID, Err: err}
	}
	return d, nil
}

// AssignGame links a game to the reservation.  The game must exist and
// be available; under AssignReject an existing link is a conflict.
func (a *DetailAggregator) AssignGame(ctx context.Context, reservationID, gameID uuid.UUID) (ReservationDetail, error) {
	if reservationID == uuid.Nil {
		return ReservationDetail{}, model.InvalidArgumentf("no reservation selected")
	}
	if gameID == uuid.Nil {
		return ReservationDetail{}, model.InvalidArgumentf("no game selected")
	}
	if _, err := a.store.GetReservation(ctx, reservationID); err != nil {
		return ReservationDetail{}, model.StoreFailure("get reservation", err)
	}
	game, err := a.store.GetGame(ctx, gameID)
	if err != nil {
		return ReservationDetail{}, model.StoreFailure("get game", err)
	}
	if !game.Available {
		return ReservationDetail{}, model.InvalidArgumentf("game %q is not available", game.Name)
	}
	if a.policy == AssignReject {
		exists, err := a.store.HasAssignment(ctx, reservationID, gameID)
		if err != nil {
			return ReservationDetail{}, model.StoreFailure("check assignment", err)
		}
		if exists {
			return ReservationDetail{}, model.Conflictf("game %q is already assigned to this reservation", game.Name)
		}
	}

	link := model.ReservationGame{ReservationID: reservationID, GameID: gameID}
	if err := a.store.CreateAssignment(ctx, &link); err != nil {
		return ReservationDetail{}, model.StoreFailure("assign game", err)
	}
	a.log.Info("game assigned",
		zap.Stringer("reservation_id", reservationID),
		zap.Stringer("game_id", gameID),
		zap.String("policy", string(a.policy)))
	return a.reload(ctx, reservationID)
}

// UnassignGame removes every link between the reservation and the game.
// Removing a game that is not assigned changes nothing.
func (a *DetailAggregator) UnassignGame(ctx context.Context, reservationID, gameID uuid.UUID) (ReservationDetail, error) {
	if reservationID == uuid.Nil {
		return ReservationDetail{}, model.InvalidArgumentf("no reservation selected")
	}
	if gameID == uuid.Nil {
		return ReservationDetail{}, model.InvalidArgumentf("no game selected")
	}
	if _, err := a.store.GetReservation(ctx, reservationID); err != nil {
		return ReservationDetail{}, model.StoreFailure("get reservation", err)
	}
	if err := a.store.DeleteAssignments(ctx, reservationID, gameID); err != nil {
		return ReservationDetail{}, model.StoreFailure("unassign game", err)
	}
	return a.reload(ctx, reservationID)
}

// AddOrder bills quantity units of a menu item to the reservation.  The
// line price is the item's current price times quantity, frozen on the
// order.
func (a *DetailAggregator) AddOrder(ctx context.Context, reservationID, menuItemID uuid.UUID, quantity int) (ReservationDetail, error) {
	if reservationID == uuid.Nil {
		return ReservationDetail{}, model.InvalidArgumentf("no reservation selected")
	}
	if menuItemID == uuid.Nil {
		return ReservationDetail{}, model.InvalidArgumentf("no menu item selected")
	}
	if err := model.CheckQuantity(quantity); err != nil {
		return ReservationDetail{}, err
	}
	if _, err := a.store.GetReservation(ctx, reservationID); err != nil {
		return ReservationDetail{}, model.StoreFailure("get reservation", err)
	}
	item, err := a.store.GetMenuItem(ctx, menuItemID)
	if err != nil {
		return ReservationDetail{}, model.StoreFailure("get menu item", err)
	}
	if !item.Available {
		return ReservationDetail{}, model.InvalidArgumentf("menu item %q is not available", item.Name)
	}

	o := model.Order{
		ReservationID: reservationID,
		MenuItemID:    menuItemID,
		Quantity:      quantity,
		Price:         model.LinePrice(item.Price, quantity),
	}
	if err := model.CheckLinePrice(o.Price); err != nil {
		return ReservationDetail{}, err
	}
	if err := a.store.CreateOrder(ctx, &o); err != nil {
		return ReservationDetail{}, model.StoreFailure("add order", err)
	}
	a.log.Info("order added",
		zap.Stringer("reservation_id", reservationID),
		zap.Stringer("order_id", o.ID),
		zap.Int("quantity", quantity),
		zap.String("price", FormatMoney(o.Price)))
	return a.reload(ctx, reservationID)
}

// RemoveOrder deletes an order line and returns the view of the
// reservation it belonged to.  A missing order is not an error; the
// returned detail is then nil.
func (a *DetailAggregator) RemoveOrder(ctx context.Context, orderID uuid.UUID) (*ReservationDetail, error) {
	if orderID == uuid.Nil {
		return nil, model.InvalidArgumentf("no order selected")
	}
	o, err := a.store.GetOrder(ctx, orderID)
	if err != nil {
		if model.IsNotFound(err) {
			return nil, nil
		}
		return nil, model.StoreFailure("get order", err)
	}
	if err := a.store.DeleteOrder(ctx, orderID); err != nil {
		return nil, model.StoreFailure("remove order", err)
	}
	d, err := a.reload(ctx, o.ReservationID)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateOrderQuantity changes the quantity of an order line.  The new
// line price uses the unit price frozen into the line, never the menu's
// current price.
func (a *DetailAggregator) UpdateOrderQuantity(ctx context.Context, orderID uuid.UUID, quantity int) (ReservationDetail, error) {
	if orderID == uuid.Nil {
		return ReservationDetail{}, model.InvalidArgumentf("no order selected")
	}
	if err := model.CheckQuantity(quantity); err != nil {
		return ReservationDetail{}, err
	}
	o, err := a.store.GetOrder(ctx, orderID)
	if err != nil {
		return ReservationDetail{}, model.StoreFailure("get order", err)
	}
	price := model.LinePrice(o.UnitPrice(), quantity)
	if err := model.CheckLinePrice(price); err != nil {
		return ReservationDetail{}, err
	}
	if err := a.store.UpdateOrderLine(ctx, orderID, quantity, price); err != nil {
		return ReservationDetail{}, model.StoreFailure("update order", err)
	}
	return a.reload(ctx, o.ReservationID)
}
