package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/game-club-manager/internal/filter"
	"github.com/iliyamo/game-club-manager/internal/model"
	"github.com/iliyamo/game-club-manager/internal/service"
)

// ReservationHandler serves the reservation list, the detail view and
// the game and order mutations made from it.
type ReservationHandler struct {
	Reservations *service.ReservationService
	Details      *service.DetailAggregator
	Timeout      time.Duration
}

func NewReservationHandler(r *service.ReservationService, d *service.DetailAggregator, timeout time.Duration) *ReservationHandler {
	return &ReservationHandler{Reservations: r, Details: d, Timeout: timeout}
}

// List handles GET /v1/reservations.  Every query parameter is optional;
// status=all is the same as no status.
func (h *ReservationHandler) List(c echo.Context) error {
	spec, err := filter.ParseSpec(filter.RawSpec{
		Search:       c.QueryParam("q"),
		DateFrom:     c.QueryParam("date_from"),
		DateTo:       c.QueryParam("date_to"),
		TimeFrom:     c.QueryParam("time_from"),
		TimeUntil:    c.QueryParam("time_until"),
		MaxPartySize: c.QueryParam("max_party_size"),
		Status:       c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	items, err := h.Reservations.List(ctx, spec)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	in, err := req.toNewReservation()
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	r, err := h.Reservations.Create(ctx, in, currentStaff(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// Detail handles GET /v1/reservations/:id.
func (h *ReservationHandler) Detail(c echo.Context) error {
	id, err := parseID(c, "id", "reservation")
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	d, err := h.Details.Detail(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newDetailView(d))
}

// UpdateStatus handles PATCH /v1/reservations/:id/status.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id", "reservation")
	if err != nil {
		return writeError(c, err)
	}
	var req statusReq
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	r, err := h.Reservations.UpdateStatus(ctx, id, model.Status(req.Status), currentStaff(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// AssignGame handles POST /v1/reservations/:id/games and answers with the
// reloaded detail view.
func (h *ReservationHandler) AssignGame(c echo.Context) error {
	id, err := parseID(c, "id", "reservation")
	if err != nil {
		return writeError(c, err)
	}
	var req assignGameReq
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	gameID := uuid.MustParse(req.GameID)

	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	d, err := h.Details.AssignGame(ctx, id, gameID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newDetailView(d))
}

// UnassignGame handles DELETE /v1/reservations/:id/games/:gameID.
func (h *ReservationHandler) UnassignGame(c echo.Context) error {
	id, err := parseID(c, "id", "reservation")
	if err != nil {
		return writeError(c, err)
	}
	gameID, err := parseID(c, "gameID", "game")
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	d, err := h.Details.UnassignGame(ctx, id, gameID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newDetailView(d))
}

// AddOrder handles POST /v1/reservations/:id/orders.
func (h *ReservationHandler) AddOrder(c echo.Context) error {
	id, err := parseID(c, "id", "reservation")
	if err != nil {
		return writeError(c, err)
	}
	var req addOrderReq
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	itemID := uuid.MustParse(req.MenuItemID)

	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	d, err := h.Details.AddOrder(ctx, id, itemID, req.quantity())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newDetailView(d))
}

// UpdateOrder handles PATCH /v1/orders/:id.
func (h *ReservationHandler) UpdateOrder(c echo.Context) error {
	id, err := parseID(c, "id", "order")
	if err != nil {
		return writeError(c, err)
	}
	var req updateOrderReq
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	d, err := h.Details.UpdateOrderQuantity(ctx, id, *req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newDetailView(d))
}

// RemoveOrder handles DELETE /v1/orders/:id.  Removing an order that no
// longer exists answers 204 with no body.
func (h *ReservationHandler) RemoveOrder(c echo.Context) error {
	id, err := parseID(c, "id", "order")
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	d, err := h.Details.RemoveOrder(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if d == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, newDetailView(*d))
}
