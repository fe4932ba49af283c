package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/game-club-manager/internal/model"
	"github.com/iliyamo/game-club-manager/internal/service"
)

// availableOnly reads the optional ?available=true filter.
func availableOnly(c echo.Context) (bool, error) {
	raw := c.QueryParam("available")
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, model.InvalidArgumentf("available must be true or false")
	}
	return v, nil
}

// GameHandler exposes the games library.
type GameHandler struct {
	Games   *service.GameCatalog
	Timeout time.Duration
}

func NewGameHandler(g *service.GameCatalog, timeout time.Duration) *GameHandler {
	return &GameHandler{Games: g, Timeout: timeout}
}

func (h *GameHandler) List(c echo.Context) error {
	only, err := availableOnly(c)
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	items, err := h.Games.List(ctx, only)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

func (h *GameHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id", "game")
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	g, err := h.Games.Get(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GameHandler) Create(c echo.Context) error {
	var req gameReq
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	g, err := h.Games.Create(ctx, req.toGame(), currentStaff(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

// Update replaces every editable field of the game.
func (h *GameHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id", "game")
	if err != nil {
		return writeError(c, err)
	}
	var req gameReq
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	g, err := h.Games.Update(ctx, id, req.toGame())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GameHandler) SetAvailability(c echo.Context) error {
	id, err := parseID(c, "id", "game")
	if err != nil {
		return writeError(c, err)
	}
	var req availabilityReq
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	g, err := h.Games.SetAvailability(ctx, id, *req.Available)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// Delete removes a game; games still assigned to reservations answer 409.
func (h *GameHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id", "game")
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	if err := h.Games.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MenuHandler exposes the food and drink menu.  Prices are rendered as
// two-decimal strings.
type MenuHandler struct {
	Menu    *service.MenuCatalog
	Timeout time.Duration
}

func NewMenuHandler(m *service.MenuCatalog, timeout time.Duration) *MenuHandler {
	return &MenuHandler{Menu: m, Timeout: timeout}
}

func (h *MenuHandler) List(c echo.Context) error {
	only, err := availableOnly(c)
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	items, err := h.Menu.List(ctx, only)
	if err != nil {
		return writeError(c, err)
	}
	views := make([]menuItemView, 0, len(items))
	for _, m := range items {
		views = append(views, newMenuItemView(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views, "count": len(views)})
}

func (h *MenuHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id", "menu item")
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	m, err := h.Menu.Get(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newMenuItemView(m))
}

func (h *MenuHandler) Create(c echo.Context) error {
	var req menuItemReq
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	m, err := h.Menu.Create(ctx, req.toMenuItem())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newMenuItemView(m))
}

// Update rewrites the item.  Orders already placed keep their prices.
func (h *MenuHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id", "menu item")
	if err != nil {
		return writeError(c, err)
	}
	var req menuItemReq
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	m, err := h.Menu.Update(ctx, id, req.toMenuItem())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newMenuItemView(m))
}

func (h *MenuHandler) SetAvailability(c echo.Context) error {
	id, err := parseID(c, "id", "menu item")
	if err != nil {
		return writeError(c, err)
	}
	var req availabilityReq
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	m, err := h.Menu.SetAvailability(ctx, id, *req.Available)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newMenuItemView(m))
}

func (h *MenuHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id", "menu item")
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	if err := h.Menu.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
