package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/game-club-manager/internal/service"
)

// DashboardHandler serves the staff dashboard counters.
type DashboardHandler struct {
	Stats   *service.Stats
	Timeout time.Duration
}

func NewDashboardHandler(s *service.Stats, timeout time.Duration) *DashboardHandler {
	return &DashboardHandler{Stats: s, Timeout: timeout}
}

// Get handles GET /v1/dashboard/stats.
func (h *DashboardHandler) Get(c echo.Context) error {
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	st, err := h.Stats.Today(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}
