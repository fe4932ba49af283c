package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/game-club-manager/internal/middleware"
	"github.com/iliyamo/game-club-manager/internal/model"
)

// defaultTimeout bounds store calls when no REQUEST_TIMEOUT is configured.
const defaultTimeout = 5 * time.Second

// requestCtx derives the store context of a request.
func requestCtx(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(c.Request().Context(), d)
}

// parseID reads a UUID path parameter.
func parseID(c echo.Context, name, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, model.InvalidArgumentf("invalid %s id", entity)
	}
	return id, nil
}

// currentStaff returns the authenticated staff id, nil for anonymous calls.
func currentStaff(c echo.Context) *uuid.UUID {
	id, ok := middleware.StaffID(c)
	if !ok {
		return nil
	}
	return &id
}

// errorStatus maps the error taxonomy to an HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error": message}.  Server-side failures are
// logged; the store's message is passed through unchanged.
func writeError(c echo.Context, err error) error {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// bindAndValidate decodes the JSON body into req and runs its rules.
func bindAndValidate(c echo.Context, req interface{ Validate() error }) error {
	if err := c.Bind(req); err != nil {
		return model.InvalidArgumentf("invalid body")
	}
	if err := req.Validate(); err != nil {
		return model.InvalidArgumentf("%s", err.Error())
	}
	return nil
}
