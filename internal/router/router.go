// Package router registers the HTTP routes of the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/game-club-manager/internal/handler"
	"github.com/iliyamo/game-club-manager/internal/middleware"
	"github.com/iliyamo/game-club-manager/internal/model"
)

// Deps carries everything RegisterRoutes mounts.  RateLimit and Cache may
// be nil, in which case the routes run without them.
type Deps struct {
	JWTSecret    string
	Health       echo.HandlerFunc
	Auth         *handler.AuthHandler
	Reservations *handler.ReservationHandler
	Games        *handler.GameHandler
	Menu         *handler.MenuHandler
	Dashboard    *handler.DashboardHandler
	RateLimit    echo.MiddlewareFunc
	Cache        echo.MiddlewareFunc
}

func orPass(m echo.MiddlewareFunc) echo.MiddlewareFunc {
	if m == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return m
}

// RegisterRoutes mounts the health check, the auth endpoints and the
// staff API under /v1.  Every /v1 route except auth requires a staff or
// manager access token; catalog deletes require MANAGER.
func RegisterRoutes(e *echo.Echo, d Deps) {
	rl := orPass(d.RateLimit)

	e.GET("/healthz", d.Health)

	// Unauthenticated session endpoints.
	a := e.Group("/v1/auth", rl)
	a.POST("/register", d.Auth.Register)
	a.POST("/login", d.Auth.Login)
	a.POST("/refresh", d.Auth.Refresh)
	a.POST("/refresh-access", d.Auth.RefreshAccess)
	a.POST("/logout", d.Auth.Logout)

	// The limiter runs after JWTAuth so the key can include the staff id.
	g := e.Group("/v1",
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleStaff, model.RoleManager),
		rl,
	)
	manager := middleware.RequireRole(model.RoleManager)

	g.GET("/me", d.Auth.Me)

	// ---- Reservations ----
	g.GET("/reservations", d.Reservations.List)
	g.POST("/reservations", d.Reservations.Create)
	g.GET("/reservations/:id", d.Reservations.Detail)
	g.PATCH("/reservations/:id/status", d.Reservations.UpdateStatus)
	g.POST("/reservations/:id/games", d.Reservations.AssignGame)
	g.DELETE("/reservations/:id/games/:gameID", d.Reservations.UnassignGame)
	g.POST("/reservations/:id/orders", d.Reservations.AddOrder)
	g.PATCH("/orders/:id", d.Reservations.UpdateOrder)
	g.DELETE("/orders/:id", d.Reservations.RemoveOrder)

	// ---- Games ----
	g.GET("/games", d.Games.List)
	g.POST("/games", d.Games.Create)
	g.GET("/games/:id", d.Games.Get)
	g.PUT("/games/:id", d.Games.Update)
	g.PATCH("/games/:id/availability", d.Games.SetAvailability)
	g.DELETE("/games/:id", d.Games.Delete, manager)

	// ---- Menu ----
	g.GET("/menu-items", d.Menu.List)
	g.POST("/menu-items", d.Menu.Create)
	g.GET("/menu-items/:id", d.Menu.Get)
	g.PUT("/menu-items/:id", d.Menu.Update)
	g.PATCH("/menu-items/:id/availability", d.Menu.SetAvailability)
	g.DELETE("/menu-items/:id", d.Menu.Delete, manager)

	// ---- Dashboard ----
	g.GET("/dashboard/stats", d.Dashboard.Get, orPass(d.Cache))
}
