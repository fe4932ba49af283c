package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/game-club-manager/internal/model"
)

// GameCatalog manages the games library.
type GameCatalog struct {
	store GameStore
}

func NewGameCatalog(store GameStore) *GameCatalog { return &GameCatalog{store: store} }

// List returns games by name, optionally only the available ones.
func (c *GameCatalog) List(ctx context.Context, availableOnly bool) ([]model.Game, error) {
	out, err := c.store.ListGames(ctx, availableOnly)
	return out, model.StoreFailure("list games", err)
}

func (c *GameCatalog) Get(ctx context.Context, id uuid.UUID) (model.Game, error) {
	g, err := c.store.GetGame(ctx, id)
	return g, model.StoreFailure("get game", err)
}

// Create validates and stores g, recording staffID as its creator.
func (c *GameCatalog) Create(ctx context.Context, g model.Game, staffID *uuid.UUID) (model.Game, error) {
	g.ID = uuid.Nil
	g.Name = strings.TrimSpace(g.Name)
	g.CreatedBy = staffID
	if err := g.Validate(); err != nil {
		return model.Game{}, err
	}
	if err := c.store.CreateGame(ctx, &g); err != nil {
		return model.Game{}, model.StoreFailure("create game", err)
	}
	return g, nil
}

// Update replaces the editable fields of game id.
func (c *GameCatalog) Update(ctx context.Context, id uuid.UUID, g model.Game) (model.Game, error) {
	g.ID = id
	g.Name = strings.TrimSpace(g.Name)
	if err := g.Validate(); err != nil {
		return model.Game{}, err
	}
	if _, err := c.store.GetGame(ctx, id); err != nil {
		return model.Game{}, model.StoreFailure("get game", err)
	}
	if err := c.store.UpdateGame(ctx, &g); err != nil {
		return model.Game{}, model.StoreFailure("update game", err)
	}
	return g, nil
}

// SetAvailability toggles whether the game can be assigned.
func (c *GameCatalog) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (model.Game, error) {
	g, err := c.store.GetGame(ctx, id)
	if err != nil {
		return model.Game{}, model.StoreFailure("get game", err)
	}
	g.Available = available
	if err := c.store.UpdateGame(ctx, &g); err != nil {
		return model.Game{}, model.StoreFailure("update game", err)
	}
	return g, nil
}

// Delete removes a game.  Games still assigned to reservations cannot be
// deleted.
func (c *GameCatalog) Delete(ctx context.Context, id uuid.UUID) error {
	return model.StoreFailure("delete game", c.store.DeleteGame(ctx, id))
}

// MenuCatalog manages the food and drink menu.
type MenuCatalog struct {
	store MenuItemStore
}

func NewMenuCatalog(store MenuItemStore) *MenuCatalog { return &MenuCatalog{store: store} }

// List returns the menu by category, then name.
func (c *MenuCatalog) List(ctx context.Context, availableOnly bool) ([]model.MenuItem, error) {
	out, err := c.store.ListMenuItems(ctx, availableOnly)
	return out, model.StoreFailure("list menu items", err)
}

func (c *MenuCatalog) Get(ctx context.Context, id uuid.UUID) (model.MenuItem, error) {
	m, err := c.store.GetMenuItem(ctx, id)
	return m, model.StoreFailure("get menu item", err)
}

func (c *MenuCatalog) Create(ctx context.Context, m model.MenuItem) (model.MenuItem, error) {
	m.ID = uuid.Nil
	m.Name = strings.TrimSpace(m.Name)
	if err := m.Validate(); err != nil {
		return model.MenuItem{}, err
	}
	if err := c.store.CreateMenuItem(ctx, &m); err != nil {
		return model.MenuItem{}, model.StoreFailure("create menu item", err)
	}
	return m, nil
}

// Update replaces the editable fields of item id.  Orders already placed
// keep the price they were billed at.
func (c *MenuCatalog) Update(ctx context.Context, id uuid.UUID, m model.MenuItem) (model.MenuItem, error) {
	m.ID = id
	m.Name = strings.TrimSpace(m.Name)
	if err := m.Validate(); err != nil {
		return model.MenuItem{}, err
	}
	if _, err := c.store.GetMenuItem(ctx, id); err != nil {
		return model.MenuItem{}, model.StoreFailure("get menu item", err)
	}
	if err := c.store.UpdateMenuItem(ctx, &m); err != nil {
		return model.MenuItem{}, model.StoreFailure("update menu item", err)
	}
	return m, nil
}

func (c *MenuCatalog) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (model.MenuItem, error) {
	m, err := c.store.GetMenuItem(ctx, id)
	if err != nil {
		return model.MenuItem{}, model.StoreFailure("get menu item", err)
	}
	m.Available = available
	if err := c.store.UpdateMenuItem(ctx, &m); err != nil {
		return model.MenuItem{}, model.StoreFailure("update menu item", err)
	}
	return m, nil
}

func (c *MenuCatalog) Delete(ctx context.Context, id uuid.UUID) error {
	return model.StoreFailure("delete menu item", c.store.DeleteMenuItem(ctx, id))
}
