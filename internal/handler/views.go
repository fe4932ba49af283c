package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/game-club-manager/internal/model"
	"github.com/iliyamo/game-club-manager/internal/service"
)

// Money fields are rendered as fixed two-decimal strings ("12.50").

type menuItemView struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Category  model.Category `json:"category"`
	Price     string         `json:"price"`
	Available bool           `json:"available"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func newMenuItemView(m model.MenuItem) menuItemView {
	return menuItemView{
		ID:        m.ID,
		Name:      m.Name,
		Category:  m.Category,
		Price:     service.FormatMoney(m.Price),
		Available: m.Available,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type assignedGameView struct {
	LinkID     uuid.UUID `json:"link_id"`
	GameID     uuid.UUID `json:"game_id"`
	Name       string    `json:"name"`
	AssignedAt time.Time `json:"assigned_at"`
}

type orderView struct {
	ID           uuid.UUID      `json:"id"`
	MenuItemID   uuid.UUID      `json:"menu_item_id"`
	MenuItemName string         `json:"menu_item_name"`
	Category     model.Category `json:"category"`
	Quantity     int            `json:"quantity"`
	Price        string         `json:"price"`
	CreatedAt    time.Time      `json:"created_at"`
}

type detailView struct {
	Reservation model.Reservation  `json:"reservation"`
	Games       []assignedGameView `json:"assigned_games"`
	Orders      []orderView        `json:"orders"`
	Total       string             `json:"total"`
}

func newDetailView(d service.ReservationDetail) detailView {
	v := detailView{
		Reservation: d.Reservation,
		Games:       make([]assignedGameView, 0, len(d.Games)),
		Orders:      make([]orderView, 0, len(d.Orders)),
		Total:       service.FormatMoney(d.Total),
	}
	for _, g := range d.Games {
		v.Games = append(v.Games, assignedGameView{
			LinkID:     g.LinkID,
			GameID:     g.Game.ID,
			Name:       g.Game.Name,
			AssignedAt: g.AssignedAt,
		})
	}
	for _, l := range d.Orders {
		v.Orders = append(v.Orders, orderView{
			ID:           l.Order.ID,
			MenuItemID:   l.Order.MenuItemID,
			MenuItemName: l.MenuItem.Name,
			Category:     l.MenuItem.Category,
			Quantity:     l.Order.Quantity,
			Price:        service.FormatMoney(l.Order.Price),
			CreatedAt:    l.Order.CreatedAt,
		})
	}
	return v
}
