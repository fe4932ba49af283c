package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups menu items on the menu board.
type Category string

const (
	CategoryFood    Category = "food"
	CategoryDrink   Category = "drink"
	CategorySnack   Category = "snack"
	CategoryDessert Category = "dessert"
)

// Categories lists the menu categories in menu order.
var Categories = []Category{CategoryFood, CategoryDrink, CategorySnack, CategoryDessert}

func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryDrink, CategorySnack, CategoryDessert:
		return true
	}
	return false
}

// ParseCategory normalizes raw input into a Category.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", InvalidArgumentf("unknown menu category %q", raw)
	}
	return c, nil
}

// MenuItem is a food or drink the café sells.  Price is the current unit
// price; orders freeze their own line price when created.
type MenuItem struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Category  Category        `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Validate checks name, category and a non-negative price with at most
// two decimal places.
func (m MenuItem) Validate() error {
	if m.Name == "" {
		return InvalidArgumentf("menu item name is required")
	}
	if !m.Category.Valid() {
		return InvalidArgumentf("unknown menu category %q", m.Category)
	}
	if m.Price.IsNegative() {
		return InvalidArgumentf("price must not be negative")
	}
	if !m.Price.Equal(m.Price.Round(2)) {
		return InvalidArgumentf("price %s has more than two decimal places", m.Price)
	}
	return nil
}
