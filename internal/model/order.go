package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultQuantity is the quantity of a new order line when none is given.
const DefaultQuantity = 1

// MaxQuantity is the largest quantity a single order line may carry.
const MaxQuantity = 999

// MaxLinePrice is the largest value orders.price (DECIMAL(10,2)) can hold.
var MaxLinePrice = decimal.RequireFromString("99999999.99")

// CheckQuantity rejects quantities outside [1, MaxQuantity].
func CheckQuantity(quantity int) error {
	if quantity < 1 {
		return InvalidArgumentf("quantity must be at least 1, got %d", quantity)
	}
	if quantity > MaxQuantity {
		return InvalidArgumentf("quantity must be at most %d, got %d", MaxQuantity, quantity)
	}
	return nil
}

// CheckLinePrice rejects line totals the orders table cannot store.
func CheckLinePrice(price decimal.Decimal) error {
	if price.GreaterThan(MaxLinePrice) {
		return InvalidArgumentf("line price %s exceeds %s", price.StringFixed(2), MaxLinePrice.StringFixed(2))
	}
	return nil
}

// Order is one line on a reservation's tab.  Price is the line total
// (unit price × quantity) frozen when the line was created, so later
// catalog price edits never change historical bills.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	ReservationID uuid.UUID       `json:"reservation_id"`
	MenuItemID    uuid.UUID       `json:"menu_item_id"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	CreatedAt     time.Time       `json:"created_at"`
}

// UnitPrice returns the unit price that was frozen into the line.
func (o Order) UnitPrice() decimal.Decimal {
	if o.Quantity <= 0 {
		return o.Price
	}
	return o.Price.DivRound(decimal.NewFromInt(int64(o.Quantity)), 4)
}

// LinePrice computes unit × quantity rounded to cents.
func LinePrice(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// OrderLine is an order joined with the menu item it references.  The
// menu item carries its current name and category; the order keeps the
// frozen price.
type OrderLine struct {
	Order    Order    `json:"order"`
	MenuItem MenuItem `json:"menu_item"`
}
