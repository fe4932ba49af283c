package service

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/game-club-manager/internal/model"
)

// Total sums the frozen line prices of orders, rounded half away from
// zero to cents.  It never looks at the menu's current prices.
func Total(orders []model.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(o.Price)
	}
	return sum.Round(2)
}

// LinesTotal is Total over joined order lines.
func LinesTotal(lines []model.OrderLine) decimal.Decimal {
	orders := make([]model.Order, len(lines))
	for i, l := range lines {
		orders[i] = l.Order
	}
	return Total(orders)
}

// FormatMoney renders an amount with exactly two decimals ("19.75", "0.00").
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
