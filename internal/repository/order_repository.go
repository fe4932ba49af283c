package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/game-club-manager/internal/model"
)

// OrderRepo manages the order lines billed to reservations.  Each row
// stores its own line price; the joined menu item is read only for its
// current name and category.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `o.id, o.reservation_id, o.menu_item_id, o.quantity, o.price, o.created_at`

func scanOrder(s rowScanner) (model.Order, error) {
	var o model.Order
	err := s.Scan(&o.ID, &o.ReservationID, &o.MenuItemID, &o.Quantity, &o.Price, &o.CreatedAt)
	return o, err
}

// ListOrderLines returns the reservation's orders joined with their menu
// items, oldest first.
func (r *OrderRepo) ListOrderLines(ctx context.Context, reservationID uuid.UUID) ([]model.OrderLine, error) {
	q := `SELECT ` + orderColumns + `, ` + menuItemColumns + `
		FROM orders o
		JOIN menu_items m ON m.id = o.menu_item_id
		WHERE o.reservation_id = ?
		ORDER BY o.created_at ASC, o.seq ASC`
	rows, err := r.db.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.OrderLine{}
	for rows.Next() {
		var line model.OrderLine
		o := &line.Order
		m, err := scanMenuItem(prefixScanner{rows, []any{
			&o.ID, &o.ReservationID, &o.MenuItemID, &o.Quantity, &o.Price, &o.CreatedAt,
		}})
		if err != nil {
			return nil, err
		}
		line.MenuItem = m
		out = append(out, line)
	}
	return out, rows.Err()
}

// GetOrder fetches one order line by id.
func (r *OrderRepo) GetOrder(ctx context.Context, id uuid.UUID) (model.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = ?`, id))
	if err != nil {
		return model.Order{}, notFound(err, "order", id)
	}
	return o, nil
}

// CreateOrder inserts an order line with its frozen price.
func (r *OrderRepo) CreateOrder(ctx context.Context, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (id, reservation_id, menu_item_id, quantity, price) VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.ReservationID, o.MenuItemID, o.Quantity, o.Price)
	if err != nil {
		return mapWriteError(err)
	}
	stored, err := r.GetOrder(ctx, o.ID)
	if err != nil {
		return err
	}
	*o = stored
	return nil
}

// UpdateOrderLine rewrites quantity and line price in one statement.
func (r *OrderRepo) UpdateOrderLine(ctx context.Context, id uuid.UUID, quantity int, price decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET quantity = ?, price = ? WHERE id = ?`, quantity, price, id)
	if err != nil {
		return mapWriteError(err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	_, err = r.GetOrder(ctx, id)
	return err
}

// DeleteOrder removes an order line.  A missing order is not an error.
func (r *OrderRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	return mapWriteError(err)
}
