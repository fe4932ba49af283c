package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/game-club-manager/internal/model"
)

// MenuItemRepo provides CRUD operations for the food and drink menu.
// Prices are DECIMAL(10,2) columns scanned straight into decimal.Decimal.
type MenuItemRepo struct {
	db *sql.DB
}

// NewMenuItemRepo returns a new MenuItemRepo bound to the given database.
func NewMenuItemRepo(db *sql.DB) *MenuItemRepo { return &MenuItemRepo{db: db} }

const menuItemColumns = `m.id, m.name, m.category, m.price, m.available, m.created_at, m.updated_at`

func scanMenuItem(s rowScanner) (model.MenuItem, error) {
	var (
		m        model.MenuItem
		category string
	)
	if err := s.Scan(&m.ID, &m.Name, &category, &m.Price, &m.Available, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return model.MenuItem{}, err
	}
	m.Category = model.Category(category)
	return m, nil
}

// ListMenuItems returns the menu ordered by category, then name.
func (r *MenuItemRepo) ListMenuItems(ctx context.Context, availableOnly bool) ([]model.MenuItem, error) {
	q := `SELECT ` + menuItemColumns + ` FROM menu_items m`
	if availableOnly {
		q += ` WHERE m.available = TRUE`
	}
	q += ` ORDER BY m.category ASC, m.name ASC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MenuItem{}
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMenuItem fetches a menu item by id.
func (r *MenuItemRepo) GetMenuItem(ctx context.Context, id uuid.UUID) (model.MenuItem, error) {
	m, err := scanMenuItem(r.db.QueryRowContext(ctx, `SELECT `+menuItemColumns+` FROM menu_items m WHERE m.id = ?`, id))
	if err != nil {
		return model.MenuItem{}, notFound(err, "menu item", id)
	}
	return m, nil
}

// CreateMenuItem inserts m and reads back the stored row.
func (r *MenuItemRepo) CreateMenuItem(ctx context.Context, m *model.MenuItem) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO menu_items (id, name, category, price, available) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Name, string(m.Category), m.Price, m.Available)
	if err != nil {
		return mapWriteError(err)
	}
	stored, err := r.GetMenuItem(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = stored
	return nil
}

// UpdateMenuItem overwrites the editable columns.  Existing orders keep
// their own frozen prices.
func (r *MenuItemRepo) UpdateMenuItem(ctx context.Context, m *model.MenuItem) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE menu_items SET name = ?, category = ?, price = ?, available = ? WHERE id = ?`,
		m.Name, string(m.Category), m.Price, m.Available, m.ID)
	if err != nil {
		return mapWriteError(err)
	}
	stored, err := r.GetMenuItem(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = stored
	return nil
}

// DeleteMenuItem removes a menu item; items referenced by orders are
// protected by the foreign key.
func (r *MenuItemRepo) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return mapWriteError(err)
	}
	return affectedOrNotFound(res, "menu item", id)
}
