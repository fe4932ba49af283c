package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/game-club-manager/internal/model"
)

// GameRepo provides CRUD operations for the games catalog.
type GameRepo struct {
	db *sql.DB
}

// NewGameRepo returns a new GameRepo bound to the given database.
func NewGameRepo(db *sql.DB) *GameRepo { return &GameRepo{db: db} }

const gameColumns = `g.id, g.name, g.min_players, g.max_players, g.duration_minutes,
	g.complexity, g.description, g.available, g.created_by, g.created_at, g.updated_at`

func scanGame(s rowScanner) (model.Game, error) {
	var (
		g           model.Game
		minPlayers  sql.NullInt64
		maxPlayers  sql.NullInt64
		duration    sql.NullInt64
		complexity  sql.NullString
		description sql.NullString
		createdBy   uuid.NullUUID
	)
	if err := s.Scan(&g.ID, &g.Name, &minPlayers, &maxPlayers, &duration,
		&complexity, &description, &g.Available, &createdBy, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return model.Game{}, err
	}
	g.MinPlayers = nullInt(minPlayers)
	g.MaxPlayers = nullInt(maxPlayers)
	g.DurationMinutes = nullInt(duration)
	g.Complexity = nullString(complexity)
	g.Description = nullString(description)
	g.CreatedBy = nullUUID(createdBy)
	return g, nil
}

// ListGames returns games ordered by name.  When availableOnly is true,
// games toggled off are skipped.
func (r *GameRepo) ListGames(ctx context.Context, availableOnly bool) ([]model.Game, error) {
	q := `SELECT ` + gameColumns + ` FROM games g`
	if availableOnly {
		q += ` WHERE g.available = TRUE`
	}
	q += ` ORDER BY g.name ASC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetGame fetches a game by id.
func (r *GameRepo) GetGame(ctx context.Context, id uuid.UUID) (model.Game, error) {
	g, err := scanGame(r.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games g WHERE g.id = ?`, id))
	if err != nil {
		return model.Game{}, notFound(err, "game", id)
	}
	return g, nil
}

// CreateGame inserts g and reads back the stored row.
func (r *GameRepo) CreateGame(ctx context.Context, g *model.Game) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO games (id, name, min_players, max_players, duration_minutes, complexity, description, available, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.MinPlayers, g.MaxPlayers, g.DurationMinutes, g.Complexity, g.Description,
		g.Available, nullableUUID(g.CreatedBy))
	if err != nil {
		return mapWriteError(err)
	}
	stored, err := r.GetGame(ctx, g.ID)
	if err != nil {
		return err
	}
	*g = stored
	return nil
}

// UpdateGame overwrites every editable column of g.
func (r *GameRepo) UpdateGame(ctx context.Context, g *model.Game) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET name = ?, min_players = ?, max_players = ?, duration_minutes = ?,
		 complexity = ?, description = ?, available = ? WHERE id = ?`,
		g.Name, g.MinPlayers, g.MaxPlayers, g.DurationMinutes, g.Complexity, g.Description, g.Available, g.ID)
	if err != nil {
		return mapWriteError(err)
	}
	stored, err := r.GetGame(ctx, g.ID)
	if err != nil {
		return err
	}
	*g = stored
	return nil
}

// DeleteGame removes a game.  A game still linked to reservations is
// protected by the foreign key and reported as model.ErrConflict.
func (r *GameRepo) DeleteGame(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return mapWriteError(err)
	}
	return affectedOrNotFound(res, "game", id)
}
