package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/iliyamo/game-club-manager/internal/model"
)

// AssignmentRepo manages reservation_games, the many-to-many link between
// reservations and the games in use at their table.  The table has no
// unique key on (reservation_id, game_id); duplicate handling is a
// service-level policy.
type AssignmentRepo struct {
	db *sql.DB
}

// NewAssignmentRepo returns a new AssignmentRepo bound to the given database.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

// ListAssignedGames returns every link of a reservation joined with its
// game, in the order the games were assigned.
func (r *AssignmentRepo) ListAssignedGames(ctx context.Context, reservationID uuid.UUID) ([]model.AssignedGame, error) {
	q := `SELECT rg.id, rg.created_at, ` + gameColumns + `
		FROM reservation_games rg
		JOIN games g ON g.id = rg.game_id
		WHERE rg.reservation_id = ?
		ORDER BY rg.created_at ASC, rg.seq ASC`
	rows, err := r.db.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.AssignedGame{}
	for rows.Next() {
		var (
			ag     model.AssignedGame
			linkID uuid.UUID
		)
		g, err := scanGame(prefixScanner{rows, []any{&linkID, &ag.AssignedAt}})
		if err != nil {
			return nil, err
		}
		ag.LinkID = linkID
		ag.Game = g
		out = append(out, ag)
	}
	return out, rows.Err()
}

// CreateAssignment inserts a link row.
func (r *AssignmentRepo) CreateAssignment(ctx context.Context, link *model.ReservationGame) error {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reservation_games (id, reservation_id, game_id) VALUES (?, ?, ?)`,
		link.ID, link.ReservationID, link.GameID)
	if err != nil {
		return mapWriteError(err)
	}
	return r.db.QueryRowContext(ctx,
		`SELECT created_at FROM reservation_games WHERE id = ?`, link.ID).Scan(&link.CreatedAt)
}

// DeleteAssignments removes every link between the reservation and the
// game.  Deleting links that do not exist is not an error.
func (r *AssignmentRepo) DeleteAssignments(ctx context.Context, reservationID, gameID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM reservation_games WHERE reservation_id = ? AND game_id = ?`,
		reservationID, gameID)
	return mapWriteError(err)
}

// HasAssignment reports whether at least one link exists for the pair.
func (r *AssignmentRepo) HasAssignment(ctx context.Context, reservationID, gameID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM reservation_games WHERE reservation_id = ? AND game_id = ?)`,
		reservationID, gameID).Scan(&exists)
	return exists, err
}

// prefixScanner scans leading columns into extra destinations before
// handing the rest of the row to an entity scanner.
type prefixScanner struct {
	rows   *sql.Rows
	prefix []any
}

func (p prefixScanner) Scan(dest ...any) error {
	return p.rows.Scan(append(append([]any{}, p.prefix...), dest...)...)
}
