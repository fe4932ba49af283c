package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/game-club-manager/internal/filter"
	"github.com/iliyamo/game-club-manager/internal/model"
)

// ReservationRepo provides reads and single-row writes for reservations.
// Reservations are never deleted through the repository; cancelling is a
// status change.  All timestamps are stored in UTC, while the
// reservation date and time are plain calendar values.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `r.id, r.customer_name, r.customer_phone, r.customer_email,
	r.reservation_date, r.reservation_time, r.party_size, r.status, r.notes,
	r.created_by, r.completed_by, r.created_at, r.updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner) (model.Reservation, error) {
	var (
		res         model.Reservation
		phone       sql.NullString
		email       sql.NullString
		notes       sql.NullString
		date        time.Time
		timeOfDay   string
		status      string
		createdBy   uuid.NullUUID
		completedBy uuid.NullUUID
	)
	err := s.Scan(
		&res.ID, &res.CustomerName, &phone, &email,
		&date, &timeOfDay, &res.PartySize, &status, &notes,
		&createdBy, &completedBy, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return model.Reservation{}, err
	}
	// DATE columns arrive as midnight UTC (loc=UTC in the DSN); taking the
	// calendar fields in UTC recovers the stored date exactly.
	res.Date = civilDate(date)
	t, err := model.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return model.Reservation{}, err
	}
	res.Time = t
	res.Status = model.Status(status)
	res.CustomerPhone = nullString(phone)
	res.CustomerEmail = nullString(email)
	res.Notes = nullString(notes)
	res.CreatedBy = nullUUID(createdBy)
	res.CompletedBy = nullUUID(completedBy)
	return res, nil
}

// ListReservations runs a compiled filter query and returns the matching
// reservations ordered by date and time.
func (r *ReservationRepo) ListReservations(ctx context.Context, q filter.Query) ([]model.Reservation, error) {
	cond, args, orderBy, err := buildReservationWhere(q)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + reservationColumns + `
		FROM reservations r
		WHERE ` + cond + `
		ORDER BY ` + orderBy

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetReservation loads one reservation by id.  A missing row yields
// model.ErrNotFound.
func (r *ReservationRepo) GetReservation(ctx context.Context, id uuid.UUID) (model.Reservation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations r WHERE r.id = ?`, id)
	res, err := scanReservation(row)
	if err != nil {
		return model.Reservation{}, notFound(err, "reservation", id)
	}
	return res, nil
}

// CreateReservation inserts res.  A zero ID is replaced with a new UUID;
// timestamps are read back from the database so the caller sees the
// stored defaults.
func (r *ReservationRepo) CreateReservation(ctx context.Context, res *model.Reservation) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	const q = `INSERT INTO reservations
		(id, customer_name, customer_phone, customer_email, reservation_date, reservation_time,
		 party_size, status, notes, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		res.ID, res.CustomerName, res.CustomerPhone, res.CustomerEmail,
		res.Date.String(), res.Time.String(),
		res.PartySize, string(res.Status), res.Notes, nullableUUID(res.CreatedBy),
	)
	if err != nil {
		return mapWriteError(err)
	}
	stored, err := r.GetReservation(ctx, res.ID)
	if err != nil {
		return err
	}
	*res = stored
	return nil
}

// UpdateReservationStatus sets the status.  completedBy is written only
// when non-nil, so leaving `completed` keeps the last completer on record.
func (r *ReservationRepo) UpdateReservationStatus(ctx context.Context, id uuid.UUID, status model.Status, completedBy *uuid.UUID) error {
	var (
		res sql.Result
		err error
	)
	if completedBy != nil {
		res, err = r.db.ExecContext(ctx,
			`UPDATE reservations SET status = ?, completed_by = ? WHERE id = ?`,
			string(status), *completedBy, id)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE reservations SET status = ? WHERE id = ?`,
			string(status), id)
	}
	if err != nil {
		return mapWriteError(err)
	}
	// MySQL reports 0 affected rows when the value is unchanged, so
	// confirm existence separately instead of trusting RowsAffected.
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	_, err = r.GetReservation(ctx, id)
	return err
}
