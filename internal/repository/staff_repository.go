package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/game-club-manager/internal/model"
	"github.com/iliyamo/game-club-manager/internal/utils"
)

// StaffRepo persists café staff accounts.
type StaffRepo struct{ DB *sql.DB }

func NewStaffRepo(db *sql.DB) *StaffRepo { return &StaffRepo{DB: db} }

const staffColumns = "id,email,full_name,password_hash,role,is_active,created_at,updated_at"

// CreateStaff hashes the password and inserts the account, returning its ID.
func (r *StaffRepo) CreateStaff(ctx context.Context, email, fullName, password, role string, cost int) (uuid.UUID, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return uuid.Nil, err
	}
	id := uuid.New()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO staff (id, email, full_name, password_hash, role) VALUES (?,?,?,?,?)",
		id, email, fullName, hash, role)
	if err != nil {
		if err = mapWriteError(err); errors.Is(err, model.ErrConflict) {
			return uuid.Nil, model.ErrEmailExists
		}
		return uuid.Nil, err
	}
	return id, nil
}

// GetStaffByEmail fetches an account by normalized email.
func (r *StaffRepo) GetStaffByEmail(ctx context.Context, email string) (model.Staff, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s, err := scanStaff(r.DB.QueryRowContext(ctx,
		"SELECT "+staffColumns+" FROM staff WHERE email=? LIMIT 1", email))
	if err != nil {
		return model.Staff{}, notFound(err, "staff", email)
	}
	return s, nil
}

// GetStaffByID fetches an account by id.
func (r *StaffRepo) GetStaffByID(ctx context.Context, id uuid.UUID) (model.Staff, error) {
	s, err := scanStaff(r.DB.QueryRowContext(ctx,
		"SELECT "+staffColumns+" FROM staff WHERE id=? LIMIT 1", id))
	if err != nil {
		return model.Staff{}, notFound(err, "staff", id)
	}
	return s, nil
}

func scanStaff(s rowScanner) (model.Staff, error) {
	var u model.Staff
	err := s.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
