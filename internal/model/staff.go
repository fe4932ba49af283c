package model

import (
	"time"

	"github.com/google/uuid"
)

// Staff roles carried in the access token's "role" claim.
const (
	RoleStaff   = "STAFF"
	RoleManager = "MANAGER"
)

// ErrEmailExists is returned when a staff account already uses the email.
var ErrEmailExists = Conflictf("email already exists")

// Staff represents a café employee account as stored in the `staff`
// table.  Staff ids are what reservations record as creator and
// completer.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique, lower-cased login email.
//  FullName     – display name shown on the dashboard.
//  PasswordHash – bcrypt hashed password.
//  Role         – STAFF or MANAGER.
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Staff struct {
	ID           uuid.UUID // staff.id
	Email        string    // staff.email
	FullName     string    // staff.full_name
	PasswordHash string    // staff.password_hash
	Role         string    // staff.role
	IsActive     bool      // staff.is_active
	CreatedAt    time.Time // staff.created_at
	UpdatedAt    time.Time // staff.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored; only its SHA‑256 hash.
type RefreshToken struct {
	ID        uuid.UUID  // refresh_tokens.id
	StaffID   uuid.UUID  // refresh_tokens.staff_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
