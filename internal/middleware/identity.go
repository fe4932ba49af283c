package middleware

// identity.go holds the context keys JWTAuth fills in and the accessors
// handlers and other middleware read them with.

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
	KeyUserID  = "user_id"  // staff id as a string
	KeyStaffID = "staff_id" // staff id as uuid.UUID
	KeyRole    = "role"     // STAFF or MANAGER
)

// StaffID returns the authenticated staff member's id.
func StaffID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(KeyStaffID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// Role returns the authenticated staff member's role, "" for guests.
func Role(c echo.Context) string {
	r, _ := c.Get(KeyRole).(string)
	return r
}

// userKey identifies the caller for rate limiting: the staff id when
// authenticated, otherwise "anon".
func userKey(c echo.Context) string {
	if s, ok := c.Get(KeyUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}
