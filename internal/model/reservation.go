package model

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// DefaultPartySize is used when a reservation is created without an explicit party size.
const DefaultPartySize = 2

// Statuses lists every accepted status in display order.
var Statuses = []Status{StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus normalizes raw input ("In-Progress ", "COMPLETED") into a Status.
// Unknown values are reported as ErrInvalidArgument.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", InvalidArgumentf("unknown reservation status %q", raw)
	}
	return s, nil
}

// Reservation records one customer visit to the café.  It is the
// aggregation root for the games assigned to the table and the orders
// billed to it.
//
// Fields:
//  ID            – primary key identifier.
//  CustomerName  – required display name of the customer.
//  CustomerPhone – optional contact phone.
//  CustomerEmail – optional contact email.
//  Date          – calendar date of the visit (no timezone).
//  Time          – time of day of the visit.
//  PartySize     – number of guests, at least 1.
//  Status        – lifecycle state.
//  Notes         – free text.
//  CreatedBy     – staff member who created the reservation.
//  CompletedBy   – staff member who moved it to completed.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Reservation struct {
	ID            uuid.UUID  `json:"id"`             // reservations.id
	CustomerName  string     `json:"customer_name"`  // reservations.customer_name
	CustomerPhone *string    `json:"customer_phone"` // reservations.customer_phone (nullable)
	CustomerEmail *string    `json:"customer_email"` // reservations.customer_email (nullable)
	Date          civil.Date `json:"reservation_date"`
	Time          civil.Time `json:"reservation_time"`
	PartySize     int        `json:"party_size"`
	Status        Status     `json:"status"`
	Notes         *string    `json:"notes"`
	CreatedBy     *uuid.UUID `json:"created_by"`
	CompletedBy   *uuid.UUID `json:"completed_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Before reports whether r is scheduled strictly before o.  Reservations
// are always listed by (date, time) ascending; ties keep their relative
// order when sorted stably.
func (r Reservation) Before(o Reservation) bool {
	if r.Date != o.Date {
		return r.Date.Before(o.Date)
	}
	return CompareTime(r.Time, o.Time) < 0
}

// CompareTime orders two times of day, returning -1, 0 or +1.
func CompareTime(a, b civil.Time) int {
	as := [4]int{a.Hour, a.Minute, a.Second, a.Nanosecond}
	bs := [4]int{b.Hour, b.Minute, b.Second, b.Nanosecond}
	for i := range as {
		switch {
		case as[i] < bs[i]:
			return -1
		case as[i] > bs[i]:
			return 1
		}
	}
	return 0
}

// ReservationGame links a reservation to a game that is in use at the
// table.  The store does not enforce uniqueness of (ReservationID, GameID).
type ReservationGame struct {
	ID            uuid.UUID `json:"id"`
	ReservationID uuid.UUID `json:"reservation_id"`
	GameID        uuid.UUID `json:"game_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// AssignedGame is a link row joined with the game it references.
type AssignedGame struct {
	LinkID     uuid.UUID `json:"link_id"`
	AssignedAt time.Time `json:"assigned_at"`
	Game       Game      `json:"game"`
}
