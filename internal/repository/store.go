package repository

import "database/sql"

// Store bundles every MySQL repository behind one value so it can be
// handed to the service layer, which consumes it through narrow
// interfaces.
type Store struct {
	*ReservationRepo
	*GameRepo
	*MenuItemRepo
	*AssignmentRepo
	*OrderRepo
	*StaffRepo
	*TokenRepo
}

// NewStore wires all repositories to the same connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{
		ReservationRepo: NewReservationRepo(db),
		GameRepo:        NewGameRepo(db),
		MenuItemRepo:    NewMenuItemRepo(db),
		AssignmentRepo:  NewAssignmentRepo(db),
		OrderRepo:       NewOrderRepo(db),
		StaffRepo:       NewStaffRepo(db),
		TokenRepo:       NewTokenRepo(db),
	}
}
