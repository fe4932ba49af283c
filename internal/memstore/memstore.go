// Package memstore is an in-memory implementation of the reservation
// store.  It mirrors the MySQL repositories: generated UUIDs and
// timestamps, insertion-ordered links and order lines, foreign key
// checks on insert and delete.  It backs STORE_DRIVER=memory and the
// test suites of the service and handler packages.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/game-club-manager/internal/filter"
	"github.com/iliyamo/game-club-manager/internal/model"
	"github.com/iliyamo/game-club-manager/internal/utils"
)

type refreshToken struct {
	staffID   uuid.UUID
	expiresAt time.Time
	revoked   bool
}

// Store keeps every collection behind one mutex.  Reservations, links and
// orders are slices so that listing preserves insertion order.
type Store struct {
	mu sync.RWMutex

	reservations []model.Reservation
	games        map[uuid.UUID]model.Game
	menu         map[uuid.UUID]model.MenuItem
	links        []model.ReservationGame
	orders       []model.Order
	staff        map[uuid.UUID]model.Staff
	tokens       map[string]refreshToken

	failures map[string]error
	now      func() time.Time
	last     time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		games:    map[uuid.UUID]model.Game{},
		menu:     map[uuid.UUID]model.MenuItem{},
		staff:    map[uuid.UUID]model.Staff{},
		tokens:   map[string]refreshToken{},
		failures: map[string]error{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// FailNext makes the next call of the named method (e.g. "CreateOrder")
// return err without touching any data.
func (s *Store) FailNext(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = err
}

// injected must be called with s.mu held for writing.
func (s *Store) injected(method string) error {
	if err, ok := s.failures[method]; ok {
		delete(s.failures, method)
		return err
	}
	return nil
}

// stamp returns a strictly increasing timestamp so insertion order and
// created_at order agree.
func (s *Store) stamp() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func (s *Store) reservationIndex(id uuid.UUID) int {
	for i := range s.reservations {
		if s.reservations[i].ID == id {
			return i
		}
	}
	return -1
}

// ---- reservations -------------------------------------------------------

// ListReservations evaluates q against every stored reservation.
func (s *Store) ListReservations(_ context.Context, q filter.Query) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ListReservations"); err != nil {
		return nil, err
	}
	if err := q.CheckOrder(); err != nil {
		return nil, err
	}
	return q.Apply(s.reservations), nil
}

func (s *Store) GetReservation(_ context.Context, id uuid.UUID) (model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("GetReservation"); err != nil {
		return model.Reservation{}, err
	}
	if i := s.reservationIndex(id); i >= 0 {
		return s.reservations[i], nil
	}
	return model.Reservation{}, model.NotFoundf("reservation %s", id)
}

func (s *Store) CreateReservation(_ context.Context, r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateReservation"); err != nil {
		return err
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	} else if s.reservationIndex(r.ID) >= 0 {
		return model.Conflictf("duplicate reservation %s", r.ID)
	}
	if r.Status == "" {
		r.Status = model.StatusConfirmed
	}
	if r.PartySize == 0 {
		r.PartySize = model.DefaultPartySize
	}
	r.CreatedAt = s.stamp()
	r.UpdatedAt = r.CreatedAt
	s.reservations = append(s.reservations, *r)
	return nil
}

func (s *Store) UpdateReservationStatus(_ context.Context, id uuid.UUID, status model.Status, completedBy *uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdateReservationStatus"); err != nil {
		return err
	}
	i := s.reservationIndex(id)
	if i < 0 {
		return model.NotFoundf("reservation %s", id)
	}
	r := &s.reservations[i]
	r.Status = status
	if completedBy != nil {
		by := *completedBy
		r.CompletedBy = &by
	}
	r.UpdatedAt = s.stamp()
	return nil
}

// Seed inserts reservations as-is, keeping their ids and timestamps.
// Intended for fixtures.
func (s *Store) Seed(rs ...model.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations = append(s.reservations, rs...)
}

// ---- games --------------------------------------------------------------

func (s *Store) ListGames(_ context.Context, availableOnly bool) ([]model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ListGames"); err != nil {
		return nil, err
	}
	out := []model.Game{}
	for _, g := range s.games {
		if availableOnly && !g.Available {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) GetGame(_ context.Context, id uuid.UUID) (model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("GetGame"); err != nil {
		return model.Game{}, err
	}
	g, ok := s.games[id]
	if !ok {
		return model.Game{}, model.NotFoundf("game %s", id)
	}
	return g, nil
}

func (s *Store) CreateGame(_ context.Context, g *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateGame"); err != nil {
		return err
	}
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if _, dup := s.games[g.ID]; dup {
		return model.Conflictf("duplicate game %s", g.ID)
	}
	g.CreatedAt = s.stamp()
	g.UpdatedAt = g.CreatedAt
	s.games[g.ID] = *g
	return nil
}

func (s *Store) UpdateGame(_ context.Context, g *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdateGame"); err != nil {
		return err
	}
	old, ok := s.games[g.ID]
	if !ok {
		return model.NotFoundf("game %s", g.ID)
	}
	g.CreatedAt = old.CreatedAt
	g.CreatedBy = old.CreatedBy
	g.UpdatedAt = s.stamp()
	s.games[g.ID] = *g
	return nil
}

func (s *Store) DeleteGame(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("DeleteGame"); err != nil {
		return err
	}
	if _, ok := s.games[id]; !ok {
		return model.NotFoundf("game %s", id)
	}
	for _, l := range s.links {
		if l.GameID == id {
			return model.Conflictf("still referenced: game %s is assigned to reservation %s", id, l.ReservationID)
		}
	}
	delete(s.games, id)
	return nil
}

// ---- menu ---------------------------------------------------------------

func (s *Store) ListMenuItems(_ context.Context, availableOnly bool) ([]model.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ListMenuItems"); err != nil {
		return nil, err
	}
	out := []model.MenuItem{}
	for _, m := range s.menu {
		if availableOnly && !m.Available {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) GetMenuItem(_ context.Context, id uuid.UUID) (model.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("GetMenuItem"); err != nil {
		return model.MenuItem{}, err
	}
	m, ok := s.menu[id]
	if !ok {
		return model.MenuItem{}, model.NotFoundf("menu item %s", id)
	}
	return m, nil
}

func (s *Store) CreateMenuItem(_ context.Context, m *model.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateMenuItem"); err != nil {
		return err
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if _, dup := s.menu[m.ID]; dup {
		return model.Conflictf("duplicate menu item %s", m.ID)
	}
	m.Price = m.Price.Round(2)
	m.CreatedAt = s.stamp()
	m.UpdatedAt = m.CreatedAt
	s.menu[m.ID] = *m
	return nil
}

func (s *Store) UpdateMenuItem(_ context.Context, m *model.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdateMenuItem"); err != nil {
		return err
	}
	old, ok := s.menu[m.ID]
	if !ok {
		return model.NotFoundf("menu item %s", m.ID)
	}
	m.Price = m.Price.Round(2)
	m.CreatedAt = old.CreatedAt
	m.UpdatedAt = s.stamp()
	s.menu[m.ID] = *m
	return nil
}

func (s *Store) DeleteMenuItem(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("DeleteMenuItem"); err != nil {
		return err
	}
	if _, ok := s.menu[id]; !ok {
		return model.NotFoundf("menu item %s", id)
	}
	for _, o := range s.orders {
		if o.MenuItemID == id {
			return model.Conflictf("still referenced: menu item %s is billed on order %s", id, o.ID)
		}
	}
	delete(s.menu, id)
	return nil
}

// ---- assignments --------------------------------------------------------

// ListAssignedGames joins the reservation's links with their games in
// insertion order.
func (s *Store) ListAssignedGames(_ context.Context, reservationID uuid.UUID) ([]model.AssignedGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ListAssignedGames"); err != nil {
		return nil, err
	}
	out := []model.AssignedGame{}
	for _, l := range s.links {
		if l.ReservationID != reservationID {
			continue
		}
		out = append(out, model.AssignedGame{LinkID: l.ID, AssignedAt: l.CreatedAt, Game: s.games[l.GameID]})
	}
	return out, nil
}

func (s *Store) CreateAssignment(_ context.Context, link *model.ReservationGame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateAssignment"); err != nil {
		return err
	}
	if s.reservationIndex(link.ReservationID) < 0 {
		return model.InvalidArgumentf("unknown reference: reservation %s", link.ReservationID)
	}
	if _, ok := s.games[link.GameID]; !ok {
		return model.InvalidArgumentf("unknown reference: game %s", link.GameID)
	}
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	link.CreatedAt = s.stamp()
	s.links = append(s.links, *link)
	return nil
}

func (s *Store) DeleteAssignments(_ context.Context, reservationID, gameID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("DeleteAssignments"); err != nil {
		return err
	}
	kept := s.links[:0]
	for _, l := range s.links {
		if l.ReservationID == reservationID && l.GameID == gameID {
			continue
		}
		kept = append(kept, l)
	}
	s.links = kept
	return nil
}

func (s *Store) HasAssignment(_ context.Context, reservationID, gameID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("HasAssignment"); err != nil {
		return false, err
	}
	for _, l := range s.links {
		if l.ReservationID == reservationID && l.GameID == gameID {
			return true, nil
		}
	}
	return false, nil
}

// ---- orders -------------------------------------------------------------

// ListOrderLines joins the reservation's orders with their menu items in
// insertion order.
func (s *Store) ListOrderLines(_ context.Context, reservationID uuid.UUID) ([]model.OrderLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ListOrderLines"); err != nil {
		return nil, err
	}
	out := []model.OrderLine{}
	for _, o := range s.orders {
		if o.ReservationID != reservationID {
			continue
		}
		out = append(out, model.OrderLine{Order: o, MenuItem: s.menu[o.MenuItemID]})
	}
	return out, nil
}

func (s *Store) orderIndex(id uuid.UUID) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) GetOrder(_ context.Context, id uuid.UUID) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("GetOrder"); err != nil {
		return model.Order{}, err
	}
	if i := s.orderIndex(id); i >= 0 {
		return s.orders[i], nil
	}
	return model.Order{}, model.NotFoundf("order %s", id)
}

func (s *Store) CreateOrder(_ context.Context, o *model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateOrder"); err != nil {
		return err
	}
	if s.reservationIndex(o.ReservationID) < 0 {
		return model.InvalidArgumentf("unknown reference: reservation %s", o.ReservationID)
	}
	if _, ok := s.menu[o.MenuItemID]; !ok {
		return model.InvalidArgumentf("unknown reference: menu item %s", o.MenuItemID)
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.Price = o.Price.Round(2)
	o.CreatedAt = s.stamp()
	s.orders = append(s.orders, *o)
	return nil
}

func (s *Store) UpdateOrderLine(_ context.Context, id uuid.UUID, quantity int, price decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdateOrderLine"); err != nil {
		return err
	}
	i := s.orderIndex(id)
	if i < 0 {
		return model.NotFoundf("order %s", id)
	}
	s.orders[i].Quantity = quantity
	s.orders[i].Price = price.Round(2)
	return nil
}

// DeleteOrder removes an order; a missing order is not an error.
func (s *Store) DeleteOrder(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("DeleteOrder"); err != nil {
		return err
	}
	if i := s.orderIndex(id); i >= 0 {
		s.orders = append(s.orders[:i], s.orders[i+1:]...)
	}
	return nil
}

// ---- staff & tokens -----------------------------------------------------

func (s *Store) CreateStaff(_ context.Context, email, fullName, password, role string, cost int) (uuid.UUID, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return uuid.Nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateStaff"); err != nil {
		return uuid.Nil, err
	}
	for _, st := range s.staff {
		if st.Email == email {
			return uuid.Nil, model.ErrEmailExists
		}
	}
	now := s.stamp()
	st := model.Staff{
		ID: uuid.New(), Email: email, FullName: fullName, PasswordHash: hash,
		Role: role, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	s.staff[st.ID] = st
	return st.ID, nil
}

func (s *Store) GetStaffByEmail(_ context.Context, email string) (model.Staff, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.staff {
		if st.Email == email {
			return st, nil
		}
	}
	return model.Staff{}, model.NotFoundf("staff %s", email)
}

func (s *Store) GetStaffByID(_ context.Context, id uuid.UUID) (model.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.staff[id]
	if !ok {
		return model.Staff{}, model.NotFoundf("staff %s", id)
	}
	return st, nil
}

func (s *Store) StoreRefresh(_ context.Context, staffID uuid.UUID, tokenHash string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.staff[staffID]; !ok {
		return model.InvalidArgumentf("unknown reference: staff %s", staffID)
	}
	if _, dup := s.tokens[tokenHash]; dup {
		return model.Conflictf("duplicate refresh token")
	}
	s.tokens[tokenHash] = refreshToken{staffID: staffID, expiresAt: exp}
	return nil
}

func (s *Store) ValidateRefresh(_ context.Context, tokenHash string) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[tokenHash]
	if !ok {
		return uuid.Nil, model.NotFoundf("refresh token")
	}
	if t.revoked || s.now().After(t.expiresAt) {
		return uuid.Nil, model.NotFoundf("refresh token expired or revoked")
	}
	return t.staffID, nil
}

func (s *Store) RevokeByHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tokens[tokenHash]; ok {
		t.revoked = true
		s.tokens[tokenHash] = t
	}
	return nil
}

func (s *Store) RevokeAllForStaff(_ context.Context, staffID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for h, t := range s.tokens {
		if t.staffID == staffID {
			t.revoked = true
			s.tokens[h] = t
		}
	}
	return nil
}
