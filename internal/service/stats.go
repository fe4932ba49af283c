package service

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/iliyamo/game-club-manager/internal/filter"
	"github.com/iliyamo/game-club-manager/internal/model"
)

// DashboardStats are the counters on the staff dashboard.
type DashboardStats struct {
	Date              civil.Date `json:"date"`
	TodayReservations int        `json:"today_reservations"`
	TodayConfirmed    int        `json:"today_confirmed"`
	AvailableGames    int        `json:"available_games"`
}

// Stats computes dashboard counters.  "Today" is the calendar date on
// the café's wall clock.
type Stats struct {
	reservations ReservationStore
	games        GameStore
	loc          *time.Location
	now          func() time.Time
}

func NewStats(reservations ReservationStore, games GameStore, loc *time.Location) *Stats {
	if loc == nil {
		loc = time.UTC
	}
	return &Stats{reservations: reservations, games: games, loc: loc, now: time.Now}
}

// Today counts today's reservations, today's still-confirmed ones and the
// games currently available.
func (s *Stats) Today(ctx context.Context) (DashboardStats, error) {
	today := civil.DateOf(s.now().In(s.loc))
	st := DashboardStats{Date: today}

	day := filter.Spec{DateRange: &filter.DateRange{From: today, To: today}}
	q, err := filter.Compile(day)
	if err != nil {
		return DashboardStats{}, err
	}
	all, err := s.reservations.ListReservations(ctx, q)
	if err != nil {
		return DashboardStats{}, model.StoreFailure("list reservations", err)
	}
	st.TodayReservations = len(all)

	confirmed := model.StatusConfirmed
	day.Status = &confirmed
	if q, err = filter.Compile(day); err != nil {
		return DashboardStats{}, err
	}
	open, err := s.reservations.ListReservations(ctx, q)
	if err != nil {
		return DashboardStats{}, model.StoreFailure("list reservations", err)
	}
	st.TodayConfirmed = len(open)

	games, err := s.games.ListGames(ctx, true)
	if err != nil {
		return DashboardStats{}, model.StoreFailure("list games", err)
	}
	st.AvailableGames = len(games)
	return st, nil
}
