package service

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/game-club-manager/internal/filter"
	"github.com/iliyamo/game-club-manager/internal/model"
	"github.com/iliyamo/game-club-manager/internal/queue"
)

// EventPublisher delivers completed-visit events.  Publishing is best
// effort: failures are logged and never fail the status change.
type EventPublisher interface {
	PublishReservationCompleted(ctx context.Context, ev queue.ReservationCompletedEvent) error
}

// NewReservation is the validated input of ReservationService.Create.
type NewReservation struct {
	CustomerName  string
	CustomerPhone *string
	CustomerEmail *string
	Date          civil.Date
	Time          civil.Time
	PartySize     int
	Notes         *string
}

// ReservationService lists, creates and moves reservations through
// their lifecycle.
type ReservationService struct {
	store   ReservationStore
	details *DetailAggregator
	events  EventPublisher
	log     *zap.Logger
	now     func() time.Time
}

// NewReservationService wires the service.  events may be nil.
func NewReservationService(store ReservationStore, details *DetailAggregator, events EventPublisher) *ReservationService {
	return &ReservationService{
		store:   store,
		details: details,
		events:  events,
		log:     zap.L().Named("reservations"),
		now:     time.Now,
	}
}

// List compiles spec and returns the matching reservations ordered by
// date and time.
func (s *ReservationService) List(ctx context.Context, spec filter.Spec) ([]model.Reservation, error) {
	q, err := filter.Compile(spec)
	if err != nil {
		return nil, err
	}
	out, err := s.store.ListReservations(ctx, q)
	if err != nil {
		return nil, model.StoreFailure("list reservations", err)
	}
	return out, nil
}

// Get returns a single reservation record.
func (s *ReservationService) Get(ctx context.Context, id uuid.UUID) (model.Reservation, error) {
	r, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return model.Reservation{}, model.StoreFailure("get reservation", err)
	}
	return r, nil
}

// Create stores a new confirmed reservation made by staffID.  A zero
// party size becomes model.DefaultPartySize.
func (s *ReservationService) Create(ctx context.Context, in NewReservation, staffID *uuid.UUID) (model.Reservation, error) {
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return model.Reservation{}, model.InvalidArgumentf("customer name is required")
	}
	if !in.Date.IsValid() {
		return model.Reservation{}, model.InvalidArgumentf("reservation date is required")
	}
	if !in.Time.IsValid() {
		return model.Reservation{}, model.InvalidArgumentf("invalid reservation time %s", in.Time)
	}
	size := in.PartySize
	if size == 0 {
		size = model.DefaultPartySize
	}
	if size < 1 {
		return model.Reservation{}, model.InvalidArgumentf("party size must be at least 1, got %d", size)
	}

	r := model.Reservation{
		CustomerName:  name,
		CustomerPhone: trimmed(in.CustomerPhone),
		CustomerEmail: trimmed(in.CustomerEmail),
		Date:          in.Date,
		Time:          in.Time,
		PartySize:     size,
		Status:        model.StatusConfirmed,
		Notes:         trimmed(in.Notes),
		CreatedBy:     staffID,
	}
	if err := s.store.CreateReservation(ctx, &r); err != nil {
		return model.Reservation{}, model.StoreFailure("create reservation", err)
	}
	s.log.Info("reservation created",
		zap.Stringer("reservation_id", r.ID),
		zap.String("date", r.Date.String()),
		zap.String("time", r.Time.String()),
		zap.Int("party_size", r.PartySize))
	return r, nil
}

// UpdateStatus moves a reservation to status.  Entering completed records
// staffID as the completer and publishes a ReservationCompletedEvent.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status, staffID *uuid.UUID) (model.Reservation, error) {
	if !status.Valid() {
		return model.Reservation{}, model.InvalidArgumentf("unknown reservation status %q", status)
	}
	var completedBy *uuid.UUID
	if status == model.StatusCompleted {
		completedBy = staffID
	}
	if err := s.store.UpdateReservationStatus(ctx, id, status, completedBy); err != nil {
		return model.Reservation{}, model.StoreFailure("update reservation status", err)
	}
	r, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return model.Reservation{}, &ReloadError{ReservationID: id, Err: model.StoreFailure("get reservation", err)}
	}
	s.log.Info("reservation status changed", zap.Stringer("reservation_id", id), zap.String("status", string(status)))

	if status == model.StatusCompleted {
		s.publishCompleted(ctx, id)
	}
	return r, nil
}

func (s *ReservationService) publishCompleted(ctx context.Context, id uuid.UUID) {
	if s.events == nil || s.details == nil {
		return
	}
	d, err := s.details.Detail(ctx, id)
	if err != nil {
		s.log.Warn("completed event skipped", zap.Stringer("reservation_id", id), zap.Error(err))
		return
	}
	if err := s.events.PublishReservationCompleted(ctx, CompletedEvent(d, s.now())); err != nil {
		s.log.Warn("completed event not published", zap.Stringer("reservation_id", id), zap.Error(err))
	}
}

// CompletedEvent builds the event payload from a detail view.
func CompletedEvent(d ReservationDetail, at time.Time) queue.ReservationCompletedEvent {
	games := make([]string, 0, len(d.Games))
	for _, g := range d.Games {
		games = append(games, g.Game.Name)
	}
	ev := queue.ReservationCompletedEvent{
		ReservationID: d.Reservation.ID.String(),
		CustomerName:  d.Reservation.CustomerName,
		Date:          d.Reservation.Date.String(),
		Time:          d.Reservation.Time.String(),
		PartySize:     d.Reservation.PartySize,
		Games:         games,
		OrderCount:    len(d.Orders),
		Total:         FormatMoney(d.Total),
		CompletedAt:   at.UTC().Format(time.RFC3339),
	}
	if d.Reservation.CompletedBy != nil {
		ev.CompletedBy = d.Reservation.CompletedBy.String()
	}
	return ev
}

// trimmed turns blank optional strings into nil.
func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
