package filter

import (
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/iliyamo/game-club-manager/internal/model"
)

// Field names a reservation attribute the free-text search looks at.
type Field string

const (
	FieldCustomerName  Field = "customer_name"
	FieldCustomerPhone Field = "customer_phone"
	FieldCustomerEmail Field = "customer_email"
	FieldNotes         Field = "notes"
)

// SearchFields are the fields matched by the free-text search, in the
// order they are tried.
var SearchFields = []Field{FieldCustomerName, FieldCustomerPhone, FieldCustomerEmail, FieldNotes}

// SortKey names a column of the fixed result ordering.
type SortKey string

const (
	SortByDate SortKey = "reservation_date"
	SortByTime SortKey = "reservation_time"
)

// DefaultOrder is the ordering of every reservation listing.
var DefaultOrder = []SortKey{SortByDate, SortByTime}

// Condition is one constraint of a compiled query.  The concrete types
// below are the complete set; stores switch on them.
type Condition interface {
	Matches(r model.Reservation) bool
	isCondition()
}

// TextSearch matches when any of Fields contains Text.  Text is already
// lower-cased; matching is a case-insensitive substring test.
type TextSearch struct {
	Text   string
	Fields []Field
}

// DateBetween matches From <= date <= To.
type DateBetween struct {
	From civil.Date
	To   civil.Date
}

// TimeBetween matches From <= time <= Until.
type TimeBetween struct {
	From  civil.Time
	Until civil.Time
}

// PartySizeAtMost matches party_size <= Max.
type PartySizeAtMost struct {
	Max int
}

// StatusIs matches an exact status.
type StatusIs struct {
	Status model.Status
}

func (TextSearch) isCondition()      {}
func (DateBetween) isCondition()     {}
func (TimeBetween) isCondition()     {}
func (PartySizeAtMost) isCondition() {}
func (StatusIs) isCondition()        {}

func (c TextSearch) Matches(r model.Reservation) bool {
	for _, f := range c.Fields {
		if strings.Contains(strings.ToLower(FieldValue(r, f)), c.Text) {
			return true
		}
	}
	return false
}

func (c DateBetween) Matches(r model.Reservation) bool {
	return !r.Date.Before(c.From) && !r.Date.After(c.To)
}

func (c TimeBetween) Matches(r model.Reservation) bool {
	return model.CompareTime(r.Time, c.From) >= 0 && model.CompareTime(r.Time, c.Until) <= 0
}

func (c PartySizeAtMost) Matches(r model.Reservation) bool { return r.PartySize <= c.Max }

func (c StatusIs) Matches(r model.Reservation) bool { return r.Status == c.Status }

// FieldValue returns the value of a searchable field, "" when unset.
func FieldValue(r model.Reservation, f Field) string {
	var p *string
	switch f {
	case FieldCustomerName:
		return r.CustomerName
	case FieldCustomerPhone:
		p = r.CustomerPhone
	case FieldCustomerEmail:
		p = r.CustomerEmail
	case FieldNotes:
		p = r.Notes
	}
	if p == nil {
		return ""
	}
	return *p
}

// Query is the compiled, store-neutral form of a Spec.  Conditions are
// combined with logical AND; an empty Conditions slice matches every
// reservation.
type Query struct {
	Conditions []Condition
	OrderBy    []SortKey
}

// Matches reports whether r satisfies every condition.
func (q Query) Matches(r model.Reservation) bool {
	for _, c := range q.Conditions {
		if !c.Matches(r) {
			return false
		}
	}
	return true
}

// compareBy orders a and b on a single sort key.  ok is false for keys
// the in-memory evaluator does not know.
func compareBy(k SortKey, a, b model.Reservation) (c int, ok bool) {
	switch k {
	case SortByDate:
		switch {
		case a.Date.Before(b.Date):
			return -1, true
		case a.Date.After(b.Date):
			return 1, true
		}
		return 0, true
	case SortByTime:
		return model.CompareTime(a.Time, b.Time), true
	}
	return 0, false
}

// CheckOrder rejects sort keys no store can translate.
func (q Query) CheckOrder() error {
	for _, k := range q.OrderBy {
		if _, ok := compareBy(k, model.Reservation{}, model.Reservation{}); !ok {
			return fmt.Errorf("unsupported sort key %q", k)
		}
	}
	return nil
}

// Apply evaluates the query against an in-memory set.  The input slice
// is not modified; the result is sorted ascending by q.OrderBy
// (DefaultOrder when empty) with ties kept in input order.  Unknown keys
// are skipped; call CheckOrder first to reject them.
func (q Query) Apply(rs []model.Reservation) []model.Reservation {
	out := make([]model.Reservation, 0, len(rs))
	for _, r := range rs {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	keys := q.OrderBy
	if len(keys) == 0 {
		keys = DefaultOrder
	}
	sort.SliceStable(out, func(i, j int) bool {
		for _, k := range keys {
			if c, _ := compareBy(k, out[i], out[j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return out
}
