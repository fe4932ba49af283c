// Package filter compiles a staff member's reservation filter into a
// store-neutral query descriptor.  The descriptor is a typed list of
// conditions plus a fixed ordering; each store translates it into its
// own query language (see repository.buildReservationWhere for MySQL and
// Query.Apply for in-memory evaluation).
package filter

import (
	"strconv"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/iliyamo/game-club-manager/internal/model"
)

// DateRange is an inclusive range of calendar dates.  Both bounds are
// always present; a range with From after To matches nothing.
type DateRange struct {
	From civil.Date
	To   civil.Date
}

// Spec is the structured filter a caller passes in explicitly.  Every
// field is optional and an unset field imposes no constraint.
type Spec struct {
	SearchText   string
	DateRange    *DateRange
	TimeFrom     *civil.Time
	TimeUntil    *civil.Time
	MaxPartySize *int
	Status       *model.Status
}

// IsEmpty reports whether the spec constrains nothing.
func (s Spec) IsEmpty() bool {
	return strings.TrimSpace(s.SearchText) == "" &&
		s.DateRange == nil &&
		s.TimeFrom == nil && s.TimeUntil == nil &&
		s.MaxPartySize == nil &&
		s.Status == nil
}

// RawSpec carries unparsed filter input as it arrives from a form or a
// query string.  Empty strings mean "not set".
type RawSpec struct {
	Search       string
	DateFrom     string
	DateTo       string
	TimeFrom     string
	TimeUntil    string
	MaxPartySize string
	Status       string
}

// ParseSpec validates raw input and builds a Spec.  Malformed dates,
// times or integers, a date range with only one bound and unknown
// statuses are rejected with model.ErrInvalidArgument.
func ParseSpec(raw RawSpec) (Spec, error) {
	var spec Spec
	spec.SearchText = raw.Search

	from, to := strings.TrimSpace(raw.DateFrom), strings.TrimSpace(raw.DateTo)
	switch {
	case from == "" && to == "":
	case from == "" || to == "":
		return Spec{}, model.InvalidArgumentf("date range needs both date_from and date_to")
	default:
		f, err := model.ParseDate(from)
		if err != nil {
			return Spec{}, err
		}
		t, err := model.ParseDate(to)
		if err != nil {
			return Spec{}, err
		}
		spec.DateRange = &DateRange{From: f, To: t}
	}

	if s := strings.TrimSpace(raw.TimeFrom); s != "" {
		t, err := model.ParseTimeOfDay(s)
		if err != nil {
			return Spec{}, err
		}
		spec.TimeFrom = &t
	}
	if s := strings.TrimSpace(raw.TimeUntil); s != "" {
		t, err := model.ParseTimeOfDay(s)
		if err != nil {
			return Spec{}, err
		}
		spec.TimeUntil = &t
	}

	if s := strings.TrimSpace(raw.MaxPartySize); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Spec{}, model.InvalidArgumentf("max_party_size %q is not an integer", raw.MaxPartySize)
		}
		spec.MaxPartySize = &n
	}

	if s := strings.TrimSpace(raw.Status); s != "" && !strings.EqualFold(s, "all") {
		st, err := model.ParseStatus(s)
		if err != nil {
			return Spec{}, err
		}
		spec.Status = &st
	}
	return spec, nil
}
