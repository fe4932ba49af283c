package filter

import (
	"strings"

	"github.com/iliyamo/game-club-manager/internal/model"
)

// Compile turns a Spec into a Query.  It is a pure function: the same
// spec always yields the same query, and the zero Spec yields a query
// with no conditions and the default ordering.
//
//   - whitespace-only search text is treated as absent;
//   - a date range is applied literally, so From after To matches nothing;
//   - a time range with one bound is completed with 00:00:00 / 23:59:59;
//   - an unknown status is rejected with model.ErrInvalidArgument.
func Compile(spec Spec) (Query, error) {
	q := Query{OrderBy: append([]SortKey(nil), DefaultOrder...)}

	if text := strings.TrimSpace(spec.SearchText); text != "" {
		q.Conditions = append(q.Conditions, TextSearch{
			Text:   strings.ToLower(text),
			Fields: append([]Field(nil), SearchFields...),
		})
	}

	if spec.DateRange != nil {
		q.Conditions = append(q.Conditions, DateBetween{From: spec.DateRange.From, To: spec.DateRange.To})
	}

	if spec.TimeFrom != nil || spec.TimeUntil != nil {
		tb := TimeBetween{From: model.StartOfDay, Until: model.EndOfDay}
		if spec.TimeFrom != nil {
			tb.From = *spec.TimeFrom
		}
		if spec.TimeUntil != nil {
			tb.Until = *spec.TimeUntil
		}
		q.Conditions = append(q.Conditions, tb)
	}

	if spec.MaxPartySize != nil {
		q.Conditions = append(q.Conditions, PartySizeAtMost{Max: *spec.MaxPartySize})
	}

	if spec.Status != nil {
		if !spec.Status.Valid() {
			return Query{}, model.InvalidArgumentf("unknown reservation status %q", *spec.Status)
		}
		q.Conditions = append(q.Conditions, StatusIs{Status: *spec.Status})
	}
	return q, nil
}

// All is the compiled form of the empty spec.
func All() Query {
	q, _ := Compile(Spec{})
	return q
}
