package repository

import (
	"fmt"
	"strings"

	"github.com/iliyamo/game-club-manager/internal/filter"
)

// searchColumns maps searchable fields to reservation columns.  Nullable
// columns are wrapped in COALESCE so a NULL never hides a match on
// another column of the OR group.
var searchColumns = map[filter.Field]string{
	filter.FieldCustomerName:  "r.customer_name",
	filter.FieldCustomerPhone: "COALESCE(r.customer_phone, '')",
	filter.FieldCustomerEmail: "COALESCE(r.customer_email, '')",
	filter.FieldNotes:         "COALESCE(r.notes, '')",
}

var sortColumns = map[filter.SortKey]string{
	filter.SortByDate: "r.reservation_date",
	filter.SortByTime: "r.reservation_time",
}

// likeEscaper escapes LIKE metacharacters so user text matches literally.
// Backslash is MySQL's default LIKE escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildReservationWhere translates a compiled query into a WHERE
// condition, its positional arguments and an ORDER BY list.  Dates and
// times are bound as their canonical YYYY-MM-DD / HH:MM:SS strings so the
// comparison happens on calendar values inside MySQL and never passes
// through a time.Time in the connection's location.
func buildReservationWhere(q filter.Query) (cond string, args []any, orderBy string, err error) {
	where := []string{}

	for _, c := range q.Conditions {
		switch c := c.(type) {
		case filter.TextSearch:
			ors := make([]string, 0, len(c.Fields))
			pattern := "%" + likeEscaper.Replace(strings.ToLower(c.Text)) + "%"
			for _, f := range c.Fields {
				col, ok := searchColumns[f]
				if !ok {
					return "", nil, "", fmt.Errorf("unsupported search field %q", f)
				}
				ors = append(ors, "LOWER("+col+") LIKE ?")
				args = append(args, pattern)
			}
			if len(ors) > 0 {
				where = append(where, "("+strings.Join(ors, " OR ")+")")
			}
		case filter.DateBetween:
			where = append(where, "r.reservation_date BETWEEN ? AND ?")
			args = append(args, c.From.String(), c.To.String())
		case filter.TimeBetween:
			where = append(where, "r.reservation_time BETWEEN ? AND ?")
			args = append(args, c.From.String(), c.Until.String())
		case filter.PartySizeAtMost:
			where = append(where, "r.party_size <= ?")
			args = append(args, c.Max)
		case filter.StatusIs:
			where = append(where, "r.status = ?")
			args = append(args, string(c.Status))
		default:
			return "", nil, "", fmt.Errorf("unsupported filter condition %T", c)
		}
	}

	cond = "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	keys := q.OrderBy
	if len(keys) == 0 {
		keys = filter.DefaultOrder
	}
	cols := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		col, ok := sortColumns[k]
		if !ok {
			return "", nil, "", fmt.Errorf("unsupported sort key %q", k)
		}
		cols = append(cols, col+" ASC")
	}
	// stable tiebreak for reservations booked at the same slot
	cols = append(cols, "r.created_at ASC")
	orderBy = strings.Join(cols, ", ")
	return cond, args, orderBy, nil
}
