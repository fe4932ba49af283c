package filter

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/game-club-manager/internal/model"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func date(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func tod(t *testing.T, s string) civil.Time {
	t.Helper()
	v, err := model.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func reservation(t *testing.T, name, d, tm string, party int, st model.Status) model.Reservation {
	t.Helper()
	return model.Reservation{
		ID:           uuid.New(),
		CustomerName: name,
		Date:         date(t, d),
		Time:         tod(t, tm),
		PartySize:    party,
		Status:       st,
	}
}

// fixture is deliberately stored out of (date, time) order.
func fixture(t *testing.T) []model.Reservation {
	alice := reservation(t, "Alice Wonder", "2024-06-03", "18:00", 4, model.StatusConfirmed)
	alice.CustomerPhone = strp("+1 555 0100")
	bob := reservation(t, "Bob Stone", "2024-06-01", "19:30", 5, model.StatusCompleted)
	bob.CustomerEmail = strp("bob@example.com")
	carol := reservation(t, "Carol King", "2024-06-02", "12:00", 2, model.StatusInProgress)
	carol.Notes = strp("Birthday, bring CATAN")
	dave := reservation(t, "Dave Rook", "2024-06-04", "10:15", 6, model.StatusCancelled)
	early := reservation(t, "Erin Early", "2024-06-01", "09:00", 1, model.StatusConfirmed)
	return []model.Reservation{alice, bob, carol, dave, early}
}

func names(rs []model.Reservation) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.CustomerName)
	}
	return out
}

func run(t *testing.T, spec Spec, rs []model.Reservation) []string {
	t.Helper()
	q, err := Compile(spec)
	require.NoError(t, err)
	return names(q.Apply(rs))
}

func TestCompileEmptySpecReturnsAllOrdered(t *testing.T) {
	rs := fixture(t)
	q, err := Compile(Spec{})
	require.NoError(t, err)
	assert.Empty(t, q.Conditions)
	assert.Equal(t, DefaultOrder, q.OrderBy)
	assert.Equal(t,
		[]string{"Erin Early", "Bob Stone", "Carol King", "Alice Wonder", "Dave Rook"},
		names(q.Apply(rs)))
}

func TestCompileStatus(t *testing.T) {
	rs := fixture(t)
	for _, r := range rs {
		same := r.Status
		assert.Contains(t, run(t, Spec{Status: &same}, rs), r.CustomerName)
		for _, other := range model.Statuses {
			if other == r.Status {
				continue
			}
			o := other
			assert.NotContains(t, run(t, Spec{Status: &o}, rs), r.CustomerName)
		}
	}
}

func TestCompileRejectsUnknownStatus(t *testing.T) {
	bad := model.Status("seated")
	_, err := Compile(Spec{Status: &bad})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestCompileSearchText(t *testing.T) {
	rs := fixture(t)
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"name substring any case", "ONDE", []string{"Alice Wonder"}},
		{"name infix not prefix", "stone", []string{"Bob Stone"}},
		{"phone", "555 01", []string{"Alice Wonder"}},
		{"email", "@EXAMPLE", []string{"Bob Stone"}},
		{"notes", "catan", []string{"Carol King"}},
		{"surrounding whitespace trimmed", "  king ", []string{"Carol King"}},
		{"no match", "zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, Spec{SearchText: tt.text}, rs))
		})
	}
}

func TestCompileWhitespaceSearchIsAbsent(t *testing.T) {
	q, err := Compile(Spec{SearchText: " \t\n "})
	require.NoError(t, err)
	assert.Empty(t, q.Conditions)
}

func TestCompileDateRangeInclusive(t *testing.T) {
	rs := fixture(t)
	spec := Spec{DateRange: &DateRange{From: date(t, "2024-06-01"), To: date(t, "2024-06-03")}}
	got := run(t, spec, rs)
	assert.Contains(t, got, "Carol King") // 2024-06-02
	assert.Contains(t, got, "Bob Stone")  // lower bound
	assert.Contains(t, got, "Alice Wonder")
	assert.NotContains(t, got, "Dave Rook") // 2024-06-04
}

func TestCompileInvertedDateRangeIsEmpty(t *testing.T) {
	spec := Spec{DateRange: &DateRange{From: date(t, "2024-06-03"), To: date(t, "2024-06-01")}}
	assert.Empty(t, run(t, spec, fixture(t)))
}

func TestCompileTimeRangeDefaults(t *testing.T) {
	rs := fixture(t)

	from := tod(t, "18:00")
	q, err := Compile(Spec{TimeFrom: &from})
	require.NoError(t, err)
	require.Len(t, q.Conditions, 1)
	assert.Equal(t, TimeBetween{From: from, Until: model.EndOfDay}, q.Conditions[0])
	assert.Equal(t, []string{"Bob Stone", "Alice Wonder"}, names(q.Apply(rs)))

	until := tod(t, "12:00")
	q, err = Compile(Spec{TimeUntil: &until})
	require.NoError(t, err)
	assert.Equal(t, TimeBetween{From: model.StartOfDay, Until: until}, q.Conditions[0])
	assert.Equal(t, []string{"Erin Early", "Carol King", "Dave Rook"}, names(q.Apply(rs)))
}

func TestCompileMaxPartySize(t *testing.T) {
	four := reservation(t, "Four", "2024-06-01", "10:00", 4, model.StatusConfirmed)
	five := reservation(t, "Five", "2024-06-01", "11:00", 5, model.StatusConfirmed)
	got := run(t, Spec{MaxPartySize: intp(4)}, []model.Reservation{four, five})
	assert.Equal(t, []string{"Four"}, got)
}

func TestCompileCombinesWithAnd(t *testing.T) {
	rs := fixture(t)
	confirmed := model.StatusConfirmed
	spec := Spec{
		DateRange:    &DateRange{From: date(t, "2024-06-01"), To: date(t, "2024-06-03")},
		MaxPartySize: intp(4),
		Status:       &confirmed,
	}
	assert.Equal(t, []string{"Erin Early", "Alice Wonder"}, run(t, spec, rs))
}

func TestClearingFilterRestoresFullList(t *testing.T) {
	rs := fixture(t)
	full := run(t, Spec{}, rs)

	cancelled := model.StatusCancelled
	from := tod(t, "10:00")
	filtered := run(t, Spec{
		SearchText:   "o",
		DateRange:    &DateRange{From: date(t, "2024-06-02"), To: date(t, "2024-06-04")},
		TimeFrom:     &from,
		MaxPartySize: intp(10),
		Status:       &cancelled,
	}, rs)
	assert.NotEqual(t, full, filtered)

	assert.Equal(t, full, run(t, Spec{}, rs))
}

func TestApplyFollowsOrderBy(t *testing.T) {
	rs := fixture(t)

	byTime := Query{OrderBy: []SortKey{SortByTime}}
	require.NoError(t, byTime.CheckOrder())
	assert.Equal(t,
		[]string{"Erin Early", "Dave Rook", "Carol King", "Alice Wonder", "Bob Stone"},
		names(byTime.Apply(rs)))

	// no keys falls back to DefaultOrder
	assert.Equal(t,
		[]string{"Erin Early", "Bob Stone", "Carol King", "Alice Wonder", "Dave Rook"},
		names(Query{}.Apply(rs)))

	assert.Error(t, Query{OrderBy: []SortKey{"party_size"}}.CheckOrder())
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	rs := fixture(t)
	before := names(rs)
	_ = All().Apply(rs)
	assert.Equal(t, before, names(rs))
}

func TestSpecIsEmpty(t *testing.T) {
	assert.True(t, Spec{}.IsEmpty())
	assert.True(t, Spec{SearchText: "   "}.IsEmpty())
	assert.False(t, Spec{MaxPartySize: intp(3)}.IsEmpty())
}
