package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
)

func day(d int) models.Date {
	return models.NewDate(2024, time.December, d)
}

func reservation(id int64, start, end int) models.Reservation {
	return models.Reservation{ID: id, ChaletID: 1, Start: day(start), End: day(end)}
}

func TestHasConflict(t *testing.T) {
	existing := []models.Reservation{reservation(1, 1, 5)}

	tests := []struct {
		name       string
		start, end int
		want       bool
	}{
		{"touching after", 5, 10, false},
		{"touching before", 1, 1, false},
		{"ends on existing start", 0, 1, false},
		{"overlaps tail", 3, 8, true},
		{"overlaps head", 0, 2, true},
		{"inside", 2, 3, true},
		{"covers", 0, 10, true},
		{"identical", 1, 5, true},
		{"disjoint later", 6, 9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := models.NewDate(2024, time.December, 1).AddDays(tt.start - 1)
			end := models.NewDate(2024, time.December, 1).AddDays(tt.end - 1)
			assert.Equal(t, tt.want, HasConflict(start, end, existing, 0))
		})
	}
}

func TestHasConflictIsSymmetric(t *testing.T) {
	pairs := [][2][2]int{{{1, 5}, {3, 8}}, {{1, 10}, {4, 6}}, {{1, 5}, {5, 10}}, {{2, 3}, {7, 9}}}
	for _, p := range pairs {
		a := reservation(1, p[0][0], p[0][1])
		b := reservation(2, p[1][0], p[1][1])
		assert.Equal(t,
			HasConflict(a.Start, a.End, []models.Reservation{b}, 0),
			HasConflict(b.Start, b.End, []models.Reservation{a}, 0),
			"pair %v", p)
	}
}

func TestFindConflictExcludesSelf(t *testing.T) {
	existing := []models.Reservation{reservation(1, 1, 5), reservation(2, 10, 12)}

	assert.False(t, HasConflict(day(1), day(5), existing, 1))
	assert.True(t, HasConflict(day(1), day(11), existing, 1))

	clash, found := FindConflict(day(1), day(11), existing, 1)
	assert.True(t, found)
	assert.Equal(t, int64(2), clash.ID)
}

func TestFindConflictSkipsMalformedRecords(t *testing.T) {
	existing := []models.Reservation{
		{ID: 1, Start: models.Date{}, End: day(5)},
		{ID: 2, Start: day(3), End: models.Date{}},
		reservation(3, 4, 6),
	}

	clash, found := FindConflict(day(1), day(5), existing, 0)
	assert.True(t, found)
	assert.Equal(t, int64(3), clash.ID)

	assert.False(t, HasConflict(day(1), day(4), existing, 0))
}

func TestNormalize(t *testing.T) {
	ts := time.Date(2024, time.December, 1, 18, 30, 0, 0, time.UTC)

	for _, v := range []any{day(1), ts, &ts, "2024-12-01", "2024-12-01T18:30:00Z", " 2024-12-01 "} {
		d, ok := Normalize(v)
		assert.True(t, ok, "input %v", v)
		assert.Equal(t, day(1), d)
	}

	var nilTime *time.Time
	for _, v := range []any{models.Date{}, time.Time{}, nilTime, "", "december", 42, nil} {
		_, ok := Normalize(v)
		assert.False(t, ok, "input %v", v)
	}
}
