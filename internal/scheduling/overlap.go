// Package scheduling decides whether a candidate stay collides with the
// reservations already held for the same chalet.
package scheduling

import (
	"strings"
	"time"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
)

// Normalize converts a date, timestamp or ISO-8601 string to a calendar day.
// It reports false when the value cannot be interpreted.
func Normalize(v any) (models.Date, bool) {
	switch d := v.(type) {
	case models.Date:
		return d, !d.IsZero()
	case time.Time:
		return models.DateOf(d), !d.IsZero()
	case *time.Time:
		if d == nil {
			return models.Date{}, false
		}
		return models.DateOf(*d), !d.IsZero()
	case string:
		s := strings.TrimSpace(d)
		if parsed, err := models.ParseDate(s); err == nil {
			return parsed, true
		}
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return models.DateOf(ts), true
		}
	}
	return models.Date{}, false
}

// FindConflict returns the first existing reservation whose interval
// intersects [start, end). The reservation with id excludeID is ignored so an
// update never collides with itself; pass 0 when creating. Records with
// endpoints that do not normalize are skipped instead of aborting the scan.
func FindConflict(start, end models.Date, existing []models.Reservation, excludeID int64) (models.Reservation, bool) {
	for _, r := range existing {
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		ri, okStart := Normalize(r.Start)
		rf, okEnd := Normalize(r.End)
		if !okStart || !okEnd {
			continue
		}
		if start.Before(rf) && end.After(ri) {
			return r, true
		}
	}
	return models.Reservation{}, false
}

// HasConflict reports whether any existing reservation intersects [start, end).
func HasConflict(start, end models.Date, existing []models.Reservation, excludeID int64) bool {
	_, found := FindConflict(start, end, existing, excludeID)
	return found
}
