package dateutil

import (
	"time"

	"go-hris-leave/internal/shared/apperror"
)

const Layout = "2006-01-02"

// OpenEnd stands in for a missing end date in interval comparisons.
var OpenEnd = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

func Parse(v string) (time.Time, error) {
	t, err := time.Parse(Layout, v)
	if err != nil {
		return time.Time{}, apperror.ErrInvalidDateFormat
	}
	return t, nil
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the current UTC date truncated to midnight.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// CountWorkingDays counts Monday to Friday days in [start, end], both inclusive.
func CountWorkingDays(start, end time.Time) int {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}
