package employeescheme

import (
	"time"

	"go-hris-leave/internal/shared/dateutil"
)

func (i Interval) end() time.Time {
	if i.To == nil {
		return dateutil.OpenEnd
	}
	return *i.To
}

// Overlaps reports whether two intervals intersect under the half-open rule
// a.from < b.to && b.from < a.to. An open end counts as 9999-12-31.
func (i Interval) Overlaps(other Interval) bool {
	return i.From.Before(other.end()) && other.From.Before(i.end())
}

// Contains reports whether d lies within [from, to].
func (i Interval) Contains(d time.Time) bool {
	return !d.Before(i.From) && !d.After(i.end())
}
