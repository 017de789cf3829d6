package employeescheme

import (
	"testing"
	"time"

	"go-hris-leave/internal/shared/dateutil"

	"github.com/stretchr/testify/assert"
)

func mustDate(t *testing.T, v string) time.Time {
	t.Helper()
	d, err := dateutil.Parse(v)
	if err != nil {
		t.Fatalf("parse %q: %v", v, err)
	}
	return d
}

func interval(t *testing.T, from, to string) Interval {
	t.Helper()
	i := Interval{From: mustDate(t, from)}
	if to != "" {
		end := mustDate(t, to)
		i.To = &end
	}
	return i
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"june shared", interval(t, "2025-01-01", "2025-06-30"), interval(t, "2025-06-01", "2025-12-31"), true},
		{"disjoint", interval(t, "2025-01-01", "2025-05-31"), interval(t, "2025-06-01", "2025-12-31"), false},
		{"touching end is allowed", interval(t, "2025-01-01", "2025-06-30"), interval(t, "2025-06-30", "2025-12-31"), false},
		{"open ended covers later", interval(t, "2025-01-01", ""), interval(t, "2030-01-01", "2030-12-31"), true},
		{"both open", interval(t, "2025-01-01", ""), interval(t, "2026-01-01", ""), true},
		{"earlier than open start", interval(t, "2026-01-01", ""), interval(t, "2025-01-01", "2025-12-31"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestInterval_Contains(t *testing.T) {
	closed := interval(t, "2025-01-01", "2025-06-30")
	assert.True(t, closed.Contains(mustDate(t, "2025-01-01")))
	assert.True(t, closed.Contains(mustDate(t, "2025-06-30")))
	assert.False(t, closed.Contains(mustDate(t, "2025-07-01")))

	open := interval(t, "2025-01-01", "")
	assert.True(t, open.Contains(mustDate(t, "2040-02-29")))
	assert.False(t, open.Contains(mustDate(t, "2024-12-31")))
}
