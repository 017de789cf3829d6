package leavebalance

import "strings"

// DefaultLeaveColor is returned when no keyword matches the leave type name.
const DefaultLeaveColor = "#6366F1"

type colorRule struct {
	keyword string
	color   string
}

// Checked in order; the first keyword contained in the name wins.
var leaveColorRules = []colorRule{
	{"sick", "#EF4444"},
	{"casual", "#3B82F6"},
	{"annual", "#10B981"},
	{"earned", "#F59E0B"},
	{"maternity", "#EC4899"},
	{"paternity", "#8B5CF6"},
	{"unpaid", "#6B7280"},
	{"compensatory", "#14B8A6"},
	{"bereavement", "#64748B"},
	{"marriage", "#F43F5E"},
}

// ColorForLeaveType maps a leave type name to a display color using a
// case-insensitive substring match.
func ColorForLeaveType(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range leaveColorRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.color
		}
	}
	return DefaultLeaveColor
}
