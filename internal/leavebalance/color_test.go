package leavebalance_test

import (
	"testing"

	"go-hris-leave/internal/leavebalance"

	"github.com/stretchr/testify/assert"
)

func TestColorForLeaveType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Sick Leave", "#EF4444"},
		{"SICK", "#EF4444"},
		{"Annual Leave", "#10B981"},
		{"casual leave", "#3B82F6"},
		{"Maternity Leave", "#EC4899"},
		{"Paternity Leave", "#8B5CF6"},
		{"Unpaid Leave", "#6B7280"},
		{"Study Leave", leavebalance.DefaultLeaveColor},
		{"", leavebalance.DefaultLeaveColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, leavebalance.ColorForLeaveType(tt.name))
		})
	}
}
