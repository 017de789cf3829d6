package rbac

import (
	"time"

	"go-hris-leave/internal/domain"

	"github.com/google/uuid"
)

type RolePermission struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role      string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_role_permission,priority:1"`
	Resource  string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_role_permission,priority:2"`
	Action    string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_role_permission,priority:3"`
	CreatedAt time.Time
}

func (RolePermission) TableName() string { return "role_permissions" }

// RoleHierarchy lists child, parent pairs. The child inherits everything the
// parent may do.
var RoleHierarchy = [][2]string{
	{domain.RoleHR, domain.RoleEmployee},
	{domain.RoleDM, domain.RoleEmployee},
	{domain.RoleDirector, domain.RoleHR},
}

// DefaultPolicies is the permission set seeded by the migrator.
func DefaultPolicies() []RolePermission {
	grants := []struct {
		role, resource string
		actions        []string
	}{
		{domain.RoleEmployee, "leave_type", []string{"read"}},
		{domain.RoleEmployee, "leave_application", []string{"create"}},

		{domain.RoleHR, "leave_type", []string{"manage"}},
		{domain.RoleHR, "leave_scheme", []string{"read", "manage"}},
		{domain.RoleHR, "employee_scheme", []string{"read", "manage"}},
		{domain.RoleHR, "leave_balance", []string{"manage"}},
		{domain.RoleHR, "global_config", []string{"read", "manage"}},
		{domain.RoleHR, "employee", []string{"read", "manage"}},
		{domain.RoleHR, "user", []string{"read"}},
		{domain.RoleHR, "leave_application", []string{"read_all", "read_any", "approve"}},

		{domain.RoleDM, "leave_scheme", []string{"read"}},
		{domain.RoleDM, "employee_scheme", []string{"read"}},
		{domain.RoleDM, "employee", []string{"read"}},
		{domain.RoleDM, "leave_application", []string{"read_all", "approve"}},

		{domain.RoleDirector, "leave_application", []string{"delete"}},
		{domain.RoleDirector, "rbac", []string{"manage"}},
		{domain.RoleDirector, "user", []string{"manage"}},
	}

	var out []RolePermission
	for _, g := range grants {
		for _, a := range g.actions {
			out = append(out, RolePermission{ID: uuid.New(), Role: g.role, Resource: g.resource, Action: a})
		}
	}
	return out
}
