package app_test

import (
	"context"
	"testing"

	"go-hris-leave/internal/app"
	"go-hris-leave/internal/rbac"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrate_CreatesSchemaAndSeedsGrants(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, app.Migrate(context.Background(), db))
	// a second run must not duplicate the seeded grants
	require.NoError(t, app.Migrate(context.Background(), db))

	for _, table := range []string{
		"users", "employees", "leave_types", "leave_schemes", "scheme_leave_types",
		"employee_leave_schemes", "leave_balances", "leave_applications",
		"global_leave_configs", "role_permissions", "outbox_events", "counters",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	var count int64
	require.NoError(t, db.Model(&rbac.RolePermission{}).Count(&count).Error)
	assert.Equal(t, int64(len(rbac.DefaultPolicies())), count)
}
