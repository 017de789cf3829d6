package counter_test

import (
	"context"
	"testing"

	"go-hris-leave/internal/shared/counter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestRepository_GetNextValue(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&counter.Counter{}))

	repo := counter.NewRepository(db)
	ctx := context.Background()

	first, err := repo.GetNextValue(ctx, counter.EmployeeNumber)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := repo.GetNextValue(ctx, counter.EmployeeNumber)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), second)

	other, err := repo.GetNextValue(ctx, "other")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), other)
}
