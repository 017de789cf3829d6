package user_test

import (
	"context"
	"testing"

	"go-hris-leave/internal/auth"
	"go-hris-leave/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (*gorm.DB, user.Repository) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auth.User{}))
	return db, user.NewRepository(db)
}

func TestRepository_FindAndUpdate(t *testing.T) {
	ctx := context.Background()
	db, repo := setupRepo(t)

	u := auth.User{ID: uuid.New(), Email: "b@mail.com", PasswordHash: "h", Role: "EMPLOYEE", IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	require.NoError(t, db.Create(&auth.User{ID: uuid.New(), Email: "a@mail.com", PasswordHash: "h", Role: "HR", IsActive: true}).Error)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a@mail.com", all[0].Email)

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	u.Role = "DM"
	u.IsActive = false
	require.NoError(t, repo.Update(ctx, &u))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "DM", got.Role)
	assert.False(t, got.IsActive)

	err = repo.Update(ctx, &auth.User{ID: uuid.New()})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
