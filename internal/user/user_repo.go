package user

import (
	"context"
	"errors"

	"go-hris-leave/internal/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	FindAll(ctx context.Context) ([]auth.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error)
	Update(ctx context.Context, u *auth.User) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAll(ctx context.Context) ([]auth.User, error) {
	var users []auth.User
	err := r.db.WithContext(ctx).Order("email ASC").Find(&users).Error
	return users, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	var u auth.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Update writes role, status and password hash. Email is immutable here.
func (r *repository) Update(ctx context.Context, u *auth.User) error {
	res := r.db.WithContext(ctx).
		Model(&auth.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"role":          u.Role,
			"is_active":     u.IsActive,
			"password_hash": u.PasswordHash,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
