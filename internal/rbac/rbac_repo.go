package rbac

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	ListPermissions(ctx context.Context, role string) ([]RolePermission, error)
	Create(ctx context.Context, p *RolePermission) error
	Delete(ctx context.Context, id string) error
	Seed(ctx context.Context, perms []RolePermission) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ListPermissions returns every grant, or only the grants of role when it is
// not empty.
func (r *repository) ListPermissions(ctx context.Context, role string) ([]RolePermission, error) {
	var result []RolePermission
	q := r.db.WithContext(ctx).Order("role, resource, action")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	err := q.Find(&result).Error
	return result, err
}

func (r *repository) Create(ctx context.Context, p *RolePermission) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&RolePermission{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Seed inserts perms, skipping grants that already exist.
func (r *repository) Seed(ctx context.Context, perms []RolePermission) error {
	if len(perms) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&perms).Error
}
