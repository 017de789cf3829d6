package employee

import (
	"context"
	"database/sql"
	"errors"

	"go-hris-leave/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindOptions(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByIdentity(ctx context.Context, ref string) (*Employee, error)
	Update(ctx context.Context, empl *Employee) error
	Deactivate(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var items []Employee
	err := r.conn(ctx).Order("full_name ASC").Find(&items).Error
	return items, err
}

// FindOptions lists active employees for pickers.
func (r *repository) FindOptions(ctx context.Context) ([]Employee, error) {
	var items []Employee
	err := r.conn(ctx).
		Select("id", "employee_number", "full_name", "email", "is_active").
		Where("is_active = ?", true).
		Order("full_name ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	if err := r.conn(ctx).First(&empl, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &empl, nil
}

// FindByIdentity matches ref against the employee id first and the linked
// user id second. It returns nil when neither matches.
func (r *repository) FindByIdentity(ctx context.Context, ref string) (*Employee, error) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, nil
	}

	for _, column := range []string{"id", "user_id"} {
		var empl Employee
		err := r.conn(ctx).Where(column+" = ?", id).First(&empl).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &empl, nil
	}
	return nil, nil
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Save(empl).Error
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	res := r.conn(ctx).Model(&Employee{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
