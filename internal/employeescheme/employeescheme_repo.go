package employeescheme

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-hris-leave/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employeescheme_repo.go -destination=mock/employeescheme_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *EmployeeLeaveScheme) error
	FindAll(ctx context.Context) ([]EmployeeLeaveScheme, error)
	FindByID(ctx context.Context, id string) (*EmployeeLeaveScheme, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]EmployeeLeaveScheme, error)
	FindCurrent(ctx context.Context, employeeID uuid.UUID, date time.Time) (*EmployeeLeaveScheme, error)
	Update(ctx context.Context, a *EmployeeLeaveScheme) error
	Delete(ctx context.Context, id string) error
	EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error)
	SchemeExists(ctx context.Context, schemeID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, a *EmployeeLeaveScheme) error {
	return r.conn(ctx).Omit("Scheme").Create(a).Error
}

func (r *repository) FindAll(ctx context.Context) ([]EmployeeLeaveScheme, error) {
	var items []EmployeeLeaveScheme
	err := r.conn(ctx).
		Preload("Scheme").
		Order("employee_id ASC, effective_from ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*EmployeeLeaveScheme, error) {
	var a EmployeeLeaveScheme
	if err := r.conn(ctx).Preload("Scheme").Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) ([]EmployeeLeaveScheme, error) {
	var items []EmployeeLeaveScheme
	err := r.conn(ctx).
		Preload("Scheme").
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// FindCurrent returns the most recently created assignment whose range
// contains date, or nil when there is none.
func (r *repository) FindCurrent(ctx context.Context, employeeID uuid.UUID, date time.Time) (*EmployeeLeaveScheme, error) {
	var a EmployeeLeaveScheme
	err := r.conn(ctx).
		Preload("Scheme").
		Where("employee_id = ?", employeeID).
		Where("effective_from <= ?", date).
		Where("(effective_to IS NULL OR effective_to >= ?)", date).
		Order("created_at DESC").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Update(ctx context.Context, a *EmployeeLeaveScheme) error {
	return r.conn(ctx).Omit("Scheme").Save(a).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&EmployeeLeaveScheme{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).Table("employees").Where("id = ?", employeeID).Count(&count).Error
	return count > 0, err
}

func (r *repository) SchemeExists(ctx context.Context, schemeID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).Table("leave_schemes").Where("id = ?", schemeID).Count(&count).Error
	return count > 0, err
}
