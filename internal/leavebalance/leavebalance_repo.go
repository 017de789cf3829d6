package leavebalance

import (
	"context"
	"database/sql"
	"errors"

	"go-hris-leave/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leavebalance_repo.go -destination=mock/leavebalance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *LeaveBalance) error
	// CreateIfAbsent inserts b unless a row with the same employee, leave
	// type and year exists. It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, b *LeaveBalance) (bool, error)
	FindAll(ctx context.Context, year *int) ([]LeaveBalance, error)
	FindByID(ctx context.Context, id string) (*LeaveBalance, error)
	FindByKey(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error)
	FindByEmployeeYear(ctx context.Context, employeeID uuid.UUID, year int) ([]BalanceWithType, error)
	Update(ctx context.Context, b *LeaveBalance) error
	Delete(ctx context.Context, id string) error

	ListActiveEmployeeIDs(ctx context.Context) ([]uuid.UUID, error)
	ListActiveLeaveTypes(ctx context.Context) ([]ActiveLeaveType, error)
	FindActiveLeaveType(ctx context.Context, id uuid.UUID) (*ActiveLeaveType, error)
	IsActiveEmployee(ctx context.Context, id uuid.UUID) (bool, error)
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

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	return r.conn(ctx).Create(b).Error
}

func (r *repository) CreateIfAbsent(ctx context.Context, b *LeaveBalance) (bool, error) {
	res := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "leave_type_id"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(b)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) FindAll(ctx context.Context, year *int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	q := r.conn(ctx).Order("year DESC, created_at DESC")
	if year != nil {
		q = q.Where("year = ?", *year)
	}
	err := q.Find(&balances).Error
	return balances, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveBalance, error) {
	var b LeaveBalance
	if err := r.conn(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// FindByKey returns (nil, nil) when no row exists for the triple.
func (r *repository) FindByKey(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Where("employee_id = ? AND leave_type_id = ? AND year = ?", employeeID, leaveTypeID, year).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindByEmployeeYear(ctx context.Context, employeeID uuid.UUID, year int) ([]BalanceWithType, error) {
	var rows []BalanceWithType
	err := r.conn(ctx).
		Table("leave_balances AS lb").
		Select("lb.*, lt.name AS leave_type_name").
		Joins("JOIN leave_types lt ON lt.id = lb.leave_type_id").
		Where("lb.employee_id = ? AND lb.year = ?", employeeID, year).
		Order("lt.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, b *LeaveBalance) error {
	return r.conn(ctx).Save(b).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&LeaveBalance{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListActiveEmployeeIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.conn(ctx).
		Table("employees").
		Where("is_active = ?", true).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) ListActiveLeaveTypes(ctx context.Context) ([]ActiveLeaveType, error) {
	var types []ActiveLeaveType
	err := r.conn(ctx).
		Table("leave_types").
		Select("id, name, max_days").
		Where("is_active = ?", true).
		Order("name ASC").
		Scan(&types).Error
	return types, err
}

// FindActiveLeaveType returns (nil, nil) when the type is missing or inactive.
func (r *repository) FindActiveLeaveType(ctx context.Context, id uuid.UUID) (*ActiveLeaveType, error) {
	var types []ActiveLeaveType
	err := r.conn(ctx).
		Table("leave_types").
		Select("id, name, max_days").
		Where("id = ? AND is_active = ?", id, true).
		Limit(1).
		Scan(&types).Error
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, nil
	}
	return &types[0], nil
}

func (r *repository) IsActiveEmployee(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error
	return count > 0, err
}
