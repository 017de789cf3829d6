package leavescheme

import (
	"context"
	"database/sql"
	"errors"

	"go-hris-leave/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leavescheme_repo.go -destination=mock/leavescheme_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *LeaveScheme) error
	FindAll(ctx context.Context) ([]LeaveScheme, error)
	FindByID(ctx context.Context, id string) (*LeaveScheme, error)
	FindByName(ctx context.Context, name string) (*LeaveScheme, error)
	Update(ctx context.Context, s *LeaveScheme) error
	Delete(ctx context.Context, id string) error
	IsAssigned(ctx context.Context, id string) (bool, error)

	CreateLeaveType(ctx context.Context, slt *SchemeLeaveType) error
	FindLeaveType(ctx context.Context, schemeID, leaveTypeID uuid.UUID) (*SchemeLeaveType, error)
	UpdateLeaveType(ctx context.Context, slt *SchemeLeaveType) error
	DeleteLeaveType(ctx context.Context, schemeID, leaveTypeID uuid.UUID) error
	LeaveTypeExists(ctx context.Context, leaveTypeID uuid.UUID) (bool, error)
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

func (r *repository) preloaded(ctx context.Context) *gorm.DB {
	return r.conn(ctx).
		Preload("LeaveTypes", func(db *gorm.DB) *gorm.DB {
			return db.Order("scheme_leave_types.created_at ASC")
		}).
		Preload("LeaveTypes.LeaveType")
}

// Create inserts the scheme together with its leave types.
func (r *repository) Create(ctx context.Context, s *LeaveScheme) error {
	return r.conn(ctx).Omit("LeaveTypes.LeaveType").Create(s).Error
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveScheme, error) {
	var schemes []LeaveScheme
	err := r.preloaded(ctx).Order("name ASC").Find(&schemes).Error
	return schemes, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveScheme, error) {
	var s LeaveScheme
	if err := r.preloaded(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByName returns (nil, nil) when no scheme has that name.
func (r *repository) FindByName(ctx context.Context, name string) (*LeaveScheme, error) {
	var s LeaveScheme
	err := r.conn(ctx).Where("name = ?", name).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update writes scheme columns only; leave types change through their own methods.
func (r *repository) Update(ctx context.Context, s *LeaveScheme) error {
	return r.conn(ctx).Omit(clause.Associations).Save(s).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	q := r.conn(ctx)
	if err := q.Where("scheme_id = ?", id).Delete(&SchemeLeaveType{}).Error; err != nil {
		return err
	}
	res := q.Delete(&LeaveScheme{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) IsAssigned(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employee_leave_schemes").
		Where("scheme_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateLeaveType(ctx context.Context, slt *SchemeLeaveType) error {
	return r.conn(ctx).Omit("LeaveType").Create(slt).Error
}

// FindLeaveType returns (nil, nil) when the leave type is not in the scheme.
func (r *repository) FindLeaveType(ctx context.Context, schemeID, leaveTypeID uuid.UUID) (*SchemeLeaveType, error) {
	var slt SchemeLeaveType
	err := r.conn(ctx).
		Preload("LeaveType").
		Where("scheme_id = ? AND leave_type_id = ?", schemeID, leaveTypeID).
		First(&slt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slt, nil
}

func (r *repository) UpdateLeaveType(ctx context.Context, slt *SchemeLeaveType) error {
	return r.conn(ctx).Omit("LeaveType").Save(slt).Error
}

func (r *repository) DeleteLeaveType(ctx context.Context, schemeID, leaveTypeID uuid.UUID) error {
	res := r.conn(ctx).
		Where("scheme_id = ? AND leave_type_id = ?", schemeID, leaveTypeID).
		Delete(&SchemeLeaveType{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) LeaveTypeExists(ctx context.Context, leaveTypeID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("leave_types").
		Where("id = ?", leaveTypeID).
		Count(&count).Error
	return count > 0, err
}
