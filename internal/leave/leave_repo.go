package leave

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-hris-leave/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveApplication) error
	FindAll(ctx context.Context, status string) ([]LeaveApplication, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID, status string) ([]LeaveApplication, error)
	FindByID(ctx context.Context, id string) (*LeaveApplication, error)
	Update(ctx context.Context, l *LeaveApplication) error
	Delete(ctx context.Context, id string) error
	HasOverlappingPeriod(ctx context.Context, employeeID uuid.UUID, startDate, endDate time.Time, excludeID *uuid.UUID) (bool, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveApplication) error {
	return r.conn(ctx).Omit("LeaveType").Create(l).Error
}

// withStatus filters case-insensitively. An empty status matches all rows.
func withStatus(status string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		s := strings.ToLower(strings.TrimSpace(status))
		if s == "" {
			return db
		}
		return db.Where("LOWER(status) = ?", s)
	}
}

func (r *repository) FindAll(ctx context.Context, status string) ([]LeaveApplication, error) {
	var items []LeaveApplication
	err := r.conn(ctx).
		Preload("LeaveType").
		Scopes(withStatus(status)).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID, status string) ([]LeaveApplication, error) {
	var items []LeaveApplication
	err := r.conn(ctx).
		Preload("LeaveType").
		Where("employee_id = ?", employeeID).
		Scopes(withStatus(status)).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveApplication, error) {
	var l LeaveApplication
	if err := r.conn(ctx).Preload("LeaveType").First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) Update(ctx context.Context, l *LeaveApplication) error {
	return r.conn(ctx).Omit("LeaveType").Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&LeaveApplication{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasOverlappingPeriod reports whether a pending or approved application of
// the employee intersects [startDate, endDate].
func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID uuid.UUID, startDate, endDate time.Time, excludeID *uuid.UUID) (bool, error) {
	db := r.conn(ctx).
		Model(&LeaveApplication{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
