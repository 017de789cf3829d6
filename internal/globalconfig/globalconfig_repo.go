package globalconfig

import (
	"context"
	"database/sql"
	"errors"

	"go-hris-leave/internal/shared/dbtx"

	"gorm.io/gorm"
)

//go:generate mockgen -source=globalconfig_repo.go -destination=mock/globalconfig_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, cfg *GlobalLeaveConfig) error
	FindAll(ctx context.Context) ([]GlobalLeaveConfig, error)
	FindByID(ctx context.Context, id string) (*GlobalLeaveConfig, error)
	FindByKey(ctx context.Context, key string) (*GlobalLeaveConfig, error)
	Update(ctx context.Context, cfg *GlobalLeaveConfig) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, cfg *GlobalLeaveConfig) error {
	return r.conn(ctx).Create(cfg).Error
}

func (r *repository) FindAll(ctx context.Context) ([]GlobalLeaveConfig, error) {
	var cfgs []GlobalLeaveConfig
	err := r.conn(ctx).Order("key ASC").Find(&cfgs).Error
	return cfgs, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*GlobalLeaveConfig, error) {
	var cfg GlobalLeaveConfig
	if err := r.conn(ctx).First(&cfg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindByKey returns (nil, nil) when the key is absent.
func (r *repository) FindByKey(ctx context.Context, key string) (*GlobalLeaveConfig, error) {
	var cfg GlobalLeaveConfig
	err := r.conn(ctx).Where("key = ?", key).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *repository) Update(ctx context.Context, cfg *GlobalLeaveConfig) error {
	return r.conn(ctx).Save(cfg).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&GlobalLeaveConfig{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
