package globalconfig

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	globalconfigerrors "go-hris-leave/internal/globalconfig/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=globalconfig_service.go -destination=mock/globalconfig_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateGlobalConfigRequest) (GlobalConfigResponse, error)
	GetAll(ctx context.Context) ([]GlobalConfigResponse, error)
	GetByID(ctx context.Context, id string) (GlobalConfigResponse, error)
	GetByKey(ctx context.Context, key string) (GlobalConfigResponse, error)
	Update(ctx context.Context, id string, req UpdateGlobalConfigRequest) (GlobalConfigResponse, error)
	Delete(ctx context.Context, id string) error

	// ReplaceLeaveAllocations overwrites the allocation list for year.
	ReplaceLeaveAllocations(ctx context.Context, year int, allocations []LeaveAllocation) error
	// MergeLeaveAllocation replaces the entry with the same leave type id or
	// appends a new one.
	MergeLeaveAllocation(ctx context.Context, year int, allocation LeaveAllocation) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("globalconfig.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("globalconfig.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateGlobalConfigRequest) (GlobalConfigResponse, error) {
	key := strings.TrimSpace(req.Key)
	s.logger.Debug("create global config requested", zap.String("key", key))

	if !json.Valid(req.Value) {
		return GlobalConfigResponse{}, globalconfigerrors.ErrInvalidValue
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create global config begin tx failed", zap.Error(err))
		return GlobalConfigResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByKey(ctx, key)
	if err != nil {
		return GlobalConfigResponse{}, err
	}
	if existing != nil {
		s.logger.Warn("create global config duplicate key", zap.String("key", key))
		return GlobalConfigResponse{}, globalconfigerrors.ErrConfigKeyExists
	}

	cfg := &GlobalLeaveConfig{
		ID:          uuid.New(),
		Key:         key,
		Value:       req.Value,
		Description: req.Description,
	}
	if err := qtx.Create(ctx, cfg); err != nil {
		s.logger.Error("create global config persist failed", zap.Error(err))
		return GlobalConfigResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create global config commit failed", zap.Error(err))
		return GlobalConfigResponse{}, err
	}
	s.logger.Info("create global config success", zap.String("key", key))

	return mapToResponse(*cfg), nil
}

func (s *service) GetAll(ctx context.Context) ([]GlobalConfigResponse, error) {
	cfgs, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all global configs failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	resp := make([]GlobalConfigResponse, len(cfgs))
	for i, cfg := range cfgs {
		resp[i] = mapToResponse(cfg)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (GlobalConfigResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return GlobalConfigResponse{}, globalconfigerrors.ErrInvalidConfigID
	}
	cfg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return GlobalConfigResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*cfg), nil
}

func (s *service) GetByKey(ctx context.Context, key string) (GlobalConfigResponse, error) {
	cfg, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return GlobalConfigResponse{}, mapRepositoryError(err)
	}
	if cfg == nil {
		return GlobalConfigResponse{}, globalconfigerrors.ErrConfigNotFound
	}
	return mapToResponse(*cfg), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateGlobalConfigRequest) (GlobalConfigResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return GlobalConfigResponse{}, globalconfigerrors.ErrInvalidConfigID
	}
	if len(req.Value) > 0 && !json.Valid(req.Value) {
		return GlobalConfigResponse{}, globalconfigerrors.ErrInvalidValue
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return GlobalConfigResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cfg, err := qtx.FindByID(ctx, id)
	if err != nil {
		return GlobalConfigResponse{}, mapRepositoryError(err)
	}
	if len(req.Value) > 0 {
		cfg.Value = req.Value
	}
	if req.Description != nil {
		cfg.Description = *req.Description
	}

	if err := qtx.Update(ctx, cfg); err != nil {
		s.logger.Error("update global config persist failed", zap.String("id", id), zap.Error(err))
		return GlobalConfigResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return GlobalConfigResponse{}, err
	}
	s.logger.Info("update global config success", zap.String("id", id), zap.String("key", cfg.Key))

	return mapToResponse(*cfg), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return globalconfigerrors.ErrInvalidConfigID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	s.logger.Info("delete global config success", zap.String("id", id))
	return nil
}

func (s *service) ReplaceLeaveAllocations(ctx context.Context, year int, allocations []LeaveAllocation) error {
	return s.mutateLeaveConfig(ctx, year, func(v *LeaveConfigValue) {
		v.Allocations = append([]LeaveAllocation{}, allocations...)
	})
}

func (s *service) MergeLeaveAllocation(ctx context.Context, year int, allocation LeaveAllocation) error {
	return s.mutateLeaveConfig(ctx, year, func(v *LeaveConfigValue) {
		for i, a := range v.Allocations {
			if a.LeaveTypeID == allocation.LeaveTypeID {
				v.Allocations[i] = allocation
				return
			}
		}
		v.Allocations = append(v.Allocations, allocation)
	})
}

func (s *service) mutateLeaveConfig(ctx context.Context, year int, mutate func(v *LeaveConfigValue)) error {
	key := LeaveConfigKey(year)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cfg, err := qtx.FindByKey(ctx, key)
	if err != nil {
		return err
	}

	value := LeaveConfigValue{Year: year}
	if cfg != nil {
		if err := json.Unmarshal(cfg.Value, &value); err != nil {
			s.logger.Warn("leave config value unreadable, rebuilding",
				zap.String("key", key),
				zap.Error(err),
			)
			value = LeaveConfigValue{}
		}
		value.Year = year
	}

	mutate(&value)
	if value.Allocations == nil {
		value.Allocations = []LeaveAllocation{}
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if cfg == nil {
		cfg = &GlobalLeaveConfig{
			ID:          uuid.New(),
			Key:         key,
			Value:       raw,
			Description: fmt.Sprintf("Leave allocation for %d", year),
		}
		if err := qtx.Create(ctx, cfg); err != nil {
			return mapRepositoryError(err)
		}
	} else {
		cfg.Value = raw
		if err := qtx.Update(ctx, cfg); err != nil {
			return mapRepositoryError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("leave config mirrored",
		zap.String("key", key),
		zap.Int("allocations", len(value.Allocations)),
	)
	return nil
}

func mapToResponse(cfg GlobalLeaveConfig) GlobalConfigResponse {
	return GlobalConfigResponse{
		ID:          cfg.ID.String(),
		Key:         cfg.Key,
		Value:       cfg.Value,
		Description: cfg.Description,
		CreatedAt:   cfg.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   cfg.UpdatedAt.Format(time.RFC3339),
	}
}
