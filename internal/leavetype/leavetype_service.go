package leavetype

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"go-hris-leave/internal/events"
	leavetypeerrors "go-hris-leave/internal/leavetype/errors"
	"go-hris-leave/internal/messaging/kafka"
	"go-hris-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ActiveListKey = "leave_types:active"
	activeListTTL = 30 * time.Minute
)

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context, includeInactive bool) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, id string) (LeaveTypeResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	SoftDelete(ctx context.Context, id string) (LeaveTypeResponse, error)
	Delete(ctx context.Context, id string) (DeleteLeaveTypeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	name := strings.TrimSpace(req.Name)
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	s.logger.Debug("create leave type requested",
		zap.String("request_id", rid),
		zap.String("code", code),
	)

	if name == "" {
		return LeaveTypeResponse{}, leavetypeerrors.ErrEmptyName
	}
	if code == "" {
		return LeaveTypeResponse{}, leavetypeerrors.ErrEmptyCode
	}
	if req.MaxDays.IsNegative() {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidMaxDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave type begin tx failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByCode(ctx, code)
	if err != nil {
		s.logger.Error("create leave type code lookup failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	if existing != nil {
		s.logger.Warn("create leave type duplicate code", zap.String("code", code))
		return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeCodeExists
	}

	lt := &LeaveType{
		ID:          uuid.New(),
		Name:        name,
		Code:        code,
		Description: req.Description,
		IsPaid:      boolOr(req.IsPaid, true),
		MaxDays:     req.MaxDays,
		IsActive:    boolOr(req.IsActive, true),
	}

	if err := qtx.Create(ctx, lt); err != nil {
		s.logger.Error("create leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil && lt.IsActive {
		event, err := kafka.NewEvent(rid, "leave_type", lt.ID.String(), "leave_type_created", events.LeaveTypeTopic,
			events.LeaveTypeCreatedEvent{
				EventType:   "leave_type_created",
				RequestID:   rid,
				LeaveTypeID: lt.ID.String(),
				Code:        lt.Code,
				MaxDays:     lt.MaxDays.String(),
				OccurredAt:  time.Now().UTC(),
			})
		if err != nil {
			s.logger.Error("marshal leave type event failed", zap.Error(err))
			return LeaveTypeResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("create leave type outbox persist failed",
				zap.String("leave_type_id", lt.ID.String()),
				zap.Error(err),
			)
			return LeaveTypeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave type commit failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("create leave type success",
		zap.String("request_id", rid),
		zap.String("leave_type_id", lt.ID.String()),
		zap.String("code", lt.Code),
	)

	return mapToResponse(*lt), nil
}

func (s *service) GetAll(ctx context.Context, includeInactive bool) ([]LeaveTypeResponse, error) {
	if includeInactive {
		types, err := s.repo.FindAll(ctx, true)
		if err != nil {
			s.logger.Error("get all leave types failed", zap.Error(err))
			return nil, mapRepositoryError(err)
		}
		return mapToListResponse(types), nil
	}

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, ActiveListKey).Result(); err == nil {
			var resp []LeaveTypeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(ActiveListKey, func() (interface{}, error) {
		types, err := s.repo.FindAll(ctx, false)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(types)
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, ActiveListKey, jsonData, activeListTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("get active leave types failed", zap.Error(err))
		return nil, err
	}

	return v.([]LeaveTypeResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}

	lt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*lt), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	s.logger.Debug("update leave type requested", zap.String("leave_type_id", id))
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave type begin tx failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lt, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return LeaveTypeResponse{}, leavetypeerrors.ErrEmptyName
		}
		lt.Name = name
	}
	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		if code == "" {
			return LeaveTypeResponse{}, leavetypeerrors.ErrEmptyCode
		}
		if code != lt.Code {
			existing, err := qtx.FindByCode(ctx, code)
			if err != nil {
				return LeaveTypeResponse{}, err
			}
			if existing != nil && existing.ID != lt.ID {
				s.logger.Warn("update leave type duplicate code", zap.String("code", code))
				return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeCodeExists
			}
		}
		lt.Code = code
	}
	if req.Description != nil {
		lt.Description = *req.Description
	}
	if req.IsPaid != nil {
		lt.IsPaid = *req.IsPaid
	}
	if req.MaxDays != nil {
		if req.MaxDays.IsNegative() {
			return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidMaxDays
		}
		lt.MaxDays = *req.MaxDays
	}
	if req.IsActive != nil {
		lt.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, lt); err != nil {
		s.logger.Error("update leave type persist failed", zap.String("leave_type_id", id), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave type commit failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("update leave type success", zap.String("leave_type_id", id))
	return mapToResponse(*lt), nil
}

func (s *service) SoftDelete(ctx context.Context, id string) (LeaveTypeResponse, error) {
	inactive := false
	return s.Update(ctx, id, UpdateLeaveTypeRequest{IsActive: &inactive})
}

// Delete removes the row unless a scheme still points at it, in which case the
// type is only deactivated.
func (s *service) Delete(ctx context.Context, id string) (DeleteLeaveTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DeleteLeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DeleteLeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lt, err := qtx.FindByID(ctx, id)
	if err != nil {
		return DeleteLeaveTypeResponse{}, mapRepositoryError(err)
	}

	referenced, err := qtx.IsReferencedByScheme(ctx, id)
	if err != nil {
		s.logger.Error("delete leave type reference check failed", zap.Error(err))
		return DeleteLeaveTypeResponse{}, err
	}

	result := DeleteLeaveTypeResponse{Deleted: true}
	if referenced {
		lt.IsActive = false
		if err := qtx.Update(ctx, lt); err != nil {
			return DeleteLeaveTypeResponse{}, mapRepositoryError(err)
		}
		result.SoftDeleted = true
	} else if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete leave type persist failed", zap.String("leave_type_id", id), zap.Error(err))
		return DeleteLeaveTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return DeleteLeaveTypeResponse{}, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("delete leave type success",
		zap.String("leave_type_id", id),
		zap.Bool("soft_deleted", result.SoftDeleted),
	)
	return result, nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, ActiveListKey).Err(); err != nil {
		s.logger.Error("failed to invalidate leave type cache",
			zap.String("key", ActiveListKey),
			zap.Error(err),
		)
	}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:          lt.ID.String(),
		Name:        lt.Name,
		Code:        lt.Code,
		Description: lt.Description,
		IsPaid:      lt.IsPaid,
		MaxDays:     lt.MaxDays,
		IsActive:    lt.IsActive,
		CreatedAt:   lt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   lt.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}
	return resp
}
