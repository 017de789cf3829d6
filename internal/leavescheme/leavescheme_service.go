package leavescheme

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	leaveschemeerrors "go-hris-leave/internal/leavescheme/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leavescheme_service.go -destination=mock/leavescheme_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateLeaveSchemeRequest) (LeaveSchemeResponse, error)
	GetAll(ctx context.Context) ([]LeaveSchemeResponse, error)
	GetByID(ctx context.Context, id string) (LeaveSchemeResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateLeaveSchemeRequest) (LeaveSchemeResponse, error)
	Delete(ctx context.Context, id string) error

	AddLeaveType(ctx context.Context, actorID, schemeID string, req SchemeLeaveTypeInput) (LeaveSchemeResponse, error)
	UpdateLeaveType(ctx context.Context, actorID, schemeID, leaveTypeID string, req UpdateSchemeLeaveTypeRequest) (LeaveSchemeResponse, error)
	RemoveLeaveType(ctx context.Context, actorID, schemeID, leaveTypeID string) (LeaveSchemeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavescheme.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavescheme.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// actorRef turns the caller id into an audit column value. Non-uuid actors
// are stored as NULL.
func actorRef(actorID string) *uuid.UUID {
	id, err := uuid.Parse(actorID)
	if err != nil {
		return nil
	}
	return &id
}

func (s *service) Create(ctx context.Context, actorID string, req CreateLeaveSchemeRequest) (LeaveSchemeResponse, error) {
	name := strings.TrimSpace(req.Name)
	s.logger.Debug("create leave scheme requested", zap.String("name", name), zap.String("actor_id", actorID))

	if name == "" {
		return LeaveSchemeResponse{}, leaveschemeerrors.ErrEmptyName
	}

	items := make([]SchemeLeaveType, 0, len(req.LeaveTypes))
	seen := make(map[uuid.UUID]struct{}, len(req.LeaveTypes))
	for _, in := range req.LeaveTypes {
		leaveTypeID, err := uuid.Parse(in.LeaveTypeID)
		if err != nil {
			return LeaveSchemeResponse{}, leaveschemeerrors.ErrInvalidLeaveTypeID
		}
		if in.DaysAllowed.IsNegative() {
			return LeaveSchemeResponse{}, leaveschemeerrors.ErrInvalidDaysAllowed
		}
		if _, dup := seen[leaveTypeID]; dup {
			return LeaveSchemeResponse{}, leaveschemeerrors.ErrSchemeLeaveTypeExists
		}
		seen[leaveTypeID] = struct{}{}
		items = append(items, SchemeLeaveType{
			ID:          uuid.New(),
			LeaveTypeID: leaveTypeID,
			DaysAllowed: in.DaysAllowed,
			IsPaid:      in.IsPaid,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave scheme begin tx failed", zap.Error(err))
		return LeaveSchemeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByName(ctx, name)
	if err != nil {
		return LeaveSchemeResponse{}, err
	}
	if existing != nil {
		return LeaveSchemeResponse{}, leaveschemeerrors.ErrLeaveSchemeNameExists
	}

	for _, item := range items {
		ok, err := qtx.LeaveTypeExists(ctx, item.LeaveTypeID)
		if err != nil {
			return LeaveSchemeResponse{}, err
		}
		if !ok {
			return LeaveSchemeResponse{}, leaveschemeerrors.ErrLeaveTypeNotFound
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	actor := actorRef(actorID)
	scheme := &LeaveScheme{
		ID:          uuid.New(),
		Name:        name,
		Description: req.Description,
		IsActive:    isActive,
		CreatedBy:   actor,
		UpdatedBy:   actor,
		LeaveTypes:  items,
	}
	for i := range scheme.LeaveTypes {
		scheme.LeaveTypes[i].SchemeID = scheme.ID
	}

	if err := qtx.Create(ctx, scheme); err != nil {
		s.logger.Error("create leave scheme persist failed", zap.Error(err))
		return LeaveSchemeResponse{}, mapRepositoryError(err)
	}

	created, err := qtx.FindByID(ctx, scheme.ID.String())
	if err != nil {
		return LeaveSchemeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave scheme commit failed", zap.Error(err))
		return LeaveSchemeResponse{}, err
	}

	s.logger.Info("create leave scheme success",
		zap.String("id", scheme.ID.String()),
		zap.Int("leave_types", len(items)),
	)
	return mapToResponse(*created), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveSchemeResponse, error) {
	schemes, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all leave schemes failed", zap.Error(err))
		return nil, err
	}
	resp := make([]LeaveSchemeResponse, len(schemes))
	for i, scheme := range schemes {
		resp[i] = mapToResponse(scheme)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveSchemeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveSchemeResponse{}, leaveschemeerrors.ErrInvalidLeaveSchemeID
	}
	scheme, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveSchemeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*scheme), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateLeaveSchemeRequest) (LeaveSchemeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveSchemeResponse{}, leaveschemeerrors.ErrInvalidLeaveSchemeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveSchemeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	scheme, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveSchemeResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return LeaveSchemeResponse{}, leaveschemeerrors.ErrEmptyName
		}
		if name != scheme.Name {
			existing, err := qtx.FindByName(ctx, name)
			if err != nil {
				return LeaveSchemeResponse{}, err
			}
			if existing != nil && existing.ID != scheme.ID {
				return LeaveSchemeResponse{}, leaveschemeerrors.ErrLeaveSchemeNameExists
			}
		}
		scheme.Name = name
	}
	if req.Description != nil {
		scheme.Description = *req.Description
	}
	if req.IsActive != nil {
		scheme.IsActive = *req.IsActive
	}
	scheme.UpdatedBy = actorRef(actorID)

	if err := qtx.Update(ctx, scheme); err != nil {
		s.logger.Error("update leave scheme persist failed", zap.String("id", id), zap.Error(err))
		return LeaveSchemeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return LeaveSchemeResponse{}, err
	}

	s.logger.Info("update leave scheme success", zap.String("id", id))
	return mapToResponse(*scheme), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveschemeerrors.ErrInvalidLeaveSchemeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	assigned, err := qtx.IsAssigned(ctx, id)
	if err != nil {
		return err
	}
	if assigned {
		return leaveschemeerrors.ErrLeaveSchemeAssigned
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete leave scheme success", zap.String("id", id))
	return nil
}

func (s *service) AddLeaveType(ctx context.Context, actorID, schemeID string, req SchemeLeaveTypeInput) (LeaveSchemeResponse, error) {
	sid, err := uuid.Parse(schemeID)
	if err != nil {
		return LeaveSchemeResponse{}, leaveschemeerrors.ErrInvalidLeaveSchemeID
	}
	leaveTypeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveSchemeResponse{}, leaveschemeerrors.ErrInvalidLeaveTypeID
	}
	if req.DaysAllowed.IsNegative() {
		return LeaveSchemeResponse{}, leaveschemeerrors.ErrInvalidDaysAllowed
	}

	return s.mutateScheme(ctx, actorID, sid, func(qtx Repository) error {
		ok, err := qtx.LeaveTypeExists(ctx, leaveTypeID)
		if err != nil {
			return err
		}
		if !ok {
			return leaveschemeerrors.ErrLeaveTypeNotFound
		}

		existing, err := qtx.FindLeaveType(ctx, sid, leaveTypeID)
		if err != nil {
			return err
		}
		if existing != nil {
			return leaveschemeerrors.ErrSchemeLeaveTypeExists
		}

		return mapRepositoryError(qtx.CreateLeaveType(ctx, &SchemeLeaveType{
			ID:          uuid.New(),
			SchemeID:    sid,
			LeaveTypeID: leaveTypeID,
			DaysAllowed: req.DaysAllowed,
			IsPaid:      req.IsPaid,
		}))
	})
}

func (s *service) UpdateLeaveType(ctx context.Context, actorID, schemeID, leaveTypeID string, req UpdateSchemeLeaveTypeRequest) (LeaveSchemeResponse, error) {
	sid, err := uuid.Parse(schemeID)
	if err != nil {
		return LeaveSchemeResponse{}, leaveschemeerrors.ErrInvalidLeaveSchemeID
	}
	ltid, err := uuid.Parse(leaveTypeID)
	if err != nil {
		return LeaveSchemeResponse{}, leaveschemeerrors.ErrInvalidLeaveTypeID
	}
	if req.DaysAllowed != nil && req.DaysAllowed.IsNegative() {
		return LeaveSchemeResponse{}, leaveschemeerrors.ErrInvalidDaysAllowed
	}

	return s.mutateScheme(ctx, actorID, sid, func(qtx Repository) error {
		slt, err := qtx.FindLeaveType(ctx, sid, ltid)
		if err != nil {
			return err
		}
		if slt == nil {
			return leaveschemeerrors.ErrSchemeLeaveTypeNotFound
		}
		if req.DaysAllowed != nil {
			slt.DaysAllowed = *req.DaysAllowed
		}
		if req.IsPaid != nil {
			slt.IsPaid = req.IsPaid
		}
		return qtx.UpdateLeaveType(ctx, slt)
	})
}

func (s *service) RemoveLeaveType(ctx context.Context, actorID, schemeID, leaveTypeID string) (LeaveSchemeResponse, error) {
	sid, err := uuid.Parse(schemeID)
	if err != nil {
		return LeaveSchemeResponse{}, leaveschemeerrors.ErrInvalidLeaveSchemeID
	}
	ltid, err := uuid.Parse(leaveTypeID)
	if err != nil {
		return LeaveSchemeResponse{}, leaveschemeerrors.ErrInvalidLeaveTypeID
	}

	return s.mutateScheme(ctx, actorID, sid, func(qtx Repository) error {
		err := qtx.DeleteLeaveType(ctx, sid, ltid)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveschemeerrors.ErrSchemeLeaveTypeNotFound
		}
		return err
	})
}

// mutateScheme runs fn against an existing scheme, stamps updated_by and
// returns the reloaded scheme, all in one transaction.
func (s *service) mutateScheme(ctx context.Context, actorID string, schemeID uuid.UUID, fn func(qtx Repository) error) (LeaveSchemeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveSchemeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	scheme, err := qtx.FindByID(ctx, schemeID.String())
	if err != nil {
		return LeaveSchemeResponse{}, mapRepositoryError(err)
	}

	if err := fn(qtx); err != nil {
		s.logger.Warn("leave scheme leave type change failed",
			zap.String("scheme_id", schemeID.String()),
			zap.Error(err),
		)
		return LeaveSchemeResponse{}, err
	}

	scheme.UpdatedBy = actorRef(actorID)
	if err := qtx.Update(ctx, scheme); err != nil {
		return LeaveSchemeResponse{}, mapRepositoryError(err)
	}

	reloaded, err := qtx.FindByID(ctx, schemeID.String())
	if err != nil {
		return LeaveSchemeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return LeaveSchemeResponse{}, err
	}

	s.logger.Info("leave scheme leave types changed", zap.String("scheme_id", schemeID.String()))
	return mapToResponse(*reloaded), nil
}

func mapToResponse(scheme LeaveScheme) LeaveSchemeResponse {
	resp := LeaveSchemeResponse{
		ID:          scheme.ID.String(),
		Name:        scheme.Name,
		Description: scheme.Description,
		IsActive:    scheme.IsActive,
		LeaveTypes:  make([]SchemeLeaveTypeResponse, len(scheme.LeaveTypes)),
		CreatedAt:   scheme.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   scheme.UpdatedAt.Format(time.RFC3339),
	}
	if scheme.CreatedBy != nil {
		v := scheme.CreatedBy.String()
		resp.CreatedBy = &v
	}
	if scheme.UpdatedBy != nil {
		v := scheme.UpdatedBy.String()
		resp.UpdatedBy = &v
	}
	for i, slt := range scheme.LeaveTypes {
		item := SchemeLeaveTypeResponse{
			ID:            slt.ID.String(),
			LeaveTypeID:   slt.LeaveTypeID.String(),
			DaysAllowed:   slt.DaysAllowed,
			IsPaid:        slt.IsPaid,
			EffectivePaid: slt.EffectiveIsPaid(),
		}
		if slt.LeaveType != nil {
			item.LeaveTypeName = slt.LeaveType.Name
			item.LeaveTypeCode = slt.LeaveType.Code
		}
		resp.LeaveTypes[i] = item
	}
	return resp
}
