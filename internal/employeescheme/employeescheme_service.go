package employeescheme

import (
	"context"
	"database/sql"
	"time"

	employeeschemeerrors "go-hris-leave/internal/employeescheme/errors"
	"go-hris-leave/internal/shared/dateutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=employeescheme_service.go -destination=mock/employeescheme_service_mock.go -package=mock
type Service interface {
	Assign(ctx context.Context, req AssignSchemeRequest) (AssignmentResponse, error)
	GetAll(ctx context.Context) ([]AssignmentResponse, error)
	GetByID(ctx context.Context, id string) (AssignmentResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]AssignmentResponse, error)
	GetCurrentForEmployee(ctx context.Context, employeeID, date string) (AssignmentResponse, error)
	Update(ctx context.Context, id string, req UpdateAssignmentRequest) (AssignmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employeescheme.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employeescheme.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func parseOptionalDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	d, err := dateutil.Parse(*v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func validateRange(from time.Time, to *time.Time) error {
	if to != nil && from.After(*to) {
		return employeeschemeerrors.ErrInvalidDateRange
	}
	return nil
}

// checkOverlap compares the candidate range against every other assignment
// of the employee. skipID excludes the assignment being updated.
func (s *service) checkOverlap(ctx context.Context, qtx Repository, employeeID uuid.UUID, skipID uuid.UUID, candidate Interval) error {
	existing, err := qtx.FindByEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	for _, a := range existing {
		if a.ID == skipID {
			continue
		}
		if candidate.Overlaps(a.Interval()) {
			s.logger.Warn("leave scheme assignment overlaps",
				zap.String("employee_id", employeeID.String()),
				zap.String("conflicting_id", a.ID.String()),
			)
			return employeeschemeerrors.ErrOverlappingAssignment
		}
	}
	return nil
}

func (s *service) Assign(ctx context.Context, req AssignSchemeRequest) (AssignmentResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AssignmentResponse{}, employeeschemeerrors.ErrInvalidEmployeeID
	}
	schemeID, err := uuid.Parse(req.SchemeID)
	if err != nil {
		return AssignmentResponse{}, employeeschemeerrors.ErrInvalidSchemeID
	}
	from, err := dateutil.Parse(req.EffectiveFrom)
	if err != nil {
		return AssignmentResponse{}, err
	}
	to, err := parseOptionalDate(req.EffectiveTo)
	if err != nil {
		return AssignmentResponse{}, err
	}
	if err := validateRange(from, to); err != nil {
		return AssignmentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("assign leave scheme begin tx failed", zap.Error(err))
		return AssignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ok, err := qtx.EmployeeExists(ctx, employeeID)
	if err != nil {
		return AssignmentResponse{}, err
	}
	if !ok {
		return AssignmentResponse{}, employeeschemeerrors.ErrEmployeeNotFound
	}
	ok, err = qtx.SchemeExists(ctx, schemeID)
	if err != nil {
		return AssignmentResponse{}, err
	}
	if !ok {
		return AssignmentResponse{}, employeeschemeerrors.ErrSchemeNotFound
	}

	if err := s.checkOverlap(ctx, qtx, employeeID, uuid.Nil, Interval{From: from, To: to}); err != nil {
		return AssignmentResponse{}, err
	}

	assignment := &EmployeeLeaveScheme{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		SchemeID:      schemeID,
		EffectiveFrom: from,
		EffectiveTo:   to,
	}
	if err := qtx.Create(ctx, assignment); err != nil {
		s.logger.Error("assign leave scheme persist failed", zap.Error(err))
		return AssignmentResponse{}, mapRepositoryError(err)
	}

	created, err := qtx.FindByID(ctx, assignment.ID.String())
	if err != nil {
		return AssignmentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("assign leave scheme commit failed", zap.Error(err))
		return AssignmentResponse{}, err
	}

	s.logger.Info("assign leave scheme success",
		zap.String("id", assignment.ID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.String("scheme_id", schemeID.String()),
	)
	return mapToResponse(*created), nil
}

func (s *service) GetAll(ctx context.Context) ([]AssignmentResponse, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employee leave schemes failed", zap.Error(err))
		return nil, err
	}
	return mapToResponses(items), nil
}

func (s *service) GetByID(ctx context.Context, id string) (AssignmentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AssignmentResponse{}, employeeschemeerrors.ErrInvalidAssignmentID
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return AssignmentResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*a), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]AssignmentResponse, error) {
	eid, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, employeeschemeerrors.ErrInvalidEmployeeID
	}
	items, err := s.repo.FindByEmployee(ctx, eid)
	if err != nil {
		return nil, err
	}
	return mapToResponses(items), nil
}

// GetCurrentForEmployee resolves the assignment in force on date, defaulting
// to today when date is empty.
func (s *service) GetCurrentForEmployee(ctx context.Context, employeeID, date string) (AssignmentResponse, error) {
	eid, err := uuid.Parse(employeeID)
	if err != nil {
		return AssignmentResponse{}, employeeschemeerrors.ErrInvalidEmployeeID
	}
	on := dateutil.Today()
	if date != "" {
		if on, err = dateutil.Parse(date); err != nil {
			return AssignmentResponse{}, err
		}
	}

	a, err := s.repo.FindCurrent(ctx, eid, on)
	if err != nil {
		s.logger.Error("get current leave scheme failed", zap.String("employee_id", employeeID), zap.Error(err))
		return AssignmentResponse{}, err
	}
	if a == nil {
		return AssignmentResponse{}, employeeschemeerrors.ErrNoCurrentScheme
	}
	return mapToResponse(*a), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateAssignmentRequest) (AssignmentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AssignmentResponse{}, employeeschemeerrors.ErrInvalidAssignmentID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AssignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByID(ctx, id)
	if err != nil {
		return AssignmentResponse{}, mapRepositoryError(err)
	}

	if req.SchemeID != nil {
		schemeID, err := uuid.Parse(*req.SchemeID)
		if err != nil {
			return AssignmentResponse{}, employeeschemeerrors.ErrInvalidSchemeID
		}
		if schemeID != a.SchemeID {
			ok, err := qtx.SchemeExists(ctx, schemeID)
			if err != nil {
				return AssignmentResponse{}, err
			}
			if !ok {
				return AssignmentResponse{}, employeeschemeerrors.ErrSchemeNotFound
			}
			a.SchemeID = schemeID
			a.Scheme = nil
		}
	}
	if req.EffectiveFrom != nil {
		from, err := dateutil.Parse(*req.EffectiveFrom)
		if err != nil {
			return AssignmentResponse{}, err
		}
		a.EffectiveFrom = from
	}
	switch {
	case req.ClearEffectiveTo:
		a.EffectiveTo = nil
	case req.EffectiveTo != nil:
		to, err := parseOptionalDate(req.EffectiveTo)
		if err != nil {
			return AssignmentResponse{}, err
		}
		a.EffectiveTo = to
	}

	if err := validateRange(a.EffectiveFrom, a.EffectiveTo); err != nil {
		return AssignmentResponse{}, err
	}
	if err := s.checkOverlap(ctx, qtx, a.EmployeeID, a.ID, a.Interval()); err != nil {
		return AssignmentResponse{}, err
	}

	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("update employee leave scheme persist failed", zap.String("id", id), zap.Error(err))
		return AssignmentResponse{}, mapRepositoryError(err)
	}

	updated, err := qtx.FindByID(ctx, id)
	if err != nil {
		return AssignmentResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return AssignmentResponse{}, err
	}

	s.logger.Info("update employee leave scheme success", zap.String("id", id))
	return mapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeschemeerrors.ErrInvalidAssignmentID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	s.logger.Info("delete employee leave scheme success", zap.String("id", id))
	return nil
}

func mapToResponses(items []EmployeeLeaveScheme) []AssignmentResponse {
	resp := make([]AssignmentResponse, len(items))
	for i, a := range items {
		resp[i] = mapToResponse(a)
	}
	return resp
}

func mapToResponse(a EmployeeLeaveScheme) AssignmentResponse {
	resp := AssignmentResponse{
		ID:            a.ID.String(),
		EmployeeID:    a.EmployeeID.String(),
		SchemeID:      a.SchemeID.String(),
		EffectiveFrom: dateutil.Format(a.EffectiveFrom),
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     a.UpdatedAt.Format(time.RFC3339),
	}
	if a.EffectiveTo != nil {
		v := dateutil.Format(*a.EffectiveTo)
		resp.EffectiveTo = &v
	}
	if a.Scheme != nil {
		resp.SchemeName = a.Scheme.Name
	}
	return resp
}
