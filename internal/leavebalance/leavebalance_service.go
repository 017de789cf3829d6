package leavebalance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-hris-leave/internal/globalconfig"
	leavebalanceerrors "go-hris-leave/internal/leavebalance/errors"
	"go-hris-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ConfigMirror receives the per-year allocation snapshot after a populate run.
type ConfigMirror interface {
	ReplaceLeaveAllocations(ctx context.Context, year int, allocations []globalconfig.LeaveAllocation) error
	MergeLeaveAllocation(ctx context.Context, year int, allocation globalconfig.LeaveAllocation) error
}

//go:generate mockgen -source=leavebalance_service.go -destination=mock/leavebalance_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveBalanceRequest) (LeaveBalanceResponse, error)
	GetAll(ctx context.Context, year *int) ([]LeaveBalanceResponse, error)
	GetByID(ctx context.Context, id string) (LeaveBalanceResponse, error)
	GetByEmployee(ctx context.Context, employeeID string, year int) ([]EmployeeBalanceResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveBalanceRequest) (LeaveBalanceResponse, error)
	UpdateUsedDays(ctx context.Context, id string, delta decimal.Decimal) (LeaveBalanceResponse, error)
	Delete(ctx context.Context, id string) error

	PopulateForYear(ctx context.Context, year int) (PopulateResult, error)
	PopulateForType(ctx context.Context, leaveTypeID string, year int) (PopulateResult, error)
	PopulateForEmployee(ctx context.Context, employeeID string, year int) (PopulateResult, error)
	// EnsureBalance returns the ledger row for the triple, creating an empty
	// one when absent. A concurrent insert of the same row is not an error.
	EnsureBalance(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error)
	Stats(ctx context.Context, year int) (StatsResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	stats  StatsRepository
	mirror ConfigMirror
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	stats StatsRepository,
	mirror ConfigMirror,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		stats:  stats,
		mirror: mirror,
		logger: l,
	}
}

func validYear(year int) bool {
	return year >= 1900 && year <= 9999
}

func (s *service) Create(ctx context.Context, req CreateLeaveBalanceRequest) (LeaveBalanceResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrInvalidEmployeeID
	}
	leaveTypeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrInvalidLeaveTypeID
	}
	if !validYear(req.Year) {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrInvalidYear
	}
	used := decimal.Zero
	if req.UsedDays != nil {
		used = *req.UsedDays
	}
	if req.AllocatedDays.IsNegative() || used.IsNegative() {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrNegativeDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave balance begin tx failed", zap.Error(err))
		return LeaveBalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByKey(ctx, employeeID, leaveTypeID, req.Year)
	if err != nil {
		return LeaveBalanceResponse{}, err
	}
	if existing != nil {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrLeaveBalanceExists
	}

	b := &LeaveBalance{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		LeaveTypeID:   leaveTypeID,
		Year:          req.Year,
		AllocatedDays: req.AllocatedDays,
		UsedDays:      used,
	}
	if err := qtx.Create(ctx, b); err != nil {
		s.logger.Error("create leave balance persist failed", zap.Error(err))
		return LeaveBalanceResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return LeaveBalanceResponse{}, err
	}

	s.logger.Info("create leave balance success",
		zap.String("id", b.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("year", req.Year),
	)
	return mapToResponse(*b), nil
}

func (s *service) GetAll(ctx context.Context, year *int) ([]LeaveBalanceResponse, error) {
	balances, err := s.repo.FindAll(ctx, year)
	if err != nil {
		s.logger.Error("get all leave balances failed", zap.Error(err))
		return nil, err
	}
	resp := make([]LeaveBalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveBalanceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrInvalidLeaveBalanceID
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveBalanceResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*b), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string, year int) ([]EmployeeBalanceResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leavebalanceerrors.ErrInvalidEmployeeID
	}
	if !validYear(year) {
		return nil, leavebalanceerrors.ErrInvalidYear
	}

	rows, err := s.repo.FindByEmployeeYear(ctx, empID, year)
	if err != nil {
		s.logger.Error("get employee leave balances failed",
			zap.String("employee_id", employeeID),
			zap.Int("year", year),
			zap.Error(err),
		)
		return nil, err
	}

	resp := make([]EmployeeBalanceResponse, len(rows))
	for i, row := range rows {
		resp[i] = EmployeeBalanceResponse{
			LeaveBalanceResponse: mapToResponse(row.LeaveBalance),
			LeaveTypeName:        row.LeaveTypeName,
			Color:                ColorForLeaveType(row.LeaveTypeName),
		}
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateLeaveBalanceRequest) (LeaveBalanceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrInvalidLeaveBalanceID
	}
	if (req.AllocatedDays != nil && req.AllocatedDays.IsNegative()) ||
		(req.UsedDays != nil && req.UsedDays.IsNegative()) {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrNegativeDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveBalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	b, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveBalanceResponse{}, mapRepositoryError(err)
	}
	if req.AllocatedDays != nil {
		b.AllocatedDays = *req.AllocatedDays
	}
	if req.UsedDays != nil {
		b.UsedDays = *req.UsedDays
	}

	if err := qtx.Update(ctx, b); err != nil {
		s.logger.Error("update leave balance persist failed", zap.String("id", id), zap.Error(err))
		return LeaveBalanceResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return LeaveBalanceResponse{}, err
	}

	s.logger.Info("update leave balance success", zap.String("id", id))
	return mapToResponse(*b), nil
}

func (s *service) UpdateUsedDays(ctx context.Context, id string, delta decimal.Decimal) (LeaveBalanceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrInvalidLeaveBalanceID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveBalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	b, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveBalanceResponse{}, mapRepositoryError(err)
	}

	used := b.UsedDays.Add(delta)
	if used.GreaterThan(b.AllocatedDays) {
		s.logger.Warn("update used days exceeds allocation",
			zap.String("id", id),
			zap.String("allocated", b.AllocatedDays.String()),
			zap.String("used", used.String()),
		)
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrUsedDaysExceedAllocated
	}
	if used.IsNegative() {
		return LeaveBalanceResponse{}, leavebalanceerrors.ErrUsedDaysBelowZero
	}
	b.UsedDays = used

	if err := qtx.Update(ctx, b); err != nil {
		return LeaveBalanceResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return LeaveBalanceResponse{}, err
	}

	s.logger.Info("update used days success",
		zap.String("id", id),
		zap.String("delta", delta.String()),
		zap.String("used", used.String()),
	)
	return mapToResponse(*b), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leavebalanceerrors.ErrInvalidLeaveBalanceID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	s.logger.Info("delete leave balance success", zap.String("id", id))
	return nil
}

func (s *service) PopulateForYear(ctx context.Context, year int) (PopulateResult, error) {
	if !validYear(year) {
		return PopulateResult{}, leavebalanceerrors.ErrInvalidYear
	}

	var types []ActiveLeaveType
	result, err := s.populate(ctx, year, func(qtx Repository) ([]uuid.UUID, []ActiveLeaveType, error) {
		employees, err := qtx.ListActiveEmployeeIDs(ctx)
		if err != nil {
			return nil, nil, err
		}
		types, err = qtx.ListActiveLeaveTypes(ctx)
		if err != nil {
			return nil, nil, err
		}
		return employees, types, nil
	})
	if err != nil {
		return result, err
	}

	allocations := make([]globalconfig.LeaveAllocation, len(types))
	for i, lt := range types {
		allocations[i] = toAllocation(lt)
	}
	if s.mirror != nil {
		if err := s.mirror.ReplaceLeaveAllocations(ctx, year, allocations); err != nil {
			s.logger.Warn("mirror leave allocations failed", zap.Int("year", year), zap.Error(err))
		}
	}
	return result, nil
}

func (s *service) PopulateForType(ctx context.Context, leaveTypeID string, year int) (PopulateResult, error) {
	typeID, err := uuid.Parse(leaveTypeID)
	if err != nil {
		return PopulateResult{}, leavebalanceerrors.ErrInvalidLeaveTypeID
	}
	if !validYear(year) {
		return PopulateResult{}, leavebalanceerrors.ErrInvalidYear
	}

	lt, err := s.repo.FindActiveLeaveType(ctx, typeID)
	if err != nil {
		return PopulateResult{}, err
	}
	if lt == nil {
		return PopulateResult{}, leavebalanceerrors.ErrLeaveTypeNotFound
	}

	result, err := s.populate(ctx, year, func(qtx Repository) ([]uuid.UUID, []ActiveLeaveType, error) {
		employees, err := qtx.ListActiveEmployeeIDs(ctx)
		if err != nil {
			return nil, nil, err
		}
		return employees, []ActiveLeaveType{*lt}, nil
	})
	if err != nil {
		return result, err
	}

	if s.mirror != nil {
		if err := s.mirror.MergeLeaveAllocation(ctx, year, toAllocation(*lt)); err != nil {
			s.logger.Warn("mirror leave allocation failed",
				zap.Int("year", year),
				zap.String("leave_type_id", leaveTypeID),
				zap.Error(err),
			)
		}
	}
	return result, nil
}

func (s *service) PopulateForEmployee(ctx context.Context, employeeID string, year int) (PopulateResult, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return PopulateResult{}, leavebalanceerrors.ErrInvalidEmployeeID
	}
	if !validYear(year) {
		return PopulateResult{}, leavebalanceerrors.ErrInvalidYear
	}

	active, err := s.repo.IsActiveEmployee(ctx, empID)
	if err != nil {
		return PopulateResult{}, err
	}
	if !active {
		return PopulateResult{}, leavebalanceerrors.ErrEmployeeNotFound
	}

	return s.populate(ctx, year, func(qtx Repository) ([]uuid.UUID, []ActiveLeaveType, error) {
		types, err := qtx.ListActiveLeaveTypes(ctx)
		if err != nil {
			return nil, nil, err
		}
		return []uuid.UUID{empID}, types, nil
	})
}

type populateSource func(qtx Repository) ([]uuid.UUID, []ActiveLeaveType, error)

// populate inserts one zero-usage row per employee and leave type in a single
// transaction. Existing rows, including ones inserted concurrently, are
// counted as skipped. Any other failure rolls the whole batch back.
func (s *service) populate(ctx context.Context, year int, source populateSource) (PopulateResult, error) {
	rid := contextutil.GetRequestID(ctx)
	result := PopulateResult{Year: year, Errors: []string{}}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("populate begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return s.populateFailed(result, err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	employees, types, err := source(qtx)
	if err != nil {
		return s.populateFailed(result, err)
	}

	for _, employeeID := range employees {
		for _, lt := range types {
			created, err := qtx.CreateIfAbsent(ctx, &LeaveBalance{
				ID:            uuid.New(),
				EmployeeID:    employeeID,
				LeaveTypeID:   lt.ID,
				Year:          year,
				AllocatedDays: lt.MaxDays,
				UsedDays:      decimal.Zero,
			})
			if err != nil {
				return s.populateFailed(result, fmt.Errorf("employee %s, leave type %s: %w", employeeID, lt.ID, err))
			}
			if created {
				result.Created++
			} else {
				result.Skipped++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return s.populateFailed(result, err)
	}

	result.Success = true
	s.logger.Info("populate leave balances success",
		zap.String("request_id", rid),
		zap.Int("year", year),
		zap.Int("employees", len(employees)),
		zap.Int("leave_types", len(types)),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *service) populateFailed(result PopulateResult, cause error) (PopulateResult, error) {
	result.Success = false
	result.Errors = append(result.Errors, cause.Error())
	s.logger.Error("populate leave balances rolled back",
		zap.Int("year", result.Year),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Error(cause),
	)
	return result, leavebalanceerrors.NewPopulateFailed(result)
}

func (s *service) EnsureBalance(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error) {
	b, err := s.repo.FindByKey(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return nil, err
	}
	if b != nil {
		return b, nil
	}

	created, err := s.repo.CreateIfAbsent(ctx, &LeaveBalance{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		LeaveTypeID:   leaveTypeID,
		Year:          year,
		AllocatedDays: decimal.Zero,
		UsedDays:      decimal.Zero,
	})
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("empty leave balance created",
			zap.String("employee_id", employeeID.String()),
			zap.String("leave_type_id", leaveTypeID.String()),
			zap.Int("year", year),
		)
	}

	b, err = s.repo.FindByKey(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, leavebalanceerrors.ErrLeaveBalanceNotFound
	}
	return b, nil
}

func (s *service) Stats(ctx context.Context, year int) (StatsResponse, error) {
	if !validYear(year) {
		return StatsResponse{}, leavebalanceerrors.ErrInvalidYear
	}
	types, err := s.stats.YearStats(ctx, year)
	if err != nil {
		s.logger.Error("leave balance stats failed", zap.Int("year", year), zap.Error(err))
		return StatsResponse{}, err
	}
	return StatsResponse{Year: year, Types: types}, nil
}

func toAllocation(lt ActiveLeaveType) globalconfig.LeaveAllocation {
	return globalconfig.LeaveAllocation{
		LeaveTypeID:   lt.ID.String(),
		LeaveTypeName: lt.Name,
		MaxDays:       lt.MaxDays,
	}
}

func mapToResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		ID:            b.ID.String(),
		EmployeeID:    b.EmployeeID.String(),
		LeaveTypeID:   b.LeaveTypeID.String(),
		Year:          b.Year,
		AllocatedDays: b.AllocatedDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays(),
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     b.UpdatedAt.Format(time.RFC3339),
	}
}
