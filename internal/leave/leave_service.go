package leave

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-hris-leave/internal/employee"
	"go-hris-leave/internal/events"
	leaveerrors "go-hris-leave/internal/leave/errors"
	"go-hris-leave/internal/leavebalance"
	"go-hris-leave/internal/messaging/kafka"
	"go-hris-leave/internal/shared/contextutil"
	"go-hris-leave/internal/shared/dateutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Actor is the authenticated caller as seen by the lifecycle.
type Actor struct {
	UserID     string
	EmployeeID string
}

// EmployeeResolver maps an employee id or a linked user id to the employee.
type EmployeeResolver interface {
	FindByIdentity(ctx context.Context, ref string) (*employee.Employee, error)
}

// BalanceEnsurer returns the ledger row for a triple, creating an empty one
// when absent.
type BalanceEnsurer interface {
	EnsureBalance(ctx context.Context, employeeID, leaveTypeID uuid.UUID, year int) (*leavebalance.LeaveBalance, error)
}

type Service interface {
	Create(ctx context.Context, actor Actor, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, status string) ([]LeaveResponse, error)
	GetByEmployee(ctx context.Context, employeeID, status string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	UpdateStatus(ctx context.Context, actor Actor, id string, req UpdateStatusRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actor Actor, id string) (LeaveResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees EmployeeResolver
	balances  leavebalance.Repository
	ledger    BalanceEnsurer
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees EmployeeResolver,
	balances leavebalance.Repository,
	ledger BalanceEnsurer,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		balances:  balances,
		ledger:    ledger,
		outbox:    outbox,
		logger:    l,
	}
}

// resolveEmployee picks the explicit employee id, then the caller's employee
// id, then the caller's user id, and maps the first non-empty one.
func (s *service) resolveEmployee(ctx context.Context, actor Actor, explicit string) (*employee.Employee, error) {
	ref := explicit
	if ref == "" {
		ref = actor.EmployeeID
	}
	if ref == "" {
		ref = actor.UserID
	}
	if ref == "" {
		return nil, leaveerrors.ErrEmployeeUnresolved
	}

	empl, err := s.employees.FindByIdentity(ctx, ref)
	if err != nil {
		return nil, err
	}
	if empl == nil {
		s.logger.Warn("leave employee unresolved", zap.String("ref", ref))
		return nil, leaveerrors.ErrEmployeeUnresolved
	}
	return empl, nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := dateutil.Parse(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := dateutil.Parse(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func (s *service) activeLeaveType(ctx context.Context, balances leavebalance.Repository, raw string) (*leavebalance.ActiveLeaveType, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, leaveerrors.ErrInvalidLeaveTypeID
	}
	lt, err := balances.FindActiveLeaveType(ctx, id)
	if err != nil {
		return nil, err
	}
	if lt == nil {
		return nil, leaveerrors.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.UserID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	empl, err := s.resolveEmployee(ctx, actor, req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, err
	}

	lt, err := s.activeLeaveType(ctx, s.balances, req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, err
	}

	startDate, endDate, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	workingDays := dateutil.CountWorkingDays(startDate, endDate)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, empl.ID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("employee_id", empl.ID.String()),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	balance, err := s.ledger.EnsureBalance(ctx, empl.ID, lt.ID, startDate.Year())
	if err != nil {
		s.logger.Error("create leave ensure balance failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	available := balance.RemainingDays()
	if decimal.NewFromInt(int64(workingDays)).GreaterThan(available) {
		s.logger.Warn("create leave insufficient balance",
			zap.String("employee_id", empl.ID.String()),
			zap.String("available", available.String()),
			zap.Int("requested", workingDays),
		)
		return LeaveResponse{}, leaveerrors.NewInsufficientBalance(available, workingDays)
	}

	l := &LeaveApplication{
		ID:          uuid.New(),
		EmployeeID:  empl.ID,
		LeaveTypeID: lt.ID,
		StartDate:   startDate,
		EndDate:     endDate,
		WorkingDays: workingDays,
		Reason:      req.Reason,
		Status:      StatusPending,
		CreatedBy:   uuidRef(actor.UserID),
	}
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.queueStatusEvent(ctx, tx, l, "", actor); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", empl.ID.String()),
		zap.Int("working_days", workingDays),
	)
	resp := mapToResponse(*l)
	resp.LeaveTypeName = lt.Name
	return resp, nil
}

func (s *service) GetAll(ctx context.Context, status string) ([]LeaveResponse, error) {
	items, err := s.repo.FindAll(ctx, status)
	if err != nil {
		s.logger.Error("get all leaves failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(items), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID, status string) ([]LeaveResponse, error) {
	id, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	items, err := s.repo.FindByEmployee(ctx, id, status)
	if err != nil {
		s.logger.Error("get employee leaves failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	return mapToListResponse(items), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*l), nil
}

// Update edits a pending application. Changing the type or dates requires a
// ledger row for the new year but does not re-check the balance.
func (s *service) Update(ctx context.Context, actor Actor, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	s.logger.Debug("update leave requested", zap.String("leave_id", id), zap.String("actor_id", actor.UserID))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	btx := s.balances.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrNotEditable
	}

	changed := false
	if req.LeaveTypeID != nil && *req.LeaveTypeID != l.LeaveTypeID.String() {
		lt, err := s.activeLeaveType(ctx, btx, *req.LeaveTypeID)
		if err != nil {
			return LeaveResponse{}, err
		}
		l.LeaveTypeID = lt.ID
		l.LeaveType = nil
		changed = true
	}

	start, end := dateutil.Format(l.StartDate), dateutil.Format(l.EndDate)
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	startDate, endDate, err := parseRange(start, end)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !startDate.Equal(l.StartDate) || !endDate.Equal(l.EndDate) {
		l.StartDate = startDate
		l.EndDate = endDate
		l.WorkingDays = dateutil.CountWorkingDays(startDate, endDate)
		changed = true
	}
	if req.Reason != nil {
		l.Reason = *req.Reason
	}

	if changed {
		balance, err := btx.FindByKey(ctx, l.EmployeeID, l.LeaveTypeID, l.BalanceYear())
		if err != nil {
			return LeaveResponse{}, err
		}
		if balance == nil {
			return LeaveResponse{}, leaveerrors.ErrBalanceNotFound
		}

		overlap, err := qtx.HasOverlappingPeriod(ctx, l.EmployeeID, l.StartDate, l.EndDate, &leaveID)
		if err != nil {
			return LeaveResponse{}, err
		}
		if overlap {
			return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
		}
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("update leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("update leave success", zap.String("leave_id", id), zap.Int("working_days", l.WorkingDays))
	return mapToResponse(*l), nil
}

func normalizeStatus(v string) (string, bool) {
	status := strings.ToLower(strings.TrimSpace(v))
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return status, true
	default:
		return status, false
	}
}

// UpdateStatus moves a pending application to approved or rejected. Approval
// consumes working days from the ledger in the same transaction.
func (s *service) UpdateStatus(ctx context.Context, actor Actor, id string, req UpdateStatusRequest) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	s.logger.Debug("update leave status requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actor.UserID),
		zap.String("target_status", req.Status),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave status begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	target, ok := normalizeStatus(req.Status)
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatus
	}
	if target == l.Status {
		return LeaveResponse{}, leaveerrors.ErrSameStatus
	}
	if l.Status != StatusPending || target == StatusPending {
		s.logger.Warn("update leave status invalid transition",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", target),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	if req.Comments != nil {
		l.Comments = req.Comments
	}

	from := l.Status
	if target == StatusApproved {
		if err := s.consumeBalance(ctx, tx, l); err != nil {
			return LeaveResponse{}, err
		}
		now := time.Now().UTC()
		l.ApprovedBy = uuidRef(actor.UserID)
		l.ApprovedAt = &now
	}
	l.Status = target

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("update leave status persist failed",
			zap.String("leave_id", id),
			zap.String("target_status", target),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if err := s.queueStatusEvent(ctx, tx, l, from, actor); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave status commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("update leave status success",
		zap.String("leave_id", id),
		zap.String("from_status", from),
		zap.String("status", target),
	)
	return mapToResponse(*l), nil
}

func (s *service) consumeBalance(ctx context.Context, tx *sql.Tx, l *LeaveApplication) error {
	btx := s.balances.WithTx(tx)
	balance, err := btx.FindByKey(ctx, l.EmployeeID, l.LeaveTypeID, l.BalanceYear())
	if err != nil {
		return err
	}
	if balance == nil {
		return leaveerrors.ErrBalanceNotFound
	}

	used := balance.UsedDays.Add(decimal.NewFromInt(int64(l.WorkingDays)))
	if used.GreaterThan(balance.AllocatedDays) {
		s.logger.Warn("approve leave exceeds allocation",
			zap.String("leave_id", l.ID.String()),
			zap.String("allocated", balance.AllocatedDays.String()),
			zap.String("used_after", used.String()),
		)
		return leaveerrors.ErrExceedsAllocated
	}
	balance.UsedDays = used
	return btx.Update(ctx, balance)
}

// restoreBalance gives working days back to the ledger, never going below
// zero. A missing row is logged and skipped.
func (s *service) restoreBalance(ctx context.Context, tx *sql.Tx, l *LeaveApplication) error {
	btx := s.balances.WithTx(tx)
	balance, err := btx.FindByKey(ctx, l.EmployeeID, l.LeaveTypeID, l.BalanceYear())
	if err != nil {
		return err
	}
	if balance == nil {
		s.logger.Warn("cancel leave balance row missing",
			zap.String("leave_id", l.ID.String()),
			zap.Int("year", l.BalanceYear()),
		)
		return nil
	}

	used := balance.UsedDays.Sub(decimal.NewFromInt(int64(l.WorkingDays)))
	if used.IsNegative() {
		used = decimal.Zero
	}
	balance.UsedDays = used
	return btx.Update(ctx, balance)
}

func (s *service) Cancel(ctx context.Context, actor Actor, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if l.Status != StatusPending && l.Status != StatusApproved {
		return LeaveResponse{}, leaveerrors.ErrNotCancellable
	}

	from := l.Status
	if from == StatusApproved {
		if err := s.restoreBalance(ctx, tx, l); err != nil {
			s.logger.Error("cancel leave restore balance failed", zap.String("leave_id", id), zap.Error(err))
			return LeaveResponse{}, err
		}
	}
	l.Status = StatusCancelled

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("cancel leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := s.queueStatusEvent(ctx, tx, l, from, actor); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("cancel leave success", zap.String("leave_id", id), zap.String("from_status", from))
	return mapToResponse(*l), nil
}

// Delete removes the application without touching the ledger.
func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	s.logger.Info("delete leave success", zap.String("leave_id", id))
	return nil
}

func (s *service) queueStatusEvent(ctx context.Context, tx *sql.Tx, l *LeaveApplication, from string, actor Actor) error {
	if s.outbox == nil {
		return nil
	}
	rid := contextutil.GetRequestID(ctx)
	event, err := kafka.NewEvent(rid, "leave_application", l.ID.String(), "leave_application_status_changed", events.LeaveApplicationTopic,
		events.LeaveApplicationStatusChangedEvent{
			EventType:     "leave_application_status_changed",
			RequestID:     rid,
			ApplicationID: l.ID.String(),
			EmployeeID:    l.EmployeeID.String(),
			LeaveTypeID:   l.LeaveTypeID.String(),
			FromStatus:    from,
			ToStatus:      l.Status,
			WorkingDays:   l.WorkingDays,
			ActorID:       actor.UserID,
			OccurredAt:    time.Now().UTC(),
		})
	if err != nil {
		s.logger.Error("marshal leave event failed", zap.Error(err))
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("leave outbox persist failed", zap.String("leave_id", l.ID.String()), zap.Error(err))
		return err
	}
	return nil
}

func uuidRef(v string) *uuid.UUID {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}

func mapToResponse(l LeaveApplication) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID.String(),
		EmployeeID:  l.EmployeeID.String(),
		LeaveTypeID: l.LeaveTypeID.String(),
		StartDate:   dateutil.Format(l.StartDate),
		EndDate:     dateutil.Format(l.EndDate),
		WorkingDays: l.WorkingDays,
		Reason:      l.Reason,
		Status:      l.Status,
		Comments:    l.Comments,
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   l.UpdatedAt.Format(time.RFC3339),
	}
	if l.LeaveType != nil {
		resp.LeaveTypeName = l.LeaveType.Name
	}
	if l.CreatedBy != nil {
		v := l.CreatedBy.String()
		resp.CreatedBy = &v
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(items []LeaveApplication) []LeaveResponse {
	resp := make([]LeaveResponse, len(items))
	for i, l := range items {
		resp[i] = mapToResponse(l)
	}
	return resp
}
