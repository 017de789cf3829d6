package leavebalance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-hris-leave/internal/globalconfig"
	"go-hris-leave/internal/leavebalance"
	leavebalanceerrors "go-hris-leave/internal/leavebalance/errors"
	leavebalanceMock "go-hris-leave/internal/leavebalance/mock"
	"go-hris-leave/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeMirror struct {
	replaced map[int][]globalconfig.LeaveAllocation
	merged   map[int][]globalconfig.LeaveAllocation
	err      error
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{
		replaced: map[int][]globalconfig.LeaveAllocation{},
		merged:   map[int][]globalconfig.LeaveAllocation{},
	}
}

func (f *fakeMirror) ReplaceLeaveAllocations(_ context.Context, year int, allocations []globalconfig.LeaveAllocation) error {
	f.replaced[year] = allocations
	return f.err
}

func (f *fakeMirror) MergeLeaveAllocation(_ context.Context, year int, allocation globalconfig.LeaveAllocation) error {
	f.merged[year] = append(f.merged[year], allocation)
	return f.err
}

type fakeStats struct {
	stats []leavebalance.TypeStats
	err   error
}

func (f *fakeStats) YearStats(context.Context, int) ([]leavebalance.TypeStats, error) {
	return f.stats, f.err
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *leavebalanceMock.MockRepository
	mirror  *fakeMirror
	stats   *fakeStats
	service leavebalance.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := leavebalanceMock.NewMockRepository(ctrl)
	mirror := newFakeMirror()
	stats := &fakeStats{}

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    repo,
		mirror:  mirror,
		stats:   stats,
		service: leavebalance.NewService(db, repo, stats, mirror),
	}
}

func TestLeaveBalanceService_PopulateForYear(t *testing.T) {
	ctx := context.Background()
	employees := []uuid.UUID{uuid.New(), uuid.New()}
	types := []leavebalance.ActiveLeaveType{
		{ID: uuid.New(), Name: "Annual Leave", MaxDays: decimal.NewFromInt(12)},
		{ID: uuid.New(), Name: "Sick Leave", MaxDays: decimal.NewFromInt(10)},
	}
	maxDaysByType := map[uuid.UUID]decimal.Decimal{
		types[0].ID: types[0].MaxDays,
		types[1].ID: types[1].MaxDays,
	}

	t.Run("creates missing rows with max days and mirrors allocations", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ListActiveEmployeeIDs(ctx).Return(employees, nil)
		deps.repo.EXPECT().ListActiveLeaveTypes(ctx).Return(types, nil)

		calls := 0
		deps.repo.EXPECT().CreateIfAbsent(ctx, gomock.Any()).Times(4).DoAndReturn(
			func(_ context.Context, b *leavebalance.LeaveBalance) (bool, error) {
				calls++
				assert.Equal(t, 2025, b.Year)
				assert.True(t, maxDaysByType[b.LeaveTypeID].Equal(b.AllocatedDays))
				assert.True(t, b.UsedDays.IsZero())
				return calls != 2, nil
			})

		result, err := deps.service.PopulateForYear(ctx, 2025)

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 3, result.Created)
		assert.Equal(t, 1, result.Skipped)
		require.Len(t, deps.mirror.replaced[2025], 2)
		assert.Equal(t, types[0].ID.String(), deps.mirror.replaced[2025][0].LeaveTypeID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("second run creates nothing", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ListActiveEmployeeIDs(ctx).Return(employees, nil)
		deps.repo.EXPECT().ListActiveLeaveTypes(ctx).Return(types, nil)
		deps.repo.EXPECT().CreateIfAbsent(ctx, gomock.Any()).Times(4).Return(false, nil)

		result, err := deps.service.PopulateForYear(ctx, 2025)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Created)
		assert.Equal(t, 4, result.Skipped)
	})

	t.Run("unexpected error rolls back and reports partial counts", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ListActiveEmployeeIDs(ctx).Return(employees, nil)
		deps.repo.EXPECT().ListActiveLeaveTypes(ctx).Return(types, nil)
		gomock.InOrder(
			deps.repo.EXPECT().CreateIfAbsent(ctx, gomock.Any()).Return(true, nil),
			deps.repo.EXPECT().CreateIfAbsent(ctx, gomock.Any()).Return(false, errors.New("connection reset")),
		)

		result, err := deps.service.PopulateForYear(ctx, 2025)

		require.Error(t, err)
		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "POPULATE_FAILED", appErr.Code)
		assert.False(t, result.Success)
		assert.Equal(t, 1, result.Created)
		assert.Len(t, result.Errors, 1)
		assert.Empty(t, deps.mirror.replaced)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid year", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.PopulateForYear(ctx, 12)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidYear)
	})
}

func TestLeaveBalanceService_PopulateForType(t *testing.T) {
	ctx := context.Background()
	lt := leavebalance.ActiveLeaveType{ID: uuid.New(), Name: "Maternity Leave", MaxDays: decimal.NewFromInt(90)}

	t.Run("missing type is not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindActiveLeaveType(ctx, lt.ID).Return(nil, nil)

		_, err := deps.service.PopulateForType(ctx, lt.ID.String(), 2025)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrLeaveTypeNotFound)
	})

	t.Run("merges the single type into the mirror", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindActiveLeaveType(ctx, lt.ID).Return(&lt, nil)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ListActiveEmployeeIDs(ctx).Return([]uuid.UUID{uuid.New()}, nil)
		deps.repo.EXPECT().CreateIfAbsent(ctx, gomock.Any()).Return(true, nil)

		result, err := deps.service.PopulateForType(ctx, lt.ID.String(), 2025)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		require.Len(t, deps.mirror.merged[2025], 1)
		assert.Equal(t, "Maternity Leave", deps.mirror.merged[2025][0].LeaveTypeName)
		assert.Empty(t, deps.mirror.replaced)
	})

	t.Run("mirror failure does not fail the populate", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.mirror.err = errors.New("config store down")
		deps.repo.EXPECT().FindActiveLeaveType(ctx, lt.ID).Return(&lt, nil)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ListActiveEmployeeIDs(ctx).Return(nil, nil)

		result, err := deps.service.PopulateForType(ctx, lt.ID.String(), 2025)

		require.NoError(t, err)
		assert.True(t, result.Success)
	})
}

func TestLeaveBalanceService_PopulateForEmployee(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("inactive employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().IsActiveEmployee(ctx, employeeID).Return(false, nil)

		_, err := deps.service.PopulateForEmployee(ctx, employeeID.String(), 2025)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrEmployeeNotFound)
	})

	t.Run("one row per active type", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().IsActiveEmployee(ctx, employeeID).Return(true, nil)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ListActiveLeaveTypes(ctx).Return([]leavebalance.ActiveLeaveType{
			{ID: uuid.New(), Name: "Annual Leave", MaxDays: decimal.NewFromInt(12)},
			{ID: uuid.New(), Name: "Sick Leave", MaxDays: decimal.NewFromInt(10)},
		}, nil)
		deps.repo.EXPECT().CreateIfAbsent(ctx, gomock.Any()).Times(2).DoAndReturn(
			func(_ context.Context, b *leavebalance.LeaveBalance) (bool, error) {
				assert.Equal(t, employeeID, b.EmployeeID)
				return true, nil
			})

		result, err := deps.service.PopulateForEmployee(ctx, employeeID.String(), 2025)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Created)
		assert.Empty(t, deps.mirror.replaced)
	})
}

func TestLeaveBalanceService_UpdateUsedDays(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	balance := func() *leavebalance.LeaveBalance {
		return &leavebalance.LeaveBalance{
			ID:            id,
			AllocatedDays: decimal.NewFromInt(10),
			UsedDays:      decimal.NewFromInt(8),
		}
	}

	t.Run("exceeding allocation conflicts", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(balance(), nil)

		_, err := deps.service.UpdateUsedDays(ctx, id.String(), decimal.NewFromInt(3))

		assert.ErrorIs(t, err, leavebalanceerrors.ErrUsedDaysExceedAllocated)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("going below zero is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(balance(), nil)

		_, err := deps.service.UpdateUsedDays(ctx, id.String(), decimal.NewFromInt(-9))

		assert.ErrorIs(t, err, leavebalanceerrors.ErrUsedDaysBelowZero)
	})

	t.Run("adds delta", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(balance(), nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		resp, err := deps.service.UpdateUsedDays(ctx, id.String(), decimal.NewFromInt(2))

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(10).Equal(resp.UsedDays))
		assert.True(t, resp.RemainingDays.IsZero())
	})
}

func TestLeaveBalanceService_Create(t *testing.T) {
	ctx := context.Background()
	req := leavebalance.CreateLeaveBalanceRequest{
		EmployeeID:    uuid.NewString(),
		LeaveTypeID:   uuid.NewString(),
		Year:          2025,
		AllocatedDays: decimal.NewFromInt(10),
	}

	t.Run("existing triple conflicts", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByKey(ctx, gomock.Any(), gomock.Any(), 2025).Return(&leavebalance.LeaveBalance{ID: uuid.New()}, nil)

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrLeaveBalanceExists)
	})

	t.Run("used days default to zero", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByKey(ctx, gomock.Any(), gomock.Any(), 2025).Return(nil, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		resp, err := deps.service.Create(ctx, req)

		require.NoError(t, err)
		assert.True(t, resp.UsedDays.IsZero())
		assert.True(t, decimal.NewFromInt(10).Equal(resp.RemainingDays))
	})
}

func TestLeaveBalanceService_EnsureBalance(t *testing.T) {
	ctx := context.Background()
	employeeID, leaveTypeID := uuid.New(), uuid.New()

	t.Run("returns existing row", func(t *testing.T) {
		deps := setupServiceTest(t)
		existing := &leavebalance.LeaveBalance{ID: uuid.New(), AllocatedDays: decimal.NewFromInt(5)}
		deps.repo.EXPECT().FindByKey(ctx, employeeID, leaveTypeID, 2025).Return(existing, nil)

		b, err := deps.service.EnsureBalance(ctx, employeeID, leaveTypeID, 2025)

		require.NoError(t, err)
		assert.Equal(t, existing.ID, b.ID)
	})

	t.Run("concurrent insert is re-read", func(t *testing.T) {
		deps := setupServiceTest(t)
		winner := &leavebalance.LeaveBalance{ID: uuid.New()}
		gomock.InOrder(
			deps.repo.EXPECT().FindByKey(ctx, employeeID, leaveTypeID, 2025).Return(nil, nil),
			deps.repo.EXPECT().CreateIfAbsent(ctx, gomock.Any()).DoAndReturn(
				func(_ context.Context, b *leavebalance.LeaveBalance) (bool, error) {
					assert.True(t, b.AllocatedDays.IsZero())
					return false, nil
				}),
			deps.repo.EXPECT().FindByKey(ctx, employeeID, leaveTypeID, 2025).Return(winner, nil),
		)

		b, err := deps.service.EnsureBalance(ctx, employeeID, leaveTypeID, 2025)

		require.NoError(t, err)
		assert.Equal(t, winner.ID, b.ID)
	})
}

func TestLeaveBalanceService_GetByEmployee(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	employeeID := uuid.New()

	deps.repo.EXPECT().FindByEmployeeYear(ctx, employeeID, 2025).Return([]leavebalance.BalanceWithType{
		{
			LeaveBalance: leavebalance.LeaveBalance{
				ID:            uuid.New(),
				EmployeeID:    employeeID,
				Year:          2025,
				AllocatedDays: decimal.NewFromInt(10),
				UsedDays:      decimal.NewFromInt(3),
			},
			LeaveTypeName: "Sick Leave",
		},
		{
			LeaveBalance: leavebalance.LeaveBalance{
				ID:            uuid.New(),
				EmployeeID:    employeeID,
				Year:          2025,
				AllocatedDays: decimal.NewFromInt(2),
				UsedDays:      decimal.Zero,
			},
			LeaveTypeName: "Study Leave",
		},
	}, nil)

	resp, err := deps.service.GetByEmployee(ctx, employeeID.String(), 2025)

	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "#EF4444", resp[0].Color)
	assert.True(t, decimal.NewFromInt(7).Equal(resp[0].RemainingDays))
	assert.Equal(t, leavebalance.DefaultLeaveColor, resp[1].Color)
}

func TestLeaveBalanceService_Stats(t *testing.T) {
	deps := setupServiceTest(t)
	deps.stats.stats = []leavebalance.TypeStats{{LeaveTypeName: "Annual Leave", Employees: 4}}

	resp, err := deps.service.Stats(context.Background(), 2025)

	require.NoError(t, err)
	assert.Equal(t, 2025, resp.Year)
	assert.Len(t, resp.Types, 1)
}
