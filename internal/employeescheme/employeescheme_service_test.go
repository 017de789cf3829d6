package employeescheme_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-hris-leave/internal/employeescheme"
	employeeschemeerrors "go-hris-leave/internal/employeescheme/errors"
	employeeschemeMock "go-hris-leave/internal/employeescheme/mock"
	"go-hris-leave/internal/leavescheme"
	"go-hris-leave/internal/shared/apperror"
	"go-hris-leave/internal/shared/dateutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *employeeschemeMock.MockRepository
	service employeescheme.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := employeeschemeMock.NewMockRepository(ctrl)
	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    repo,
		service: employeescheme.NewService(db, repo),
	}
}

func date(t *testing.T, v string) time.Time {
	t.Helper()
	d, err := dateutil.Parse(v)
	require.NoError(t, err)
	return d
}

func datePtr(t *testing.T, v string) *time.Time {
	d := date(t, v)
	return &d
}

func strPtr(v string) *string { return &v }

func TestEmployeeSchemeService_Assign(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	schemeID := uuid.New()

	t.Run("overlapping june is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmployeeExists(ctx, employeeID).Return(true, nil)
		deps.repo.EXPECT().SchemeExists(ctx, schemeID).Return(true, nil)
		deps.repo.EXPECT().FindByEmployee(ctx, employeeID).Return([]employeescheme.EmployeeLeaveScheme{
			{
				ID:            uuid.New(),
				EmployeeID:    employeeID,
				SchemeID:      uuid.New(),
				EffectiveFrom: date(t, "2025-01-01"),
				EffectiveTo:   datePtr(t, "2025-06-30"),
			},
		}, nil)

		_, err := deps.service.Assign(ctx, employeescheme.AssignSchemeRequest{
			EmployeeID:    employeeID.String(),
			SchemeID:      schemeID.String(),
			EffectiveFrom: "2025-06-01",
			EffectiveTo:   strPtr("2025-12-31"),
		})

		require.ErrorIs(t, err, employeeschemeerrors.ErrOverlappingAssignment)
		assert.Equal(t, 400, apperror.ToHTTP(err).Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("open ended success", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		var created *employeescheme.EmployeeLeaveScheme
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmployeeExists(ctx, employeeID).Return(true, nil)
		deps.repo.EXPECT().SchemeExists(ctx, schemeID).Return(true, nil)
		deps.repo.EXPECT().FindByEmployee(ctx, employeeID).Return([]employeescheme.EmployeeLeaveScheme{
			{ID: uuid.New(), EffectiveFrom: date(t, "2024-01-01"), EffectiveTo: datePtr(t, "2024-12-31")},
		}, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, a *employeescheme.EmployeeLeaveScheme) error {
			assert.Nil(t, a.EffectiveTo)
			created = a
			return nil
		})
		deps.repo.EXPECT().FindByID(ctx, gomock.Any()).DoAndReturn(func(context.Context, string) (*employeescheme.EmployeeLeaveScheme, error) {
			created.Scheme = &leavescheme.LeaveScheme{ID: schemeID, Name: "Standard"}
			return created, nil
		})

		resp, err := deps.service.Assign(ctx, employeescheme.AssignSchemeRequest{
			EmployeeID:    employeeID.String(),
			SchemeID:      schemeID.String(),
			EffectiveFrom: "2025-01-01",
		})

		require.NoError(t, err)
		assert.Equal(t, "2025-01-01", resp.EffectiveFrom)
		assert.Nil(t, resp.EffectiveTo)
		assert.Equal(t, "Standard", resp.SchemeName)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("from after to", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Assign(ctx, employeescheme.AssignSchemeRequest{
			EmployeeID:    employeeID.String(),
			SchemeID:      schemeID.String(),
			EffectiveFrom: "2025-12-31",
			EffectiveTo:   strPtr("2025-01-01"),
		})

		assert.ErrorIs(t, err, employeeschemeerrors.ErrInvalidDateRange)
	})

	t.Run("unknown employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmployeeExists(ctx, employeeID).Return(false, nil)

		_, err := deps.service.Assign(ctx, employeescheme.AssignSchemeRequest{
			EmployeeID:    employeeID.String(),
			SchemeID:      schemeID.String(),
			EffectiveFrom: "2025-01-01",
		})

		assert.ErrorIs(t, err, employeeschemeerrors.ErrEmployeeNotFound)
	})

	t.Run("unknown scheme", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmployeeExists(ctx, employeeID).Return(true, nil)
		deps.repo.EXPECT().SchemeExists(ctx, schemeID).Return(false, nil)

		_, err := deps.service.Assign(ctx, employeescheme.AssignSchemeRequest{
			EmployeeID:    employeeID.String(),
			SchemeID:      schemeID.String(),
			EffectiveFrom: "2025-01-01",
		})

		assert.ErrorIs(t, err, employeeschemeerrors.ErrSchemeNotFound)
	})
}

func TestEmployeeSchemeService_Update(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	id := uuid.New()

	current := func() *employeescheme.EmployeeLeaveScheme {
		return &employeescheme.EmployeeLeaveScheme{
			ID:            id,
			EmployeeID:    employeeID,
			SchemeID:      uuid.New(),
			EffectiveFrom: date(t, "2025-01-01"),
			EffectiveTo:   datePtr(t, "2025-03-31"),
		}
	}

	t.Run("own range is ignored in overlap check", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		self := current()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		gomock.InOrder(
			deps.repo.EXPECT().FindByID(ctx, id.String()).Return(self, nil),
			deps.repo.EXPECT().FindByID(ctx, id.String()).DoAndReturn(func(context.Context, string) (*employeescheme.EmployeeLeaveScheme, error) {
				return self, nil
			}),
		)
		deps.repo.EXPECT().FindByEmployee(ctx, employeeID).Return([]employeescheme.EmployeeLeaveScheme{*current()}, nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		resp, err := deps.service.Update(ctx, id.String(), employeescheme.UpdateAssignmentRequest{
			EffectiveTo: strPtr("2025-06-30"),
		})

		require.NoError(t, err)
		require.NotNil(t, resp.EffectiveTo)
		assert.Equal(t, "2025-06-30", *resp.EffectiveTo)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("extending into a neighbour overlaps", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(current(), nil)
		deps.repo.EXPECT().FindByEmployee(ctx, employeeID).Return([]employeescheme.EmployeeLeaveScheme{
			*current(),
			{ID: uuid.New(), EmployeeID: employeeID, EffectiveFrom: date(t, "2025-04-01")},
		}, nil)

		_, err := deps.service.Update(ctx, id.String(), employeescheme.UpdateAssignmentRequest{ClearEffectiveTo: true})

		assert.ErrorIs(t, err, employeeschemeerrors.ErrOverlappingAssignment)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, id.String(), employeescheme.UpdateAssignmentRequest{})

		assert.ErrorIs(t, err, employeeschemeerrors.ErrAssignmentNotFound)
	})
}

func TestEmployeeSchemeService_GetCurrentForEmployee(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("explicit date", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindCurrent(ctx, employeeID, date(t, "2025-03-15")).Return(&employeescheme.EmployeeLeaveScheme{
			ID:            uuid.New(),
			EmployeeID:    employeeID,
			EffectiveFrom: date(t, "2025-01-01"),
		}, nil)

		resp, err := deps.service.GetCurrentForEmployee(ctx, employeeID.String(), "2025-03-15")

		require.NoError(t, err)
		assert.Equal(t, employeeID.String(), resp.EmployeeID)
	})

	t.Run("defaults to today", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindCurrent(ctx, employeeID, dateutil.Today()).Return(nil, nil)

		_, err := deps.service.GetCurrentForEmployee(ctx, employeeID.String(), "")

		assert.ErrorIs(t, err, employeeschemeerrors.ErrNoCurrentScheme)
	})

	t.Run("bad date", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.GetCurrentForEmployee(ctx, employeeID.String(), "15-03-2025")

		assert.ErrorIs(t, err, apperror.ErrInvalidDateFormat)
	})
}

func TestEmployeeSchemeService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.NewString()

	deps := setupServiceTest(t)
	deps.repo.EXPECT().Delete(ctx, id).Return(gorm.ErrRecordNotFound)

	err := deps.service.Delete(ctx, id)

	assert.ErrorIs(t, err, employeeschemeerrors.ErrAssignmentNotFound)
}
