package auth_test

import (
	"context"
	"testing"
	"time"

	"go-hris-leave/internal/auth"
	autherrors "go-hris-leave/internal/auth/errors"
	authMock "go-hris-leave/internal/auth/mock"
	"go-hris-leave/internal/config"
	"go-hris-leave/internal/employee"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type fakeEmployees struct {
	byUser map[string]*employee.Employee
}

func (f *fakeEmployees) FindByIdentity(_ context.Context, ref string) (*employee.Employee, error) {
	return f.byUser[ref], nil
}

func setupService(t *testing.T) (auth.Service, *authMock.MockRepository, *fakeEmployees) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := authMock.NewMockRepository(ctrl)
	employees := &fakeEmployees{byUser: map[string]*employee.Employee{}}
	svc := auth.NewService(repo, employees, config.JWTConfig{
		Secret:     testSecret,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: time.Hour,
	})
	return svc, repo, employees
}

func parseClaims(t *testing.T, raw string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func newUser(t *testing.T, password, role string) *auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &auth.User{ID: uuid.New(), Email: "hr@example.com", PasswordHash: string(hash), Role: role, IsActive: true}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("token carries employee and role", func(t *testing.T) {
		svc, repo, employees := setupService(t)
		user := newUser(t, "password123", "HR")
		employeeID := uuid.New()
		employees.byUser[user.ID.String()] = &employee.Employee{ID: employeeID}
		repo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)

		access, refresh, resp, err := svc.Login(ctx, user.Email, "password123")
		require.NoError(t, err)
		assert.Equal(t, employeeID.String(), resp.EmployeeID)
		assert.Equal(t, "HR", resp.Role)

		claims := parseClaims(t, access)
		assert.Equal(t, user.ID.String(), claims["user_id"])
		assert.Equal(t, employeeID.String(), claims["employee_id"])
		assert.Equal(t, "HR", claims["role"])
		assert.Equal(t, "access", claims["token_type"])
		assert.Equal(t, "refresh", parseClaims(t, refresh)["token_type"])
	})

	t.Run("account without employee", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		user := newUser(t, "password123", "DIRECTOR")
		repo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)

		access, _, resp, err := svc.Login(ctx, user.Email, "password123")
		require.NoError(t, err)
		assert.Empty(t, resp.EmployeeID)
		_, present := parseClaims(t, access)["employee_id"]
		assert.False(t, present)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		user := newUser(t, "password123", "HR")
		repo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)

		_, _, _, err := svc.Login(ctx, user.Email, "wrongpass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		repo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, nil)

		_, _, _, err := svc.Login(ctx, "ghost@example.com", "x")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		user := newUser(t, "password123", "HR")
		user.IsActive = false
		repo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)

		_, _, _, err := svc.Login(ctx, user.Email, "password123")
		assert.ErrorIs(t, err, autherrors.ErrUserInactive)
	})
}

func TestService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates pair", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		user := newUser(t, "password123", "DM")
		repo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)
		repo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)

		_, refresh, _, err := svc.Login(ctx, user.Email, "password123")
		require.NoError(t, err)

		access, _, resp, err := svc.RefreshToken(ctx, refresh)
		require.NoError(t, err)
		assert.Equal(t, "DM", resp.Role)
		assert.Equal(t, "access", parseClaims(t, access)["token_type"])
	})

	t.Run("access token rejected", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		user := newUser(t, "password123", "DM")
		repo.EXPECT().FindByEmail(ctx, user.Email).Return(user, nil)

		access, _, _, err := svc.Login(ctx, user.Email, "password123")
		require.NoError(t, err)

		_, _, _, err = svc.RefreshToken(ctx, access)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("garbage", func(t *testing.T) {
		svc, _, _ := setupService(t)
		_, _, _, err := svc.RefreshToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to employee role", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		repo.EXPECT().FindByEmail(ctx, "New@Example.com").Return(nil, nil)
		repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, u *auth.User) error {
			assert.Equal(t, "new@example.com", u.Email)
			assert.Equal(t, "EMPLOYEE", u.Role)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")))
			return nil
		})

		resp, err := svc.Register(ctx, auth.RegisterRequest{Email: "New@Example.com", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, "EMPLOYEE", resp.Role)
	})

	t.Run("unknown role", func(t *testing.T) {
		svc, _, _ := setupService(t)
		_, err := svc.Register(ctx, auth.RegisterRequest{Email: "a@example.com", Password: "password123", Role: "owner"})
		assert.ErrorIs(t, err, autherrors.ErrInvalidRole)
	})

	t.Run("email taken", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		repo.EXPECT().FindByEmail(ctx, "a@example.com").Return(&auth.User{ID: uuid.New()}, nil)

		_, err := svc.Register(ctx, auth.RegisterRequest{Email: "a@example.com", Password: "password123", Role: "hr"})
		assert.ErrorIs(t, err, autherrors.ErrEmailExists)
	})
}

func TestService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		svc, _, _ := setupService(t)
		_, err := svc.GetMe(ctx, "abc")
		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("missing user", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		id := uuid.New()
		repo.EXPECT().FindByID(ctx, id).Return(nil, nil)

		_, err := svc.GetMe(ctx, id.String())
		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}
