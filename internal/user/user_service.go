package user

import (
	"context"
	"errors"
	"strings"

	"go-hris-leave/internal/auth"
	"go-hris-leave/internal/domain"
	"go-hris-leave/internal/shared/contextutil"
	usererrors "go-hris-leave/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)

	UpdateRole(ctx context.Context, actorID, id, role string) (UserResponse, error)
	ToggleStatus(ctx context.Context, actorID, id string, isActive bool) (UserResponse, error)

	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	ResetPassword(ctx context.Context, id, newPassword string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) UpdateRole(ctx context.Context, actorID, id, role string) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	role = strings.ToUpper(strings.TrimSpace(role))
	if !domain.IsValidRole(role) {
		return UserResponse{}, usererrors.ErrInvalidRole
	}
	if actorID == id {
		return UserResponse{}, usererrors.ErrCannotChangeSelf
	}

	u, err := s.find(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}

	previous := u.Role
	u.Role = role
	if err := s.save(ctx, u); err != nil {
		l.Error("failed to update user role", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	l.Info("user role changed",
		zap.String("user_id", id),
		zap.String("from", previous),
		zap.String("to", role),
	)
	return mapToResponse(*u), nil
}

func (s *service) ToggleStatus(ctx context.Context, actorID, id string, isActive bool) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if actorID == id {
		return UserResponse{}, usererrors.ErrCannotChangeSelf
	}

	u, err := s.find(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}

	u.IsActive = isActive
	if err := s.save(ctx, u); err != nil {
		l.Error("failed to update user status", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	l.Info("user status changed", zap.String("user_id", id), zap.Bool("is_active", isActive))
	return mapToResponse(*u), nil
}

func (s *service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	u, err := s.find(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return usererrors.ErrWrongPassword
	}
	if currentPassword == newPassword {
		return usererrors.ErrSamePassword
	}

	if err := s.setPassword(ctx, u, newPassword); err != nil {
		l.Error("failed to change password", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, id, newPassword string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	u, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.setPassword(ctx, u, newPassword); err != nil {
		l.Error("failed to reset password", zap.String("user_id", id), zap.Error(err))
		return err
	}
	l.Info("password reset", zap.String("user_id", id))
	return nil
}

func (s *service) setPassword(ctx context.Context, u *auth.User, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return s.save(ctx, u)
}

func (s *service) find(ctx context.Context, id string) (*auth.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, usererrors.ErrInvalidUserID
	}
	u, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, usererrors.ErrUserNotFound
	}
	return u, nil
}

func (s *service) save(ctx context.Context, u *auth.User) error {
	err := s.repo.Update(ctx, u)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.ErrUserNotFound
	}
	return err
}

func mapToResponse(u auth.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
