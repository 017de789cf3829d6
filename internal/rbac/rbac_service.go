package rbac

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go-hris-leave/internal/domain"
	rbacerrors "go-hris-leave/internal/rbac/errors"

	"github.com/casbin/casbin/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy(ctx context.Context) error
	Enforce(req domain.EnforceRequest) (bool, error)
	ListPermissions(ctx context.Context, role string) ([]PermissionResponse, error)
	Grant(ctx context.Context, req GrantRequest) (PermissionResponse, error)
	Revoke(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{repo: repo, enforcer: enforcer, logger: l}
}

// LoadPolicy rebuilds the enforcer from the role hierarchy and the stored
// grants.
func (s *service) LoadPolicy(ctx context.Context) error {
	perms, err := s.repo.ListPermissions(ctx, "")
	if err != nil {
		s.logger.Error("rbac load policy failed", zap.Error(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()
	for _, pair := range RoleHierarchy {
		if _, err := s.enforcer.AddGroupingPolicy(pair[0], pair[1]); err != nil {
			return err
		}
	}
	for _, p := range perms {
		if _, err := s.enforcer.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return err
		}
	}

	s.logger.Info("rbac policy loaded", zap.Int("permissions", len(perms)))
	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	allowed, err := s.enforcer.Enforce(role, req.Resource, req.Action)
	if err != nil {
		return false, err
	}

	s.logger.Debug("rbac enforce",
		zap.String("role", role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) ListPermissions(ctx context.Context, role string) ([]PermissionResponse, error) {
	perms, err := s.repo.ListPermissions(ctx, strings.ToUpper(strings.TrimSpace(role)))
	if err != nil {
		return nil, err
	}
	resp := make([]PermissionResponse, len(perms))
	for i, p := range perms {
		resp[i] = mapToResponse(p)
	}
	return resp, nil
}

func (s *service) Grant(ctx context.Context, req GrantRequest) (PermissionResponse, error) {
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if !domain.IsValidRole(role) {
		return PermissionResponse{}, rbacerrors.ErrInvalidRole
	}

	p := &RolePermission{
		ID:       uuid.New(),
		Role:     role,
		Resource: strings.TrimSpace(req.Resource),
		Action:   strings.TrimSpace(req.Action),
	}

	existing, err := s.repo.ListPermissions(ctx, role)
	if err != nil {
		return PermissionResponse{}, err
	}
	for _, e := range existing {
		if e.Resource == p.Resource && e.Action == p.Action {
			return PermissionResponse{}, rbacerrors.ErrPermissionExists
		}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("rbac grant persist failed", zap.Error(err))
		return PermissionResponse{}, err
	}
	if err := s.LoadPolicy(ctx); err != nil {
		return PermissionResponse{}, err
	}

	s.logger.Info("rbac grant success",
		zap.String("role", p.Role),
		zap.String("resource", p.Resource),
		zap.String("action", p.Action),
	)
	return mapToResponse(*p), nil
}

func (s *service) Revoke(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return rbacerrors.ErrInvalidPermissionID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rbacerrors.ErrPermissionNotFound
		}
		return err
	}
	return s.LoadPolicy(ctx)
}

func mapToResponse(p RolePermission) PermissionResponse {
	return PermissionResponse{
		ID:       p.ID.String(),
		Role:     p.Role,
		Resource: p.Resource,
		Action:   p.Action,
	}
}
