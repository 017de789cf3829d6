package auth

import (
	"context"
	"strings"
	"time"

	autherrors "go-hris-leave/internal/auth/errors"
	"go-hris-leave/internal/config"
	"go-hris-leave/internal/domain"
	"go-hris-leave/internal/employee"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// EmployeeResolver finds the employee linked to a user account.
type EmployeeResolver interface {
	FindByIdentity(ctx context.Context, ref string) (*employee.Employee, error)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	repo      Repository
	employees EmployeeResolver
	jwt       config.JWTConfig
	logger    *zap.Logger
}

func NewService(repo Repository, employees EmployeeResolver, jwtConfig config.JWTConfig, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, employees: employees, jwt: jwtConfig, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error("login lookup failed", zap.Error(err))
		return "", "", AuthResponse{}, err
	}
	if user == nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login wrong password", zap.String("user_id", user.ID.String()))
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrUserInactive
	}

	resp, err := s.issue(ctx, user)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	access, refresh, err := s.tokenPair(resp)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	s.logger.Info("login success", zap.String("user_id", resp.ID), zap.String("role", resp.Role))
	return access, refresh, resp, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}
	if t, _ := claims["token_type"].(string); t != tokenTypeRefresh {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	userIDStr, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	if user == nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}
	if !user.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrUserInactive
	}

	resp, err := s.issue(ctx, user)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	access, refresh, err := s.tokenPair(resp)
	if err != nil {
		return "", "", AuthResponse{}, err
	}
	return access, refresh, resp, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = domain.RoleEmployee
	}
	if !domain.IsValidRole(role) {
		return AuthResponse{}, autherrors.ErrInvalidRole
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return AuthResponse{}, err
	}
	if existing != nil {
		return AuthResponse{}, autherrors.ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	user := &User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		s.logger.Error("register persist failed", zap.Error(err))
		return AuthResponse{}, err
	}

	s.logger.Info("register success", zap.String("user_id", user.ID.String()), zap.String("role", role))
	return AuthResponse{ID: user.ID.String(), Email: user.Email, Role: user.Role}, nil
}

// issue builds the response for user, attaching the linked employee when one
// exists.
func (s *service) issue(ctx context.Context, user *User) (AuthResponse, error) {
	resp := AuthResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Role:  strings.ToUpper(user.Role),
	}
	empl, err := s.employees.FindByIdentity(ctx, user.ID.String())
	if err != nil {
		s.logger.Error("resolve linked employee failed", zap.String("user_id", resp.ID), zap.Error(err))
		return AuthResponse{}, err
	}
	if empl != nil {
		resp.EmployeeID = empl.ID.String()
	}
	return resp, nil
}

func (s *service) tokenPair(resp AuthResponse) (string, string, error) {
	access, err := s.generateToken(resp, tokenTypeAccess, s.jwt.AccessTTL)
	if err != nil {
		return "", "", autherrors.ErrTokenGenerationFailed
	}
	refresh, err := s.generateToken(resp, tokenTypeRefresh, s.jwt.RefreshTTL)
	if err != nil {
		return "", "", autherrors.ErrTokenGenerationFailed
	}
	return access, refresh, nil
}

func (s *service) generateToken(resp AuthResponse, tokenType string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    resp.ID,
		"role":       resp.Role,
		"token_type": tokenType,
		"exp":        time.Now().Add(expiry).Unix(),
	}
	if resp.EmployeeID != "" {
		claims["employee_id"] = resp.EmployeeID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwt.Secret))
}

func (s *service) parse(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(s.jwt.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, autherrors.ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}
