package app

import (
	"context"
	"database/sql"

	"go-hris-leave/internal/auth"
	"go-hris-leave/internal/config"
	"go-hris-leave/internal/employee"
	"go-hris-leave/internal/employeescheme"
	"go-hris-leave/internal/globalconfig"
	"go-hris-leave/internal/leave"
	"go-hris-leave/internal/leavebalance"
	"go-hris-leave/internal/leavescheme"
	"go-hris-leave/internal/leavetype"
	"go-hris-leave/internal/messaging/kafka"
	"go-hris-leave/internal/middleware"
	"go-hris-leave/internal/rbac"
	"go-hris-leave/internal/rbac/infra"
	"go-hris-leave/internal/shared/counter"
	"go-hris-leave/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	ctx context.Context,
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	pool *pgxpool.Pool,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB)
	balanceStatsRepo := leavebalance.NewStatsRepository(pool)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	employeeSchemeRepo := employeescheme.NewRepository(gormDB)
	globalConfigRepo := globalconfig.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	leaveSchemeRepo := leavescheme.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	rbacRepo := rbac.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)
	if err := rbacService.LoadPolicy(ctx); err != nil {
		return err
	}

	// --- Services ---
	globalConfigService := globalconfig.NewService(db, globalConfigRepo, logger)
	balanceService := leavebalance.NewService(db, balanceRepo, balanceStatsRepo, globalConfigService, logger)
	authService := auth.NewService(authRepo, employeeRepo, cfg.JWT, logger)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb, logger)
	employeeSchemeService := employeescheme.NewService(db, employeeSchemeRepo, logger)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, balanceRepo, balanceService, outboxRepo, logger)
	leaveSchemeService := leavescheme.NewService(db, leaveSchemeRepo, logger)
	leaveTypeService := leavetype.NewServiceWithOutbox(db, leaveTypeRepo, outboxRepo, rdb, logger)
	userService := user.NewService(userRepo, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Secure:     cfg.IsProduction(),
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	}, logger)
	balanceHandler := leavebalance.NewHandler(balanceService, rdb, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	employeeSchemeHandler := employeescheme.NewHandler(employeeSchemeService, logger)
	globalConfigHandler := globalconfig.NewHandler(globalConfigService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	leaveSchemeHandler := leavescheme.NewHandler(leaveSchemeService, logger)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)
	userHandler := user.NewHandler(userService, logger)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	api := router.Group("/api/v1/leave-management")
	auth.RegisterPublicRoutes(api, authHandler)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.ContextLogger(logger))
	{
		auth.RegisterRoutes(protected, authHandler, rbacService)
		rbac.RegisterRoutes(protected, rbacHandler, rbacService)
		user.RegisterRoutes(protected, userHandler, rbacService)
		employee.RegisterRoutes(protected, employeeHandler, rbacService)

		leavetype.RegisterRoutes(protected, leaveTypeHandler, rbacService)
		leavescheme.RegisterRoutes(protected, leaveSchemeHandler, rbacService)
		employeescheme.RegisterRoutes(protected, employeeSchemeHandler, rbacService)
		leavebalance.RegisterRoutes(protected, balanceHandler, rbacService, rdb)
		leave.RegisterRoutes(protected, leaveHandler, rbacService)
		globalconfig.RegisterRoutes(protected, globalConfigHandler, rbacService)
	}

	return nil
}
