package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go-hris-leave/internal/config"
	"go-hris-leave/internal/events"
	"go-hris-leave/internal/globalconfig"
	"go-hris-leave/internal/leavebalance"
	"go-hris-leave/internal/messaging/kafka/consumer"
	"go-hris-leave/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer populates leave balances from leave type and employee
// lifecycle events until SIGINT or SIGTERM.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := connection.ConnectPgxPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	globalConfigService := globalconfig.NewService(sqlDB, globalconfig.NewRepository(gormDB), logger)
	balanceService := leavebalance.NewService(
		sqlDB,
		leavebalance.NewRepository(gormDB),
		leavebalance.NewStatsRepository(pool),
		globalConfigService,
		logger,
	)

	leaveTypeReader := connection.KafkaReader(cfg.Kafka.Broker, cfg.Kafka.GroupID+"-leave-type", events.LeaveTypeTopic)
	defer leaveTypeReader.Close()
	employeeReader := connection.KafkaReader(cfg.Kafka.Broker, cfg.Kafka.GroupID+"-employee", events.EmployeeCreatedTopic)
	defer employeeReader.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumeLeaveTypeCreated(ctx, leaveTypeReader, balanceService, logger)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumeEmployeeCreated(ctx, employeeReader, balanceService, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	wg.Wait()

	return nil
}
