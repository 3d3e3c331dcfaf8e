package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/hrms-lite/internal/adapters/http/handler"
	"github.com/ogurasousui/hrms-lite/internal/adapters/repository/postgres"
	"github.com/ogurasousui/hrms-lite/internal/core/attendance"
	"github.com/ogurasousui/hrms-lite/internal/core/dashboard"
	"github.com/ogurasousui/hrms-lite/internal/core/employee"
	"github.com/ogurasousui/hrms-lite/internal/core/health"
	"github.com/ogurasousui/hrms-lite/internal/platform/config"
	pg "github.com/ogurasousui/hrms-lite/internal/platform/db/postgres"
	"github.com/ogurasousui/hrms-lite/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database pool: %v", err)
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	employeeSvc := employee.NewService(postgres.NewEmployeeRepository(dbPool), nil, txManager)
	attendanceSvc := attendance.NewService(postgres.NewAttendanceRepository(dbPool), nil, txManager)
	dashboardSvc := dashboard.NewService(postgres.NewDashboardRepository(dbPool), txManager)
	healthSvc := health.NewService()

	srv := server.New(server.Options{
		ListenAddr:     cfg.Server.ListenAddr,
		GRPCListenAddr: cfg.GRPC.ListenAddr,
		CORS:           cfg.CORS,
	},
		handler.NewHealthHandler(healthSvc),
		handler.NewEmployeeHandler(employeeSvc),
		handler.NewAttendanceHandler(attendanceSvc),
		handler.NewDashboardHandler(dashboardSvc),
	)

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}

	log.Printf("server stopped")
}
