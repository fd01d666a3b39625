package app

import (
	"time"

	"hr-console/internal/apiclient"
	"hr-console/internal/attendance"
	"hr-console/internal/audit"
	"hr-console/internal/dashboard"
	"hr-console/internal/employee"
	"hr-console/internal/middleware"
	"hr-console/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type modules struct {
	client         *apiclient.Client
	rdb            *redis.Client
	store          notify.Store
	audit          audit.Logger
	searchDebounce time.Duration
}

func registerModules(router *gin.Engine, m modules) {
	logger := zap.L()

	// --- Repositories ---
	employeeRepo := employee.NewRepository(m.client)
	attendanceRepo := attendance.NewRepository(m.client)
	dashboardRepo := dashboard.NewRepository(m.client)

	// --- Services ---
	employeeService := employee.NewService(employeeRepo, m.store, m.audit, employee.Config{
		SearchDebounce: m.searchDebounce,
	}, logger)
	attendanceService := attendance.NewService(attendanceRepo, employeeService, m.store, m.audit, attendance.Config{}, logger)
	dashboardService := dashboard.NewService(dashboardRepo, logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, logger)
	attendanceHandler := attendance.NewHandler(attendanceService, logger)
	dashboardHandler := dashboard.NewHandler(dashboardService, logger)
	notifyHandler := notify.NewHandler(m.store, logger)

	// --- Routes ---
	console := router.Group("/api/v1/console")
	console.Use(middleware.Idempotency(m.rdb))
	{
		dashboard.RegisterRoutes(console, dashboardHandler, logger)
		employee.RegisterRoutes(console, employeeHandler, logger)
		attendance.RegisterRoutes(console, attendanceHandler, logger)
		notify.RegisterRoutes(console, notifyHandler, logger)
	}
}
