package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"insurance-service/internal/config"
	"insurance-service/internal/database/postgres"
	"insurance-service/internal/database/redis"
	"insurance-service/internal/event"
	"insurance-service/internal/handlers"
	"insurance-service/internal/premium"
	"insurance-service/internal/repository"
	"insurance-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/var", "log", "insurance_service")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.MultiWriter(os.Stdout, file), nil))
	slog.SetDefault(logger)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		fmt.Printf("Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	cfg := config.New()

	location, err := time.LoadLocation(cfg.InsuranceCfg.Timezone)
	if err != nil {
		slog.Warn("invalid timezone, falling back to UTC", "timezone", cfg.InsuranceCfg.Timezone, "error", err)
		location = time.UTC
	}

	slog.Info("connecting to postgres",
		"host", cfg.PostgresCfg.Host,
		"port", cfg.PostgresCfg.Port,
		"dbname", cfg.PostgresCfg.DBname)
	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		slog.Error("error connecting to database, retrying in background", "error", err)
		go postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	// Redis and RabbitMQ are soft dependencies: the service runs without the
	// plan cache and without event publishing.
	var planCache services.PlanCache
	redisClient, err := redis.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		slog.Warn("redis unavailable, plan cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		planCache = redisClient
	}

	var publisher services.EventPublisher
	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		slog.Warn("rabbitmq unavailable, coverage events disabled", "error", err)
	} else {
		defer rabbitConn.Close()
		publisher = event.NewCoveragePublisher(rabbitConn)
	}

	calc := premium.NewCalculator(cfg.InsuranceCfg)

	store := repository.NewStore(db)
	planRepository := repository.NewPlanRepository(db)

	planService := services.NewPlanService(planRepository, planCache, calc,
		time.Duration(cfg.InsuranceCfg.PlanCacheTTLSeconds)*time.Second)
	policyService := services.NewPolicyService(store, planService, cfg.InsuranceCfg, location)
	coverageService := services.NewCoverageService(store, planService, calc, publisher, location)

	app := fiber.New()
	app.Use(handlers.UserContext())

	app.Get("/checkhealth", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Insurance service is healthy")
	})

	handlers.NewPlanHandler(planService).Register(app)
	handlers.NewPolicyHandler(policyService).Register(app)
	handlers.NewCoverageHandler(coverageService).Register(app)
	handlers.NewPremiumHandler(planService, calc, location).Register(app)

	slog.Info("starting insurance-service", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
