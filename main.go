package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"insan-mission-system/handlers"
	"insan-mission-system/middleware"
	"insan-mission-system/services"
	"insan-mission-system/utils"

	"github.com/go-co-op/gocron/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := utils.LoadConfig()

	logger, err := utils.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	seed, err := services.LoadSeed(cfg.SeedFile)
	if err != nil {
		logger.Fatal("failed to load seed", zap.Error(err))
	}
	catalog, policy, err := seed.Build()
	if err != nil {
		logger.Fatal("failed to build catalog", zap.Error(err))
	}

	clock := clockwork.NewRealClock()
	sched, err := gocron.NewScheduler(gocron.WithClock(clock))
	if err != nil {
		logger.Fatal("failed to create scheduler", zap.Error(err))
	}
	sched.Start()

	var ledger services.XPLedger = services.NewMemoryLedger(0)
	if cfg.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		gl, err := services.NewGormLedger(db)
		if err != nil {
			logger.Fatal("failed to migrate xp ledger", zap.Error(err))
		}
		ledger = gl
		logger.Info("✅ XP ledger backed by postgres")
	} else {
		logger.Warn("⚠️  DATABASE_URL not set, XP ledger kept in memory")
	}

	svc := services.NewMissionService(services.Deps{
		State:         services.NewAppState(catalog, policy),
		Scheduler:     sched,
		Clock:         clock,
		Ledger:        ledger,
		Logger:        logger,
		IntentionHold: cfg.IntentionHold,
	})
	if _, err := svc.StartSessionSweeper(cfg.SessionSweepInterval, cfg.SessionIdleTTL); err != nil {
		logger.Fatal("failed to start session sweeper", zap.Error(err))
	}

	app := fiber.New()

	app.Use(middleware.GatewayAuthMiddleware(cfg.GatewayToken, logger))

	allowedOrigins := strings.Join(cfg.AllowedOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	handlers.SetupRoutes(app, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}()

	logger.Info("✅ Server running",
		zap.String("port", cfg.Port),
		zap.Int("missions", len(catalog.List())),
		zap.Duration("intention_hold", cfg.IntentionHold))
	logger.Info("✅ Session sweeper running", zap.Duration("every", cfg.SessionSweepInterval), zap.Duration("ttl", cfg.SessionIdleTTL))
	logger.Info("✅ CORS configured", zap.String("origins", allowedOrigins))

	<-ctx.Done()
	logger.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := sched.Shutdown(); err != nil {
		logger.Error("scheduler shutdown", zap.Error(err))
	}
}
