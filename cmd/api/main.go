package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"aptitest/internal/adapter"
	"aptitest/internal/cache"
	"aptitest/internal/config"
	"aptitest/internal/database"
	"aptitest/internal/domain"
	"aptitest/internal/handler"
	"aptitest/internal/logger"
	"aptitest/internal/middleware"
	"aptitest/internal/repository"
	"aptitest/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Redis-backed catalog cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Repositories
	sessionRepo := repository.NewSQLXSessionRepository(db)
	purchaseRepo := repository.NewSQLXPurchaseRepository(db)
	answerRepo := repository.NewSQLXAnswerRepository(db)
	scoreRepo := repository.NewSQLXScoreRepository(db)
	summaryRepo := repository.NewSQLXResultSummaryRepository(db)
	recRepo := repository.NewSQLXRecommendationRepository(db)
	catalogRepo := repository.NewCachedCatalogRepository(
		repository.NewSQLXCatalogRepository(db), cacheAdapter, cfg.Engine.CatalogCacheTTL)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Services
	scoringEngine := service.NewScoringEngine(answerRepo, catalogRepo, scoreRepo, summaryRepo, appLogger)
	recBuilder := service.NewRecommendationBuilder(scoreRepo, answerRepo, recRepo, appLogger)
	transition := service.NewStageTransitionController(sessionRepo, catalogRepo, scoringEngine, recBuilder, txManager, appLogger)
	contentResolver := service.NewContentResolver(appLogger,
		service.NewCatalogContentProvider(catalogRepo, cfg.Engine.PrimaryLocale, domain.LookupFound),
		service.NewCatalogContentProvider(catalogRepo, cfg.Engine.FallbackLocale, domain.LookupPartialFallback),
		service.NewStaticContentProvider("Content unavailable"),
	)
	assessmentService := service.NewAssessmentService(
		sessionRepo, purchaseRepo, catalogRepo, answerRepo, scoreRepo,
		summaryRepo, recRepo, transition, contentResolver, txManager, appLogger)

	// Handlers
	assessmentHandler := handler.NewAssessmentHandler(assessmentService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := cacheAdapter.Ping(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "cache unavailable")
		}
		return c.SendStatus(fiber.StatusOK)
	})

	assessmentHandler.RegisterRoutes(app.Group("/api"))

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
