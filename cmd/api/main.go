package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alamtis/skill-assessment-platform/internal/adapter"
	aiadapter "github.com/alamtis/skill-assessment-platform/internal/adapter/ai"
	"github.com/alamtis/skill-assessment-platform/internal/cache"
	"github.com/alamtis/skill-assessment-platform/internal/config"
	"github.com/alamtis/skill-assessment-platform/internal/database"
	"github.com/alamtis/skill-assessment-platform/internal/handler"
	"github.com/alamtis/skill-assessment-platform/internal/logger"
	"github.com/alamtis/skill-assessment-platform/internal/middleware"
	"github.com/alamtis/skill-assessment-platform/internal/repository"
	"github.com/alamtis/skill-assessment-platform/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

// requestLogger logs one line per HTTP request.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
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

	// Gemini model behind the AI boundary.
	ctx := context.Background()
	model, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.Gemini.APIKey),
		googleai.WithDefaultModel(cfg.Gemini.ModelName),
	)
	if err != nil {
		appLogger.Fatal("Failed to create Gemini client", zap.Error(err))
	}
	aiService := aiadapter.NewGeminiClient(model)
	appLogger.Info("Gemini client initialized", zap.String("model", cfg.Gemini.ModelName))

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Successfully connected to Oracle database")

	quizRepository := repository.NewSQLXQuizRepository(db)
	userRepository := repository.NewSQLXUserRepository(db)
	attemptRepository := repository.NewSQLXQuizAttemptRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	quizService := service.NewQuizService(quizRepository, attemptRepository, aiService, txManager, cacheAdapter)
	attemptService := service.NewAttemptService(attemptRepository, quizRepository, userRepository, aiService, txManager)
	authService := service.NewAuthService(userRepository, txManager, cfg.JWT)
	userService := service.NewUserService(userRepository, txManager)

	quizHandler := handler.NewQuizHandler(quizService, attemptService)
	reportHandler := handler.NewReportHandler(attemptService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, attemptService)
	adminHandler := handler.NewAdminHandler(quizService, userService, attemptService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	apiGroup := app.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	quizGroup := apiGroup.Group("/quizzes", middleware.Protected(authService))
	quizGroup.Get("/", quizHandler.ListQuizzes)
	quizGroup.Get("/:quizId", quizHandler.GetQuiz)
	quizGroup.Post("/:quizId/start", quizHandler.StartAttempt)
	quizGroup.Post("/:quizId/submit", quizHandler.SubmitAttempt)

	apiGroup.Get("/reports/:attemptId", middleware.Protected(authService), reportHandler.GetDetailedReport)

	userGroup := apiGroup.Group("/users", middleware.Protected(authService))
	userGroup.Get("/me", userHandler.GetMe)
	userGroup.Get("/:userId/quiz-history", userHandler.GetQuizHistory)

	adminGroup := apiGroup.Group("/admin", middleware.Protected(authService), middleware.AdminOnly())
	adminGroup.Post("/quizzes", adminHandler.CreateQuiz)
	adminGroup.Post("/quizzes/generate-ai", adminHandler.GenerateQuiz)
	adminGroup.Get("/quizzes/:quizId", adminHandler.GetQuiz)
	adminGroup.Put("/quizzes/:quizId", adminHandler.UpdateQuiz)
	adminGroup.Delete("/quizzes/:quizId", adminHandler.DeleteQuiz)
	adminGroup.Post("/quizzes/:quizId/questions", adminHandler.AddQuestion)
	adminGroup.Put("/quizzes/:quizId/questions/:questionId", adminHandler.UpdateQuestion)
	adminGroup.Delete("/quizzes/:quizId/questions/:questionId", adminHandler.DeleteQuestion)
	adminGroup.Get("/users", adminHandler.ListUsers)
	adminGroup.Get("/users/:userId", adminHandler.GetUser)
	adminGroup.Put("/users/:userId/roles", adminHandler.ReplaceRoles)
	adminGroup.Delete("/attempts/:attemptId", adminHandler.DeleteAttempt)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
