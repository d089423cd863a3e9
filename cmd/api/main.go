package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/config"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/database"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/handler"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/middleware"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/models"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/repository"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/router"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/internal/service"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/analysis"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/problemgen"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/runner"
	"github.com/Idhant-Mehta/tiet-lab-tutorial-mangement/pkg/sandbox"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	var (
		userRepo       repository.UserRepository
		assignmentRepo repository.AssignmentRepository
		submissionRepo repository.SubmissionRepository
	)

	if cfg.UseInMemoryStore() {
		logger.Warn().Msg("no database configured, using in-memory storage")
		userRepo = repository.NewMemoryUserRepository()
		assignmentRepo = repository.NewMemoryAssignmentRepository()
		submissionRepo = repository.NewMemorySubmissionRepository()
	} else {
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}

		if err := db.AutoMigrate(
			&models.User{},
			&models.Assignment{},
			&models.Problem{},
			&models.TestCase{},
			&models.Submission{},
			&models.TestResult{},
		); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}

		userRepo = repository.NewUserRepository(db)
		assignmentRepo = repository.NewAssignmentRepository(db)
		submissionRepo = repository.NewSubmissionRepository(db)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	generator, err := problemgen.New(problemgen.Config{
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		Model:        cfg.GenerationModel,
		Logger:       logger,
	})
	if err != nil {
		log.Fatalf("failed to create problem generator: %v", err)
	}

	analyzer, err := analysis.New(analysis.Config{
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		Model:        cfg.CritiqueModel,
		Logger:       logger,
	})
	if err != nil {
		log.Fatalf("failed to create code analyzer: %v", err)
	}

	var codeRunner runner.Runner = runner.NewSimulatedRunner()
	if cfg.Runner == config.RunnerSandbox {
		sandboxRunner, err := sandbox.New(sandbox.Config{
			Host:          cfg.DockerHost,
			Image:         cfg.SandboxImage,
			CPUShares:     int64(cfg.SandboxCPUShares),
			MemoryLimitMB: int64(cfg.SandboxMemoryMB),
			Logger:        logger,
		})
		if err != nil {
			log.Fatalf("failed to create sandbox runner: %v", err)
		}
		defer sandboxRunner.Close()
		codeRunner = sandboxRunner
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	authService := service.NewAuthService(userRepo, validate, service.AuthConfig{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
	}, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, submissionRepo, generator, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, codeRunner, analyzer, validate, logger)
	dashboardService := service.NewDashboardService(assignmentRepo, submissionRepo, redisClient, cfg.DashboardCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, router.Dependencies{
		JWTSecret:   cfg.JWTSecret,
		Health:      handler.NewHealthHandler(),
		Auth:        handler.NewAuthHandler(authService, logger),
		Assignments: handler.NewAssignmentHandler(assignmentService, logger),
		Submissions: handler.NewSubmissionHandler(submissionService, logger),
		Dashboards:  handler.NewDashboardHandler(dashboardService, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
