package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/talentgate-labs/talentgate-api/internal/config"
	"github.com/talentgate-labs/talentgate-api/internal/database"
	"github.com/talentgate-labs/talentgate-api/internal/handler"
	"github.com/talentgate-labs/talentgate-api/internal/middleware"
	"github.com/talentgate-labs/talentgate-api/internal/models"
	"github.com/talentgate-labs/talentgate-api/internal/repository"
	"github.com/talentgate-labs/talentgate-api/internal/router"
	"github.com/talentgate-labs/talentgate-api/internal/service"
	"github.com/talentgate-labs/talentgate-api/pkg/ai"
	"github.com/talentgate-labs/talentgate-api/pkg/cloudinary"
	"github.com/talentgate-labs/talentgate-api/pkg/docker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	if cfg.AppEnv == "development" {
		logger = logger.Level(zerolog.DebugLevel)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	if err := db.AutoMigrate(
		&models.Candidate{},
		&models.Recruiter{},
		&models.MCQQuestion{},
		&models.MCQResponse{},
		&models.MCQResult{},
		&models.TextQuestion{},
		&models.TextAnswer{},
		&models.TextAssessmentResult{},
		&models.PsychometricQuestion{},
		&models.PsychometricTestConfig{},
		&models.PsychometricResult{},
		&models.ProctorSession{},
		&models.ProctorViolation{},
		&models.EvaluationCriteria{},
		&models.CandidateRationale{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, dashboard cache and feed replay disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		logger.Warn().Err(err).Msg("nats unavailable, cross-instance feed fan-out disabled")
		natsConn = nil
	} else {
		defer natsConn.Close()
	}

	var resumeStorage service.ResumeStorage
	storage, err := cloudinary.New(cloudinary.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("cloudinary unavailable, resume uploads disabled")
	} else {
		resumeStorage = storage
	}

	var executor docker.Executor
	dockerExec, err := docker.NewDockerExecutor(docker.Config{
		Host:          cfg.DockerHost,
		Timeout:       cfg.ExecutionTimeout,
		MemoryLimitMB: int64(cfg.CodeRunMemoryMB),
		CPUShares:     int64(cfg.CodeRunCPUShares),
		Logger:        logger,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("docker unavailable, code execution disabled")
	} else {
		executor = dockerExec
	}

	grader := buildGrader(cfg, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	candidateRepo := repository.NewCandidateRepository(db)
	recruiterRepo := repository.NewRecruiterRepository(db)
	mcqRepo := repository.NewMCQRepository(db)
	textRepo := repository.NewTextRepository(db)
	psychometricRepo := repository.NewPsychometricRepository(db)
	proctorRepo := repository.NewProctorRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)

	feedCtx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()

	feedService := service.NewProctorFeedService(redisClient, cfg.RealtimeChannel, natsConn, logger)
	feedService.Start(feedCtx)

	authService := service.NewAuthService(candidateRepo, recruiterRepo, validate, cfg.JWTSecret, cfg.JWTTTL, logger)
	mcqService := service.NewMCQService(mcqRepo, candidateRepo, validate, logger)
	textService := service.NewTextService(textRepo, candidateRepo, grader, validate, logger)
	psychometricService := service.NewPsychometricService(psychometricRepo, candidateRepo, validate, logger)
	proctorService := service.NewProctorService(proctorRepo, feedService, validate, logger)
	evaluationService := service.NewEvaluationService(service.EvaluationServiceDeps{
		Evaluations:  evaluationRepo,
		Candidates:   candidateRepo,
		MCQ:          mcqRepo,
		Text:         textRepo,
		Psychometric: psychometricRepo,
		Proctor:      proctorRepo,
		Grader:       grader,
		Redis:        redisClient,
		CacheTTL:     cfg.DashboardCacheTTL,
		Validator:    validate,
		Logger:       logger,
		AIProvider:   cfg.AIProvider,
	})
	rosterService := service.NewRosterService(candidateRepo, mcqRepo, textRepo, validate, logger)
	codeService := service.NewCodeExecutionService(executor, validate, logger, service.CodeExecutionConfig{
		ExecutionTimeout: cfg.ExecutionTimeout,
		MemoryLimitMB:    cfg.CodeRunMemoryMB,
		CPUShares:        cfg.CodeRunCPUShares,
	})
	resumeService := service.NewResumeService(candidateRepo, resumeStorage, 10, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})

	router.Register(app, cfg, router.Dependencies{
		Auth:          handler.NewAuthHandler(authService, logger),
		MCQ:           handler.NewMCQHandler(mcqService, logger),
		Text:          handler.NewTextHandler(textService, logger),
		Psychometric:  handler.NewPsychometricHandler(psychometricService, logger),
		Proctor:       handler.NewProctorHandler(proctorService, feedService, logger),
		Dashboard:     handler.NewDashboardHandler(evaluationService, logger),
		Roster:        handler.NewRosterHandler(rosterService, logger),
		Code:          handler.NewCodeHandler(codeService, logger),
		Resume:        handler.NewResumeHandler(resumeService, logger),
		JWTMiddleware: middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Msg("starting http server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("http server stopped")
		}
	}()

	waitForShutdown(app, stopFeed, logger)
}

func buildGrader(cfg config.Config, logger zerolog.Logger) ai.Grader {
	switch cfg.AIProvider {
	case "anthropic":
		grader, err := ai.NewAnthropicGrader(ai.AnthropicConfig{
			APIKey: cfg.AnthropicAPIKey,
			Model:  cfg.AIModel,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("anthropic grader unavailable, ai grading disabled")
			return nil
		}
		return grader
	default:
		grader, err := ai.NewOpenAIGrader(ai.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.AIBaseURL,
			Model:   cfg.AIModel,
			Logger:  logger,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("openai grader unavailable, ai grading disabled")
			return nil
		}
		return grader
	}
}

func waitForShutdown(app *fiber.App, stopFeed context.CancelFunc, logger zerolog.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	stopFeed()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
