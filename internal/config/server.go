package config

import (
	"BodyMeasure/database/postgres"
	healthHandler "BodyMeasure/internal/api/health/handler"
	measurementHandler "BodyMeasure/internal/api/measurement/handler"
	measurementRepository "BodyMeasure/internal/api/measurement/repository"
	measurementService "BodyMeasure/internal/api/measurement/service"
	"BodyMeasure/internal/middleware"
	"BodyMeasure/pkg/bodymetrics"
	"BodyMeasure/pkg/pose"
	"BodyMeasure/pkg/redis"
	"BodyMeasure/pkg/s3"
	"BodyMeasure/pkg/stats"
	"BodyMeasure/pkg/utils"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type ServerOption func(*Server) error

type Server struct {
	engine       *fiber.App
	db           *sqlx.DB
	log          *logrus.Logger
	settings     *Settings
	middleware   middleware.Middleware
	validator    *validator.Validate
	utils        utils.IUtils
	handlers     []handler
	redisServer  redis.IRedis
	poseClient   pose.IPoseEstimator
	s3Client     s3.ItfS3
	statsTracker stats.IStats
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.settings == nil {
		return nil, fmt.Errorf("settings are required")
	}
	if server.middleware == nil {
		return nil, fmt.Errorf("middleware is required")
	}
	if server.statsTracker == nil {
		server.statsTracker = stats.New()
	}
	if server.utils == nil {
		server.utils = utils.NewWithMaxFileSize(server.settings.MaxFileSize)
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithSettings(settings *Settings) ServerOption {
	return func(s *Server) error {
		s.settings = settings
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithPoseEstimator(poseClient pose.IPoseEstimator) ServerOption {
	return func(s *Server) error {
		s.poseClient = poseClient
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		if os.Getenv("AWS_BUCKET_NAME") == "" {
			if s.log != nil {
				s.log.Warn("AWS_BUCKET_NAME not set, photo archiving disabled")
			}
			return nil
		}

		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithStats(tracker stats.IStats) ServerOption {
	return func(s *Server) error {
		s.statsTracker = tracker
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.settings == nil {
			s.middleware = middleware.New(s.log)
			return nil
		}
		s.middleware = middleware.NewWithRateLimit(s.log, rate.Limit(s.settings.RateLimit), s.settings.RateBurst)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		if s.settings != nil {
			s.utils = utils.NewWithMaxFileSize(s.settings.MaxFileSize)
			return nil
		}
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) serviceOptions() measurementService.Options {
	return measurementService.Options{
		MaxFileSize:                s.settings.MaxFileSize,
		AllowedImageTypes:          s.settings.AllowedImageTypes,
		MaxBatchSize:               s.settings.MaxBatchSize,
		BatchConcurrency:           s.settings.BatchConcurrency,
		AIResultTTL:                s.settings.AIResultTTL,
		PoseModelComplexity:        s.settings.PoseModelComplexity,
		PoseMinDetectionConfidence: s.settings.PoseMinDetectionConfidence,
		PoseMinTrackingConfidence:  s.settings.PoseMinTrackingConfidence,
	}
}

func (s *Server) RegisterHandler() {
	engineConfig := bodymetrics.DefaultConfig()
	engineConfig.ModelComplexity = s.settings.PoseModelComplexity

	// Measurement Domain
	measurementRepo := measurementRepository.New(s.db, s.log)
	measurementServices := measurementService.NewMeasurementService(
		s.log,
		measurementRepo,
		s.redisServer,
		s.s3Client,
		s.poseClient,
		bodymetrics.NewEngine(engineConfig),
		bodymetrics.NewValidator(bodymetrics.DefaultValidationConfig()),
		s.statsTracker,
		s.utils,
		s.serviceOptions(),
	)
	measurementHandlers := measurementHandler.New(
		s.log,
		s.validator,
		s.middleware,
		measurementServices,
		s.settings.RequestTimeout,
		measurementHandler.Requirements{
			ImageTypes:   s.settings.AllowedImageTypes,
			MaxFileSize:  fmt.Sprintf("%.1fMB", float64(s.settings.MaxFileSize)/(1024*1024)),
			MaxBatchSize: s.settings.MaxBatchSize,
			MaxFileBytes: s.settings.MaxFileSize,
		},
	)

	// Health
	var db healthHandler.Pinger
	if s.db != nil {
		db = s.db
	}
	healthHandlers := healthHandler.New(s.log, s.statsTracker, s.poseClient, s.redisServer, db, healthHandler.ServiceInfo{
		Name:        s.settings.AppName,
		Version:     s.settings.AppVersion,
		Environment: s.settings.Environment,
		Debug:       s.settings.Debug,
		MaxFileSize: s.settings.MaxFileSize,
		MaxBatch:    s.settings.MaxBatchSize,
	})

	s.setupRoot()
	s.handlers = append(s.handlers, healthHandlers, measurementHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := s.settings.Port
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown(timeout time.Duration) error {
	if s.poseClient != nil {
		s.poseClient.Close()
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Errorf("Failed to close database: %v", err)
		}
	}
	return s.engine.ShutdownWithTimeout(timeout)
}

func (s *Server) setupRoot() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": s.settings.AppName + " is running",
			"version": s.settings.AppVersion,
			"status":  "healthy",
		})
	})
}
