package main

import (
	"BodyMeasure/internal/config"
	"BodyMeasure/pkg/log"
	"BodyMeasure/pkg/pose"
	"BodyMeasure/pkg/redis"
	"BodyMeasure/pkg/stats"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		logger.Fatalf("Error loading settings: %v", err)
	}

	fiberApp := config.NewFiber(settings)
	validator := config.NewValidator()
	redisServer := redis.New()
	poseEstimator := pose.New(pose.Options{
		ModelComplexity:        settings.PoseModelComplexity,
		MinDetectionConfidence: settings.PoseMinDetectionConfidence,
		MinTrackingConfidence:  settings.PoseMinTrackingConfidence,
	})

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithSettings(settings),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithRedisServer(redisServer),
		config.WithPoseEstimator(poseEstimator),
		config.WithS3Client(),
		config.WithStats(stats.New()),
		config.WithMiddleware(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Infof("%s v%s started on port %s", settings.AppName, settings.AppVersion, settings.Port)

	<-sigChan
	logger.Info("Shutting down server...")

	if err := server.Shutdown(10 * time.Second); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
