package healthHandler

import (
	"BodyMeasure/pkg/pose"
	"BodyMeasure/pkg/redis"
	"BodyMeasure/pkg/stats"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type ServiceInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Debug       bool   `json:"debug"`
	MaxFileSize int64  `json:"max_file_size"`
	MaxBatch    int    `json:"max_batch_size"`
}

type HealthHandler struct {
	log       *logrus.Logger
	stats     stats.IStats
	pose      pose.IPoseEstimator
	redis     redis.IRedis
	db        Pinger
	info      ServiceInfo
	startedAt time.Time
}

func New(
	log *logrus.Logger,
	stats stats.IStats,
	pose pose.IPoseEstimator,
	redis redis.IRedis,
	db Pinger,
	info ServiceInfo,
) *HealthHandler {
	return &HealthHandler{
		log:       log,
		stats:     stats,
		pose:      pose,
		redis:     redis,
		db:        db,
		info:      info,
		startedAt: time.Now(),
	}
}

func (h *HealthHandler) Start(srv fiber.Router) {
	srv.Get("/health", h.Health)

	health := srv.Group("/health")
	health.Get("/detailed", h.Detailed)
	health.Get("/stats", h.Stats)
}
