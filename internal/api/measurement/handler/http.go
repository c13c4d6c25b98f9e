package measurementHandler

import (
	measurementService "BodyMeasure/internal/api/measurement/service"
	"BodyMeasure/internal/middleware"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type MeasurementHandler struct {
	log                *logrus.Logger
	validator          *validator.Validate
	middleware         middleware.Middleware
	measurementService measurementService.IMeasurementService
	timeout            time.Duration
	requirements       Requirements
}

// Requirements is what the test endpoint advertises to clients.
type Requirements struct {
	ImageTypes   []string `json:"image_types"`
	MaxFileSize  string   `json:"max_file_size"`
	MaxBatchSize int      `json:"max_batch_size"`
	// MaxFileBytes bounds websocket frames; zero leaves them unbounded.
	MaxFileBytes int64 `json:"-"`
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ms measurementService.IMeasurementService,
	timeout time.Duration,
	requirements Requirements,
) *MeasurementHandler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &MeasurementHandler{
		log:                log,
		validator:          validate,
		middleware:         middleware,
		measurementService: ms,
		timeout:            timeout,
		requirements:       requirements,
	}
}

func (h *MeasurementHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	measurements := srv.Group("/measurements")

	measurements.Get("/test", h.Test)
	measurements.Get("/models/info", h.ModelInfo)

	measurements.Post("/extract", h.middleware.NewRateLimiter, h.Extract)
	measurements.Post("/extract-file", h.middleware.NewRateLimiter, h.ExtractFile)
	measurements.Post("/batch", h.middleware.NewRateLimiter, h.ExtractBatch)
	measurements.Post("/validate", h.Validate)

	measurements.Use("/ws", wsMiddleware)
	measurements.Get("/ws", websocket.New(h.handleStream))

	measurements.Post("/records", h.middleware.NewTokenMiddleware, h.CreateRecord)
	measurements.Get("/records", h.middleware.NewTokenMiddleware, h.GetCustomerRecords)
	measurements.Get("/records/:id", h.middleware.NewTokenMiddleware, h.GetRecord)
	measurements.Get("/records/:id/validation", h.middleware.NewTokenMiddleware, h.ValidateRecord)
	measurements.Post("/ai-results/:id/save", h.middleware.NewTokenMiddleware, h.SaveAIResult)
}
