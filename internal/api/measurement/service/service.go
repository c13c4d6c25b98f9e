package measurementService

import (
	"BodyMeasure/internal/api/measurement"
	measurementRepository "BodyMeasure/internal/api/measurement/repository"
	"BodyMeasure/internal/entity"
	"BodyMeasure/pkg/bodymetrics"
	"BodyMeasure/pkg/pose"
	"BodyMeasure/pkg/redis"
	"BodyMeasure/pkg/s3"
	"BodyMeasure/pkg/stats"
	"BodyMeasure/pkg/utils"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IMeasurementService interface {
	ExtractBase64(ctx context.Context, req measurement.ExtractRequest) (measurement.ExtractResponse, error)
	ExtractImage(ctx context.Context, in measurement.ImageInput) (measurement.ExtractResponse, error)
	ExtractBatch(ctx context.Context, req measurement.BatchRequest) (measurement.BatchResponse, error)
	ProcessFrame(ctx context.Context, frame []byte, referenceHeight *float64) entity.MeasurementSet
	Validate(ctx context.Context, req measurement.ValidateRequest) entity.ValidationResult
	ModelInfo() measurement.ModelInfoResponse

	CreateRecord(ctx context.Context, designerID string, req measurement.CreateRecordRequest) (entity.MeasurementRecord, error)
	GetRecord(ctx context.Context, id string) (entity.MeasurementRecord, error)
	GetCustomerRecords(ctx context.Context, customerID string) ([]entity.MeasurementRecord, error)
	SaveAIResult(ctx context.Context, designerID string, resultID string, req measurement.SaveAIResultRequest) (measurement.SaveAIResultResponse, error)
	ValidateRecord(ctx context.Context, id string) (measurement.RecordValidationResponse, error)
}

type Options struct {
	MaxFileSize       int64
	AllowedImageTypes []string
	MaxBatchSize      int
	BatchConcurrency  int
	AIResultTTL       time.Duration

	PoseModelComplexity        int
	PoseMinDetectionConfidence float64
	PoseMinTrackingConfidence  float64
}

func DefaultOptions() Options {
	return Options{
		MaxFileSize:                10 * 1024 * 1024,
		AllowedImageTypes:          []string{"image/jpeg", "image/jpg", "image/png"},
		MaxBatchSize:               10,
		BatchConcurrency:           4,
		AIResultTTL:                24 * time.Hour,
		PoseModelComplexity:        1,
		PoseMinDetectionConfidence: 0.5,
		PoseMinTrackingConfidence:  0.5,
	}
}

func (o Options) isAllowedImageType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, t := range o.AllowedImageTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

type measurementService struct {
	log                   *logrus.Logger
	measurementRepository measurementRepository.Repository
	redis                 redis.IRedis
	s3                    s3.ItfS3
	pose                  pose.IPoseEstimator
	engine                *bodymetrics.Engine
	validator             *bodymetrics.Validator
	stats                 stats.IStats
	utils                 utils.IUtils
	opts                  Options
}

func NewMeasurementService(
	log *logrus.Logger,
	mr measurementRepository.Repository,
	redis redis.IRedis,
	s3 s3.ItfS3,
	pose pose.IPoseEstimator,
	engine *bodymetrics.Engine,
	validator *bodymetrics.Validator,
	stats stats.IStats,
	utils utils.IUtils,
	opts Options,
) IMeasurementService {
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 1
	}

	return &measurementService{
		log:                   log,
		measurementRepository: mr,
		redis:                 redis,
		s3:                    s3,
		pose:                  pose,
		engine:                engine,
		validator:             validator,
		stats:                 stats,
		utils:                 utils,
		opts:                  opts,
	}
}
