package measurementService

import (
	"BodyMeasure/internal/api/measurement"
	"BodyMeasure/internal/entity"
	"BodyMeasure/pkg/bodymetrics"
	contextPkg "BodyMeasure/pkg/context"
	"BodyMeasure/pkg/utils"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

const defaultImageType = "image/jpeg"

func (s *measurementService) ExtractBase64(ctx context.Context, req measurement.ExtractRequest) (measurement.ExtractResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	start := time.Now()

	contentType := req.ImageType
	if contentType == "" {
		contentType = defaultImageType
	}

	if !s.opts.isAllowedImageType(contentType) {
		s.stats.Increment(false, time.Since(start))
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"image_type": contentType,
		}).Warn("Unsupported image type")
		return measurement.ExtractResponse{}, measurement.ErrUnsupportedImageType
	}

	data, err := s.utils.DecodeBase64Image(req.ImageData)
	if err != nil {
		s.stats.Increment(false, time.Since(start))
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to decode base64 image")
		if errors.Is(err, utils.ErrImageTooLarge) {
			return measurement.ExtractResponse{}, measurement.ErrFileTooLarge
		}
		return measurement.ExtractResponse{}, measurement.ErrInvalidImageData
	}

	return s.ExtractImage(ctx, measurement.ImageInput{
		Data:            data,
		ContentType:     contentType,
		Filename:        req.Filename,
		CustomerID:      req.CustomerID,
		ReferenceHeight: req.ReferenceHeight,
		Stage:           true,
	})
}

func (s *measurementService) ExtractImage(ctx context.Context, in measurement.ImageInput) (measurement.ExtractResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	start := time.Now()

	reject := func(err error, msg string) (measurement.ExtractResponse, error) {
		s.stats.Increment(false, time.Since(start))
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"filename":   in.Filename,
			"size":       len(in.Data),
			"error":      err.Error(),
		}).Warn(msg)
		return measurement.ExtractResponse{}, err
	}

	if !s.opts.isAllowedImageType(in.ContentType) {
		return reject(measurement.ErrUnsupportedImageType, "Unsupported image type")
	}
	if len(in.Data) == 0 {
		return reject(measurement.ErrInvalidImageData, "Empty image data")
	}
	if int64(len(in.Data)) > s.opts.MaxFileSize {
		return reject(measurement.ErrFileTooLarge, "Image exceeds maximum file size")
	}

	width, height, err := s.utils.ImageDimensions(in.Data)
	if err != nil {
		return reject(measurement.ErrInvalidImageData, "Failed to read image dimensions")
	}

	set := s.compute(ctx, in.Data, width, height, in.ReferenceHeight)
	set.ProcessingTime = time.Since(start).Seconds()
	s.stats.Increment(set.Success, time.Since(start))

	resp := measurement.ExtractResponse{MeasurementSet: set}

	if in.Archive {
		url, err := s.archivePhoto(ctx, in)
		if err != nil {
			resp.Warnings = append(resp.Warnings, "Photo archive failed: "+err.Error())
		} else {
			resp.PhotoURL = url
		}
	}

	if in.Stage && set.Success {
		resultID, err := s.stageResult(ctx, in.CustomerID, resp.PhotoURL, set)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to stage measurement result")
		} else {
			resp.ResultID = resultID
		}
	}

	s.log.WithFields(logrus.Fields{
		"request_id":       requestID,
		"success":          set.Success,
		"measurements":     len(set.Measurements),
		"overall_accuracy": set.OverallAccuracy,
		"processing_time":  set.ProcessingTime,
	}).Info("Measurement extraction finished")

	return resp, nil
}

func (s *measurementService) ProcessFrame(ctx context.Context, frame []byte, referenceHeight *float64) entity.MeasurementSet {
	start := time.Now()

	if int64(len(frame)) > s.opts.MaxFileSize {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"size":       len(frame),
			"max":        s.opts.MaxFileSize,
		}).Warn("Frame exceeds maximum file size")
		s.stats.Increment(false, time.Since(start))
		set := entity.NewFailedMeasurementSet(0, 0, "Image exceeds maximum file size")
		set.ProcessingTime = time.Since(start).Seconds()
		return set
	}

	width, height, err := s.utils.ImageDimensions(frame)
	if err != nil {
		s.stats.Increment(false, time.Since(start))
		set := entity.NewFailedMeasurementSet(0, 0, "Invalid image data: "+err.Error())
		set.ProcessingTime = time.Since(start).Seconds()
		return set
	}

	set := s.compute(ctx, frame, width, height, referenceHeight)
	set.ProcessingTime = time.Since(start).Seconds()
	s.stats.Increment(set.Success, time.Since(start))

	return set
}

// compute never fails: collaborator and engine failures come back as a
// failed MeasurementSet.
func (s *measurementService) compute(ctx context.Context, data []byte, width, height int, referenceHeight *float64) entity.MeasurementSet {
	requestID := contextPkg.GetRequestID(ctx)

	detection, err := s.pose.Detect(ctx, data)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Pose estimation failed")
		return entity.NewFailedMeasurementSet(width, height, "Pose estimation error: "+err.Error())
	}

	var landmarks []entity.Landmark
	if detection != nil {
		landmarks = detection.Landmarks
	}

	set, err := s.engine.Compute(landmarks, width, height, referenceHeight)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"landmarks":  len(landmarks),
			"error":      err.Error(),
		}).Warn("Measurement engine rejected pose output")
	}

	return set
}

func (s *measurementService) archivePhoto(ctx context.Context, in measurement.ImageInput) (string, error) {
	if s.s3 == nil {
		return "", errors.New("photo storage is not configured")
	}

	filename := in.Filename
	if filename == "" {
		filename = "photo"
	}

	url, err := s.s3.UploadImage(in.Data, filename, in.ContentType)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to archive photo")
		return "", err
	}

	return url, nil
}

func (s *measurementService) stageResult(ctx context.Context, customerID, photoURL string, set entity.MeasurementSet) (string, error) {
	if s.redis == nil {
		return "", measurement.ErrStagingUnavailable
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to generate result id: %w", err)
	}

	staged := measurement.StagedResult{
		ID:         id,
		CustomerID: customerID,
		PhotoURL:   photoURL,
		Result:     set,
		CreatedAt:  time.Now(),
	}

	if err := s.redis.StageResult(ctx, id, staged, s.opts.AIResultTTL); err != nil {
		return "", err
	}

	return id, nil
}

func (s *measurementService) ExtractBatch(ctx context.Context, req measurement.BatchRequest) (measurement.BatchResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if len(req.Images) > s.opts.MaxBatchSize {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"images":     len(req.Images),
			"max":        s.opts.MaxBatchSize,
		}).Warn("Batch size too large")
		return measurement.BatchResponse{}, measurement.ErrBatchTooLarge
	}

	start := time.Now()
	results := make([]measurement.ExtractResponse, len(req.Images))

	var g errgroup.Group
	g.SetLimit(s.opts.BatchConcurrency)

	for i, image := range req.Images {
		i, image := i, image
		if image.CustomerID == "" {
			image.CustomerID = req.CustomerID
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				s.stats.Increment(false, 0)
				results[i] = failedResponse(err)
				return nil
			}

			resp, err := s.ExtractBase64(ctx, image)
			if err != nil {
				results[i] = failedResponse(err)
				return nil
			}
			results[i] = resp
			return nil
		})
	}
	_ = g.Wait()

	res := measurement.BatchResponse{
		TotalImages: len(req.Images),
		Results:     results,
	}

	totalProcessing := 0.0
	for _, r := range results {
		totalProcessing += r.ProcessingTime
		if r.Success {
			res.SuccessfulExtractions++
		} else {
			res.FailedExtractions++
		}
	}
	if len(results) > 0 {
		res.AverageProcessingTime = totalProcessing / float64(len(results))
	}
	res.BatchProcessingTime = time.Since(start).Seconds()

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"total":      res.TotalImages,
		"successful": res.SuccessfulExtractions,
	}).Info("Batch processing complete")

	return res, nil
}

func failedResponse(err error) measurement.ExtractResponse {
	return measurement.ExtractResponse{
		MeasurementSet: entity.NewFailedMeasurementSet(0, 0, "Processing error: "+err.Error()),
	}
}

func (s *measurementService) Validate(ctx context.Context, req measurement.ValidateRequest) entity.ValidationResult {
	result := s.validator.Validate(req.AIMeasurements, req.ReferenceMeasurements)

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"compared":   result.ComparedFields,
		"passed":     result.Passed,
	}).Debug("Validated measurement sets")

	return result
}

func (s *measurementService) ModelInfo() measurement.ModelInfoResponse {
	return measurement.ModelInfoResponse{
		PoseModel: measurement.PoseModelInfo{
			ModelComplexity:        s.opts.PoseModelComplexity,
			MinDetectionConfidence: s.opts.PoseMinDetectionConfidence,
			MinTrackingConfidence:  s.opts.PoseMinTrackingConfidence,
			SupportedLandmarks:     entity.LandmarkCount,
			Landmarks:              entity.LandmarkNames(),
			Capabilities: []string{
				"Full body pose detection",
				"Landmark visibility scoring",
				"Real-time processing",
			},
		},
		MeasurementCapabilities: measurement.MeasurementCapabilitiesInfo{
			SupportedMeasurements: bodymetrics.CatalogNames(),
			AccuracyRange:         "70-90% depending on image quality",
			RecommendedConditions: []string{
				"Good lighting",
				"Plain background",
				"Fitted clothing",
				"Full body visible",
				"Standing straight",
			},
		},
	}
}
