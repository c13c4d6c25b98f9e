package bodymetrics

import (
	"errors"
	"time"

	"BodyMeasure/internal/entity"
)

const NoPoseDetectedMessage = "No pose detected in image"

// Engine runs normalize -> calibrate -> measure -> score -> recommend. It keeps
// no state between calls and is safe for concurrent use.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Compute builds a MeasurementSet from normalized landmarks. A non-nil error is
// returned only for invalid input; the returned set then describes the failure.
func (e *Engine) Compute(landmarks []entity.Landmark, width, height int, referenceHeight *float64) (entity.MeasurementSet, error) {
	start := time.Now()

	if len(landmarks) == 0 {
		set := entity.NewFailedMeasurementSet(width, height, NoPoseDetectedMessage)
		set.Recommendations = NoDetectionRecommendations()
		set.ProcessingTime = time.Since(start).Seconds()
		return set, nil
	}

	if referenceHeight != nil && !(*referenceHeight > 0) {
		return e.rejected(width, height, start, ErrInvalidReferenceHeight)
	}

	pixels, err := Normalize(landmarks, width, height)
	if err != nil {
		return e.rejected(width, height, start, err)
	}

	poseConfidence := PoseConfidence(pixels.Landmarks)
	pixels.PoseConfidence = poseConfidence

	calibration, err := Calibrate(pixels, referenceHeight, e.cfg)
	if err != nil {
		if errors.Is(err, ErrInvalidReferenceHeight) {
			return e.rejected(width, height, start, err)
		}
		set := entity.NewFailedMeasurementSet(width, height, "Calibration failed: "+err.Error())
		set.PoseConfidence = poseConfidence
		set.Recommendations = Recommend(nil, poseConfidence, e.cfg)
		set.Metadata["landmarks_count"] = len(pixels.Landmarks)
		set.ProcessingTime = time.Since(start).Seconds()
		return set, nil
	}

	measurements, measureErrs := CalculateMeasurements(pixels, calibration, e.cfg)

	set := entity.MeasurementSet{
		Success:         len(measurements) > 0,
		Measurements:    measurements,
		Calibration:     &calibration,
		ImageWidth:      width,
		ImageHeight:     height,
		PoseConfidence:  poseConfidence,
		OverallAccuracy: OverallAccuracy(measurements, poseConfidence, e.cfg),
		Recommendations: Recommend(measurements, poseConfidence, e.cfg),
		Errors:          []string{},
		Warnings:        make([]string, 0, len(measureErrs)),
		Metadata: map[string]interface{}{
			"landmarks_count":  len(pixels.Landmarks),
			"calibration":      calibration,
			"model_complexity": e.cfg.ModelComplexity,
		},
	}
	for _, err := range measureErrs {
		set.Warnings = append(set.Warnings, "Measurement skipped: "+err.Error())
	}
	if !set.Success {
		set.Errors = append(set.Errors, "No measurements could be calculated")
	}

	set.ProcessingTime = time.Since(start).Seconds()
	return set, nil
}

func (e *Engine) rejected(width, height int, start time.Time, err error) (entity.MeasurementSet, error) {
	set := entity.NewFailedMeasurementSet(width, height, "Invalid input: "+err.Error())
	set.ProcessingTime = time.Since(start).Seconds()
	return set, err
}
