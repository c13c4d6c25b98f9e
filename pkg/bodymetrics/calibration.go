package bodymetrics

import (
	"fmt"
	"math"

	"BodyMeasure/internal/entity"
)

// Distance is the planar Euclidean distance between two landmarks; depth is ignored.
func Distance(a, b entity.Landmark) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Calibrate derives the pixel-to-centimetre ratio from the nose-to-left-ankle
// span. A nil referenceHeight falls back to the configured default height.
func Calibrate(set entity.LandmarkSet, referenceHeight *float64, cfg Config) (entity.CalibrationResult, error) {
	headToAnkle := Distance(set.At(entity.Nose), set.At(entity.LeftAnkle))
	if math.IsNaN(headToAnkle) || math.IsInf(headToAnkle, 0) || headToAnkle < cfg.MinReferencePixels {
		return entity.CalibrationResult{}, fmt.Errorf("%w: %.4f px", ErrDegenerateCalibration, headToAnkle)
	}

	realSize := cfg.DefaultReferenceHeight
	confidence := cfg.EstimatedReferenceConfidence
	if referenceHeight != nil {
		if !(*referenceHeight > 0) {
			return entity.CalibrationResult{}, ErrInvalidReferenceHeight
		}
		realSize = *referenceHeight
		confidence = cfg.UserReferenceConfidence
	}

	return entity.CalibrationResult{
		ReferencePixels:   headToAnkle,
		ReferenceRealSize: realSize,
		PixelToUnitRatio:  realSize / headToAnkle,
		Confidence:        confidence,
	}, nil
}
