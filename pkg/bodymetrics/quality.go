package bodymetrics

import (
	"math"

	"BodyMeasure/internal/entity"
)

var keyLandmarks = [...]entity.LandmarkIndex{
	entity.Nose,
	entity.LeftShoulder, entity.RightShoulder,
	entity.LeftHip, entity.RightHip,
	entity.LeftKnee, entity.RightKnee,
	entity.LeftAnkle, entity.RightAnkle,
}

// PoseConfidence averages visibility over the key body points that report one.
func PoseConfidence(landmarks []entity.Landmark) float64 {
	total := 0.0
	counted := 0

	for _, idx := range keyLandmarks {
		if int(idx) >= len(landmarks) || landmarks[idx].Visibility == nil {
			continue
		}
		total += *landmarks[idx].Visibility
		counted++
	}

	if counted == 0 {
		return 0.0
	}
	return total / float64(counted)
}

// OverallAccuracy blends mean measurement confidence with pose confidence and
// keeps the result within [0, 1].
func OverallAccuracy(measurements []entity.MeasurementResult, poseConfidence float64, cfg Config) float64 {
	if len(measurements) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, m := range measurements {
		sum += m.Confidence
	}
	mean := sum / float64(len(measurements))

	accuracy := mean*cfg.MeasurementWeight + poseConfidence*cfg.PoseWeight
	return math.Max(0, math.Min(accuracy, 1.0))
}
