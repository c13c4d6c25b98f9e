package bodymetrics

import (
	"fmt"
	"math"

	"BodyMeasure/internal/entity"
)

type catalogEntry struct {
	name       entity.MeasurementName
	method     string
	from, to   entity.LandmarkIndex
	derived    bool
	confidence float64
}

// catalog is evaluated in order; derived entries are scaled by Config.WaistToHipRatio.
var catalog = []catalogEntry{
	{entity.MeasurementHeight, "nose_to_ankle_distance", entity.Nose, entity.LeftAnkle, false, 0.90},
	{entity.MeasurementShoulderWidth, "shoulder_to_shoulder_distance", entity.LeftShoulder, entity.RightShoulder, false, 0.85},
	{entity.MeasurementArmLength, "shoulder_to_wrist_distance", entity.LeftShoulder, entity.LeftWrist, false, 0.80},
	{entity.MeasurementWaist, "hip_width_estimation", entity.LeftHip, entity.RightHip, true, 0.60},
	{entity.MeasurementHips, "hip_to_hip_distance", entity.LeftHip, entity.RightHip, false, 0.80},
	{entity.MeasurementInseam, "hip_to_ankle_distance", entity.LeftHip, entity.LeftAnkle, false, 0.85},
	{entity.MeasurementTorsoLength, "shoulder_to_hip_distance", entity.LeftShoulder, entity.LeftHip, false, 0.80},
}

// CatalogNames lists the measurements the calculator produces, in output order.
func CatalogNames() []string {
	names := make([]string, 0, len(catalog))
	for _, e := range catalog {
		names = append(names, string(e.name))
	}
	return names
}

// CalculateMeasurements evaluates every catalog entry independently. An entry
// that fails is left out and reported; the rest are still returned.
func CalculateMeasurements(set entity.LandmarkSet, calibration entity.CalibrationResult, cfg Config) ([]entity.MeasurementResult, []error) {
	results := make([]entity.MeasurementResult, 0, len(catalog))
	var errs []error

	for _, e := range catalog {
		m, err := measure(set, calibration, cfg, e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, m)
	}

	return results, errs
}

func measure(set entity.LandmarkSet, calibration entity.CalibrationResult, cfg Config, e catalogEntry) (entity.MeasurementResult, error) {
	if int(e.from) >= len(set.Landmarks) || int(e.to) >= len(set.Landmarks) {
		return entity.MeasurementResult{}, fmt.Errorf("%s: %w: %s-%s missing", e.name, ErrInvalidLandmarkPair, e.from, e.to)
	}

	pixels := Distance(set.At(e.from), set.At(e.to))
	if e.derived {
		pixels *= cfg.WaistToHipRatio
	}

	value := pixels * calibration.PixelToUnitRatio
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return entity.MeasurementResult{}, fmt.Errorf("%s: %w: %s-%s", e.name, ErrInvalidLandmarkPair, e.from, e.to)
	}

	return entity.MeasurementResult{
		Name:       e.name,
		Value:      value,
		Confidence: e.confidence,
		Method:     e.method,
	}, nil
}
