// Package bodymetrics turns pose landmarks into body measurements and compares
// measurement sets against each other.
package bodymetrics

// Config holds the fixed constants of the measurement pipeline.
type Config struct {
	// DefaultReferenceHeight is assumed when the caller supplies no height (cm).
	DefaultReferenceHeight float64
	// MinReferencePixels is the smallest nose-to-ankle distance accepted for calibration.
	MinReferencePixels float64

	UserReferenceConfidence      float64
	EstimatedReferenceConfidence float64

	// WaistToHipRatio approximates waist from hip width. It is a heuristic that
	// has not been validated against ground truth.
	WaistToHipRatio float64

	MeasurementWeight float64
	PoseWeight        float64

	LowPoseConfidence        float64
	RetakePoseConfidence     float64
	LowMeasurementConfidence float64
	MinMeasurementCount      int

	// ModelComplexity is reported in result metadata only.
	ModelComplexity int
}

func DefaultConfig() Config {
	return Config{
		DefaultReferenceHeight:       170.0,
		MinReferencePixels:           1.0,
		UserReferenceConfidence:      0.9,
		EstimatedReferenceConfidence: 0.7,
		WaistToHipRatio:              0.75,
		MeasurementWeight:            0.7,
		PoseWeight:                   0.3,
		LowPoseConfidence:            0.7,
		RetakePoseConfidence:         0.5,
		LowMeasurementConfidence:     0.7,
		MinMeasurementCount:          5,
		ModelComplexity:              1,
	}
}

type ValidationConfig struct {
	// TolerancePercent is the largest deviation still considered consistent.
	TolerancePercent float64
	// PassRatio is the share of acceptable fields needed to pass.
	PassRatio float64
}

func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		TolerancePercent: 10,
		PassRatio:        0.7,
	}
}
