package bodymetrics

import (
	"fmt"
	"math"

	"BodyMeasure/internal/entity"
)

const NoComparableFieldsMessage = "No comparable measurements found"

// Validator compares two measurement maps field by field. It holds no state.
type Validator struct {
	cfg ValidationConfig
}

func NewValidator(cfg ValidationConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Validate compares ai against reference. Percentages use the reference value
// as denominator, so swapping the arguments changes them.
func (v *Validator) Validate(ai, reference map[string]float64) entity.ValidationResult {
	comparisons := make([]entity.FieldComparison, 0, len(entity.ValidationFields))
	discrepancies := make(map[string]float64)
	totalPct := 0.0
	acceptable := 0

	for _, field := range entity.ValidationFields {
		a, okA := ai[field]
		b, okB := reference[field]
		if !okA || !okB {
			continue
		}

		diff := math.Abs(a - b)
		pct := 0.0
		if b > 0 {
			pct = diff / b * 100
		}
		ok := pct <= v.cfg.TolerancePercent
		if ok {
			acceptable++
		}

		comparisons = append(comparisons, entity.FieldComparison{
			Field:                field,
			AIValue:              a,
			ReferenceValue:       b,
			AbsoluteDifference:   diff,
			PercentageDifference: pct,
			Acceptable:           ok,
		})
		discrepancies[field] = diff
		totalPct += pct
	}

	compared := len(comparisons)
	if compared == 0 {
		return entity.ValidationResult{
			Available:   false,
			Message:     NoComparableFieldsMessage,
			Comparisons: []entity.FieldComparison{},
		}
	}

	average := totalPct / float64(compared)
	score := math.Max(0, 100-average) / 100
	passed := float64(acceptable)/float64(compared) >= v.cfg.PassRatio

	status := entity.ValidationNeedsReview
	if passed {
		status = entity.ValidationPassed
	}

	return entity.ValidationResult{
		Available:                    true,
		Passed:                       passed,
		AccuracyScore:                score,
		AverageDiscrepancyPercentage: average,
		ComparedFields:               compared,
		AcceptableMeasurements:       acceptable,
		Comparisons:                  comparisons,
		Discrepancies:                discrepancies,
		Summary: &entity.ValidationSummary{
			TotalCompared: compared,
			Acceptable:    acceptable,
			Accuracy:      fmt.Sprintf("%.1f%%", score*100),
			Status:        status,
		},
	}
}
