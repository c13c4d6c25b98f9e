package entity

type ValidationStatus string

const (
	ValidationPassed      ValidationStatus = "PASSED"
	ValidationNeedsReview ValidationStatus = "NEEDS_REVIEW"
)

type FieldComparison struct {
	Field                string  `json:"field"`
	AIValue              float64 `json:"ai_value"`
	ReferenceValue       float64 `json:"manual_value"`
	AbsoluteDifference   float64 `json:"difference"`
	PercentageDifference float64 `json:"percentage_difference"`
	Acceptable           bool    `json:"acceptable"`
}

type ValidationSummary struct {
	TotalCompared int              `json:"total_compared"`
	Acceptable    int              `json:"acceptable"`
	Accuracy      string           `json:"accuracy"`
	Status        ValidationStatus `json:"status"`
}

// ValidationResult compares two measurement sets. When Available is false only
// Message is meaningful.
type ValidationResult struct {
	Available                    bool               `json:"validation_available"`
	Message                      string             `json:"message,omitempty"`
	Passed                       bool               `json:"validation_passed"`
	AccuracyScore                float64            `json:"accuracy_score"`
	AverageDiscrepancyPercentage float64            `json:"average_discrepancy_percentage"`
	ComparedFields               int                `json:"compared_fields"`
	AcceptableMeasurements       int                `json:"acceptable_measurements"`
	Comparisons                  []FieldComparison  `json:"comparisons"`
	Discrepancies                map[string]float64 `json:"discrepancies,omitempty"`
	Summary                      *ValidationSummary `json:"summary,omitempty"`
}
