package bodymetrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"BodyMeasure/internal/entity"
)

func TestValidate_ToleranceBoundary(t *testing.T) {
	v := NewValidator(DefaultValidationConfig())

	res := v.Validate(map[string]float64{"waist": 100}, map[string]float64{"waist": 90})
	require.True(t, res.Available)
	require.Len(t, res.Comparisons, 1)
	require.InDelta(t, 11.11, res.Comparisons[0].PercentageDifference, 0.01)
	require.False(t, res.Comparisons[0].Acceptable)
	require.False(t, res.Passed)

	res = v.Validate(map[string]float64{"waist": 95}, map[string]float64{"waist": 90})
	require.InDelta(t, 5.56, res.Comparisons[0].PercentageDifference, 0.01)
	require.True(t, res.Comparisons[0].Acceptable)
	require.True(t, res.Passed)
	require.Equal(t, entity.ValidationPassed, res.Summary.Status)
}

func TestValidate_SecondArgumentIsDenominator(t *testing.T) {
	v := NewValidator(DefaultValidationConfig())

	forward := v.Validate(map[string]float64{"hips": 100}, map[string]float64{"hips": 80})
	backward := v.Validate(map[string]float64{"hips": 80}, map[string]float64{"hips": 100})

	require.Equal(t, forward.Comparisons[0].AbsoluteDifference, backward.Comparisons[0].AbsoluteDifference)
	require.InDelta(t, 25.0, forward.Comparisons[0].PercentageDifference, 1e-9)
	require.InDelta(t, 20.0, backward.Comparisons[0].PercentageDifference, 1e-9)
}

func TestValidate_NothingComparable(t *testing.T) {
	v := NewValidator(DefaultValidationConfig())

	res := v.Validate(map[string]float64{"waist": 70}, map[string]float64{"bust": 90})
	require.False(t, res.Available)
	require.Equal(t, NoComparableFieldsMessage, res.Message)
	require.Zero(t, res.ComparedFields)

	res = v.Validate(nil, nil)
	require.False(t, res.Available)
}

func TestValidate_Rollup(t *testing.T) {
	v := NewValidator(DefaultValidationConfig())

	ai := map[string]float64{
		"height":         180,
		"waist":          80,
		"hips":           100,
		"inseam":         90,
		"torso_length":   60,
		"shoulder_width": 0,
	}
	manual := map[string]float64{
		"height":         175,
		"waist":          70,
		"hips":           100,
		"inseam":         60,
		"torso_length":   10,
		"shoulder_width": 0,
	}

	res := v.Validate(ai, manual)
	require.True(t, res.Available)
	// torso_length is outside the catalog
	require.Equal(t, 5, res.ComparedFields)
	require.Equal(t, 3, res.AcceptableMeasurements)
	require.False(t, res.Passed)
	require.Equal(t, entity.ValidationNeedsReview, res.Summary.Status)

	fields := make([]string, 0, len(res.Comparisons))
	for _, c := range res.Comparisons {
		fields = append(fields, c.Field)
	}
	require.Equal(t, []string{"waist", "hips", "shoulder_width", "height", "inseam"}, fields)

	for _, c := range res.Comparisons {
		if c.Field == "shoulder_width" {
			require.Equal(t, 0.0, c.PercentageDifference)
			require.True(t, c.Acceptable)
		}
	}

	expected := (100.0/35 + 100.0/7 + 0 + 0 + 50) / 5
	require.InDelta(t, expected, res.AverageDiscrepancyPercentage, 1e-9)
	require.InDelta(t, (100-expected)/100, res.AccuracyScore, 1e-9)
	require.InDelta(t, 10.0, res.Discrepancies["waist"], 1e-9)
}

func TestValidate_AccuracyScoreNeverNegative(t *testing.T) {
	v := NewValidator(DefaultValidationConfig())

	res := v.Validate(map[string]float64{"height": 500}, map[string]float64{"height": 100})
	require.Equal(t, 0.0, res.AccuracyScore)
	require.Equal(t, "0.0%", res.Summary.Accuracy)
}
