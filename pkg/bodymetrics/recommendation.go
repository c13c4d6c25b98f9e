package bodymetrics

import "BodyMeasure/internal/entity"

const (
	AdviceImproveLighting    = "Improve lighting conditions for better pose detection"
	AdviceStandStraight      = "Ensure the person is standing straight and facing the camera"
	AdviceRetakePhoto        = "Consider retaking the photo with the person more clearly visible"
	AdviceVerifyManually     = "Some measurements have lower confidence - consider manual verification"
	AdviceFullBodyVisible    = "Limited measurements detected - ensure full body is visible in the image"
	AdvicePlainBackground    = "For best results, use a photo with the person standing against a plain background"
	AdviceFittedClothing     = "Ensure the person is wearing fitted clothing for more accurate measurements"
	AdviceNoDetectionVisible = "Ensure the person is fully visible in the image"
	AdviceNoDetectionLight   = "Use good lighting conditions"
	AdviceNoDetectionPosture = "Make sure the person is standing straight"
)

func NoDetectionRecommendations() []string {
	return []string{
		AdviceNoDetectionVisible,
		AdviceNoDetectionLight,
		AdviceNoDetectionPosture,
	}
}

func Recommend(measurements []entity.MeasurementResult, poseConfidence float64, cfg Config) []string {
	recommendations := make([]string, 0, 7)

	if poseConfidence < cfg.LowPoseConfidence {
		recommendations = append(recommendations, AdviceImproveLighting, AdviceStandStraight)
	}
	if poseConfidence < cfg.RetakePoseConfidence {
		recommendations = append(recommendations, AdviceRetakePhoto)
	}

	for _, m := range measurements {
		if m.Confidence < cfg.LowMeasurementConfidence {
			recommendations = append(recommendations, AdviceVerifyManually)
			break
		}
	}

	if len(measurements) < cfg.MinMeasurementCount {
		recommendations = append(recommendations, AdviceFullBodyVisible)
	}

	return append(recommendations, AdvicePlainBackground, AdviceFittedClothing)
}
