package bodymetrics

import (
	"fmt"

	"BodyMeasure/internal/entity"
)

// Normalize maps landmarks from image-fraction coordinates to pixels. Z and
// visibility are carried over untouched.
func Normalize(landmarks []entity.Landmark, width, height int) (entity.LandmarkSet, error) {
	if width <= 0 || height <= 0 {
		return entity.LandmarkSet{}, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(landmarks) != entity.LandmarkCount {
		return entity.LandmarkSet{}, fmt.Errorf("%w: got %d", ErrInvalidLandmarkCount, len(landmarks))
	}

	pixels := make([]entity.Landmark, len(landmarks))
	for i, lm := range landmarks {
		pixels[i] = entity.Landmark{
			X:          lm.X * float64(width),
			Y:          lm.Y * float64(height),
			Z:          lm.Z,
			Visibility: lm.Visibility,
		}
	}

	return entity.LandmarkSet{Landmarks: pixels}, nil
}
