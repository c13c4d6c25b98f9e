package bodymetrics

import "errors"

var (
	ErrInvalidDimensions      = errors.New("image width and height must be positive")
	ErrInvalidLandmarkCount   = errors.New("landmark set must contain exactly 33 points")
	ErrInvalidReferenceHeight = errors.New("reference height must be greater than zero")
	ErrDegenerateCalibration  = errors.New("calibration reference distance is too small")
	ErrInvalidLandmarkPair    = errors.New("landmark pair produced a non-finite distance")
)
