package entity

type MeasurementName string

const (
	MeasurementHeight        MeasurementName = "height"
	MeasurementShoulderWidth MeasurementName = "shoulder_width"
	MeasurementArmLength     MeasurementName = "arm_length"
	MeasurementWaist         MeasurementName = "waist"
	MeasurementHips          MeasurementName = "hips"
	MeasurementInseam        MeasurementName = "inseam"
	MeasurementTorsoLength   MeasurementName = "torso_length"
)

type CalibrationResult struct {
	ReferencePixels   float64 `json:"reference_object_pixels"`
	ReferenceRealSize float64 `json:"reference_object_real_size"`
	PixelToUnitRatio  float64 `json:"pixel_to_cm_ratio"`
	Confidence        float64 `json:"calibration_confidence"`
}

type MeasurementResult struct {
	Name       MeasurementName `json:"name"`
	Value      float64         `json:"value"`
	Confidence float64         `json:"confidence"`
	Method     string          `json:"method"`
}

// MeasurementSet is the full outcome of one compute run.
type MeasurementSet struct {
	Success         bool                   `json:"success"`
	Measurements    []MeasurementResult    `json:"measurements"`
	Calibration     *CalibrationResult     `json:"calibration,omitempty"`
	Metadata        map[string]interface{} `json:"metadata"`
	ImageWidth      int                    `json:"image_width"`
	ImageHeight     int                    `json:"image_height"`
	ProcessingTime  float64                `json:"processing_time"`
	PoseConfidence  float64                `json:"pose_detection_confidence"`
	OverallAccuracy float64                `json:"overall_accuracy"`
	Recommendations []string               `json:"recommendations"`
	Errors          []string               `json:"errors"`
	Warnings        []string               `json:"warnings"`
}

func NewFailedMeasurementSet(width, height int, errs ...string) MeasurementSet {
	return MeasurementSet{
		Success:         false,
		Measurements:    []MeasurementResult{},
		Metadata:        map[string]interface{}{},
		ImageWidth:      width,
		ImageHeight:     height,
		Recommendations: []string{},
		Errors:          append([]string{}, errs...),
		Warnings:        []string{},
	}
}

// Values flattens the set into a name -> value map, the shape the validator consumes.
func (s MeasurementSet) Values() map[string]float64 {
	values := make(map[string]float64, len(s.Measurements))
	for _, m := range s.Measurements {
		values[string(m.Name)] = m.Value
	}
	return values
}
