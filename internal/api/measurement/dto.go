package measurement

import (
	"BodyMeasure/internal/entity"
	"time"
)

type ExtractRequest struct {
	ImageData       string   `json:"image_data" validate:"required"`
	ImageType       string   `json:"image_type"`
	Filename        string   `json:"filename"`
	CustomerID      string   `json:"customer_id"`
	ReferenceHeight *float64 `json:"reference_height" validate:"omitempty,gt=0,lte=300"`
}

// ImageInput is an already-decoded image ready for pose estimation.
type ImageInput struct {
	Data            []byte
	ContentType     string
	Filename        string
	CustomerID      string
	ReferenceHeight *float64
	Archive         bool
	Stage           bool
}

type ExtractResponse struct {
	entity.MeasurementSet
	ResultID string `json:"result_id,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}

type BatchRequest struct {
	Images            []ExtractRequest       `json:"images" validate:"required,min=1,dive"`
	CustomerID        string                 `json:"customer_id"`
	ProcessingOptions map[string]interface{} `json:"processing_options"`
}

type BatchResponse struct {
	TotalImages           int               `json:"total_images"`
	SuccessfulExtractions int               `json:"successful_extractions"`
	FailedExtractions     int               `json:"failed_extractions"`
	Results               []ExtractResponse `json:"results"`
	AverageProcessingTime float64           `json:"average_processing_time"`
	BatchProcessingTime   float64           `json:"batch_processing_time"`
}

type ValidateRequest struct {
	AIMeasurements        map[string]float64 `json:"ai_measurements" validate:"required"`
	ReferenceMeasurements map[string]float64 `json:"reference_measurements" validate:"required"`
}

type CreateRecordRequest struct {
	CustomerID    string   `json:"customer_id" validate:"required"`
	Bust          *float64 `json:"bust" validate:"omitempty,gt=0,lte=300"`
	Waist         *float64 `json:"waist" validate:"omitempty,gt=0,lte=300"`
	Hips          *float64 `json:"hips" validate:"omitempty,gt=0,lte=300"`
	Chest         *float64 `json:"chest" validate:"omitempty,gt=0,lte=300"`
	ShoulderWidth *float64 `json:"shoulder_width" validate:"omitempty,gt=0,lte=300"`
	ArmLength     *float64 `json:"arm_length" validate:"omitempty,gt=0,lte=300"`
	Inseam        *float64 `json:"inseam" validate:"omitempty,gt=0,lte=300"`
	Height        *float64 `json:"height" validate:"omitempty,gt=0,lte=300"`
	Notes         string   `json:"notes" validate:"max=2000"`
	PhotoURL      string   `json:"photo_url" validate:"omitempty,url"`
}

type SaveAIResultRequest struct {
	CustomerID string `json:"customer_id"`
	Notes      string `json:"notes" validate:"max=2000"`
}

type SaveAIResultResponse struct {
	Record              entity.MeasurementRecord `json:"record"`
	AppliedMeasurements []string                 `json:"applied_measurements"`
	Validation          entity.ValidationResult  `json:"validation"`
}

type RecordValidationResponse struct {
	RecordID   string                  `json:"record_id"`
	Validation entity.ValidationResult `json:"validation"`
}

type RecordListResponse struct {
	CustomerID string                     `json:"customer_id"`
	Records    []entity.MeasurementRecord `json:"records"`
}

// StagedResult is an extraction kept in redis until a designer saves it.
type StagedResult struct {
	ID         string                `json:"id"`
	CustomerID string                `json:"customer_id,omitempty"`
	PhotoURL   string                `json:"photo_url,omitempty"`
	Result     entity.MeasurementSet `json:"result"`
	CreatedAt  time.Time             `json:"created_at"`
}

type ModelInfoResponse struct {
	PoseModel               PoseModelInfo               `json:"pose_model"`
	MeasurementCapabilities MeasurementCapabilitiesInfo `json:"measurement_capabilities"`
}

type PoseModelInfo struct {
	ModelComplexity        int      `json:"model_complexity"`
	MinDetectionConfidence float64  `json:"min_detection_confidence"`
	MinTrackingConfidence  float64  `json:"min_tracking_confidence"`
	SupportedLandmarks     int      `json:"supported_landmarks"`
	Landmarks              []string `json:"landmarks"`
	Capabilities           []string `json:"capabilities"`
}

type MeasurementCapabilitiesInfo struct {
	SupportedMeasurements []string `json:"supported_measurements"`
	AccuracyRange         string   `json:"accuracy_range"`
	RecommendedConditions []string `json:"recommended_conditions"`
}
