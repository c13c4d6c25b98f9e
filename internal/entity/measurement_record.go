package entity

import (
	"errors"
	"time"
)

type MeasurementType string

const (
	MeasurementTypeManual      MeasurementType = "manual"
	MeasurementTypeAIGenerated MeasurementType = "ai_generated"
)

func IsValidMeasurementType(t string) bool {
	switch MeasurementType(t) {
	case MeasurementTypeManual, MeasurementTypeAIGenerated:
		return true
	default:
		return false
	}
}

// ValidationFields is the fixed field catalog shared by manual and AI records.
var ValidationFields = []string{
	"bust", "waist", "hips", "chest", "shoulder_width",
	"arm_length", "height", "inseam",
}

// MeasurementRecord is a persisted measurement set. Nil fields were not measured.
type MeasurementRecord struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	DesignerID      string          `json:"designer_id"`
	Bust            *float64        `json:"bust"`
	Waist           *float64        `json:"waist"`
	Hips            *float64        `json:"hips"`
	Chest           *float64        `json:"chest"`
	ShoulderWidth   *float64        `json:"shoulder_width"`
	ArmLength       *float64        `json:"arm_length"`
	Inseam          *float64        `json:"inseam"`
	Height          *float64        `json:"height"`
	Notes           string          `json:"notes"`
	MeasurementType MeasurementType `json:"measurement_type"`
	PhotoURL        string          `json:"photo_url,omitempty"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (r *MeasurementRecord) field(name string) **float64 {
	switch name {
	case "bust":
		return &r.Bust
	case "waist":
		return &r.Waist
	case "hips":
		return &r.Hips
	case "chest":
		return &r.Chest
	case "shoulder_width":
		return &r.ShoulderWidth
	case "arm_length":
		return &r.ArmLength
	case "inseam":
		return &r.Inseam
	case "height":
		return &r.Height
	default:
		return nil
	}
}

// SetField reports false when the record has no column for name.
func (r *MeasurementRecord) SetField(name string, value float64) bool {
	f := r.field(name)
	if f == nil {
		return false
	}
	v := value
	*f = &v
	return true
}

func (r *MeasurementRecord) Values() map[string]float64 {
	values := make(map[string]float64)
	for _, name := range ValidationFields {
		if f := r.field(name); f != nil && *f != nil {
			values[name] = **f
		}
	}
	return values
}

func (r *MeasurementRecord) Validate() error {
	if r.CustomerID == "" {
		return errors.New("customer id is required")
	}
	if r.DesignerID == "" {
		return errors.New("designer id is required")
	}
	if !IsValidMeasurementType(string(r.MeasurementType)) {
		return errors.New("invalid measurement type")
	}
	for name, v := range r.Values() {
		if v < 0 || v > 300 {
			return errors.New(name + " must be between 0 and 300")
		}
	}
	return nil
}
