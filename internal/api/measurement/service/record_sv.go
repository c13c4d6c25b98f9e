package measurementService

import (
	"BodyMeasure/internal/api/measurement"
	"BodyMeasure/internal/entity"
	contextPkg "BodyMeasure/pkg/context"
	"BodyMeasure/pkg/redis"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// minApplyConfidence is the lowest confidence an AI measurement needs to be
// copied onto a saved record.
const minApplyConfidence = 0.5

const maxNoteRecommendations = 3

func (s *measurementService) CreateRecord(ctx context.Context, designerID string, req measurement.CreateRecordRequest) (entity.MeasurementRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return entity.MeasurementRecord{}, measurement.ErrInternalServerError
	}

	now := time.Now()
	record := entity.MeasurementRecord{
		ID:              id,
		CustomerID:      req.CustomerID,
		DesignerID:      designerID,
		Bust:            req.Bust,
		Waist:           req.Waist,
		Hips:            req.Hips,
		Chest:           req.Chest,
		ShoulderWidth:   req.ShoulderWidth,
		ArmLength:       req.ArmLength,
		Inseam:          req.Inseam,
		Height:          req.Height,
		Notes:           req.Notes,
		MeasurementType: entity.MeasurementTypeManual,
		PhotoURL:        req.PhotoURL,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.storeRecord(ctx, record); err != nil {
		return entity.MeasurementRecord{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"record_id":   record.ID,
		"customer_id": record.CustomerID,
	}).Info("Manual measurement record created")

	return record, nil
}

// storeRecord validates the record, then deactivates the pair's previous
// active records of the same type and inserts it in one transaction.
func (s *measurementService) storeRecord(ctx context.Context, record entity.MeasurementRecord) error {
	requestID := contextPkg.GetRequestID(ctx)

	if err := record.Validate(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid measurement record")
		return fmt.Errorf("%w: %s", measurement.ErrInvalidRecord, err.Error())
	}

	repo, err := s.measurementRepository.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return measurement.ErrInternalServerError
	}

	deactivated, err := repo.Measurement.DeactivateMeasurements(ctx, record.CustomerID, record.DesignerID, record.MeasurementType)
	if err != nil {
		_ = repo.Rollback()
		return measurement.ErrInternalServerError
	}

	if err := repo.Measurement.CreateMeasurement(ctx, record); err != nil {
		_ = repo.Rollback()
		return measurement.ErrInternalServerError
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit measurement record")
		return measurement.ErrInternalServerError
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"deactivated": deactivated,
	}).Debug("Previous active records deactivated")

	return nil
}

func (s *measurementService) GetRecord(ctx context.Context, id string) (entity.MeasurementRecord, error) {
	repo, err := s.measurementRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return entity.MeasurementRecord{}, measurement.ErrInternalServerError
	}

	record, err := repo.Measurement.GetMeasurementByID(ctx, id)
	if err != nil {
		if errors.Is(err, measurement.ErrRecordNotFound) {
			return entity.MeasurementRecord{}, err
		}
		return entity.MeasurementRecord{}, measurement.ErrInternalServerError
	}

	return record, nil
}

func (s *measurementService) GetCustomerRecords(ctx context.Context, customerID string) ([]entity.MeasurementRecord, error) {
	if customerID == "" {
		return nil, measurement.ErrCustomerRequired
	}

	repo, err := s.measurementRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return nil, measurement.ErrInternalServerError
	}

	records, err := repo.Measurement.GetActiveMeasurementsByCustomer(ctx, customerID)
	if err != nil {
		return nil, measurement.ErrInternalServerError
	}

	return records, nil
}

func (s *measurementService) SaveAIResult(ctx context.Context, designerID string, resultID string, req measurement.SaveAIResultRequest) (measurement.SaveAIResultResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.redis == nil {
		return measurement.SaveAIResultResponse{}, measurement.ErrStagingUnavailable
	}

	var staged measurement.StagedResult
	if err := s.redis.GetStagedResult(ctx, resultID, &staged); err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return measurement.SaveAIResultResponse{}, measurement.ErrResultNotFound
		}
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"result_id":  resultID,
			"error":      err.Error(),
		}).Error("Failed to load staged result")
		return measurement.SaveAIResultResponse{}, measurement.ErrInternalServerError
	}

	customerID := req.CustomerID
	if customerID == "" {
		customerID = staged.CustomerID
	}
	if customerID == "" {
		return measurement.SaveAIResultResponse{}, measurement.ErrCustomerRequired
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return measurement.SaveAIResultResponse{}, measurement.ErrInternalServerError
	}

	now := time.Now()
	record := entity.MeasurementRecord{
		ID:              id,
		CustomerID:      customerID,
		DesignerID:      designerID,
		MeasurementType: entity.MeasurementTypeAIGenerated,
		PhotoURL:        staged.PhotoURL,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	applied := applyMeasurements(&record, staged.Result.Measurements)
	if len(applied) == 0 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"result_id":  resultID,
		}).Warn("No measurements had sufficient confidence to apply")
		return measurement.SaveAIResultResponse{}, measurement.ErrNoApplicableMeasurement
	}

	record.Notes = aiRecordNotes(staged.Result, len(applied), req.Notes)

	if err := s.storeRecord(ctx, record); err != nil {
		return measurement.SaveAIResultResponse{}, err
	}

	if err := s.redis.DeleteStagedResult(ctx, resultID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"result_id":  resultID,
			"error":      err.Error(),
		}).Warn("Failed to remove staged result")
	}

	validation, err := s.validateAgainstManual(ctx, record)
	if err != nil {
		return measurement.SaveAIResultResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"record_id":   record.ID,
		"customer_id": customerID,
		"applied":     len(applied),
	}).Info("AI measurement record created")

	return measurement.SaveAIResultResponse{
		Record:              record,
		AppliedMeasurements: applied,
		Validation:          validation,
	}, nil
}

func (s *measurementService) ValidateRecord(ctx context.Context, id string) (measurement.RecordValidationResponse, error) {
	record, err := s.GetRecord(ctx, id)
	if err != nil {
		return measurement.RecordValidationResponse{}, err
	}

	validation, err := s.validateAgainstManual(ctx, record)
	if err != nil {
		return measurement.RecordValidationResponse{}, err
	}

	return measurement.RecordValidationResponse{
		RecordID:   record.ID,
		Validation: validation,
	}, nil
}

const NoManualMeasurementsMessage = "No manual measurements available for comparison"

func (s *measurementService) validateAgainstManual(ctx context.Context, record entity.MeasurementRecord) (entity.ValidationResult, error) {
	repo, err := s.measurementRepository.NewClient(false)
	if err != nil {
		return entity.ValidationResult{}, measurement.ErrInternalServerError
	}

	manual, err := repo.Measurement.GetLatestActiveMeasurement(ctx, record.CustomerID, entity.MeasurementTypeManual, record.ID)
	if err != nil {
		if errors.Is(err, measurement.ErrRecordNotFound) {
			return entity.ValidationResult{
				Available: false,
				Message:   NoManualMeasurementsMessage,
			}, nil
		}
		return entity.ValidationResult{}, measurement.ErrInternalServerError
	}

	return s.validator.Validate(record.Values(), manual.Values()), nil
}

// applyMeasurements copies confident measurements that have a record column
// and returns the applied names in result order.
func applyMeasurements(record *entity.MeasurementRecord, results []entity.MeasurementResult) []string {
	applied := make([]string, 0, len(results))
	for _, m := range results {
		if m.Confidence < minApplyConfidence {
			continue
		}
		if record.SetField(string(m.Name), m.Value) {
			applied = append(applied, string(m.Name))
		}
	}
	return applied
}

func aiRecordNotes(set entity.MeasurementSet, applied int, extra string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "AI-generated measurements. Confidence: %.2f", set.OverallAccuracy)
	b.WriteString("\n\nAI Processing Details:")
	fmt.Fprintf(&b, "\n- Processing time: %.2fs", set.ProcessingTime)
	fmt.Fprintf(&b, "\n- Measurements applied: %d/%d", applied, len(set.Measurements))
	fmt.Fprintf(&b, "\n- Pose confidence: %.2f", set.PoseConfidence)

	if len(set.Recommendations) > 0 {
		recs := set.Recommendations
		if len(recs) > maxNoteRecommendations {
			recs = recs[:maxNoteRecommendations]
		}
		b.WriteString("\n\nRecommendations:")
		for _, r := range recs {
			b.WriteString("\n- " + r)
		}
	}

	if extra != "" {
		b.WriteString("\n\n" + extra)
	}

	return b.String()
}
