package measurementRepository

import (
	"BodyMeasure/internal/api/measurement"
	"BodyMeasure/internal/entity"
	contextPkg "BodyMeasure/pkg/context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type MeasurementDB struct {
	ID              sql.NullString  `db:"id"`
	CustomerID      sql.NullString  `db:"customer_id"`
	DesignerID      sql.NullString  `db:"designer_id"`
	Bust            sql.NullFloat64 `db:"bust"`
	Waist           sql.NullFloat64 `db:"waist"`
	Hips            sql.NullFloat64 `db:"hips"`
	Chest           sql.NullFloat64 `db:"chest"`
	ShoulderWidth   sql.NullFloat64 `db:"shoulder_width"`
	ArmLength       sql.NullFloat64 `db:"arm_length"`
	Inseam          sql.NullFloat64 `db:"inseam"`
	Height          sql.NullFloat64 `db:"height"`
	Notes           sql.NullString  `db:"notes"`
	MeasurementType sql.NullString  `db:"measurement_type"`
	PhotoURL        sql.NullString  `db:"photo_url"`
	IsActive        sql.NullBool    `db:"is_active"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *measurementRepository) CreateMeasurement(c context.Context, record entity.MeasurementRecord) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":               record.ID,
		"customer_id":      record.CustomerID,
		"designer_id":      record.DesignerID,
		"bust":             nullFloat(record.Bust),
		"waist":            nullFloat(record.Waist),
		"hips":             nullFloat(record.Hips),
		"chest":            nullFloat(record.Chest),
		"shoulder_width":   nullFloat(record.ShoulderWidth),
		"arm_length":       nullFloat(record.ArmLength),
		"inseam":           nullFloat(record.Inseam),
		"height":           nullFloat(record.Height),
		"notes":            nullString(record.Notes),
		"measurement_type": string(record.MeasurementType),
		"photo_url":        nullString(record.PhotoURL),
		"is_active":        record.IsActive,
		"created_at":       record.CreatedAt,
		"updated_at":       record.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateMeasurement, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateMeasurement")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating measurement")
		return err
	}

	return nil
}

func (r *measurementRepository) GetMeasurementByID(c context.Context, id string) (entity.MeasurementRecord, error) {
	requestID := contextPkg.GetRequestID(c)
	var row MeasurementDB

	query, args, err := sqlx.Named(queryGetMeasurementByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetMeasurementByID named query preparation err")
		return entity.MeasurementRecord{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.MeasurementRecord{}, measurement.ErrRecordNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetMeasurementByID execution err")
		return entity.MeasurementRecord{}, err
	}

	return r.makeMeasurementRecord(row), nil
}

func (r *measurementRepository) GetActiveMeasurementsByCustomer(c context.Context, customerID string) ([]entity.MeasurementRecord, error) {
	requestID := contextPkg.GetRequestID(c)
	var rows []MeasurementDB

	query, args, err := sqlx.Named(queryGetActiveMeasurementsByCustomer, map[string]interface{}{"customer_id": customerID})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetActiveMeasurementsByCustomer named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(c, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetActiveMeasurementsByCustomer execution err")
		return nil, err
	}

	records := make([]entity.MeasurementRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, r.makeMeasurementRecord(row))
	}

	return records, nil
}

func (r *measurementRepository) GetLatestActiveMeasurement(c context.Context, customerID string, measurementType entity.MeasurementType, excludeID string) (entity.MeasurementRecord, error) {
	requestID := contextPkg.GetRequestID(c)
	var row MeasurementDB

	argsKV := map[string]interface{}{
		"customer_id":      customerID,
		"measurement_type": string(measurementType),
		"exclude_id":       excludeID,
	}

	query, args, err := sqlx.Named(queryGetLatestActiveMeasurement, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetLatestActiveMeasurement named query preparation err")
		return entity.MeasurementRecord{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.MeasurementRecord{}, measurement.ErrRecordNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetLatestActiveMeasurement execution err")
		return entity.MeasurementRecord{}, err
	}

	return r.makeMeasurementRecord(row), nil
}

func (r *measurementRepository) DeactivateMeasurements(c context.Context, customerID string, designerID string, measurementType entity.MeasurementType) (int64, error) {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"customer_id":      customerID,
		"designer_id":      designerID,
		"measurement_type": string(measurementType),
		"updated_at":       time.Now(),
	}

	query, args, err := sqlx.Named(queryDeactivateMeasurements, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeactivateMeasurements named query preparation err")
		return 0, err
	}
	query = r.q.Rebind(query)

	res, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeactivateMeasurements execution err")
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return affected, nil
}

func (r *measurementRepository) makeMeasurementRecord(row MeasurementDB) entity.MeasurementRecord {
	return entity.MeasurementRecord{
		ID:              row.ID.String,
		CustomerID:      row.CustomerID.String,
		DesignerID:      row.DesignerID.String,
		Bust:            floatPtr(row.Bust),
		Waist:           floatPtr(row.Waist),
		Hips:            floatPtr(row.Hips),
		Chest:           floatPtr(row.Chest),
		ShoulderWidth:   floatPtr(row.ShoulderWidth),
		ArmLength:       floatPtr(row.ArmLength),
		Inseam:          floatPtr(row.Inseam),
		Height:          floatPtr(row.Height),
		Notes:           row.Notes.String,
		MeasurementType: entity.MeasurementType(row.MeasurementType.String),
		PhotoURL:        row.PhotoURL.String,
		IsActive:        row.IsActive.Bool,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
